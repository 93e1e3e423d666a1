package analysis

import (
	"strings"
)

// AnalyzeTalks runs every talk report view: time-based density, per-user
// distribution, and channel distribution.
func (r *Runner) AnalyzeTalks(path string) error {
	rows, err := LoadTalkReport(path)
	if err != nil {
		return err
	}
	if err := r.ensureOutputDir(); err != nil {
		return err
	}
	r.Logger.Info().Int("rows", len(rows)).Str("file", path).Msg("talk report loaded")

	r.runView("hourly_density", func() error { return r.hourlyTalkDensity(rows) })
	r.runView("day_of_week_density", func() error { return r.talkVolumeByDay(rows) })
	r.runView("responsible_user_distribution", func() error { return r.talksByUser(rows) })
	r.runView("channel_distribution", func() error { return r.talkChannelDistribution(rows) })
	r.runView("channel_hourly_density", func() error { return r.channelHourlyDensity(rows) })
	return nil
}

func (r *Runner) hourlyTalkDensity(rows []TalkRow) error {
	counts := Counts{}
	for _, row := range rows {
		counts[hourLabels[row.CreatedAt.Hour()]]++
	}
	pairs := counts.SortedByLabel()
	printPairs(r.out(), "Hourly talk density", "Hour", "Talks", pairs)
	return saveBar(r.chartPath("hourly_talk_density.png"),
		"Hourly Talk Density", "Hour of Day", "Number of Talks", pairs)
}

func (r *Runner) talkVolumeByDay(rows []TalkRow) error {
	counts := Counts{}
	for _, row := range rows {
		counts[dayOrder[(int(row.CreatedAt.Weekday())+6)%7]]++
	}
	pairs := make([]Pair, 0, len(dayOrder))
	for _, day := range dayOrder {
		pairs = append(pairs, Pair{Label: day, Value: counts[day]})
	}
	printPairs(r.out(), "Talk density by day of week", "Day", "Talks", pairs)
	return saveBar(r.chartPath("talk_volume_by_day_of_week.png"),
		"Talk Density by Day of Week", "Day of Week", "Number of Talks", pairs)
}

// assignedUser filters out unassigned and unknown-agent rows, which would
// otherwise dominate the per-user views.
func assignedUser(user string) bool {
	if user == "" || user == "N/A" {
		return false
	}
	return !strings.HasPrefix(user, "Unknown")
}

func (r *Runner) talksByUser(rows []TalkRow) error {
	pivot := NewPivot()
	totals := Counts{}
	for _, row := range rows {
		if !assignedUser(row.User) {
			continue
		}
		pivot.Add(row.User, hourLabels[row.CreatedAt.Hour()], 1)
		totals[row.User]++
	}
	pivot.EnsureCols(hourLabels)
	printPivot(r.out(), "Hourly talk density distribution by responsible user", pivot)
	if err := saveHeatmap(r.chartPath("hourly_talk_heatmap_by_responsible_users.png"),
		"Hourly Talk Density Heatmap by Responsible User", "Hour (0-23)", "Responsible User Name", pivot); err != nil {
		return err
	}

	pairs := totals.SortedDesc()
	printPairs(r.out(), "Total talk count distribution by responsible user", "User", "Talks", pairs)
	return saveBar(r.chartPath("total_talk_count_distribution_by_responsible_users.png"),
		"Total Talk Count Distribution by Responsible User", "Responsible User Name", "Number of Talks", pairs)
}

func (r *Runner) talkChannelDistribution(rows []TalkRow) error {
	counts := Counts{}
	for _, row := range rows {
		counts[row.Origin]++
	}
	pairs := counts.SortedDesc()
	printPairs(r.out(), "Talk channel (origin) distribution", "Channel", "Talks", pairs)
	return savePie(r.chartPath("talks_channel_distribution.png"), "Talk Channel Distribution", pairs)
}

func (r *Runner) channelHourlyDensity(rows []TalkRow) error {
	pivot := NewPivot()
	for _, row := range rows {
		pivot.Add(row.Origin, hourLabels[row.CreatedAt.Hour()], 1)
	}
	pivot.EnsureCols(hourLabels)
	printPivot(r.out(), "Hourly talk density by channel", pivot)
	return saveHeatmap(r.chartPath("channel_hourly_talk_heatmap.png"),
		"Hourly Talk Density by Channel", "Hour of Day (0-23)", "Channel (Origin)", pivot)
}
