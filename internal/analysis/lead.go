package analysis

import (
	"fmt"
	"text/tabwriter"
	"time"

	"gonum.org/v1/plot/plotter"
)

// AnalyzeLeads runs every lead report view: per-user volume and value,
// status distribution, hourly and weekly activity, and the trailing-week
// day/hour density.
func (r *Runner) AnalyzeLeads(path string) error {
	rows, err := LoadLeadReport(path)
	if err != nil {
		return err
	}
	if err := r.ensureOutputDir(); err != nil {
		return err
	}
	r.Logger.Info().Int("rows", len(rows)).Str("file", path).Msg("lead report loaded")

	r.runView("leads_by_user", func() error { return r.leadsByUser(rows) })
	r.runView("price_by_user", func() error { return r.priceByUser(rows) })
	r.runView("status_distribution", func() error { return r.leadStatusDistribution(rows) })
	r.runView("user_status_heatmap", func() error { return r.userStatusHeatmap(rows) })
	r.runView("hourly_activity", func() error { return r.hourlyLeadActivity(rows) })
	r.runView("weekly_performance", func() error { return r.weeklyLeadPerformance(rows) })
	r.runView("last_7_days_density", func() error { return r.trailingWeekDensity(rows) })
	return nil
}

func (r *Runner) leadsByUser(rows []LeadRow) error {
	counts := Counts{}
	for _, row := range rows {
		counts[row.User]++
	}
	pairs := counts.SortedDesc()
	printPairs(r.out(), "Total number of leads created by each user", "User", "Leads", pairs)
	return saveBar(r.chartPath("leads_by_user.png"),
		"Total Number of Leads Created by Each User", "Responsible User Name", "Number of Leads", pairs)
}

func (r *Runner) priceByUser(rows []LeadRow) error {
	counts := Counts{}
	totals := Counts{}
	for _, row := range rows {
		counts[row.User]++
		totals[row.User] += row.Price
	}
	totalPairs := totals.SortedDesc()
	printPairs(r.out(), "Total sales value of leads created by each user", "User", "Total Price", totalPairs)
	if err := saveBar(r.chartPath("total_price_by_user.png"),
		"Total Sales Value of Leads Created by Each User", "Responsible User Name", "Total Sales Value", totalPairs); err != nil {
		return err
	}

	averages := Counts{}
	for user, n := range counts {
		if n > 0 {
			averages[user] = totals[user] / n
		}
	}

	fmt.Fprintf(r.out(), "\nDetailed analysis by responsible user\n")
	tw := tabwriter.NewWriter(r.out(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "User\tTotal Leads\tTotal Price\tAverage Price Per Lead")
	for _, p := range counts.SortedDesc() {
		fmt.Fprintf(tw, "%s\t%.0f\t%.2f\t%.2f\n", p.Label, p.Value, totals[p.Label], averages[p.Label])
	}
	tw.Flush()

	return saveBar(r.chartPath("average_price_by_user.png"),
		"Average Sales Value Per Lead by Each User", "Responsible User Name", "Average Sales Value", averages.SortedDesc())
}

func (r *Runner) leadStatusDistribution(rows []LeadRow) error {
	counts := Counts{}
	for _, row := range rows {
		counts[row.Status]++
	}
	pairs := counts.SortedDesc()
	printPairs(r.out(), "Overall distribution by lead status", "Status ID", "Leads", pairs)
	return savePie(r.chartPath("lead_status_distribution.png"), "Overall Distribution by Lead Status", pairs)
}

func (r *Runner) userStatusHeatmap(rows []LeadRow) error {
	pivot := NewPivot()
	for _, row := range rows {
		pivot.Add(row.User, row.Status, 1)
	}
	printPivot(r.out(), "Number of leads by user and status", pivot)
	return saveHeatmap(r.chartPath("user_status_heatmap.png"),
		"Number of Leads by User and Status", "Status ID", "Responsible User Name", pivot)
}

func (r *Runner) hourlyLeadActivity(rows []LeadRow) error {
	pivot := NewPivot()
	for _, row := range rows {
		if !row.HasTime {
			continue
		}
		pivot.Add(row.User, hourLabels[row.CreatedAt.Hour()], 1)
	}
	pivot.EnsureCols(hourLabels)
	printPivot(r.out(), "Hourly lead creation distribution by user", pivot)
	if err := saveHeatmap(r.chartPath("user_hourly_lead_creation_heatmap.png"),
		"Hourly Lead Creation Distribution by User", "Hour (0-23)", "Responsible User Name", pivot); err != nil {
		return err
	}

	// one trend line file per user
	for _, user := range pivot.RowLabels {
		points := make(plotter.XYs, 24)
		values := pivot.Row(user)
		for h := 0; h < 24; h++ {
			points[h].X = float64(h)
			points[h].Y = values[h]
		}
		name := fileSafe(user) + "_hourly_lead_trend.png"
		if err := saveLines(r.chartPath(name),
			user+" - Hourly Lead Creation Trend", "Hour", "Number of Leads",
			[]Series{{Points: points}}, labelTicks(hourLabels)); err != nil {
			return err
		}
	}
	return nil
}

// weekStart normalizes a date to its Monday.
func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
}

func (r *Runner) weeklyLeadPerformance(rows []LeadRow) error {
	pivot := NewPivot()
	for _, row := range rows {
		if !row.HasTime {
			continue
		}
		pivot.Add(row.User, weekStart(row.CreatedAt).Format("2006-01-02"), 1)
	}
	printPivot(r.out(), "Users' weekly lead creation performance", pivot)

	series := make([]Series, 0, len(pivot.RowLabels))
	for _, user := range pivot.RowLabels {
		values := pivot.Row(user)
		points := make(plotter.XYs, len(values))
		for i, v := range values {
			points[i].X = float64(i)
			points[i].Y = v
		}
		series = append(series, Series{Name: user, Points: points})
	}
	if err := saveLines(r.chartPath("user_weekly_lead_creation_trend.png"),
		"Users' Weekly Lead Creation Performance", "Week Start Date", "Number of Leads Created",
		series, labelTicks(pivot.ColLabels)); err != nil {
		return err
	}

	// average leads per active week
	averages := Counts{}
	for _, user := range pivot.RowLabels {
		var total float64
		var activeWeeks float64
		for _, v := range pivot.Row(user) {
			total += v
			if v > 0 {
				activeWeeks++
			}
		}
		if activeWeeks > 0 {
			averages[user] = total / activeWeeks
		}
	}
	pairs := averages.SortedDesc()
	printPairs(r.out(), "Average weekly number of leads per user", "User", "Avg Weekly Leads", pairs)
	return saveBar(r.chartPath("user_average_weekly_leads.png"),
		"Average Weekly Number of Leads per User", "Responsible User Name", "Average Weekly Leads", pairs)
}

func (r *Runner) trailingWeekDensity(rows []LeadRow) error {
	var end time.Time
	for _, row := range rows {
		if row.HasTime && row.CreatedAt.After(end) {
			end = row.CreatedAt
		}
	}
	if end.IsZero() {
		return fmt.Errorf("analysis: no valid date or time data")
	}
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	startDay := endDay.AddDate(0, 0, -6)

	pivot := NewPivot()
	for _, row := range rows {
		if !row.HasTime {
			continue
		}
		day := time.Date(row.CreatedAt.Year(), row.CreatedAt.Month(), row.CreatedAt.Day(), 0, 0, 0, 0, time.UTC)
		if day.Before(startDay) || day.After(endDay) {
			continue
		}
		pivot.Add(dayOrder[(int(row.CreatedAt.Weekday())+6)%7], hourLabels[row.CreatedAt.Hour()], 1)
	}
	pivot.EnsureRows(dayOrder)
	pivot.EnsureCols(hourLabels)
	printPivot(r.out(), "Total hourly lead creation density for the last 7 days", pivot)
	return saveHeatmap(r.chartPath("total_daily_hourly_lead_creation_heatmap_last_7_days.png"),
		fmt.Sprintf("Total Hourly Lead Density (%s - %s)", startDay.Format("2006-01-02"), endDay.Format("2006-01-02")),
		"Hour (0-23)", "Day of Week", pivot)
}
