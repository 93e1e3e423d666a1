package report

import (
	"context"
	"sort"
	"strconv"
)

// LeadHeader is the fixed column order of the lead creation report.
var LeadHeader = []string{
	"Lead ID", "Date", "Time", "Lead Name", "Responsible User Name",
	"Price", "Pipeline ID", "Status ID",
}

// BuildLeadReport reports leads created inside the trailing window, newest
// first.
func (b *Builder) BuildLeadReport(ctx context.Context) (*Table, error) {
	from, to := b.Window()
	b.Logger.Info().Time("from", from).Time("to", to).Msg("lead report window")

	users := b.loadDirectory(ctx)

	leads, err := b.Client.ListLeads(ctx, from, to, b.MaxLeads)
	if err != nil {
		b.Logger.Error().Err(err).Int("fetched", len(leads)).Msg("lead listing incomplete; continuing with partial data")
	}
	b.Logger.Info().Int("leads", len(leads)).Msg("leads fetched")

	sort.Slice(leads, func(i, j int) bool { return leads[i].CreatedAt > leads[j].CreatedAt })

	table := &Table{Header: LeadHeader}
	for i, lead := range leads {
		logProgress(b.Logger, i+1, len(leads), "leads")

		date := Placeholder("N/A", Missing)
		clock := Placeholder("N/A", Missing)
		if lead.CreatedAt != 0 {
			date = Val(formatDate(lead.CreatedAt))
			clock = Val(formatClock(lead.CreatedAt))
		}

		name := lead.Name
		if name == "" {
			name = "Untitled Lead"
		}

		pipeline := Placeholder("N/A", Missing)
		if lead.PipelineID != nil {
			pipeline = Val(strconv.FormatInt(*lead.PipelineID, 10))
		}
		status := Placeholder("N/A", Missing)
		if lead.StatusID != nil {
			status = Val(strconv.FormatInt(*lead.StatusID, 10))
		}

		table.Append(
			Val(strconv.FormatInt(lead.ID, 10)),
			date,
			clock,
			Val(name),
			renderLeadResponsible(lead.ResponsibleUserID, users),
			Val(strconv.FormatInt(lead.Price, 10)),
			pipeline,
			status,
		)
	}
	return table, nil
}
