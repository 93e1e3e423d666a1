package report

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kommo_pulse/backend/internal/crm"
	"github.com/kommo_pulse/backend/internal/models"
)

// Builder generates the lead and talk reports for a trailing window of
// calendar days. All fetches are best effort: failures degrade individual
// fields (or whole lists) to placeholders and partial data, never abort a
// batch.
type Builder struct {
	Client      crm.Client
	Logger      zerolog.Logger
	WindowDays  int
	MaxLeads    int
	MaxTalks    int
	MaxMessages int

	// Now is a test seam; time.Now when nil.
	Now func() time.Time
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Builder) windowDays() int {
	if b.WindowDays <= 0 {
		return 7
	}
	return b.WindowDays
}

// Window returns the report range: midnight UTC of (days-1) days ago through
// the last second of today, inclusive.
func (b *Builder) Window() (time.Time, time.Time) {
	now := b.now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
	startDay := now.AddDate(0, 0, -(b.windowDays() - 1))
	start := time.Date(startDay.Year(), startDay.Month(), startDay.Day(), 0, 0, 0, 0, time.UTC)
	return start, end
}

// loadDirectory fetches the agent list once per run. An empty directory is
// survivable: responsible-user cells degrade to unknown labels.
func (b *Builder) loadDirectory(ctx context.Context) models.Directory {
	users, err := b.Client.ListUsers(ctx)
	if err != nil {
		b.Logger.Error().Err(err).Msg("could not fetch agents; responsible user names will degrade")
		return models.Directory{}
	}
	dir := make(models.Directory, len(users))
	for _, u := range users {
		dir[u.ID] = u.Name
	}
	b.Logger.Info().Int("agents", len(dir)).Msg("agent directory loaded")
	return dir
}

func logProgress(logger zerolog.Logger, done, total int, what string) {
	if done%50 == 0 || done == total {
		logger.Info().Int("done", done).Int("total", total).Msg(what + " processed")
	}
}
