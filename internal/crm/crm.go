package crm

import (
	"context"
	"errors"
	"time"

	"github.com/kommo_pulse/backend/internal/models"
)

var ErrNotFound = errors.New("crm: not found")

// Client is the CRM REST API surface the report builders depend on. List
// calls return whatever was accumulated before a failure together with the
// error; callers log and keep going. Detail calls return ErrNotFound (or a
// transport error) and the caller substitutes a placeholder.
type Client interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListLeads(ctx context.Context, from, to time.Time, max int) ([]models.Lead, error)
	ListTalks(ctx context.Context, from, to time.Time, max int) ([]models.Talk, error)
	ListMessages(ctx context.Context, from, to time.Time, max int) ([]models.Message, error)
	GetLead(ctx context.Context, id int64) (*models.Lead, error)
	GetContact(ctx context.Context, id int64) (*models.Contact, error)
	GetTalk(ctx context.Context, id int64) (*models.Talk, error)
}
