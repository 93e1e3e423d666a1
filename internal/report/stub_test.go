package report

import (
	"context"
	"errors"
	"time"

	"github.com/kommo_pulse/backend/internal/crm"
	"github.com/kommo_pulse/backend/internal/models"
)

// stubClient is an in-memory crm.Client with per-endpoint failure switches
// and call counters.
type stubClient struct {
	users    []models.User
	leads    []models.Lead
	talks    []models.Talk
	messages []models.Message

	leadByID    map[int64]models.Lead
	contactByID map[int64]models.Contact
	talkByID    map[int64]models.Talk

	usersErr error
	listErr  error

	leadFetches    int
	contactFetches int
}

func (s *stubClient) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users, s.usersErr
}

func (s *stubClient) ListLeads(ctx context.Context, from, to time.Time, max int) ([]models.Lead, error) {
	return s.leads, s.listErr
}

func (s *stubClient) ListTalks(ctx context.Context, from, to time.Time, max int) ([]models.Talk, error) {
	return s.talks, s.listErr
}

func (s *stubClient) ListMessages(ctx context.Context, from, to time.Time, max int) ([]models.Message, error) {
	return s.messages, s.listErr
}

func (s *stubClient) GetLead(ctx context.Context, id int64) (*models.Lead, error) {
	s.leadFetches++
	if lead, ok := s.leadByID[id]; ok {
		return &lead, nil
	}
	return nil, crm.ErrNotFound
}

func (s *stubClient) GetContact(ctx context.Context, id int64) (*models.Contact, error) {
	s.contactFetches++
	if contact, ok := s.contactByID[id]; ok {
		return &contact, nil
	}
	return nil, crm.ErrNotFound
}

func (s *stubClient) GetTalk(ctx context.Context, id int64) (*models.Talk, error) {
	if talk, ok := s.talkByID[id]; ok {
		return &talk, nil
	}
	return nil, errors.New("stub: talk detail unavailable")
}

func int64p(v int64) *int64 { return &v }
