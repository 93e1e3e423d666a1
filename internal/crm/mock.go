package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/kommo_pulse/backend/internal/models"
	"github.com/kommo_pulse/backend/internal/utils"
)

// MockClient serves a deterministic dataset so reports and the API can be
// exercised without CRM credentials. Record fields are derived from FNV
// hashes of stable keys, so the same window always yields the same data.
type MockClient struct {
	Leads int
	Talks int
}

var mockUsers = []models.User{
	{ID: 101, Name: "User 1", Email: "user1@example.com"},
	{ID: 102, Name: "User 2", Email: "user2@example.com"},
	{ID: 103, Name: "User 3", Email: "user3@example.com"},
	{ID: 104, Name: "User 4", Email: "user4@example.com"},
}

var mockOrigins = []string{"com.amocrm.amocrmwa", "instagram_business", "telegram"}

func (m MockClient) leadCount() int {
	if m.Leads <= 0 {
		return 24
	}
	return m.Leads
}

func (m MockClient) talkCount() int {
	if m.Talks <= 0 {
		return 16
	}
	return m.Talks
}

func (m MockClient) ListUsers(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, len(mockUsers))
	copy(out, mockUsers)
	return out, nil
}

func (m MockClient) ListLeads(ctx context.Context, from, to time.Time, max int) ([]models.Lead, error) {
	n := m.leadCount()
	if max > 0 && n > max {
		n = max
	}
	span := to.Unix() - from.Unix()
	leads := make([]models.Lead, 0, n)
	for i := 0; i < n; i++ {
		h := utils.HashStringToUint64(fmt.Sprintf("lead-%d", i))
		lead := models.Lead{
			ID:        int64(40000 + i),
			Name:      fmt.Sprintf("Lead %d", 40000+i),
			Price:     int64(h%90+10) * 1000,
			CreatedAt: from.Unix() + int64(h%uint64(span)),
		}
		user := mockUsers[int(h/7)%len(mockUsers)].ID
		pipeline := int64(7700)
		status := int64(142 + int(h/11)%4)
		// every 8th lead arrives unassigned
		if i%8 != 7 {
			lead.ResponsibleUserID = &user
		}
		lead.PipelineID = &pipeline
		lead.StatusID = &status
		leads = append(leads, lead)
	}
	return leads, nil
}

func (m MockClient) ListTalks(ctx context.Context, from, to time.Time, max int) ([]models.Talk, error) {
	n := m.talkCount()
	if max > 0 && n > max {
		n = max
	}
	span := to.Unix() - from.Unix()
	talks := make([]models.Talk, 0, n)
	for i := 0; i < n; i++ {
		h := utils.HashStringToUint64(fmt.Sprintf("talk-%d", i))
		contactID := int64(90000 + i)
		leadID := int64(40000 + i%m.leadCount())
		duration := int64(h % 3600)
		talk := models.Talk{
			TalkID:    int64(60000 + i),
			CreatedAt: from.Unix() + int64(h%uint64(span)),
			Origin:    mockOrigins[int(h/13)%len(mockOrigins)],
			ContactID: &contactID,
			ChatID:    fmt.Sprintf("chat-%08x", uint32(h)),
			Status:    []string{"opened", "closed"}[int(h/17)%2],
			Duration:  &duration,
			Embedded:  models.TalkEmbedded{Leads: []models.EmbeddedLead{{ID: leadID}}},
		}
		switch i % 5 {
		case 0:
			// unassigned, resolved through the linked lead
		case 1:
			zero := int64(0)
			talk.ResponsibleUserID = &zero
		default:
			user := mockUsers[int(h/7)%len(mockUsers)].ID
			talk.ResponsibleUserID = &user
		}
		talks = append(talks, talk)
	}
	return talks, nil
}

func (m MockClient) ListMessages(ctx context.Context, from, to time.Time, max int) ([]models.Message, error) {
	talks, _ := m.ListTalks(ctx, from, to, 0)
	var msgs []models.Message
	for _, t := range talks {
		h := utils.HashStringToUint64(fmt.Sprintf("msgs-%d", t.TalkID))
		staff := mockUsers[int(h/7)%len(mockUsers)].ID
		msgs = append(msgs, models.Message{
			ID:             fmt.Sprintf("msg-%d-1", t.TalkID),
			ConversationID: t.TalkID,
			CreatedAt:      t.CreatedAt,
			IsFromClient:   true,
		})
		// every 4th conversation goes unanswered
		if t.TalkID%4 != 3 {
			msgs = append(msgs, models.Message{
				ID:             fmt.Sprintf("msg-%d-2", t.TalkID),
				ConversationID: t.TalkID,
				CreatedAt:      t.CreatedAt + int64(30+h%570),
				IsFromClient:   false,
				Sender:         &models.Sender{ID: staff},
			})
		}
		if max > 0 && len(msgs) >= max {
			return msgs[:max], nil
		}
	}
	return msgs, nil
}

// mockWindow mirrors the report window so detail fetches line up with the
// records handed out by the list calls.
func mockWindow() (time.Time, time.Time) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -6)
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
	return start, end
}

func (m MockClient) GetLead(ctx context.Context, id int64) (*models.Lead, error) {
	idx := int(id - 40000)
	if idx < 0 || idx >= m.leadCount() {
		return nil, ErrNotFound
	}
	from, to := mockWindow()
	leads, _ := m.ListLeads(ctx, from, to, 0)
	lead := leads[idx]
	return &lead, nil
}

func (m MockClient) GetContact(ctx context.Context, id int64) (*models.Contact, error) {
	idx := int(id - 90000)
	if idx < 0 || idx >= m.talkCount() {
		return nil, ErrNotFound
	}
	h := utils.HashStringToUint64(fmt.Sprintf("contact-%d", id))
	user := mockUsers[int(h/7)%len(mockUsers)].ID
	return &models.Contact{
		ID:                id,
		Name:              fmt.Sprintf("Contact %08x", uint32(h)),
		ResponsibleUserID: &user,
	}, nil
}

func (m MockClient) GetTalk(ctx context.Context, id int64) (*models.Talk, error) {
	idx := int(id - 60000)
	if idx < 0 || idx >= m.talkCount() {
		return nil, ErrNotFound
	}
	from, to := mockWindow()
	talks, _ := m.ListTalks(ctx, from, to, 0)
	talk := talks[idx]
	return &talk, nil
}
