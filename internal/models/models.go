package models

// User is a CRM staff member (an "agent"). Users are loaded once per run
// into a Directory, which is the single source of truth for rendering
// responsible-user names and for deciding whether a message sender is staff.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Directory maps user IDs to display names.
type Directory map[int64]string

// NameOf reports the display name for id and whether the directory knows it.
func (d Directory) NameOf(id int64) (string, bool) {
	name, ok := d[id]
	return name, ok
}

// Lead is a sales opportunity record. Fields the API may omit are pointers.
type Lead struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Price             int64  `json:"price"`
	ResponsibleUserID *int64 `json:"responsible_user_id"`
	PipelineID        *int64 `json:"pipeline_id"`
	StatusID          *int64 `json:"status_id"`
	CreatedAt         int64  `json:"created_at"`
}

// Talk is a customer conversation session. The linked lead arrives either
// embedded or as an entity_type/entity_id pair; responsible_user_id may be
// absent entirely, which triggers the lead/contact fallback chain.
type Talk struct {
	TalkID            int64        `json:"talk_id"`
	CreatedAt         int64        `json:"created_at"`
	Origin            string       `json:"origin"`
	ContactID         *int64       `json:"contact_id"`
	ResponsibleUserID *int64       `json:"responsible_user_id"`
	ChatID            string       `json:"chat_id"`
	Status            string       `json:"status"`
	Duration          *int64       `json:"duration"`
	EntityType        string       `json:"entity_type"`
	EntityID          *int64       `json:"entity_id"`
	Embedded          TalkEmbedded `json:"_embedded"`
}

type TalkEmbedded struct {
	Leads []EmbeddedLead `json:"leads"`
}

type EmbeddedLead struct {
	ID int64 `json:"id"`
}

// LeadID resolves the linked lead: embedded relation first, then the
// entity_type/entity_id pair. Returns nil when the talk has no lead.
func (t Talk) LeadID() *int64 {
	if len(t.Embedded.Leads) > 0 {
		id := t.Embedded.Leads[0].ID
		return &id
	}
	if t.EntityType == "lead" && t.EntityID != nil {
		return t.EntityID
	}
	return nil
}

// Contact is a CRM contact record, fetched by ID as a fallback source for
// the responsible user and for the contact display name.
type Contact struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	ResponsibleUserID *int64 `json:"responsible_user_id"`
}

// Message is a single chat message inside a conversation.
type Message struct {
	ID             string  `json:"id"`
	ConversationID int64   `json:"conversation_id"`
	CreatedAt      int64   `json:"created_at"`
	IsFromClient   bool    `json:"is_from_client"`
	Sender         *Sender `json:"sender"`
}

type Sender struct {
	ID int64 `json:"id"`
}

// SenderID returns the sender's user ID, or nil for system messages.
func (m Message) SenderID() *int64 {
	if m.Sender == nil {
		return nil
	}
	id := m.Sender.ID
	return &id
}
