package report

import (
	"context"
	"fmt"

	"github.com/kommo_pulse/backend/internal/crm"
	"github.com/kommo_pulse/backend/internal/models"
)

// contactCache memoizes per-run contact detail fetches; a talk needs the
// contact for its display name and again as the last fallback for the
// responsible user, and the API should only be hit once per contact.
type contactCache struct {
	client  crm.Client
	entries map[int64]*models.Contact
	failed  map[int64]bool
}

func newContactCache(client crm.Client) *contactCache {
	return &contactCache{
		client:  client,
		entries: map[int64]*models.Contact{},
		failed:  map[int64]bool{},
	}
}

func (c *contactCache) get(ctx context.Context, id int64) (*models.Contact, error) {
	if contact, ok := c.entries[id]; ok {
		return contact, nil
	}
	if c.failed[id] {
		return nil, crm.ErrNotFound
	}
	contact, err := c.client.GetContact(ctx, id)
	if err != nil {
		c.failed[id] = true
		return nil, err
	}
	c.entries[id] = contact
	return contact, nil
}

// resolveResponsible walks the fallback chain for a talk's responsible user:
// the talk's own field, then the linked lead, then the contact. Each fallback
// fetch only happens when the prior step yielded nothing. Rendering rules:
//
//	id 0            -> "N/A", never looked up
//	id not in users -> unknown label carrying the raw id
//	nothing found   -> "N/A"
func (b *Builder) resolveResponsible(ctx context.Context, talk models.Talk, leadID *int64, contacts *contactCache, users models.Directory) Cell {
	id := talk.ResponsibleUserID

	if id == nil && leadID != nil {
		lead, err := b.Client.GetLead(ctx, *leadID)
		if err != nil {
			b.Logger.Warn().Int64("talk_id", talk.TalkID).Int64("lead_id", *leadID).Err(err).Msg("lead detail fetch failed")
		} else if lead.ResponsibleUserID != nil {
			id = lead.ResponsibleUserID
		}
	}

	if id == nil && talk.ContactID != nil {
		contact, err := contacts.get(ctx, *talk.ContactID)
		if err != nil {
			b.Logger.Warn().Int64("talk_id", talk.TalkID).Int64("contact_id", *talk.ContactID).Err(err).Msg("contact detail fetch failed")
		} else if contact.ResponsibleUserID != nil {
			id = contact.ResponsibleUserID
		}
	}

	return renderResponsible(id, users)
}

func renderResponsible(id *int64, users models.Directory) Cell {
	switch {
	case id == nil:
		return Placeholder("N/A", Missing)
	case *id == 0:
		return Placeholder("N/A", Unassigned)
	}
	if name, ok := users.NameOf(*id); ok {
		return Val(name)
	}
	return Placeholder(fmt.Sprintf("Unknown (Could not be fetched from API - ID: %d)", *id), UnknownID)
}

// renderLeadResponsible is the lead report's variant: a missing id renders
// the historical "Unknown User (ID: None)" label rather than walking a
// fallback chain, since leads carry no linked entities to fall back to.
func renderLeadResponsible(id *int64, users models.Directory) Cell {
	if id == nil {
		return Placeholder("Unknown User (ID: None)", Missing)
	}
	if name, ok := users.NameOf(*id); ok {
		return Val(name)
	}
	return Placeholder(fmt.Sprintf("Unknown User (ID: %d)", *id), UnknownID)
}
