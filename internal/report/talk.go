package report

import (
	"context"
	"sort"
	"strconv"

	"github.com/kommo_pulse/backend/internal/models"
)

// TalkHeader is the fixed column order of the talk report.
var TalkHeader = []string{
	"Talk ID", "Date", "Time", "Origin", "Contact ID", "Contact Name",
	"Lead ID", "Responsible User Name", "Chat ID", "Status", "Duration (sec)",
	"First Message Time", "First Response Duration (sec)",
}

// readableOrigin maps raw channel identifiers to report labels.
func readableOrigin(raw string) string {
	switch raw {
	case "com.amocrm.amocrmwa":
		return "WhatsApp (CRM)"
	case "instagram_business":
		return "Instagram Business"
	case "":
		return "N/A"
	}
	return raw
}

// BuildTalkReport reports conversations created inside the trailing window,
// newest first, joining per-talk detail fetches and the window's message
// stream for first-response latency.
func (b *Builder) BuildTalkReport(ctx context.Context) (*Table, error) {
	from, to := b.Window()
	b.Logger.Info().Time("from", from).Time("to", to).Msg("talk report window")

	users := b.loadDirectory(ctx)

	talks, err := b.Client.ListTalks(ctx, from, to, b.MaxTalks)
	if err != nil {
		b.Logger.Error().Err(err).Int("fetched", len(talks)).Msg("talk listing incomplete; continuing with partial data")
	}
	b.Logger.Info().Int("talks", len(talks)).Msg("talks fetched")

	messages, err := b.Client.ListMessages(ctx, from, to, b.MaxMessages)
	if err != nil {
		b.Logger.Error().Err(err).Int("fetched", len(messages)).Msg("message listing incomplete; continuing with partial data")
	}
	byConversation := map[int64][]models.Message{}
	for _, msg := range messages {
		if msg.ConversationID != 0 {
			byConversation[msg.ConversationID] = append(byConversation[msg.ConversationID], msg)
		}
	}

	sort.Slice(talks, func(i, j int) bool { return talks[i].CreatedAt > talks[j].CreatedAt })

	contacts := newContactCache(b.Client)
	table := &Table{Header: TalkHeader}
	for i, summary := range talks {
		logProgress(b.Logger, i+1, len(talks), "talks")

		if summary.TalkID == 0 {
			b.Logger.Warn().Msg("talk summary without talk_id, skipping")
			continue
		}

		talk := summary
		if detail, err := b.Client.GetTalk(ctx, summary.TalkID); err != nil {
			b.Logger.Warn().Int64("talk_id", summary.TalkID).Err(err).Msg("talk detail fetch failed, using summary")
		} else {
			talk = *detail
		}

		date := Placeholder("N/A", Missing)
		clock := Placeholder("N/A", Missing)
		if talk.CreatedAt != 0 {
			date = Val(formatDate(talk.CreatedAt))
			clock = Val(formatClock(talk.CreatedAt))
		}

		contactID := Placeholder("N/A", Missing)
		contactName := Placeholder("N/A", Missing)
		if talk.ContactID != nil {
			contactID = Val(strconv.FormatInt(*talk.ContactID, 10))
			if contact, err := contacts.get(ctx, *talk.ContactID); err != nil {
				contactName = Placeholder("N/A", FetchFailed)
			} else if contact.Name == "" {
				contactName = Val("Unnamed Contact")
			} else {
				contactName = Val(contact.Name)
			}
		}

		leadID := talk.LeadID()
		leadCell := Placeholder("N/A", Missing)
		if leadID != nil {
			leadCell = Val(strconv.FormatInt(*leadID, 10))
		}

		responsible := b.resolveResponsible(ctx, talk, leadID, contacts, users)

		chat := Placeholder("N/A", Missing)
		if talk.ChatID != "" {
			chat = Val(talk.ChatID)
		}
		status := Placeholder("N/A", Missing)
		if talk.Status != "" {
			status = Val(talk.Status)
		}
		duration := Placeholder("N/A", Missing)
		if talk.Duration != nil {
			duration = Val(strconv.FormatInt(*talk.Duration, 10))
		}

		firstMessage, latency := FirstResponse(byConversation[talk.TalkID], users)

		table.Append(
			Val(strconv.FormatInt(talk.TalkID, 10)),
			date,
			clock,
			Val(readableOrigin(talk.Origin)),
			contactID,
			contactName,
			leadCell,
			responsible,
			chat,
			status,
			duration,
			firstMessage,
			latency,
		)
	}
	return table, nil
}
