package report

import (
	"sort"
	"strconv"

	"github.com/kommo_pulse/backend/internal/models"
)

// FirstResponse derives the first-message time and the first-response
// latency for one conversation. Messages are sorted ascending by creation
// time, then scanned once: the first customer message starts the clock, the
// first later message from a sender present in the directory stops it.
//
// A customer message with no qualifying staff reply yields "Not Answered";
// no customer message at all yields "N/A".
func FirstResponse(msgs []models.Message, users models.Directory) (firstMessage, latency Cell) {
	firstMessage = Placeholder("N/A", Missing)
	latency = Placeholder("N/A", Missing)
	if len(msgs) == 0 {
		return firstMessage, latency
	}

	sorted := make([]models.Message, len(msgs))
	copy(sorted, msgs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt < sorted[j].CreatedAt })

	if sorted[0].CreatedAt != 0 {
		firstMessage = Val(formatClock(sorted[0].CreatedAt))
	}

	var incomingAt *int64
	for _, msg := range sorted {
		if msg.CreatedAt == 0 {
			continue
		}
		if msg.IsFromClient {
			if incomingAt == nil {
				at := msg.CreatedAt
				incomingAt = &at
			}
			continue
		}
		if incomingAt == nil {
			continue
		}
		sender := msg.SenderID()
		if sender == nil {
			continue
		}
		if _, ok := users.NameOf(*sender); ok {
			return firstMessage, Val(strconv.FormatInt(msg.CreatedAt-*incomingAt, 10))
		}
	}

	if incomingAt != nil {
		latency = Placeholder("Not Answered", Missing)
	}
	return firstMessage, latency
}
