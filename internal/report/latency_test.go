package report

import (
	"testing"

	"github.com/kommo_pulse/backend/internal/models"
)

func staffSender(id int64) *models.Sender { return &models.Sender{ID: id} }

func TestFirstResponseAnswered(t *testing.T) {
	users := models.Directory{7: "Agent"}
	msgs := []models.Message{
		{ConversationID: 1, CreatedAt: 100, IsFromClient: true},
		{ConversationID: 1, CreatedAt: 130, IsFromClient: false, Sender: staffSender(7)},
	}
	first, latency := FirstResponse(msgs, users)
	if latency.Value != "30" || latency.Reason != Present {
		t.Fatalf("expected latency 30, got %+v", latency)
	}
	if first.Value != "00:01:40" {
		t.Fatalf("unexpected first message time: %s", first.Value)
	}
}

func TestFirstResponseUnsortedInput(t *testing.T) {
	users := models.Directory{7: "Agent"}
	msgs := []models.Message{
		{ConversationID: 1, CreatedAt: 130, IsFromClient: false, Sender: staffSender(7)},
		{ConversationID: 1, CreatedAt: 100, IsFromClient: true},
	}
	_, latency := FirstResponse(msgs, users)
	if latency.Value != "30" {
		t.Fatalf("expected latency 30 after sorting, got %s", latency.Value)
	}
}

func TestFirstResponseNotAnswered(t *testing.T) {
	users := models.Directory{7: "Agent"}
	msgs := []models.Message{
		{ConversationID: 1, CreatedAt: 100, IsFromClient: true},
	}
	_, latency := FirstResponse(msgs, users)
	if latency.Value != "Not Answered" {
		t.Fatalf("expected Not Answered, got %s", latency.Value)
	}
}

func TestFirstResponseNoCustomerMessage(t *testing.T) {
	users := models.Directory{7: "Agent"}
	msgs := []models.Message{
		{ConversationID: 1, CreatedAt: 100, IsFromClient: false, Sender: staffSender(7)},
	}
	_, latency := FirstResponse(msgs, users)
	if latency.Value != "N/A" {
		t.Fatalf("expected N/A, got %s", latency.Value)
	}
}

func TestFirstResponseIgnoresNonStaffReplies(t *testing.T) {
	users := models.Directory{7: "Agent"}
	msgs := []models.Message{
		{ConversationID: 1, CreatedAt: 100, IsFromClient: true},
		{ConversationID: 1, CreatedAt: 110, IsFromClient: false, Sender: staffSender(999)},
		{ConversationID: 1, CreatedAt: 160, IsFromClient: false, Sender: staffSender(7)},
	}
	_, latency := FirstResponse(msgs, users)
	if latency.Value != "60" {
		t.Fatalf("expected latency from first staff reply, got %s", latency.Value)
	}
}

func TestFirstResponseEmpty(t *testing.T) {
	first, latency := FirstResponse(nil, models.Directory{})
	if first.Value != "N/A" || latency.Value != "N/A" {
		t.Fatalf("expected N/A placeholders, got %s / %s", first.Value, latency.Value)
	}
}
