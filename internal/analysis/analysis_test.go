package analysis

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadLeadReport(t *testing.T) {
	csv := "Lead ID,Date,Time,Lead Name,Responsible User Name,Price,Pipeline ID,Status ID\n" +
		"1,2024-03-15,10:30:00,Alpha,User 1,1500,77,142\n" +
		"2,2024-03-14,09:00:00,Beta,User 2,not-a-number,77,143\n" +
		"3,N/A,N/A,Gamma,User 1,200,77,142\n"
	rows, err := LoadLeadReport(writeFixture(t, "leads.csv", csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Price != 1500 {
		t.Fatalf("unexpected price: %f", rows[0].Price)
	}
	if rows[1].Price != 0 {
		t.Fatalf("unparseable price should coerce to 0, got %f", rows[1].Price)
	}
	if rows[2].HasTime {
		t.Fatalf("N/A date should not parse")
	}
	if !rows[0].HasTime || rows[0].CreatedAt.Hour() != 10 {
		t.Fatalf("unexpected created at: %+v", rows[0])
	}
}

func TestLoadLeadReportMissingUserColumn(t *testing.T) {
	csv := "Lead ID,Date\n1,2024-03-15\n"
	if _, err := LoadLeadReport(writeFixture(t, "leads.csv", csv)); err == nil {
		t.Fatalf("expected error for missing Responsible User Name column")
	}
}

func TestLoadTalkReportDropsInvalidDatetimes(t *testing.T) {
	csv := "Talk ID,Date,Time,Origin,Responsible User Name\n" +
		"600,2024-03-15,10:30:00,WhatsApp (CRM),User 1\n" +
		"601,N/A,N/A,telegram,User 2\n" +
		"602,2024-03-15,11:00:00,,User 2\n"
	rows, err := LoadTalkReport(writeFixture(t, "talks.csv", csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected invalid datetime row dropped, got %d rows", len(rows))
	}
	if rows[1].Origin != "Unknown Channel" {
		t.Fatalf("blank origin should map to Unknown Channel, got %q", rows[1].Origin)
	}
}

func TestCountsSortedDesc(t *testing.T) {
	c := Counts{"b": 2, "a": 5, "c": 2}
	pairs := c.SortedDesc()
	if pairs[0].Label != "a" || pairs[1].Label != "b" || pairs[2].Label != "c" {
		t.Fatalf("unexpected order: %v", pairs)
	}
}

func TestPivot(t *testing.T) {
	p := NewPivot()
	p.Add("User 1", "142", 1)
	p.Add("User 1", "142", 1)
	p.Add("User 2", "143", 1)
	if p.At("User 1", "142") != 2 {
		t.Fatalf("unexpected cell: %f", p.At("User 1", "142"))
	}
	if p.At("User 2", "142") != 0 {
		t.Fatalf("absent cell should read 0")
	}
	p.EnsureCols([]string{"142", "143", "144"})
	row := p.Row("User 1")
	if len(row) != 3 || row[0] != 2 || row[2] != 0 {
		t.Fatalf("unexpected row: %v", row)
	}
}

func TestWeekStart(t *testing.T) {
	// 2024-03-15 is a Friday
	got := weekStart(time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC))
	if got.Format("2006-01-02") != "2024-03-11" {
		t.Fatalf("expected Monday 2024-03-11, got %s", got.Format("2006-01-02"))
	}
	// Monday maps to itself
	got = weekStart(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))
	if got.Format("2006-01-02") != "2024-03-11" {
		t.Fatalf("expected identity for Monday, got %s", got.Format("2006-01-02"))
	}
}

func TestAssignedUser(t *testing.T) {
	if assignedUser("N/A") || assignedUser("") {
		t.Fatalf("N/A and blank should be filtered")
	}
	if assignedUser("Unknown (Could not be fetched from API - ID: 42)") {
		t.Fatalf("unknown-agent labels should be filtered")
	}
	if !assignedUser("User 1") {
		t.Fatalf("real users should pass")
	}
}
