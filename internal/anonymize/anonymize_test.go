package anonymize

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return records
}

func TestAnonymizeKeepsUserAliasConsistentAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	leadIn := writeFile(t, dir, "leads.csv",
		"Lead ID,Lead Name,Responsible User Name\n"+
			"101,Big Deal,Jane Doe\n"+
			"102,Small Deal,John Roe\n"+
			"103,Other Deal,Jane Doe\n")
	talkIn := writeFile(t, dir, "talks.csv",
		"Talk ID,Lead ID,Chat ID,Contact Name,Responsible User Name\n"+
			"600,101,chat-xyz,Alice,Jane Doe\n"+
			"601,102,chat-abc,Bob,N/A\n")
	leadOut := filepath.Join(dir, "leads_anon.csv")
	talkOut := filepath.Join(dir, "talks_anon.csv")

	mapping, err := LeadReport(leadIn, leadOut)
	if err != nil {
		t.Fatalf("lead anonymize: %v", err)
	}
	if err := TalkReport(talkIn, talkOut, mapping); err != nil {
		t.Fatalf("talk anonymize: %v", err)
	}

	leads := readAll(t, leadOut)
	talks := readAll(t, talkOut)

	if leads[1][2] != "User 1" || leads[2][2] != "User 2" || leads[3][2] != "User 1" {
		t.Fatalf("unexpected lead aliases: %v", leads)
	}
	if talks[1][4] != "User 1" {
		t.Fatalf("talk alias should reuse lead mapping, got %s", talks[1][4])
	}
	if talks[2][4] != "N/A" {
		t.Fatalf("placeholder should pass through, got %s", talks[2][4])
	}

	if !strings.HasPrefix(leads[1][0], "L_") {
		t.Fatalf("lead id not hashed: %s", leads[1][0])
	}
	if leads[1][0] != talks[1][1] {
		t.Fatalf("hashed lead ids should stay joinable: %s vs %s", leads[1][0], talks[1][1])
	}
	if !strings.HasPrefix(talks[1][2], "Chat_") || !strings.HasPrefix(talks[1][3], "Contact_") {
		t.Fatalf("chat/contact not hashed: %v", talks[1])
	}
	if leads[1][1] == "Big Deal" {
		t.Fatalf("lead name not anonymized")
	}
}

func TestAnonymizeHashIsStable(t *testing.T) {
	dir := t.TempDir()
	leadIn := writeFile(t, dir, "leads.csv", "Lead ID,Lead Name,Responsible User Name\n101,Deal,Jane\n")
	out1 := filepath.Join(dir, "a.csv")
	out2 := filepath.Join(dir, "b.csv")
	if _, err := LeadReport(leadIn, out1); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := LeadReport(leadIn, out2); err != nil {
		t.Fatalf("second run: %v", err)
	}
	a := readAll(t, out1)
	b := readAll(t, out2)
	if a[1][0] != b[1][0] {
		t.Fatalf("hash not stable: %s vs %s", a[1][0], b[1][0])
	}
}
