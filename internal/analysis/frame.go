package analysis

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LeadRow is one coerced row of a lead report CSV. Price parse failures
// become 0; rows keep their raw values so a single bad column never drops
// the whole row.
type LeadRow struct {
	LeadID    string
	CreatedAt time.Time
	HasTime   bool
	User      string
	Price     float64
	Pipeline  string
	Status    string
}

// TalkRow is one coerced row of a talk report CSV.
type TalkRow struct {
	TalkID    string
	CreatedAt time.Time
	HasTime   bool
	Origin    string
	User      string
}

type header map[string]int

func indexHeader(cols []string) header {
	idx := header{}
	for i, c := range cols {
		idx[strings.TrimSpace(c)] = i
	}
	return idx
}

func (h header) get(rec []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func (h header) require(names ...string) error {
	for _, n := range names {
		if _, ok := h[n]; !ok {
			return fmt.Errorf("analysis: column %q not found in report", n)
		}
	}
	return nil
}

func readReport(path string) (header, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("analysis: %s is empty", path)
	}
	return indexHeader(records[0]), records[1:], nil
}

func parseReportTime(date, clock string) (time.Time, bool) {
	if date == "" || clock == "" || date == "N/A" || clock == "N/A" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", date+" "+clock, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// LoadLeadReport reads a lead report CSV and coerces types the way the
// downstream views need them.
func LoadLeadReport(path string) ([]LeadRow, error) {
	head, records, err := readReport(path)
	if err != nil {
		return nil, err
	}
	if err := head.require("Responsible User Name"); err != nil {
		return nil, err
	}

	rows := make([]LeadRow, 0, len(records))
	for _, rec := range records {
		price, err := strconv.ParseFloat(head.get(rec, "Price"), 64)
		if err != nil {
			price = 0
		}
		row := LeadRow{
			LeadID:   head.get(rec, "Lead ID"),
			User:     head.get(rec, "Responsible User Name"),
			Price:    price,
			Pipeline: head.get(rec, "Pipeline ID"),
			Status:   head.get(rec, "Status ID"),
		}
		row.CreatedAt, row.HasTime = parseReportTime(head.get(rec, "Date"), head.get(rec, "Time"))
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadTalkReport reads a talk report CSV. Rows with an unparseable
// date/time are dropped; a blank origin becomes "Unknown Channel".
func LoadTalkReport(path string) ([]TalkRow, error) {
	head, records, err := readReport(path)
	if err != nil {
		return nil, err
	}
	if err := head.require("Date", "Time"); err != nil {
		return nil, err
	}

	rows := make([]TalkRow, 0, len(records))
	for _, rec := range records {
		row := TalkRow{
			TalkID: head.get(rec, "Talk ID"),
			Origin: head.get(rec, "Origin"),
			User:   head.get(rec, "Responsible User Name"),
		}
		row.CreatedAt, row.HasTime = parseReportTime(head.get(rec, "Date"), head.get(rec, "Time"))
		if !row.HasTime {
			continue
		}
		if row.Origin == "" {
			row.Origin = "Unknown Channel"
		}
		rows = append(rows, row)
	}
	return rows, nil
}
