// Package anonymize rewrites report CSVs so they can be shared outside the
// team: identifiers and names become stable short hashes, responsible users
// become numbered aliases that stay consistent across the lead and talk
// files.
package anonymize

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/kommo_pulse/backend/internal/utils"
)

// UserMapping maps real responsible-user names to "User N" aliases in order
// of first appearance.
type UserMapping map[string]string

// alias returns the alias for name, assigning the next number on first
// sight. Placeholder values (N/A, unknown-agent labels) pass through
// untouched so the anonymized file keeps its gaps visible.
func (m UserMapping) alias(name string) string {
	if name == "" || name == "N/A" || strings.HasPrefix(name, "Unknown") {
		return name
	}
	if a, ok := m[name]; ok {
		return a
	}
	a := fmt.Sprintf("User %d", len(m)+1)
	m[name] = a
	return a
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return w.Error()
}

func columnIndex(headerRow []string) map[string]int {
	idx := map[string]int{}
	for i, c := range headerRow {
		idx[strings.TrimSpace(c)] = i
	}
	return idx
}

func rewrite(rec []string, idx map[string]int, column string, fn func(string) string) {
	i, ok := idx[column]
	if !ok || i >= len(rec) {
		return
	}
	rec[i] = fn(rec[i])
}

func hashColumn(prefix string) func(string) string {
	return func(v string) string {
		if v == "" || v == "N/A" {
			return v
		}
		return utils.ShortHash(prefix, v)
	}
}

// LeadReport anonymizes a lead report and returns the user mapping so the
// matching talk report can reuse it.
func LeadReport(inPath, outPath string) (UserMapping, error) {
	records, err := readCSV(inPath)
	if err != nil {
		return nil, err
	}
	mapping := UserMapping{}
	if len(records) == 0 {
		return mapping, writeCSV(outPath, records)
	}
	idx := columnIndex(records[0])
	for _, rec := range records[1:] {
		rewrite(rec, idx, "Lead ID", hashColumn("L"))
		rewrite(rec, idx, "Lead Name", hashColumn("Lead"))
		rewrite(rec, idx, "Responsible User Name", mapping.alias)
	}
	return mapping, writeCSV(outPath, records)
}

// TalkReport anonymizes a talk report with the mapping produced by
// LeadReport, so the same person carries the same alias in both files.
func TalkReport(inPath, outPath string, mapping UserMapping) error {
	records, err := readCSV(inPath)
	if err != nil {
		return err
	}
	if mapping == nil {
		mapping = UserMapping{}
	}
	if len(records) == 0 {
		return writeCSV(outPath, records)
	}
	idx := columnIndex(records[0])
	for _, rec := range records[1:] {
		rewrite(rec, idx, "Lead ID", hashColumn("L"))
		rewrite(rec, idx, "Chat ID", hashColumn("Chat"))
		rewrite(rec, idx, "Contact Name", hashColumn("Contact"))
		rewrite(rec, idx, "Responsible User Name", mapping.alias)
	}
	return writeCSV(outPath, records)
}
