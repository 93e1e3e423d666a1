package report

import (
	"encoding/csv"
	"io"
	"os"
	"time"
)

// Absence says why a cell holds a placeholder instead of a fetched value,
// so "fetched N/A" and "fetch failed" stay distinguishable downstream.
type Absence int

const (
	Present     Absence = iota
	Missing             // upstream field absent
	Unassigned          // responsible user explicitly 0
	UnknownID           // id resolved but not in the user directory
	FetchFailed         // detail request failed
)

// Cell is a single report value: either a concrete value or a placeholder
// string tagged with the reason it is a placeholder.
type Cell struct {
	Value  string
	Reason Absence
}

func Val(v string) Cell                    { return Cell{Value: v} }
func Placeholder(v string, r Absence) Cell { return Cell{Value: v, Reason: r} }

// Table is an ordered report: a fixed header and rows of cells.
type Table struct {
	Header []string
	Rows   [][]Cell
}

func (t *Table) Append(cells ...Cell) {
	t.Rows = append(t.Rows, cells)
}

// Encode writes the table as CSV: UTF-8, comma delimiter, header row first.
func (t *Table) Encode(out io.Writer) error {
	w := csv.NewWriter(out)
	if err := w.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		record := make([]string, len(row))
		for i, c := range row {
			record[i] = c.Value
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteCSV serializes the table to a file.
func (t *Table) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Encode(f)
}

// ReadCSV loads a previously written report. Absence reasons do not survive
// the round trip; every cell comes back Present.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Table{}, nil
	}
	t := &Table{Header: records[0]}
	for _, rec := range records[1:] {
		row := make([]Cell, len(rec))
		for i, v := range rec {
			row[i] = Val(v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func formatDate(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}

func formatClock(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("15:04:05")
}
