package analysis

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

// Counts is a grouped count/sum keyed by a dimension label.
type Counts map[string]float64

// Pair is one (label, value) of an aggregate, in render order.
type Pair struct {
	Label string
	Value float64
}

// SortedDesc returns the counts as pairs ordered by value descending,
// breaking ties by label so output is stable.
func (c Counts) SortedDesc() []Pair {
	pairs := make([]Pair, 0, len(c))
	for k, v := range c {
		pairs = append(pairs, Pair{Label: k, Value: v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Value == pairs[j].Value {
			return pairs[i].Label < pairs[j].Label
		}
		return pairs[i].Value > pairs[j].Value
	})
	return pairs
}

// SortedByLabel returns the counts ordered by label ascending.
func (c Counts) SortedByLabel() []Pair {
	pairs := make([]Pair, 0, len(c))
	for k, v := range c {
		pairs = append(pairs, Pair{Label: k, Value: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Label < pairs[j].Label })
	return pairs
}

// Pivot is a two-dimensional count grid: row label x column label.
type Pivot struct {
	RowLabels []string
	ColLabels []string
	cells     map[string]map[string]float64
}

func NewPivot() *Pivot {
	return &Pivot{cells: map[string]map[string]float64{}}
}

func (p *Pivot) Add(row, col string, v float64) {
	if _, ok := p.cells[row]; !ok {
		p.cells[row] = map[string]float64{}
		p.RowLabels = append(p.RowLabels, row)
		sort.Strings(p.RowLabels)
	}
	if _, seen := p.cells[row][col]; !seen && !contains(p.ColLabels, col) {
		p.ColLabels = append(p.ColLabels, col)
		sort.Strings(p.ColLabels)
	}
	p.cells[row][col] += v
}

// EnsureCols pins the column set (and order), filling absent cells with 0.
func (p *Pivot) EnsureCols(cols []string) {
	p.ColLabels = append([]string(nil), cols...)
}

// EnsureRows pins the row set (and order).
func (p *Pivot) EnsureRows(rows []string) {
	for _, r := range rows {
		if _, ok := p.cells[r]; !ok {
			p.cells[r] = map[string]float64{}
		}
	}
	p.RowLabels = append([]string(nil), rows...)
}

func (p *Pivot) At(row, col string) float64 {
	return p.cells[row][col]
}

// Row returns one row's values in column order.
func (p *Pivot) Row(row string) []float64 {
	out := make([]float64, len(p.ColLabels))
	for i, c := range p.ColLabels {
		out[i] = p.cells[row][c]
	}
	return out
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// printPairs writes a two-column console table.
func printPairs(w io.Writer, title, dim, measure string, pairs []Pair) {
	fmt.Fprintf(w, "\n%s\n", title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", dim, measure)
	for _, p := range pairs {
		fmt.Fprintf(tw, "%s\t%.2f\n", p.Label, p.Value)
	}
	tw.Flush()
}

// printPivot writes a pivot grid as a console table.
func printPivot(w io.Writer, title string, p *Pivot) {
	fmt.Fprintf(w, "\n%s\n", title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "\t")
	for _, c := range p.ColLabels {
		fmt.Fprintf(tw, "%s\t", c)
	}
	fmt.Fprintln(tw)
	for _, r := range p.RowLabels {
		fmt.Fprintf(tw, "%s\t", r)
		for _, c := range p.ColLabels {
			fmt.Fprintf(tw, "%.0f\t", p.At(r, c))
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}
