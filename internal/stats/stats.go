// Package stats derives read-only totals from a Finance snapshot.
//
// Every query walks the whole log in insertion order and keeps nothing
// between calls, so results always match the snapshot passed to New.
// Sums are accumulated in log order; two snapshots holding the same entries
// in a different order may differ in the last bits.
package stats

import (
	"sort"

	"budget/internal/core"
)

// LabelFunc maps a product id to the label it is grouped under. A false
// result marks the entry as unlabeled.
type LabelFunc func(product string) (string, bool)

// GroupedTotals is the split of one time bucket between labeled entries
// and entries whose label could not be resolved.
type GroupedTotals struct {
	Labeled   map[string]float64
	Unlabeled float64
}

// Row is one presentation line of a GroupedTotals.
type Row struct {
	Label string
	Total float64
}

type Stats struct {
	finance core.Finance
}

func New(f core.Finance) Stats {
	return Stats{finance: f}
}

// ProductLabel groups entries by their own product id.
func ProductLabel(product string) (string, bool) {
	return product, true
}

// CategoryLabel groups entries by the category their product resolves to.
func CategoryLabel(f core.Finance) LabelFunc {
	return f.Category
}

func (s Stats) ProductTotal(product string) float64 {
	var total float64
	for _, e := range s.finance.Logs() {
		if e.Product == product {
			total += e.Price
		}
	}
	return total
}

// ProductTotals sums prices per product. Products without entries are absent.
func (s Stats) ProductTotals() map[string]float64 {
	return s.totals(ProductLabel)
}

// CategoryTotal sums prices of entries whose product is registered under
// category. Entries with unregistered products never contribute.
func (s Stats) CategoryTotal(category string) float64 {
	var total float64
	for _, e := range s.finance.Logs() {
		if c, ok := s.finance.Category(e.Product); ok && c == category {
			total += e.Price
		}
	}
	return total
}

// CategoryTotals sums prices per resolved category. Unregistered products
// are dropped; there is no uncategorized bucket.
func (s Stats) CategoryTotals() map[string]float64 {
	return s.totals(CategoryLabel(s.finance))
}

func (s Stats) totals(label LabelFunc) map[string]float64 {
	out := map[string]float64{}
	for _, e := range s.finance.Logs() {
		if l, ok := label(e.Product); ok {
			out[l] += e.Price
		}
	}
	return out
}

// GroupedTotalsByYearMonth buckets the log by month and, inside each
// bucket, by the label resolved through label.
func (s Stats) GroupedTotalsByYearMonth(label LabelFunc) map[core.YearMonth]GroupedTotals {
	out := map[core.YearMonth]GroupedTotals{}
	for _, e := range s.finance.Logs() {
		g, ok := out[e.YearMonth]
		if !ok {
			g = GroupedTotals{Labeled: map[string]float64{}}
		}
		if l, ok := label(e.Product); ok {
			g.Labeled[l] += e.Price
		} else {
			g.Unlabeled += e.Price
		}
		out[e.YearMonth] = g
	}
	return out
}

func (s Stats) ProductTotalsByYearMonth() map[core.YearMonth]GroupedTotals {
	return s.GroupedTotalsByYearMonth(ProductLabel)
}

func (s Stats) CategoryTotalsByYearMonth() map[core.YearMonth]GroupedTotals {
	return s.GroupedTotalsByYearMonth(CategoryLabel(s.finance))
}

// Total is the labeled sum plus the unlabeled remainder.
func (g GroupedTotals) Total() float64 {
	total := g.Unlabeled
	for _, v := range g.Labeled {
		total += v
	}
	return total
}

// Rows lists labels in ascending order. The unlabeled remainder is appended
// under otherLabel only when it is strictly positive.
func (g GroupedTotals) Rows(otherLabel string) []Row {
	rows := SortedRows(g.Labeled)
	if g.Unlabeled > 0 {
		rows = append(rows, Row{Label: otherLabel, Total: g.Unlabeled})
	}
	return rows
}

// SortedRows turns a label→total map into rows ordered by label.
func SortedRows(totals map[string]float64) []Row {
	rows := make([]Row, 0, len(totals))
	for label, total := range totals {
		rows = append(rows, Row{Label: label, Total: total})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Label < rows[j].Label })
	return rows
}

// SortedYearMonths returns the buckets of grouped in chronological order.
func SortedYearMonths(grouped map[core.YearMonth]GroupedTotals) []core.YearMonth {
	out := make([]core.YearMonth, 0, len(grouped))
	for ym := range grouped {
		out = append(out, ym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
