package cli

import (
	"bytes"
	"testing"
	"time"

	"budget/internal/core"
	"budget/internal/stats"
)

func TestRenderTotals(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, PlainStyles())

	r.Totals("Products", map[string]float64{"Eggs": 15, "Bread": 10.5})

	want := "Products\n" +
		"  Bread  10.50\n" +
		"  Eggs   15.00\n"
	if buf.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestRenderTotalsEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, PlainStyles()).Totals("Categories", nil)

	want := "Categories\n  (no entries)\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestRenderMonthlyOrdersMonthsAndOther(t *testing.T) {
	jan := core.YearMonth{Year: 2021, Month: time.January}
	feb := core.YearMonth{Year: 2021, Month: time.February}
	dec := core.YearMonth{Year: 2020, Month: time.December}

	f := core.NewFinance().
		WithProduct(core.Product{ID: "Bread", Category: "Food"}).
		WithLog(core.LogEntry{Product: "Bread", Price: 10, YearMonth: feb}).
		WithLog(core.LogEntry{Product: "Stamp", Price: 1, YearMonth: feb}).
		WithLog(core.LogEntry{Product: "Bread", Price: 2, YearMonth: jan}).
		WithLog(core.LogEntry{Product: "Refund", Price: 0, YearMonth: dec})

	var buf bytes.Buffer
	NewRenderer(&buf, PlainStyles()).Monthly("By category", stats.New(f).CategoryTotalsByYearMonth())

	// December only has an unlabeled zero, so no Other row is shown.
	want := "By category\n" +
		"2020-12  0.00\n" +
		"2021-01  2.00\n" +
		"  Food  2.00\n" +
		"2021-02  11.00\n" +
		"  Food   10.00\n" +
		"  Other  1.00\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestRenderSingle(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(&buf, PlainStyles()).Single("Food", 25)
	if buf.String() != "Food  25.00\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(1234.5); got != "1234.50" {
		t.Fatalf("got %q", got)
	}
}
