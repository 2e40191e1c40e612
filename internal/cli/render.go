package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"budget/internal/core"
	"budget/internal/stats"
)

// OtherLabel names the pseudo-row holding entries without a label.
const OtherLabel = "Other"

// Styles used by the report renderers. Colors are dropped automatically when
// the output is not a terminal.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Amount lipgloss.Style
	Other  lipgloss.Style
	Total  lipgloss.Style
}

// PlainStyles renders text without any decoration.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Title: plain, Label: plain, Amount: plain, Other: plain, Total: plain}
}

func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Label:  lipgloss.NewStyle(),
		Amount: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Other:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Total:  lipgloss.NewStyle().Bold(true),
	}
}

// Renderer writes aggregation reports.
type Renderer struct {
	w      io.Writer
	styles Styles
}

func NewRenderer(w io.Writer, styles Styles) *Renderer {
	return &Renderer{w: w, styles: styles}
}

// FormatAmount renders a total with two decimals and no locale grouping.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Totals writes one line per label in ascending label order.
func (r *Renderer) Totals(title string, totals map[string]float64) {
	rows := stats.SortedRows(totals)
	fmt.Fprintln(r.w, r.styles.Title.Render(title))
	if len(rows) == 0 {
		fmt.Fprintln(r.w, r.styles.Other.Render("  (no entries)"))
		return
	}
	r.rows(rows, false)
}

// Monthly writes one block per month in chronological order. Unlabeled
// spending is listed last as OtherLabel when it is above zero.
func (r *Renderer) Monthly(title string, grouped map[core.YearMonth]stats.GroupedTotals) {
	fmt.Fprintln(r.w, r.styles.Title.Render(title))
	months := stats.SortedYearMonths(grouped)
	if len(months) == 0 {
		fmt.Fprintln(r.w, r.styles.Other.Render("  (no entries)"))
		return
	}
	for _, ym := range months {
		g := grouped[ym]
		fmt.Fprintf(r.w, "%s  %s\n", r.styles.Total.Render(ym.String()), r.styles.Total.Render(FormatAmount(g.Total())))
		r.rows(g.Rows(OtherLabel), g.Unlabeled > 0)
	}
}

// Single writes one named total.
func (r *Renderer) Single(label string, total float64) {
	fmt.Fprintf(r.w, "%s  %s\n", r.styles.Label.Render(label), r.styles.Amount.Render(FormatAmount(total)))
}

// rows aligns labels; when withOther is set the last row is the unlabeled one.
func (r *Renderer) rows(rows []stats.Row, withOther bool) {
	width := 0
	for _, row := range rows {
		width = max(width, len(row.Label))
	}
	for i, row := range rows {
		label := row.Label + strings.Repeat(" ", width-len(row.Label))
		style := r.styles.Label
		if withOther && i == len(rows)-1 {
			style = r.styles.Other
		}
		fmt.Fprintf(r.w, "  %s  %s\n", style.Render(label), r.styles.Amount.Render(FormatAmount(row.Total)))
	}
}
