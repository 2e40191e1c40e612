// Package storage persists Finance snapshots.
//
// Two backends implement FinanceRepository: a JSON file and a SQLite
// database. Both report failures as *Error values whose Kind is one of
// ErrConfiguration, ErrFileRead, ErrFileWrite, ErrParse or ErrValidation.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"budget/internal/core"
	"budget/internal/log"
)

type FinanceRepository interface {
	// Load reads the stored snapshot. A failed Load returns no Finance.
	Load(ctx context.Context) (core.Finance, error)
	// Save replaces the stored snapshot with f.
	Save(ctx context.Context, f core.Finance) error
}

const (
	opLoad = "load"
	opSave = "save"
)

// Record types shared by the backends. Products are registered first, then
// logs appended in order, so a snapshot rebuilds exactly.
type (
	productRecord struct {
		Product  string
		Category string
	}

	logRecord struct {
		Product string
		Price   float64
		Year    int
		Month   int
	}
)

// logger tags storage records with their component. It reads the slog
// default on every call so a logger installed after startup is honoured.
func logger() *slog.Logger {
	return slog.Default().With(log.FieldComponent, log.ComponentStorage)
}

func toRecords(f core.Finance) ([]productRecord, []logRecord) {
	products := f.Products()
	prs := make([]productRecord, 0, len(products))
	for _, p := range products {
		prs = append(prs, productRecord{Product: p.ID, Category: p.Category})
	}
	logs := f.Logs()
	lrs := make([]logRecord, 0, len(logs))
	for _, e := range logs {
		lrs = append(lrs, logRecord{
			Product: e.Product,
			Price:   e.Price,
			Year:    e.YearMonth.Year,
			Month:   int(e.YearMonth.Month),
		})
	}
	return prs, lrs
}

// fromRecords rebuilds a Finance. It fails on the first log whose month is
// outside 1..12; the whole load is rejected.
func fromRecords(prs []productRecord, lrs []logRecord) (core.Finance, error) {
	f := core.NewFinance()
	for _, p := range prs {
		f = f.WithProduct(core.Product{ID: p.Product, Category: p.Category})
	}
	for i, l := range lrs {
		ym, err := core.NewYearMonth(l.Year, l.Month)
		if err != nil {
			return core.Finance{}, fmt.Errorf("log %d (%s): %w", i, l.Product, err)
		}
		f = f.WithLog(core.LogEntry{Product: l.Product, Price: l.Price, YearMonth: ym})
	}
	return f, nil
}
