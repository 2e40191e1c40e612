package core

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

type (
	// YearMonth identifies one calendar month.
	YearMonth struct {
		Year  int
		Month time.Month
	}

	Product struct {
		ID       string
		Category string
	}

	LogEntry struct {
		Product   string // Product id, not checked against the catalog
		Price     float64
		YearMonth YearMonth
	}

	// Finance holds the append-only spending log and the product catalog.
	// Values are never mutated in place: WithLog and WithProduct return a
	// new Finance and leave the receiver untouched.
	Finance struct {
		logs     []LogEntry
		products map[string]Product
	}
)

var (
	ErrInvalidMonth  = errors.New("invalid month")
	ErrEmptyProduct  = errors.New("empty product")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidPrice  = errors.New("invalid price")
)

// NewYearMonth validates month and builds a YearMonth.
func NewYearMonth(year, month int) (YearMonth, error) {
	ym := YearMonth{Year: year, Month: time.Month(month)}
	if err := ym.Validate(); err != nil {
		return YearMonth{}, err
	}
	return ym, nil
}

func (ym YearMonth) Validate() error {
	if ym.Month < time.January || ym.Month > time.December {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, int(ym.Month))
	}
	return nil
}

// Before reports whether ym is chronologically earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyProduct
	}
	if strings.TrimSpace(p.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (e LogEntry) Validate() error {
	if strings.TrimSpace(e.Product) == "" {
		return ErrEmptyProduct
	}
	if math.IsNaN(e.Price) || math.IsInf(e.Price, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidPrice, e.Price)
	}
	return e.YearMonth.Validate()
}

// NewFinance returns an empty Finance.
func NewFinance() Finance {
	return Finance{products: map[string]Product{}}
}

// WithLog returns a copy of f with e appended to the log.
func (f Finance) WithLog(e LogEntry) Finance {
	logs := make([]LogEntry, len(f.logs), len(f.logs)+1)
	copy(logs, f.logs)
	return Finance{
		logs:     append(logs, e),
		products: f.products,
	}
}

// WithProduct returns a copy of f with p registered. A product id that is
// already present gets its category overwritten.
func (f Finance) WithProduct(p Product) Finance {
	products := make(map[string]Product, len(f.products)+1)
	for id, existing := range f.products {
		products[id] = existing
	}
	products[p.ID] = p
	return Finance{
		logs:     f.logs,
		products: products,
	}
}

// Logs returns the log in insertion order.
func (f Finance) Logs() []LogEntry {
	return append([]LogEntry(nil), f.logs...)
}

// Products returns the catalog ordered by product id.
func (f Finance) Products() []Product {
	out := make([]Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Category resolves the category of a product id through the catalog.
func (f Finance) Category(product string) (string, bool) {
	p, ok := f.products[product]
	if !ok {
		return "", false
	}
	return p.Category, true
}

// Len returns the number of log entries.
func (f Finance) Len() int {
	return len(f.logs)
}

// Equal compares logs by order and value and catalogs as sets.
func (f Finance) Equal(other Finance) bool {
	if len(f.logs) != len(other.logs) || len(f.products) != len(other.products) {
		return false
	}
	for i := range f.logs {
		if f.logs[i] != other.logs[i] {
			return false
		}
	}
	for id, p := range f.products {
		if q, ok := other.products[id]; !ok || q != p {
			return false
		}
	}
	return true
}
