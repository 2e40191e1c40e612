package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"budget/internal/core"
)

// JSONRepository stores a snapshot as a single JSON document:
//
//	{
//	  "products": [{"product": "Bread", "category": "Food"}],
//	  "logs": [{"product": "Bread", "price": 10, "year": 2021, "month": 1}]
//	}
type JSONRepository struct {
	path string
}

// NewJSONRepository returns a repository bound to path. An empty path is
// accepted here and reported as ErrConfiguration by Load and Save.
func NewJSONRepository(path string) *JSONRepository {
	return &JSONRepository{path: path}
}

func (r *JSONRepository) Path() string {
	return r.path
}

// Wire format. Pointers let decoding tell a missing field from a zero value.
type (
	jsonFinance struct {
		Products *[]jsonProduct `json:"products"`
		Logs     *[]jsonLog     `json:"logs"`
	}

	jsonProduct struct {
		Product  *string `json:"product"`
		Category *string `json:"category"`
	}

	jsonLog struct {
		Product *string  `json:"product"`
		Price   *float64 `json:"price"`
		Year    *int     `json:"year"`
		Month   *int     `json:"month"`
	}
)

var errMissingField = errors.New("missing field")

// Load implements FinanceRepository.
func (r *JSONRepository) Load(ctx context.Context) (core.Finance, error) {
	if r.path == "" {
		return core.Finance{}, newError(ErrConfiguration, opLoad, "", errors.New("finance file path is not set"))
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return core.Finance{}, newError(ErrFileRead, opLoad, r.path, err)
	}

	prs, lrs, err := decodeFinance(data)
	if err != nil {
		return core.Finance{}, newError(ErrParse, opLoad, r.path, err)
	}

	f, err := fromRecords(prs, lrs)
	if err != nil {
		return core.Finance{}, newError(ErrValidation, opLoad, r.path, err)
	}

	logger().DebugContext(ctx, "Finance loaded from JSON",
		"path", r.path,
		"products", len(prs),
		"logs", len(lrs))

	return f, nil
}

// Save implements FinanceRepository. The document is written to a temporary
// file next to the target and renamed over it.
func (r *JSONRepository) Save(ctx context.Context, f core.Finance) error {
	if r.path == "" {
		return newError(ErrConfiguration, opSave, "", errors.New("finance file path is not set"))
	}

	data, err := encodeFinance(toRecords(f))
	if err != nil {
		return newError(ErrFileWrite, opSave, r.path, err)
	}

	if err := writeFileReplace(r.path, data); err != nil {
		return newError(ErrFileWrite, opSave, r.path, err)
	}

	logger().DebugContext(ctx, "Finance saved to JSON",
		"path", r.path,
		"bytes", len(data),
		"logs", f.Len())

	return nil
}

func decodeFinance(data []byte) ([]productRecord, []logRecord, error) {
	var doc jsonFinance
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, err
	}
	if doc.Products == nil {
		return nil, nil, fmt.Errorf("%w: products", errMissingField)
	}
	if doc.Logs == nil {
		return nil, nil, fmt.Errorf("%w: logs", errMissingField)
	}

	prs := make([]productRecord, 0, len(*doc.Products))
	for i, p := range *doc.Products {
		if p.Product == nil || p.Category == nil {
			return nil, nil, fmt.Errorf("%w: products[%d] needs product and category", errMissingField, i)
		}
		prs = append(prs, productRecord{Product: *p.Product, Category: *p.Category})
	}

	lrs := make([]logRecord, 0, len(*doc.Logs))
	for i, l := range *doc.Logs {
		if l.Product == nil || l.Price == nil || l.Year == nil || l.Month == nil {
			return nil, nil, fmt.Errorf("%w: logs[%d] needs product, price, year and month", errMissingField, i)
		}
		lrs = append(lrs, logRecord{Product: *l.Product, Price: *l.Price, Year: *l.Year, Month: *l.Month})
	}

	return prs, lrs, nil
}

func encodeFinance(prs []productRecord, lrs []logRecord) ([]byte, error) {
	type product struct {
		Product  string `json:"product"`
		Category string `json:"category"`
	}
	type entry struct {
		Product string  `json:"product"`
		Price   float64 `json:"price"`
		Year    int     `json:"year"`
		Month   int     `json:"month"`
	}
	doc := struct {
		Products []product `json:"products"`
		Logs     []entry   `json:"logs"`
	}{
		Products: make([]product, 0, len(prs)),
		Logs:     make([]entry, 0, len(lrs)),
	}
	for _, p := range prs {
		doc.Products = append(doc.Products, product(p))
	}
	for _, l := range lrs {
		doc.Logs = append(doc.Logs, entry(l))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal finance: %w", err)
	}
	return append(data, '\n'), nil
}

func writeFileReplace(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
