package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"budget/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps one snapshot in a SQLite database. Save replaces
// the stored rows; log order is kept in the seq column.
type SQLiteRepository struct {
	db   *sql.DB
	path string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dbPath == "" {
		return nil, newError(ErrConfiguration, "open", "", errors.New("sqlite database path is not set"))
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, newError(ErrFileWrite, "open", dbPath, fmt.Errorf("create db directory: %w", err))
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, newError(ErrFileRead, "open", dbPath, fmt.Errorf("open sqlite database: %w", err))
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, newError(ErrFileRead, "open", dbPath, fmt.Errorf("ping database: %w", err))
	}

	if _, err := migrateUp(context.Background(), dbPath); err != nil {
		db.Close()
		return nil, newError(ErrFileWrite, "open", dbPath, fmt.Errorf("run migrations: %w", err))
	}

	return &SQLiteRepository{db: db, path: dbPath}, nil
}

// OpenExistingSQLiteRepository opens a database that must already exist. A
// missing file is reported as ErrFileRead instead of being created empty.
func OpenExistingSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dbPath == "" {
		return nil, newError(ErrConfiguration, "open", "", errors.New("sqlite database path is not set"))
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return nil, newError(ErrFileRead, "open", dbPath, err)
	}
	if info.IsDir() {
		return nil, newError(ErrFileRead, "open", dbPath, errors.New("path is a directory"))
	}
	return NewSQLiteRepository(dbPath)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Path() string {
	return r.path
}

// Load implements FinanceRepository.
func (r *SQLiteRepository) Load(ctx context.Context) (core.Finance, error) {
	prs, err := r.products(ctx)
	if err != nil {
		return core.Finance{}, newError(ErrFileRead, opLoad, r.path, err)
	}

	lrs, err := r.logs(ctx)
	if err != nil {
		return core.Finance{}, newError(ErrFileRead, opLoad, r.path, err)
	}

	f, err := fromRecords(prs, lrs)
	if err != nil {
		return core.Finance{}, newError(ErrValidation, opLoad, r.path, err)
	}

	logger().DebugContext(ctx, "Finance loaded from SQLite",
		"path", r.path,
		"products", len(prs),
		"logs", len(lrs))

	return f, nil
}

func (r *SQLiteRepository) products(ctx context.Context) ([]productRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT product, category FROM products ORDER BY product`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var out []productRecord
	for rows.Next() {
		var p productRecord
		if err := rows.Scan(&p.Product, &p.Category); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) logs(ctx context.Context) ([]logRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT product, price, year, month FROM logs ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	var out []logRecord
	for rows.Next() {
		var l logRecord
		if err := rows.Scan(&l.Product, &l.Price, &l.Year, &l.Month); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return out, nil
}

// Save implements FinanceRepository. The previous snapshot is replaced in a
// single transaction.
func (r *SQLiteRepository) Save(ctx context.Context, f core.Finance) error {
	if err := r.replace(ctx, f); err != nil {
		return newError(ErrFileWrite, opSave, r.path, err)
	}

	logger().DebugContext(ctx, "Finance saved to SQLite",
		"path", r.path,
		"logs", f.Len())

	return nil
}

func (r *SQLiteRepository) replace(ctx context.Context, f core.Finance) error {
	prs, lrs := toRecords(f)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM logs`); err != nil {
		return fmt.Errorf("clear logs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}

	productStmt, err := tx.PrepareContext(ctx, `INSERT INTO products (product, category) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare product insert: %w", err)
	}
	defer productStmt.Close()

	for _, p := range prs {
		if _, err := productStmt.ExecContext(ctx, p.Product, p.Category); err != nil {
			return fmt.Errorf("insert product %s: %w", p.Product, err)
		}
	}

	logStmt, err := tx.PrepareContext(ctx, `INSERT INTO logs (seq, product, price, year, month) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare log insert: %w", err)
	}
	defer logStmt.Close()

	for i, l := range lrs {
		if _, err := logStmt.ExecContext(ctx, i, l.Product, l.Price, l.Year, l.Month); err != nil {
			return fmt.Errorf("insert log %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
