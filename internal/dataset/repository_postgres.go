package dataset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Schema creates the datasets table. Cells are stored as a JSON array of
// string arrays; items as a text array in column order.
const Schema = `CREATE TABLE IF NOT EXISTS datasets (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	items TEXT[] NOT NULL,
	cells JSONB NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL,
	accessed_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// SchemaAccessedAt adds the access column to tables created before datasets
// expired.
const SchemaAccessedAt = `ALTER TABLE datasets ADD COLUMN IF NOT EXISTS accessed_at TIMESTAMPTZ NOT NULL DEFAULT now()`

type PostgresRepository struct {
	db *sql.DB
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, d *Dataset) error {
	rowsJSON, err := json.Marshal(d.Rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO datasets (id, name, items, cells, created_at, accessed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.Name, pq.Array(d.Items), rowsJSON, d.CreatedAt, d.AccessedAt)
	if err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Dataset, error) {
	var d Dataset
	var rowsJSON []byte
	err := r.db.QueryRowContext(ctx, `SELECT id, name, items, cells, created_at, accessed_at FROM datasets WHERE id = $1`, id).
		Scan(&d.ID, &d.Name, pq.Array(&d.Items), &rowsJSON, &d.CreatedAt, &d.AccessedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select dataset: %w", err)
	}

	if err := json.Unmarshal(rowsJSON, &d.Rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return &d, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Touch(ctx context.Context, id string, t time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE datasets SET accessed_at = $2 WHERE id = $1`, id, t)
	if err != nil {
		return fmt.Errorf("touch dataset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteIdleSince(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE accessed_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge datasets: %w", err)
	}
	return res.RowsAffected()
}
