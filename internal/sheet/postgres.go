package sheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps tables as JSON rows (sheet_rows) indexed by position, row 0 = header.
// Schema lives in migrations/.
type Postgres struct{ pool *pgxpool.Pool }

func NewPostgres(pool *pgxpool.Pool) *Postgres { return &Postgres{pool: pool} }

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func sheetExists(ctx context.Context, q querier, table string) error {
	var ok bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sheets WHERE name = $1)`, table).Scan(&ok); err != nil {
		return err
	}
	if !ok {
		return tableNotFound(table)
	}
	return nil
}

func decodeRow(raw []byte) (Row, error) {
	var r Row
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	return r, nil
}

func encodeRow(r Row) (string, error) {
	if r == nil {
		r = Row{}
	}
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode row: %w", err)
	}
	return string(b), nil
}

func (p *Postgres) ListRows(ctx context.Context, table string) ([]Row, error) {
	if err := sheetExists(ctx, p.pool, table); err != nil {
		return nil, err
	}
	rows, err := p.pool.Query(ctx, `
		SELECT cells
		FROM sheet_rows
		WHERE sheet = $1
		ORDER BY idx
	`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		r, err := decodeRow(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *Postgres) AppendRow(ctx context.Context, table string, row Row) error {
	if err := sheetExists(ctx, p.pool, table); err != nil {
		return err
	}
	cells, err := encodeRow(row)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO sheet_rows (sheet, idx, cells)
		SELECT $1, COALESCE(MAX(idx) + 1, 0), $2::jsonb
		FROM sheet_rows
		WHERE sheet = $1
	`, table, cells)
	return err
}

func (p *Postgres) UpdateCell(ctx context.Context, table string, rowIndex int, column string, value any) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := sheetExists(ctx, tx, table); err != nil {
		return err
	}
	if rowIndex < 1 {
		return fmt.Errorf("%w: %s[%d]", ErrRowOutOfRange, table, rowIndex)
	}

	var rawHeader []byte
	if err := tx.QueryRow(ctx, `SELECT cells FROM sheet_rows WHERE sheet = $1 AND idx = 0`, table).Scan(&rawHeader); err != nil {
		return fmt.Errorf("read header %s: %w", table, err)
	}
	header, err := decodeRow(rawHeader)
	if err != nil {
		return err
	}
	col := NewHeader(header).Index(column)
	if col < 0 {
		return fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table, column)
	}

	var raw []byte
	err = tx.QueryRow(ctx, `
		SELECT cells FROM sheet_rows WHERE sheet = $1 AND idx = $2 FOR UPDATE
	`, table, rowIndex).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s[%d]", ErrRowOutOfRange, table, rowIndex)
	}
	if err != nil {
		return err
	}
	r, err := decodeRow(raw)
	if err != nil {
		return err
	}
	for len(r) <= col {
		r = append(r, nil)
	}
	r[col] = value

	cells, err := encodeRow(r)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE sheet_rows SET cells = $3::jsonb WHERE sheet = $1 AND idx = $2
	`, table, rowIndex, cells); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (p *Postgres) DeleteRows(ctx context.Context, table string, fromIndex, count int) error {
	if count <= 0 {
		return nil
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := sheetExists(ctx, tx, table); err != nil {
		return err
	}
	var total int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM sheet_rows WHERE sheet = $1`, table).Scan(&total); err != nil {
		return err
	}
	if fromIndex < 1 || fromIndex+count > total {
		return fmt.Errorf("%w: %s[%d:+%d]", ErrRowOutOfRange, table, fromIndex, count)
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM sheet_rows WHERE sheet = $1 AND idx >= $2 AND idx < $3
	`, table, fromIndex, fromIndex+count); err != nil {
		return err
	}
	// primary key is deferred, so shifting the tail cannot collide mid-statement
	if _, err := tx.Exec(ctx, `
		UPDATE sheet_rows SET idx = idx - $3 WHERE sheet = $1 AND idx >= $2
	`, table, fromIndex+count, count); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (p *Postgres) EnsureTable(ctx context.Context, table string, header []string) (bool, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `INSERT INTO sheets (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, table)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	cells, err := encodeRow(headerRow(header))
	if err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO sheet_rows (sheet, idx, cells) VALUES ($1, 0, $2::jsonb)
	`, table, cells); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}
