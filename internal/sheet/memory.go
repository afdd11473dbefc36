package sheet

import (
	"context"
	"fmt"
	"sync"
)

// Memory keeps tables in process memory.
type Memory struct {
	mu     sync.Mutex
	tables map[string][]Row
}

func NewMemory() *Memory { return &Memory{tables: map[string][]Row{}} }

func (m *Memory) ListRows(_ context.Context, table string) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return nil, tableNotFound(table)
	}
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = cloneRow(r)
	}
	return out, nil
}

func (m *Memory) AppendRow(_ context.Context, table string, row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return tableNotFound(table)
	}
	m.tables[table] = append(rows, cloneRow(row))
	return nil
}

func (m *Memory) UpdateCell(_ context.Context, table string, rowIndex int, column string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return tableNotFound(table)
	}
	if rowIndex < 1 || rowIndex >= len(rows) {
		return fmt.Errorf("%w: %s[%d]", ErrRowOutOfRange, table, rowIndex)
	}
	col := NewHeader(rows[0]).Index(column)
	if col < 0 {
		return fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table, column)
	}
	r := rows[rowIndex]
	for len(r) <= col {
		r = append(r, nil)
	}
	r[col] = value
	rows[rowIndex] = r
	return nil
}

func (m *Memory) DeleteRows(_ context.Context, table string, fromIndex, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return tableNotFound(table)
	}
	if count <= 0 {
		return nil
	}
	if fromIndex < 1 || fromIndex+count > len(rows) {
		return fmt.Errorf("%w: %s[%d:+%d]", ErrRowOutOfRange, table, fromIndex, count)
	}
	m.tables[table] = append(rows[:fromIndex], rows[fromIndex+count:]...)
	return nil
}

func (m *Memory) EnsureTable(_ context.Context, table string, header []string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table]; ok {
		return false, nil
	}
	m.tables[table] = []Row{headerRow(header)}
	return true, nil
}
