package sheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Workbook stores every table as a worksheet of one .xlsx file.
// The mutex only guards the file handle; sequences of calls are not atomic.
type Workbook struct {
	mu    sync.Mutex
	path  string
	f     *excelize.File
	fresh bool
}

// OpenWorkbook opens path, creating an empty workbook when the file does not exist yet.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err == nil {
		return &Workbook{path: path, f: f}, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create workbook dir: %w", err)
		}
	}
	return &Workbook{path: path, f: excelize.NewFile(), fresh: true}, nil
}

func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}

func (w *Workbook) exists(table string) bool {
	idx, err := w.f.GetSheetIndex(table)
	return err == nil && idx >= 0
}

// rows reads a worksheet keeping numeric cells as float64 and text as string.
func (w *Workbook) rows(table string) ([]Row, error) {
	if !w.exists(table) {
		return nil, tableNotFound(table)
	}
	raw, err := w.f.GetRows(table, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	out := make([]Row, len(raw))
	for i, cols := range raw {
		r := make(Row, len(cols))
		for j, s := range cols {
			r[j] = w.cellValue(table, i, j, s)
		}
		out[i] = r
	}
	return out, nil
}

func (w *Workbook) cellValue(table string, row, col int, s string) any {
	if s == "" {
		return ""
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return s
	}
	typ, err := w.f.GetCellType(table, cell)
	if err != nil {
		return s
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case excelize.CellTypeBool:
		return s == "1" || s == "TRUE" || s == "true"
	}
	return s
}

func (w *Workbook) save() error {
	if err := w.f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (w *Workbook) ListRows(_ context.Context, table string) ([]Row, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows(table)
}

func (w *Workbook) AppendRow(_ context.Context, table string, row Row) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, err := w.rows(table)
	if err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	values := []any(row)
	if err := w.f.SetSheetRow(table, cell, &values); err != nil {
		return fmt.Errorf("append %s: %w", table, err)
	}
	return w.save()
}

func (w *Workbook) UpdateCell(_ context.Context, table string, rowIndex int, column string, value any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, err := w.rows(table)
	if err != nil {
		return err
	}
	if rowIndex < 1 || rowIndex >= len(rows) {
		return fmt.Errorf("%w: %s[%d]", ErrRowOutOfRange, table, rowIndex)
	}
	col := NewHeader(rows[0]).Index(column)
	if col < 0 {
		return fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table, column)
	}
	cell, err := excelize.CoordinatesToCellName(col+1, rowIndex+1)
	if err != nil {
		return err
	}
	if err := w.f.SetCellValue(table, cell, value); err != nil {
		return fmt.Errorf("update %s!%s: %w", table, cell, err)
	}
	return w.save()
}

func (w *Workbook) DeleteRows(_ context.Context, table string, fromIndex, count int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, err := w.rows(table)
	if err != nil {
		return err
	}
	if count <= 0 {
		return nil
	}
	if fromIndex < 1 || fromIndex+count > len(rows) {
		return fmt.Errorf("%w: %s[%d:+%d]", ErrRowOutOfRange, table, fromIndex, count)
	}
	// RemoveRow shifts the rows below up, so the same position is removed count times.
	for i := 0; i < count; i++ {
		if err := w.f.RemoveRow(table, fromIndex+1); err != nil {
			return fmt.Errorf("delete %s row %d: %w", table, fromIndex+1, err)
		}
	}
	return w.save()
}

func (w *Workbook) EnsureTable(_ context.Context, table string, header []string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.exists(table) {
		return false, nil
	}
	if _, err := w.f.NewSheet(table); err != nil {
		return false, fmt.Errorf("create sheet %s: %w", table, err)
	}
	values := []any(headerRow(header))
	if err := w.f.SetSheetRow(table, "A1", &values); err != nil {
		return false, fmt.Errorf("write header %s: %w", table, err)
	}
	if w.fresh {
		// drop the placeholder sheet of a brand new file
		if err := w.f.DeleteSheet(defaultSheet); err != nil {
			return false, fmt.Errorf("drop %s: %w", defaultSheet, err)
		}
		w.fresh = false
	}
	return true, w.save()
}
