package sheet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Table names as they appear in the workbook tabs.
const (
	TableItems     = "Itens em Estoque"
	TableInbound   = "Entrada de Material"
	TableOutbound  = "Saída de Material"
	TableRequests  = "Solicitação de Materiais"
	TablePurchases = "Lista de Compras"
	TableUsers     = "Usuários"
	TableEmployees = "Funcionários"
)

var (
	ErrTableNotFound  = errors.New("table not found")
	ErrColumnNotFound = errors.New("column not found")
	ErrRowOutOfRange  = errors.New("row out of range")
)

// Row is one line of a table. Cells hold string, float64, bool or nil.
type Row []any

// Store is a sheet-like tabular persistence: row 0 of every table is the header.
type Store interface {
	// ListRows returns every row of the table, header included at index 0.
	ListRows(ctx context.Context, table string) ([]Row, error)
	AppendRow(ctx context.Context, table string, row Row) error
	// UpdateCell sets one cell; column is matched by normalized header name.
	UpdateCell(ctx context.Context, table string, rowIndex int, column string, value any) error
	DeleteRows(ctx context.Context, table string, fromIndex, count int) error
	// EnsureTable creates the table with the given header when it is missing.
	EnsureTable(ctx context.Context, table string, header []string) (bool, error)
}

func tableNotFound(table string) error {
	return fmt.Errorf("%w: %s", ErrTableNotFound, table)
}

// Header is the normalized view of row 0.
type Header []string

func NewHeader(row Row) Header {
	h := make(Header, len(row))
	for i, v := range row {
		h[i] = Normalize(Text(v))
	}
	return h
}

// Index returns the position of a column by (any spelling of) its header, -1 if absent.
func (h Header) Index(column string) int {
	key := Normalize(column)
	for i, c := range h {
		if c == key {
			return i
		}
	}
	return -1
}

// Cell returns the value of the named column in r, nil when missing.
func (h Header) Cell(r Row, column string) any {
	i := h.Index(column)
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// Project turns data rows into dictionaries keyed by normalized header.
// Rows with an empty first column are blank lines and are skipped.
func Project(rows []Row) []map[string]any {
	out := []map[string]any{}
	if len(rows) == 0 {
		return out
	}
	h := NewHeader(rows[0])
	for _, r := range rows[1:] {
		if IsBlank(r) {
			continue
		}
		m := make(map[string]any, len(h))
		for i, key := range h {
			if i < len(r) {
				m[key] = r[i]
			} else {
				m[key] = ""
			}
		}
		out = append(out, m)
	}
	return out
}

// IsBlank reports whether the first column of r is empty.
func IsBlank(r Row) bool {
	return len(r) == 0 || Text(r[0]) == ""
}

// NextID builds PREFIX### from the current row count of a table (header included).
func NextID(prefix string, rowCount int) string {
	return fmt.Sprintf("%s%03d", prefix, rowCount)
}

// Text renders a cell as a string; whole floats lose their fraction.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// Number reads a cell as float64. Blank, non-numeric or non-finite values
// (NaN, ±Inf) count as 0.
func Number(v any) float64 {
	f := number(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// parseDecimal accepts "12.5", "12,5" and pt-BR "1.234,5".
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(s, 64)
}

func number(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		f, err := parseDecimal(t)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func cloneRow(r Row) Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

func headerRow(header []string) Row {
	r := make(Row, len(header))
	for i, h := range header {
		r[i] = h
	}
	return r
}
