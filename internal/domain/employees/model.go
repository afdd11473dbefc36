package employees

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Spok95/estoque/internal/sheet"
)

var (
	ErrNotFound       = errors.New("employee not found")
	ErrDuplicateBadge = errors.New("badge already exists")
	ErrBadgeRequired  = errors.New("badge is required")
)

// Badge is the employee registration number ("matrícula").
type Badge string

// ParseBadge normalizes a badge coming from JSON or from a sheet cell:
// surrounding spaces are dropped and numbers are rendered without a fraction.
func ParseBadge(v any) Badge {
	return Badge(strings.TrimSpace(sheet.Text(v)))
}

func (b Badge) String() string { return string(b) }

// Equal compares badges by text, or by integer value when both are digit strings,
// so "002" matches a badge the spreadsheet stored as the number 2.
func (b Badge) Equal(o Badge) bool {
	if b == o {
		return true
	}
	x, okX := digits(string(b))
	y, okY := digits(string(o))
	return okX && okY && x == y
}

func digits(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

type Employee struct {
	Badge      Badge  `json:"matricula"`
	Name       string `json:"nome"`
	Department string `json:"setor"`
}
