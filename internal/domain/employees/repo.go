package employees

import (
	"context"
	"errors"
	"fmt"

	"github.com/Spok95/estoque/internal/sheet"
)

const (
	colBadge      = "Matrícula"
	colName       = "Nome Completo"
	colDepartment = "Setor"
)

type Repo struct{ store sheet.Store }

func NewRepo(store sheet.Store) *Repo { return &Repo{store: store} }

// Find returns the first employee whose badge equals the given one.
func (r *Repo) Find(ctx context.Context, badge Badge) (*Employee, error) {
	rows, err := r.store.ListRows(ctx, sheet.TableEmployees)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, badge)
	}
	h := sheet.NewHeader(rows[0])
	if h.Index(colBadge) < 0 || h.Index(colName) < 0 || h.Index(colDepartment) < 0 {
		return nil, fmt.Errorf("%w: %s", sheet.ErrColumnNotFound, sheet.TableEmployees)
	}
	for _, row := range rows[1:] {
		stored := ParseBadge(h.Cell(row, colBadge))
		if stored == "" || !stored.Equal(badge) {
			continue
		}
		return &Employee{
			Badge:      stored,
			Name:       sheet.Text(h.Cell(row, colName)),
			Department: sheet.Text(h.Cell(row, colDepartment)),
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, badge)
}

// List projects every employee row by normalized header.
func (r *Repo) List(ctx context.Context) ([]map[string]any, error) {
	rows, err := r.store.ListRows(ctx, sheet.TableEmployees)
	if err != nil {
		return nil, err
	}
	return sheet.Project(rows), nil
}

func (r *Repo) Add(ctx context.Context, e Employee) error {
	if e.Badge == "" {
		return ErrBadgeRequired
	}
	_, err := r.Find(ctx, e.Badge)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrDuplicateBadge, e.Badge)
	}
	if !isNotFound(err) {
		return err
	}
	return r.store.AppendRow(ctx, sheet.TableEmployees, sheet.Row{string(e.Badge), e.Name, e.Department})
}

// Resolve returns the name and department to record for a requester: the
// employees table wins over what the caller typed when the badge is known.
func (r *Repo) Resolve(ctx context.Context, badge Badge, name, department string) (string, string, error) {
	if badge == "" {
		return name, department, nil
	}
	e, err := r.Find(ctx, badge)
	if isNotFound(err) {
		return name, department, nil
	}
	if err != nil {
		return "", "", err
	}
	return e.Name, e.Department, nil
}

func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
