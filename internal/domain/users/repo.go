package users

import (
	"context"

	"github.com/Spok95/estoque/internal/sheet"
)

type Repo struct{ store sheet.Store }

func NewRepo(store sheet.Store) *Repo { return &Repo{store: store} }

// Authenticate scans the users table for an exact match on both username and password.
func (r *Repo) Authenticate(ctx context.Context, username, password string) (*User, error) {
	rows, err := r.store.ListRows(ctx, sheet.TableUsers)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrInvalidCredentials
	}
	h := sheet.NewHeader(rows[0])
	for _, row := range rows[1:] {
		if sheet.IsBlank(row) {
			continue
		}
		if sheet.Text(h.Cell(row, "Username")) != username || sheet.Text(h.Cell(row, "Password")) != password {
			continue
		}
		return &User{
			Username:   username,
			Role:       Role(sheet.Text(h.Cell(row, "Perfil"))),
			Department: sheet.Text(h.Cell(row, "Setor")),
		}, nil
	}
	return nil, ErrInvalidCredentials
}
