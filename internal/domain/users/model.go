package users

import "errors"

type Role string

const (
	RoleStock      Role = "Estoque"
	RoleDepartment Role = "Setor"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// User is what a successful login returns; the password never leaves the repo.
type User struct {
	Username   string `json:"username"`
	Role       Role   `json:"perfil"`
	Department string `json:"setor"`
}

func (u User) IsStock() bool { return u.Role == RoleStock }
