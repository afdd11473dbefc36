package client

import "github.com/Spok95/estoque/internal/domain/users"

// Session is the logged-in user of one client. The zero value is logged out.
type Session struct {
	User *users.User
}

func (s *Session) LoggedIn() bool { return s != nil && s.User != nil }

func (s *Session) IsStock() bool { return s.LoggedIn() && s.User.IsStock() }

func (s *Session) Username() string {
	if !s.LoggedIn() {
		return ""
	}
	return s.User.Username
}
