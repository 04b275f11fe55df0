package session

import "errors"

var (
	// ErrInvalidCredentials is returned when a well-formed email/password pair
	// matches no known account.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrEmailTaken is returned by SignUp for an address that is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// Role identifies the privileges attached to a session.
type Role string

const (
	// RoleUser is a regular shopper.
	RoleUser Role = "user"
	// RoleAdmin may manage the catalog.
	RoleAdmin Role = "admin"
)

// Session is the authenticated visitor. A nil *Session means nobody is signed in.
type Session struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      Role   `json:"role"`
}

// IsAdmin is safe on a nil session, which is never an admin.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

func (s *Session) Authenticated() bool {
	return s != nil
}

// LogOut always yields the empty session.
func LogOut() *Session {
	return nil
}
