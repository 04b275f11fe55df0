package session

import (
	"fmt"
	"strings"

	"github.com/cbdpascher/storefront/internal/hash"
	"github.com/cbdpascher/storefront/internal/validation"
)

const (
	DemoUserEmail     = "user@exemple.com"
	DemoUserPassword  = "123456"
	DemoAdminEmail    = "admin@cbdpascher.com"
	DemoAdminPassword = "admin123"
)

type account struct {
	passwordHash string
	profile      Session
}

// Accounts authenticates visitors against a fixed set of demo accounts and
// knows which addresses are already registered.
type Accounts struct {
	byEmail    map[string]account
	registered map[string]struct{}
}

// NewDemoAccounts builds the two demo accounts. Only the regular user's
// address is reported as taken on sign-up.
func NewDemoAccounts() *Accounts {
	return &Accounts{
		byEmail: map[string]account{
			DemoUserEmail: {
				passwordHash: hash.MustHash(DemoUserPassword),
				profile: Session{
					Username:  "Utilisateur",
					Email:     DemoUserEmail,
					FirstName: "Utilisateur",
					LastName:  "Demo",
					Role:      RoleUser,
				},
			},
			DemoAdminEmail: {
				passwordHash: hash.MustHash(DemoAdminPassword),
				profile: Session{
					Username:  "Administrateur",
					Email:     DemoAdminEmail,
					FirstName: "Admin",
					LastName:  "CBD Pas Cher",
					Role:      RoleAdmin,
				},
			},
		},
		registered: map[string]struct{}{DemoUserEmail: {}},
	}
}

// Registered reports whether email belongs to an existing account.
func (a *Accounts) Registered(email string) bool {
	_, ok := a.registered[email]
	return ok
}

// ValidateSignIn checks the input shape and stops at the first problem.
func ValidateSignIn(email, password string) error {
	switch {
	case email == "":
		return validation.Single("email", "Please fill in all fields.")
	case password == "":
		return validation.Single("password", "Please fill in all fields.")
	case !validation.IsEmail(email):
		return validation.Single("email", "Please enter a valid email address.")
	case len(password) < 6:
		return validation.Single("password", "Password must be at least 6 characters.")
	}
	return nil
}

// SignIn only compares a well-formed pair against the accounts.
func (a *Accounts) SignIn(email, password string) (*Session, error) {
	if err := ValidateSignIn(email, password); err != nil {
		return nil, err
	}

	acc, ok := a.byEmail[email]
	if !ok || !hash.CheckPassword(acc.passwordHash, password) {
		return nil, ErrInvalidCredentials
	}

	s := acc.profile
	return &s, nil
}

// SignUpForm holds the raw sign-up fields.
type SignUpForm struct {
	FirstName       string `form:"first_name" json:"firstName"`
	LastName        string `form:"last_name" json:"lastName"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirmPassword"`
	AcceptTerms     bool   `form:"accept_terms" json:"acceptTerms"`
}

// ValidateSignUp collects every field error at once.
func ValidateSignUp(f SignUpForm) error {
	fv := validation.New()

	fv.Validate("first_name", f.FirstName,
		validation.Required("First name is required."),
		validation.MinRunes(2, "First name must be at least 2 characters."),
	)
	fv.Validate("last_name", f.LastName,
		validation.Required("Last name is required."),
		validation.MinRunes(2, "Last name must be at least 2 characters."),
	)
	fv.Validate("email", f.Email,
		validation.MinLen(1, "Email is required."),
		validation.Email("Please enter a valid email address."),
	)
	fv.Validate("password", f.Password,
		validation.MinLen(1, "Password is required."),
		validation.MinLen(8, "Password must be at least 8 characters."),
		validation.Check(PasswordStrength(f.Password) >= 3, "Password is not strong enough."),
	)
	fv.Validate("confirm_password", f.ConfirmPassword,
		validation.MinLen(1, "Please confirm your password."),
		validation.Check(f.ConfirmPassword == f.Password, "Passwords do not match."),
	)
	fv.Validate("accept_terms", "", validation.Check(f.AcceptTerms, "You must accept the terms of use."))

	return fv.Err()
}

// SignUp validates the form and opens a user session for the new account.
func (a *Accounts) SignUp(f SignUpForm) (*Session, error) {
	if err := ValidateSignUp(f); err != nil {
		return nil, err
	}

	if a.Registered(f.Email) {
		return nil, fmt.Errorf("%w: %w", ErrEmailTaken,
			validation.Single("email", "This email address is already in use."))
	}

	first := strings.TrimSpace(f.FirstName)
	last := strings.TrimSpace(f.LastName)
	return &Session{
		Username:  first + " " + last,
		Email:     f.Email,
		FirstName: first,
		LastName:  last,
		Role:      RoleUser,
	}, nil
}
