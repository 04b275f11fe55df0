package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbdpascher/storefront/internal/validation"
)

var demo = NewDemoAccounts()

func TestSignIn_DemoAccounts(t *testing.T) {
	t.Parallel()

	s, err := demo.SignIn(DemoUserEmail, DemoUserPassword)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, s.Role)
	assert.Equal(t, DemoUserEmail, s.Email)
	assert.False(t, s.IsAdmin())

	a, err := demo.SignIn(DemoAdminEmail, DemoAdminPassword)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, a.Role)
	assert.True(t, a.IsAdmin())
}

func TestSignIn_ReturnsIndependentSessions(t *testing.T) {
	t.Parallel()

	s1, err := demo.SignIn(DemoUserEmail, DemoUserPassword)
	require.NoError(t, err)
	s1.Role = RoleAdmin

	s2, err := demo.SignIn(DemoUserEmail, DemoUserPassword)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, s2.Role)
}

func TestSignIn_WrongPairs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, email, password string
	}{
		{"unknown email", "someone@exemple.com", "123456"},
		{"user with admin password", DemoUserEmail, DemoAdminPassword},
		{"admin with user password", DemoAdminEmail, DemoUserPassword},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := demo.SignIn(tt.email, tt.password)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestSignIn_ValidationRunsBeforeCredentialCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, email, password, field string
	}{
		{"empty email", "", "123456", "email"},
		{"empty password", DemoUserEmail, "", "password"},
		{"malformed email", "user.exemple.com", "123456", "email"},
		{"short password", DemoUserEmail, "12345", "password"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := demo.SignIn(tt.email, tt.password)
			assert.Nil(t, s)
			assert.NotErrorIs(t, err, ErrInvalidCredentials)

			fe, ok := validation.AsErrors(err)
			require.True(t, ok)
			assert.Len(t, fe, 1)
			assert.True(t, fe.Has(tt.field))
		})
	}
}

func validSignUp() SignUpForm {
	return SignUpForm{
		FirstName:       "Camille",
		LastName:        "Martin",
		Email:           "camille@exemple.com",
		Password:        "Chanvre2025",
		ConfirmPassword: "Chanvre2025",
		AcceptTerms:     true,
	}
}

func TestSignUp_Success(t *testing.T) {
	t.Parallel()

	s, err := demo.SignUp(validSignUp())
	require.NoError(t, err)
	assert.Equal(t, "Camille Martin", s.Username)
	assert.Equal(t, RoleUser, s.Role)
	assert.Equal(t, "camille@exemple.com", s.Email)
}

func TestSignUp_WeakPasswordAlwaysFails(t *testing.T) {
	t.Parallel()

	f := validSignUp()
	f.Password = "abc"
	f.ConfirmPassword = "abc"

	s, err := demo.SignUp(f)
	assert.Nil(t, s)
	fe, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.True(t, fe.Has("password"))
	assert.Len(t, fe, 1)
}

func TestSignUp_LongButWeakPassword(t *testing.T) {
	t.Parallel()

	f := validSignUp()
	f.Password = "abcdefgh"
	f.ConfirmPassword = "abcdefgh"

	_, err := demo.SignUp(f)
	fe, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Password is not strong enough.", fe["password"])
}

func TestSignUp_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	f := SignUpForm{
		FirstName:       " A ",
		LastName:        "",
		Email:           "nope",
		Password:        "short",
		ConfirmPassword: "different",
	}

	_, err := demo.SignUp(f)
	fe, ok := validation.AsErrors(err)
	require.True(t, ok)
	for _, field := range []string{"first_name", "last_name", "email", "password", "confirm_password", "accept_terms"} {
		assert.True(t, fe.Has(field), "missing error for %s", field)
	}
}

func TestSignUp_TakenEmail(t *testing.T) {
	t.Parallel()

	f := validSignUp()
	f.Email = DemoUserEmail

	s, err := demo.SignUp(f)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrEmailTaken)

	fe, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Len(t, fe, 1)
	assert.True(t, fe.Has("email"))
}

func TestSignUp_TakenEmailReportedOnlyForValidForm(t *testing.T) {
	t.Parallel()

	f := validSignUp()
	f.Email = DemoUserEmail
	f.AcceptTerms = false

	_, err := demo.SignUp(f)
	assert.NotErrorIs(t, err, ErrEmailTaken)
	fe, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.True(t, fe.Has("accept_terms"))
	assert.False(t, fe.Has("email"))
}

func TestNilSessionIsNeverAdmin(t *testing.T) {
	t.Parallel()

	var s *Session
	assert.False(t, s.IsAdmin())
	assert.False(t, s.Authenticated())
	assert.Nil(t, LogOut())
}

func TestPasswordStrength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pw   string
		want int
	}{
		{"", 0},
		{"abc", 1},
		{"abcdefgh", 2},
		{"Abcdefgh", 3},
		{"Abcdefg1", 4},
		{"Abcdef1!", 5},
		{"ABC123", 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PasswordStrength(tt.pw), tt.pw)
	}
}

func TestStrengthLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Very weak", StrengthLabel(0))
	assert.Equal(t, "Medium", StrengthLabel(3))
	assert.Equal(t, "Very strong", StrengthLabel(5))
	assert.Equal(t, "", StrengthLabel(9))
}
