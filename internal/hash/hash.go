// Package hash wraps bcrypt for the account passwords kept in memory.
package hash

import "golang.org/x/crypto/bcrypt"

// Cost is the bcrypt work factor used for every stored password.
var Cost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MustHash is for fixed passwords known at startup, such as the demo accounts.
func MustHash(password string) string {
	h, err := HashPassword(password)
	if err != nil {
		panic("hash: " + err.Error())
	}
	return h
}

// CheckPassword reports whether password matches the stored hash. A
// malformed hash never matches.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
