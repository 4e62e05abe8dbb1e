// Package bcrypt hashes stored passwords.
package bcrypt

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHandler hashes passwords and checks them against hashes.
type PasswordHandler struct {
	cost int
}

// NewPasswordHandler creates a password handler that hashes with the cost.
// Costs outside the range bcrypt allows are replaced by the default cost.
func NewPasswordHandler(cost int) PasswordHandler {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return PasswordHandler{
		cost: cost,
	}
}

// Hash computes the password hash.
func (ph PasswordHandler) Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), ph.cost)
}

// IsCorrect determines if the hashed password matches the password.
func (PasswordHandler) IsCorrect(hashedPassword []byte, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hashedPassword, []byte(password))
	switch {
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}
