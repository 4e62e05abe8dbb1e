package user

import (
	"context"
	"errors"
	"fmt"
)

type (
	// Dao contains CRUD operations for user-related information.
	Dao struct {
		backend Backend
		ph      PasswordHandler
	}

	// Backend stores users.  Passwords it receives are already hashed.
	Backend interface {
		// Create adds the user.
		Create(ctx context.Context, u User) error
		// Read gets the stored user with the username.  ErrIncorrectLogin is returned if there is no such user.
		Read(ctx context.Context, u User) (*User, error)
		// UpdatePassword replaces the password of the user.
		UpdatePassword(ctx context.Context, u User) error
		// UpdatePointsIncrement adds points to the users.
		UpdatePointsIncrement(ctx context.Context, usernamePoints map[string]int) error
		// Delete removes the user.
		Delete(ctx context.Context, u User) error
	}

	// PasswordHandler hashes passwords and checks them against hashes.
	PasswordHandler interface {
		// Hash computes the password hash.
		Hash(password string) ([]byte, error)
		// IsCorrect determines if the hashed password matches the password.
		IsCorrect(hashedPassword []byte, password string) (bool, error)
	}
)

// NewDao creates a Dao that stores users in the backend.
func NewDao(b Backend, ph PasswordHandler) (*Dao, error) {
	switch {
	case b == nil:
		return nil, fmt.Errorf("creating user dao: validation: backend required")
	case ph == nil:
		return nil, fmt.Errorf("creating user dao: validation: password handler required")
	}
	d := Dao{
		backend: b,
		ph:      ph,
	}
	return &d, nil
}

// Create adds a user.
func (d Dao) Create(ctx context.Context, u User) error {
	hashedPassword, err := d.ph.Hash(u.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	u.Password = string(hashedPassword)
	return d.backend.Create(ctx, u)
}

// Read gets the user's points after checking the password.
// The password of the returned user is empty.
func (d Dao) Read(ctx context.Context, u User) (*User, error) {
	if _, ok := d.backend.(NoDatabaseBackend); ok {
		u2 := User{
			Username: u.Username,
		}
		return &u2, nil
	}
	u2, err := d.backend.Read(ctx, u)
	if err != nil {
		if errors.Is(err, ErrIncorrectLogin) {
			return nil, ErrIncorrectLogin
		}
		return nil, err
	}
	isCorrect, err := d.ph.IsCorrect([]byte(u2.Password), u.Password)
	switch {
	case err != nil:
		return nil, fmt.Errorf("checking password: %w", err)
	case !isCorrect:
		return nil, ErrIncorrectLogin
	}
	u2.Password = ""
	return u2, nil
}

// UpdatePassword sets the password of a user after checking the old password.
func (d Dao) UpdatePassword(ctx context.Context, u User, newP string) error {
	if _, err := d.Read(ctx, u); err != nil {
		return fmt.Errorf("checking password: %w", err)
	}
	if err := validatePassword(newP); err != nil {
		return err
	}
	hashedPassword, err := d.ph.Hash(newP)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	u.Password = string(hashedPassword)
	return d.backend.UpdatePassword(ctx, u)
}

// UpdatePointsIncrement increments the points for multiple users by the amount defined in the map.
func (d Dao) UpdatePointsIncrement(ctx context.Context, userPoints map[string]int) error {
	if len(userPoints) == 0 {
		return nil
	}
	return d.backend.UpdatePointsIncrement(ctx, userPoints)
}

// Delete removes a user after checking the password.
func (d Dao) Delete(ctx context.Context, u User) error {
	if _, err := d.Read(ctx, u); err != nil {
		return fmt.Errorf("checking password: %w", err)
	}
	return d.backend.Delete(ctx, u)
}
