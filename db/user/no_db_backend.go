package user

import (
	"context"
	"errors"
)

// NoDatabaseBackend is used when the server runs without a database.
// Any user can log in, but accounts cannot be changed and points are not kept.
type NoDatabaseBackend struct{}

var errNoDatabase = errors.New("no database")

// Create returns an error.
func (NoDatabaseBackend) Create(ctx context.Context, u User) error {
	return errNoDatabase
}

// Read returns the user.
func (NoDatabaseBackend) Read(ctx context.Context, u User) (*User, error) {
	return &u, nil
}

// UpdatePassword returns an error.
func (NoDatabaseBackend) UpdatePassword(ctx context.Context, u User) error {
	return errNoDatabase
}

// UpdatePointsIncrement does nothing.
func (NoDatabaseBackend) UpdatePointsIncrement(ctx context.Context, usernamePoints map[string]int) error {
	return nil
}

// Delete returns an error.
func (NoDatabaseBackend) Delete(ctx context.Context, u User) error {
	return errNoDatabase
}
