// Package postgres stores users in a Postgres database through stored functions.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/jacobpatterson1549/picture-puzzle/db/sql"
	"github.com/jacobpatterson1549/picture-puzzle/db/user"
)

type (
	// UserBackend manages users in the database.
	UserBackend struct {
		db Database
	}

	// Database runs queries.
	Database interface {
		// Setup runs the files as raw queries.
		Setup(ctx context.Context, files []io.Reader) error
		// Query reads a single row without changing data.
		Query(ctx context.Context, q sql.Query, dest ...any) error
		// Exec changes data in a single transaction.
		Exec(ctx context.Context, queries ...sql.Query) error
	}
)

// NewUserBackend creates a backend over the database.
func NewUserBackend(d Database) (*UserBackend, error) {
	if d == nil {
		return nil, fmt.Errorf("creating postgres user backend: validation: database required")
	}
	ub := UserBackend{
		db: d,
	}
	return &ub, nil
}

// Setup creates the users table and its functions from the files.
func (ub UserBackend) Setup(ctx context.Context, files []io.Reader) error {
	if err := ub.db.Setup(ctx, files); err != nil {
		return fmt.Errorf("setting up users: %w", err)
	}
	return nil
}

// Create adds the user.
func (ub UserBackend) Create(ctx context.Context, u user.User) error {
	q := sql.NewExecFunction("user_create", u.Username, u.Password)
	if err := ub.db.Exec(ctx, q); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// Read gets the user with the same username.
func (ub UserBackend) Read(ctx context.Context, u user.User) (*user.User, error) {
	cols := []string{
		"username",
		"password",
		"points",
	}
	q := sql.NewQueryFunction("user_read", cols, u.Username)
	var u2 user.User
	if err := ub.db.Query(ctx, q, &u2.Username, &u2.Password, &u2.Points); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrIncorrectLogin
		}
		return nil, fmt.Errorf("reading user: %w", err)
	}
	return &u2, nil
}

// UpdatePassword sets the hashed password of the user.
func (ub UserBackend) UpdatePassword(ctx context.Context, u user.User) error {
	q := sql.NewExecFunction("user_update_password", u.Username, u.Password)
	if err := ub.db.Exec(ctx, q); err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// UpdatePointsIncrement adds the points of each user in one transaction.
// The users are updated in name order so concurrent updates lock rows consistently.
func (ub UserBackend) UpdatePointsIncrement(ctx context.Context, usernamePoints map[string]int) error {
	usernames := make([]string, 0, len(usernamePoints))
	for username := range usernamePoints {
		usernames = append(usernames, username)
	}
	slices.Sort(usernames)
	queries := make([]sql.Query, len(usernames))
	for i, username := range usernames {
		queries[i] = sql.NewExecFunction("user_update_points_increment", username, usernamePoints[username])
	}
	if err := ub.db.Exec(ctx, queries...); err != nil {
		return fmt.Errorf("incrementing user points: %w", err)
	}
	return nil
}

// Delete removes the user.
func (ub UserBackend) Delete(ctx context.Context, u user.User) error {
	q := sql.NewExecFunction("user_delete", u.Username)
	if err := ub.db.Exec(ctx, q); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}
