// Package firestore stores users in a google cloud firestore database.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/jacobpatterson1549/picture-puzzle/db"
	"github.com/jacobpatterson1549/picture-puzzle/db/user"
)

const (
	passwordField = "password"
	pointsField   = "points"
)

// UserBackend manages user documents.  Each document is keyed by the username.
type UserBackend struct {
	client *firestore.Client
	cfg    db.Config
}

// NewUserBackend creates a client for the project.
func NewUserBackend(ctx context.Context, cfg db.Config, projectID string) (*UserBackend, error) {
	if err := validate(cfg, projectID); err != nil {
		return nil, fmt.Errorf("creating firestore user backend: validation: %w", err)
	}
	client, err := firestore.NewClient(ctx, projectID) // the client outlives ctx, so it is not given a timeout
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	ub := UserBackend{
		client: client,
		cfg:    cfg,
	}
	return &ub, nil
}

func validate(cfg db.Config, projectID string) error {
	if len(projectID) == 0 {
		return fmt.Errorf("project id required")
	}
	return cfg.Validate()
}

func (ub UserBackend) users() *firestore.CollectionRef {
	return ub.client.Collection("services").Doc("picture-puzzle").Collection("users")
}

// withTimeout runs the function with a context that expires after the query period.
func (ub UserBackend) withTimeout(ctx context.Context, f func(ctx context.Context) error) error {
	ctx, cancelFunc := context.WithTimeout(ctx, ub.cfg.QueryPeriod)
	defer cancelFunc()
	return f(ctx)
}

// Create adds the user with no points.  It fails if the user already exists.
func (ub UserBackend) Create(ctx context.Context, u user.User) error {
	if err := ub.withTimeout(ctx, func(ctx context.Context) error {
		m := map[string]any{
			passwordField: u.Password,
			pointsField:   0,
		}
		_, err := ub.users().Doc(u.Username).Create(ctx, m)
		return err
	}); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// Read gets the user with the same username.
func (ub UserBackend) Read(ctx context.Context, u user.User) (*user.User, error) {
	u2 := user.User{
		Username: u.Username,
	}
	if err := ub.withTimeout(ctx, func(ctx context.Context) error {
		snapshot, err := ub.users().Doc(u.Username).Get(ctx)
		if err != nil {
			if snapshot != nil && !snapshot.Exists() {
				return user.ErrIncorrectLogin
			}
			return err
		}
		return snapshot.DataTo(&u2)
	}); err != nil {
		if errors.Is(err, user.ErrIncorrectLogin) {
			return nil, err
		}
		return nil, fmt.Errorf("reading user: %w", err)
	}
	return &u2, nil
}

// UpdatePassword sets the hashed password of the user.
func (ub UserBackend) UpdatePassword(ctx context.Context, u user.User) error {
	if err := ub.withTimeout(ctx, func(ctx context.Context) error {
		updates := []firestore.Update{
			{
				Path:  passwordField,
				Value: u.Password,
			},
		}
		_, err := ub.users().Doc(u.Username).Update(ctx, updates)
		return err
	}); err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// UpdatePointsIncrement adds the points of each user in one batch.
func (ub UserBackend) UpdatePointsIncrement(ctx context.Context, usernamePoints map[string]int) error {
	if err := ub.withTimeout(ctx, func(ctx context.Context) error {
		users := ub.users()
		b := ub.client.BulkWriter(ctx)
		jobs := make([]*firestore.BulkWriterJob, 0, len(usernamePoints))
		for username, points := range usernamePoints {
			updates := []firestore.Update{
				{
					Path:  pointsField,
					Value: firestore.FieldTransformIncrement(points),
				},
			}
			j, err := b.Update(users.Doc(username), updates)
			if err != nil {
				b.End()
				return err
			}
			jobs = append(jobs, j)
		}
		b.End()
		for _, j := range jobs {
			if _, err := j.Results(); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("incrementing user points: %w", err)
	}
	return nil
}

// Delete removes the user.
func (ub UserBackend) Delete(ctx context.Context, u user.User) error {
	if err := ub.withTimeout(ctx, func(ctx context.Context) error {
		_, err := ub.users().Doc(u.Username).Delete(ctx, firestore.Exists)
		return err
	}); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

// Close releases the client.
func (ub UserBackend) Close() error {
	return ub.client.Close()
}
