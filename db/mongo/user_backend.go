// Package mongo stores users in a mongodb collection.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jacobpatterson1549/picture-puzzle/db"
	"github.com/jacobpatterson1549/picture-puzzle/db/user"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	databaseName   = "picture-puzzle"
	collectionName = "users"
	usernameField  = "username"
	passwordField  = "password"
	pointsField    = "points"
)

type (
	// UserBackend manages the users collection.
	UserBackend struct {
		users   Collection
		indexes IndexView
		cfg     db.Config
	}

	// Collection is the subset of mongo.Collection used to manage users.
	Collection interface {
		InsertOne(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
		FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
		UpdateOne(ctx context.Context, filter any, update any, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
		BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
		DeleteOne(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	}

	// IndexView creates indexes on the collection.
	IndexView interface {
		CreateOne(ctx context.Context, model mongo.IndexModel, opts ...*options.CreateIndexesOptions) (string, error)
	}
)

// Connect opens the users collection on the mongodb server at the url.
func Connect(ctx context.Context, cfg db.Config, url string) (*UserBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating mongo user backend: validation: %w", err)
	}
	clientOptions := options.Client().ApplyURI(url)
	ctx, cancelFunc := context.WithTimeout(ctx, cfg.QueryPeriod)
	defer cancelFunc()
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	users := client.Database(databaseName).Collection(collectionName)
	return NewUserBackend(users, users.Indexes(), cfg)
}

// NewUserBackend creates a backend for the collection.
func NewUserBackend(users Collection, indexes IndexView, cfg db.Config) (*UserBackend, error) {
	switch {
	case users == nil:
		return nil, fmt.Errorf("creating mongo user backend: validation: users collection required")
	case indexes == nil:
		return nil, fmt.Errorf("creating mongo user backend: validation: index view required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating mongo user backend: validation: %w", err)
	}
	ub := UserBackend{
		users:   users,
		indexes: indexes,
		cfg:     cfg,
	}
	return &ub, nil
}

// Setup ensures usernames are unique.
func (ub UserBackend) Setup(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    d(e(usernameField, 1)),
		Options: options.Index().SetUnique(true),
	}
	ctx, cancelFunc := context.WithTimeout(ctx, ub.cfg.QueryPeriod)
	defer cancelFunc()
	if _, err := ub.indexes.CreateOne(ctx, model); err != nil {
		return fmt.Errorf("creating unique username index: %w", err)
	}
	return nil
}

// Create adds the user with no points.
func (ub UserBackend) Create(ctx context.Context, u user.User) error {
	document := d(
		e(usernameField, u.Username),
		e(passwordField, u.Password),
		e(pointsField, 0),
	)
	ctx, cancelFunc := context.WithTimeout(ctx, ub.cfg.QueryPeriod)
	defer cancelFunc()
	if _, err := ub.users.InsertOne(ctx, document); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// Read gets the user with the same username.
func (ub UserBackend) Read(ctx context.Context, u user.User) (*user.User, error) {
	filter := d(e(usernameField, u.Username))
	ctx, cancelFunc := context.WithTimeout(ctx, ub.cfg.QueryPeriod)
	defer cancelFunc()
	result := ub.users.FindOne(ctx, filter)
	var u2 user.User
	if err := result.Decode(&u2); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrIncorrectLogin
		}
		return nil, fmt.Errorf("reading user: %w", err)
	}
	return &u2, nil
}

// UpdatePassword sets the hashed password of the user.
func (ub UserBackend) UpdatePassword(ctx context.Context, u user.User) error {
	filter := d(e(usernameField, u.Username))
	update := d(e("$set", d(e(passwordField, u.Password))))
	ctx, cancelFunc := context.WithTimeout(ctx, ub.cfg.QueryPeriod)
	defer cancelFunc()
	result, err := ub.users.UpdateOne(ctx, filter, update)
	switch {
	case err != nil:
		return fmt.Errorf("updating user password: %w", err)
	case result.MatchedCount != 1:
		return fmt.Errorf("updating user password: %w", user.ErrIncorrectLogin)
	}
	return nil
}

// UpdatePointsIncrement adds the points of each user in one bulk write.
func (ub UserBackend) UpdatePointsIncrement(ctx context.Context, usernamePoints map[string]int) error {
	models := make([]mongo.WriteModel, 0, len(usernamePoints))
	for username, points := range usernamePoints {
		m := mongo.NewUpdateOneModel().
			SetFilter(d(e(usernameField, username))).
			SetUpdate(d(e("$inc", d(e(pointsField, points)))))
		models = append(models, m)
	}
	ctx, cancelFunc := context.WithTimeout(ctx, ub.cfg.QueryPeriod)
	defer cancelFunc()
	if _, err := ub.users.BulkWrite(ctx, models); err != nil {
		return fmt.Errorf("incrementing user points: %w", err)
	}
	return nil
}

// Delete removes the user.
func (ub UserBackend) Delete(ctx context.Context, u user.User) error {
	filter := d(e(usernameField, u.Username))
	ctx, cancelFunc := context.WithTimeout(ctx, ub.cfg.QueryPeriod)
	defer cancelFunc()
	result, err := ub.users.DeleteOne(ctx, filter)
	switch {
	case err != nil:
		return fmt.Errorf("deleting user: %w", err)
	case result.DeletedCount != 1:
		return fmt.Errorf("deleting user: %w", user.ErrIncorrectLogin)
	}
	return nil
}

func d(e ...bson.E) bson.D {
	return bson.D(e)
}

func e(key string, value any) bson.E {
	return bson.E{Key: key, Value: value}
}
