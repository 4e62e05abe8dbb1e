package mongo

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/jacobpatterson1549/picture-puzzle/db"
	"github.com/jacobpatterson1549/picture-puzzle/db/user"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var testConfig = db.Config{
	QueryPeriod: time.Hour,
}

func TestNewUserBackend(t *testing.T) {
	newUserBackendTests := []struct {
		users   Collection
		indexes IndexView
		cfg     db.Config
		wantOk  bool
	}{
		{
			indexes: mockIndexView(nil),
			cfg:     testConfig,
		},
		{
			users: mockCollection{},
			cfg:   testConfig,
		},
		{
			users:   mockCollection{},
			indexes: mockIndexView(nil),
		},
		{
			users:   mockCollection{},
			indexes: mockIndexView(nil),
			cfg:     testConfig,
			wantOk:  true,
		},
	}
	for i, test := range newUserBackendTests {
		ub, err := NewUserBackend(test.users, test.indexes, test.cfg)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("test %v: unwanted error: %v", i, err)
		case ub == nil:
			t.Errorf("test %v: wanted user backend", i)
		}
	}
}

func TestUserBackendSetup(t *testing.T) {
	setupTests := []struct {
		createErr error
		wantOk    bool
	}{
		{
			createErr: fmt.Errorf("create index error"),
		},
		{
			wantOk: true,
		},
	}
	for i, test := range setupTests {
		indexes := mockIndexView(func(ctx context.Context, model mongo.IndexModel) (string, error) {
			wantKeys := d(e(usernameField, 1))
			if !reflect.DeepEqual(wantKeys, model.Keys) {
				t.Errorf("test %v: unwanted index keys: %v", i, model.Keys)
			}
			if model.Options == nil || model.Options.Unique == nil || !*model.Options.Unique {
				t.Errorf("test %v: wanted unique index", i)
			}
			return usernameField, test.createErr
		})
		ub := UserBackend{
			indexes: indexes,
			cfg:     testConfig,
		}
		err := ub.Setup(context.Background())
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("test %v: unwanted error: %v", i, err)
		}
	}
}

func TestUserBackendCreate(t *testing.T) {
	createTests := []struct {
		insertErr error
		wantOk    bool
	}{
		{
			insertErr: fmt.Errorf("duplicate key"),
		},
		{
			wantOk: true,
		},
	}
	for i, test := range createTests {
		users := mockCollection{
			insertOneFunc: func(ctx context.Context, document any) (*mongo.InsertOneResult, error) {
				want := d(e(usernameField, "selene"), e(passwordField, "hash"), e(pointsField, 0))
				if !reflect.DeepEqual(want, document) {
					t.Errorf("test %v: documents not equal: \n wanted: %v \n got:    %v", i, want, document)
				}
				return new(mongo.InsertOneResult), test.insertErr
			},
		}
		ub := UserBackend{
			users: users,
			cfg:   testConfig,
		}
		u := user.User{
			Username: "selene",
			Password: "hash",
		}
		err := ub.Create(context.Background(), u)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("test %v: unwanted error: %v", i, err)
		}
	}
}

func TestUserBackendRead(t *testing.T) {
	readTests := []struct {
		findErr error
		wantErr error
		wantOk  bool
	}{
		{
			findErr: fmt.Errorf("find error"),
		},
		{
			findErr: mongo.ErrNoDocuments,
			wantErr: user.ErrIncorrectLogin,
		},
		{
			wantOk: true,
		},
	}
	for i, test := range readTests {
		users := mockCollection{
			findOneFunc: func(ctx context.Context, filter any) *mongo.SingleResult {
				wantFilter := d(e(usernameField, "selene"))
				if !reflect.DeepEqual(wantFilter, filter) {
					t.Errorf("test %v: unwanted filter: %v", i, filter)
				}
				document := bson.D{
					{Key: usernameField, Value: "selene"},
					{Key: passwordField, Value: "hash"},
					{Key: pointsField, Value: 5},
				}
				return mongo.NewSingleResultFromDocument(document, test.findErr, nil)
			},
		}
		ub := UserBackend{
			users: users,
			cfg:   testConfig,
		}
		u := user.User{
			Username: "selene",
			Password: "topsecret",
		}
		got, err := ub.Read(context.Background(), u)
		want := user.User{
			Username: "selene",
			Password: "hash",
			Points:   5,
		}
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("test %v: wanted error", i)
			}
			if test.wantErr != nil && !errors.Is(err, test.wantErr) {
				t.Errorf("test %v: wanted %v, got %v", i, test.wantErr, err)
			}
		case err != nil:
			t.Errorf("test %v: unwanted error: %v", i, err)
		case want != *got:
			t.Errorf("test %v: users not equal: \n wanted: %v \n got:    %v", i, want, *got)
		}
	}
}

func TestUserBackendUpdatePassword(t *testing.T) {
	updatePasswordTests := []struct {
		updateErr    error
		matchedCount int64
		wantOk       bool
	}{
		{
			updateErr: fmt.Errorf("update error"),
		},
		{
			matchedCount: 0,
		},
		{
			matchedCount: 1,
			wantOk:       true,
		},
	}
	for i, test := range updatePasswordTests {
		users := mockCollection{
			updateOneFunc: func(ctx context.Context, filter any, update any) (*mongo.UpdateResult, error) {
				wantUpdate := d(e("$set", d(e(passwordField, "hash2"))))
				if !reflect.DeepEqual(wantUpdate, update) {
					t.Errorf("test %v: unwanted update: %v", i, update)
				}
				if test.updateErr != nil {
					return nil, test.updateErr
				}
				return &mongo.UpdateResult{MatchedCount: test.matchedCount}, nil
			},
		}
		ub := UserBackend{
			users: users,
			cfg:   testConfig,
		}
		u := user.User{
			Username: "selene",
			Password: "hash2",
		}
		err := ub.UpdatePassword(context.Background(), u)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("test %v: unwanted error: %v", i, err)
		}
	}
}

func TestUserBackendUpdatePointsIncrement(t *testing.T) {
	updatePointsTests := []struct {
		writeErr error
		wantOk   bool
	}{
		{
			writeErr: fmt.Errorf("bulk write error"),
		},
		{
			wantOk: true,
		},
	}
	for i, test := range updatePointsTests {
		users := mockCollection{
			bulkWriteFunc: func(ctx context.Context, models []mongo.WriteModel) (*mongo.BulkWriteResult, error) {
				if len(models) != 2 {
					t.Errorf("test %v: wanted 2 write models, got %v", i, len(models))
				}
				for _, m := range models {
					um, ok := m.(*mongo.UpdateOneModel)
					if !ok {
						t.Errorf("test %v: wanted update one model, got %T", i, m)
						continue
					}
					if _, ok := um.Update.(bson.D); !ok {
						t.Errorf("test %v: wanted update document, got %T", i, um.Update)
					}
				}
				return new(mongo.BulkWriteResult), test.writeErr
			},
		}
		ub := UserBackend{
			users: users,
			cfg:   testConfig,
		}
		usernamePoints := map[string]int{
			"selene": 3,
			"fred":   1,
		}
		err := ub.UpdatePointsIncrement(context.Background(), usernamePoints)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("test %v: unwanted error: %v", i, err)
		}
	}
}

func TestUserBackendDelete(t *testing.T) {
	deleteTests := []struct {
		deleteErr    error
		deletedCount int64
		wantOk       bool
	}{
		{
			deleteErr: fmt.Errorf("delete error"),
		},
		{
			deletedCount: 0,
		},
		{
			deletedCount: 1,
			wantOk:       true,
		},
	}
	for i, test := range deleteTests {
		users := mockCollection{
			deleteOneFunc: func(ctx context.Context, filter any) (*mongo.DeleteResult, error) {
				if test.deleteErr != nil {
					return nil, test.deleteErr
				}
				return &mongo.DeleteResult{DeletedCount: test.deletedCount}, nil
			},
		}
		ub := UserBackend{
			users: users,
			cfg:   testConfig,
		}
		u := user.User{
			Username: "selene",
		}
		err := ub.Delete(context.Background(), u)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("test %v: unwanted error: %v", i, err)
		}
	}
}
