package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/jacobpatterson1549/picture-puzzle/db/user"
)

type (
	mockTokenizer struct {
		createFunc       func(username string, points int) (string, error)
		readUsernameFunc func(tokenString string) (string, error)
	}

	mockUserDao struct {
		createFunc         func(ctx context.Context, u user.User) error
		readFunc           func(ctx context.Context, u user.User) (*user.User, error)
		updatePasswordFunc func(ctx context.Context, u user.User, newP string) error
		deleteFunc         func(ctx context.Context, u user.User) error
	}

	mockLobby struct {
		runFunc        func(ctx context.Context, wg *sync.WaitGroup) error
		addUserFunc    func(username string, w http.ResponseWriter, r *http.Request) error
		removeUserFunc func(ctx context.Context, username string) error
	}
)

func (m mockTokenizer) Create(username string, points int) (string, error) {
	return m.createFunc(username, points)
}

func (m mockTokenizer) ReadUsername(tokenString string) (string, error) {
	return m.readUsernameFunc(tokenString)
}

func (m mockUserDao) Create(ctx context.Context, u user.User) error {
	return m.createFunc(ctx, u)
}

func (m mockUserDao) Read(ctx context.Context, u user.User) (*user.User, error) {
	return m.readFunc(ctx, u)
}

func (m mockUserDao) UpdatePassword(ctx context.Context, u user.User, newP string) error {
	return m.updatePasswordFunc(ctx, u, newP)
}

func (m mockUserDao) Delete(ctx context.Context, u user.User) error {
	return m.deleteFunc(ctx, u)
}

func (m mockLobby) Run(ctx context.Context, wg *sync.WaitGroup) error {
	return m.runFunc(ctx, wg)
}

func (m mockLobby) AddUser(username string, w http.ResponseWriter, r *http.Request) error {
	return m.addUserFunc(username, w, r)
}

func (m mockLobby) RemoveUser(ctx context.Context, username string) error {
	return m.removeUserFunc(ctx, username)
}
