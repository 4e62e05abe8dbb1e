package postgres

import (
	"context"
	"io"

	"github.com/jacobpatterson1549/picture-puzzle/db/sql"
)

type mockDatabase struct {
	setupFunc func(ctx context.Context, files []io.Reader) error
	queryFunc func(ctx context.Context, q sql.Query, dest ...any) error
	execFunc  func(ctx context.Context, queries ...sql.Query) error
}

func (m mockDatabase) Setup(ctx context.Context, files []io.Reader) error {
	return m.setupFunc(ctx, files)
}

func (m mockDatabase) Query(ctx context.Context, q sql.Query, dest ...any) error {
	return m.queryFunc(ctx, q, dest...)
}

func (m mockDatabase) Exec(ctx context.Context, queries ...sql.Query) error {
	return m.execFunc(ctx, queries...)
}
