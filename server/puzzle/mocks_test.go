package puzzle

import "context"

type mockUserDao struct {
	UpdatePointsIncrementFunc func(ctx context.Context, userPoints map[string]int) error
}

func (m mockUserDao) UpdatePointsIncrement(ctx context.Context, userPoints map[string]int) error {
	return m.UpdatePointsIncrementFunc(ctx, userPoints)
}
