package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type (
	mockCollection struct {
		insertOneFunc func(ctx context.Context, document any) (*mongo.InsertOneResult, error)
		findOneFunc   func(ctx context.Context, filter any) *mongo.SingleResult
		updateOneFunc func(ctx context.Context, filter any, update any) (*mongo.UpdateResult, error)
		bulkWriteFunc func(ctx context.Context, models []mongo.WriteModel) (*mongo.BulkWriteResult, error)
		deleteOneFunc func(ctx context.Context, filter any) (*mongo.DeleteResult, error)
	}

	mockIndexView func(ctx context.Context, model mongo.IndexModel) (string, error)
)

func (m mockCollection) InsertOne(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return m.insertOneFunc(ctx, document)
}

func (m mockCollection) FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult {
	return m.findOneFunc(ctx, filter)
}

func (m mockCollection) UpdateOne(ctx context.Context, filter any, update any, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return m.updateOneFunc(ctx, filter, update)
}

func (m mockCollection) BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	return m.bulkWriteFunc(ctx, models)
}

func (m mockCollection) DeleteOne(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	return m.deleteOneFunc(ctx, filter)
}

func (m mockIndexView) CreateOne(ctx context.Context, model mongo.IndexModel, opts ...*options.CreateIndexesOptions) (string, error) {
	return m(ctx, model)
}
