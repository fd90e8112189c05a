package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection implements Collection on top of a *mongo.Collection.
// Timeouts come from the client-level operation timeout configured in
// database.Connect.
type MongoCollection[T any] struct {
	coll *mongo.Collection
}

// NewMongoCollection binds the named collection of db.
func NewMongoCollection[T any](db *mongo.Database, name string) *MongoCollection[T] {
	return &MongoCollection[T]{coll: db.Collection(name)}
}

func (m *MongoCollection[T]) Name() string { return m.coll.Name() }

func (m *MongoCollection[T]) Find(ctx context.Context, f Filter, opts ...FindOption) ([]T, error) {
	fo := collectFindOptions(opts)
	findOpts := options.Find()
	if fo.sort != nil {
		findOpts.SetSort(fo.sort.bson())
	}
	cur, err := m.coll.Find(ctx, f.BSON(), findOpts)
	if err != nil {
		return nil, storeErr(m.Name(), "find", err)
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, storeErr(m.Name(), "find", err)
	}
	return out, nil
}

func (m *MongoCollection[T]) FindOne(ctx context.Context, f Filter) (*T, error) {
	var v T
	err := m.coll.FindOne(ctx, f.BSON()).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(m.Name(), "find one", err)
	}
	return &v, nil
}

func (m *MongoCollection[T]) Insert(ctx context.Context, doc *T) (InsertResult, error) {
	res, err := m.coll.InsertOne(ctx, doc)
	if err != nil {
		return InsertResult{}, storeErr(m.Name(), "insert", err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (m *MongoCollection[T]) UpdateOne(ctx context.Context, f Filter, u *Update) (UpdateResult, error) {
	res, err := m.coll.UpdateOne(ctx, f.BSON(), u.BSON())
	if err != nil {
		return UpdateResult{}, storeErr(m.Name(), "update", err)
	}
	return UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (m *MongoCollection[T]) DeleteOne(ctx context.Context, f Filter) (DeleteResult, error) {
	res, err := m.coll.DeleteOne(ctx, f.BSON())
	if err != nil {
		return DeleteResult{}, storeErr(m.Name(), "delete", err)
	}
	return DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (m *MongoCollection[T]) FindOneAndUpdate(ctx context.Context, f Filter, u *Update) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var v T
	err := m.coll.FindOneAndUpdate(ctx, f.BSON(), u.BSON(), opts).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(m.Name(), "find and update", err)
	}
	return &v, nil
}
