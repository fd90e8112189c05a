// Package repository contains the document store access layer. Each logical
// collection is exposed through the generic Collection interface, with a
// MongoDB implementation for production and an in-memory implementation for
// tests and local runs. Handlers never build store filters themselves; they
// go through the query helpers in query.go.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InsertResult mirrors the metadata returned by an insert.
type InsertResult struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}

// UpdateResult mirrors the metadata returned by an update. Callers must
// inspect MatchedCount to detect that nothing happened.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteResult mirrors the metadata returned by a delete.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Collection is the uniform CRUD surface over one named document
// collection. Find-style calls never report "not found": Find returns an
// empty slice and FindOne/FindOneAndUpdate return a nil document. Update
// and delete report zero counts instead of failing. Connection problems
// are returned wrapped in apperr.ErrStoreUnavailable.
type Collection[T any] interface {
	Name() string
	Find(ctx context.Context, f Filter, opts ...FindOption) ([]T, error)
	FindOne(ctx context.Context, f Filter) (*T, error)
	Insert(ctx context.Context, doc *T) (InsertResult, error)
	UpdateOne(ctx context.Context, f Filter, u *Update) (UpdateResult, error)
	DeleteOne(ctx context.Context, f Filter) (DeleteResult, error)
	// FindOneAndUpdate applies u to the first match atomically and returns
	// the document as it is after the update.
	FindOneAndUpdate(ctx context.Context, f Filter, u *Update) (*T, error)
}
