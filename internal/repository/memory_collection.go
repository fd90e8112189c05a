package repository

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryCollection keeps documents in process. Every document goes through
// a BSON round trip on the way in and out, so field names, omitempty and
// numeric widening behave like they do against MongoDB. A single mutex
// serialises writers, which makes FindOneAndUpdate atomic.
type MemoryCollection[T any] struct {
	name string
	mu   sync.RWMutex
	docs []bson.M // insertion order
}

// NewMemoryCollection returns an empty collection called name.
func NewMemoryCollection[T any](name string) *MemoryCollection[T] {
	return &MemoryCollection[T]{name: name}
}

func (m *MemoryCollection[T]) Name() string { return m.name }

func (m *MemoryCollection[T]) Find(ctx context.Context, f Filter, opts ...FindOption) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeErr(m.name, "find", err)
	}
	fo := collectFindOptions(opts)

	m.mu.RLock()
	matched := make([]bson.M, 0, len(m.docs))
	for _, d := range m.docs {
		if f.Match(d) {
			matched = append(matched, d)
		}
	}
	if fo.sort != nil {
		sortDocs(matched, *fo.sort)
	}
	out := make([]T, 0, len(matched))
	for _, d := range matched {
		var v T
		if err := decodeDoc(d, &v); err != nil {
			m.mu.RUnlock()
			return nil, fmt.Errorf("%s: decode: %w", m.name, err)
		}
		out = append(out, v)
	}
	m.mu.RUnlock()
	return out, nil
}

func (m *MemoryCollection[T]) FindOne(ctx context.Context, f Filter) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeErr(m.name, "find one", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.docs {
		if f.Match(d) {
			var v T
			if err := decodeDoc(d, &v); err != nil {
				return nil, fmt.Errorf("%s: decode: %w", m.name, err)
			}
			return &v, nil
		}
	}
	return nil, nil
}

func (m *MemoryCollection[T]) Insert(ctx context.Context, doc *T) (InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return InsertResult{}, storeErr(m.name, "insert", err)
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return InsertResult{}, fmt.Errorf("%s: encode: %w", m.name, err)
	}
	var d bson.M
	if err := bson.Unmarshal(raw, &d); err != nil {
		return InsertResult{}, fmt.Errorf("%s: encode: %w", m.name, err)
	}
	id, ok := d["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
		d["_id"] = id
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.docs {
		if existing["_id"] == id {
			return InsertResult{}, fmt.Errorf("%s: duplicate _id %s", m.name, id.Hex())
		}
	}
	m.docs = append(m.docs, d)
	return InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (m *MemoryCollection[T]) UpdateOne(ctx context.Context, f Filter, u *Update) (UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return UpdateResult{}, storeErr(m.name, "update", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.docs {
		if !f.Match(d) {
			continue
		}
		res := UpdateResult{Acknowledged: true, MatchedCount: 1}
		if u.apply(d) {
			res.ModifiedCount = 1
		}
		return res, nil
	}
	return UpdateResult{Acknowledged: true}, nil
}

func (m *MemoryCollection[T]) DeleteOne(ctx context.Context, f Filter) (DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return DeleteResult{}, storeErr(m.name, "delete", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.docs {
		if f.Match(d) {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return DeleteResult{Acknowledged: true}, nil
}

func (m *MemoryCollection[T]) FindOneAndUpdate(ctx context.Context, f Filter, u *Update) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeErr(m.name, "find and update", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.docs {
		if !f.Match(d) {
			continue
		}
		u.apply(d)
		var v T
		if err := decodeDoc(d, &v); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", m.name, err)
		}
		return &v, nil
	}
	return nil, nil
}

// Len returns the number of stored documents.
func (m *MemoryCollection[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func decodeDoc(d bson.M, out any) error {
	raw, err := bson.Marshal(d)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}
