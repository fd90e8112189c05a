package repository

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/summer-camp/internal/apperr"
)

// ByID translates a raw path id into an _id filter. The id must be a 24
// character hex ObjectID; anything else is rejected before reaching the
// store.
func ByID(raw string) (Filter, error) {
	id, err := ParseID(raw)
	if err != nil {
		return nil, err
	}
	return Where(Eq("_id", id)), nil
}

// ParseID validates and decodes an ObjectID.
func ParseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", apperr.ErrInvalidIdentifier, raw)
	}
	return id, nil
}

// ByField builds a simple equality lookup.
func ByField(name string, value any) Filter {
	return Where(Eq(name, value))
}

// RequireField is ByField for string parameters that must be present, such
// as the ?email= query on owner listings. An empty value is an
// apperr.ErrInvalidRequest instead of a scan of the whole collection.
func RequireField(name, value string) (Filter, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("%w: %s is required", apperr.ErrInvalidRequest, name)
	}
	return ByField(name, value), nil
}
