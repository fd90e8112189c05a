package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"

	"github.com/iliyamo/summer-camp/internal/apperr"
)

// storeErr wraps a failed store call. Connection level failures, timeouts
// and cancelled contexts are tagged with apperr.ErrStoreUnavailable so the
// handler layer can answer 503; everything else keeps its own identity.
func storeErr(collection, op string, err error) error {
	if err == nil {
		return nil
	}
	if unavailable(err) {
		return fmt.Errorf("%s: %s: %w: %w", collection, op, apperr.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %s: %w", collection, op, err)
}

func unavailable(err error) bool {
	var sel topology.ServerSelectionError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return true
	case errors.Is(err, mongo.ErrClientDisconnected):
		return true
	case errors.As(err, &sel):
		return true
	}
	return mongo.IsNetworkError(err) || mongo.IsTimeout(err)
}
