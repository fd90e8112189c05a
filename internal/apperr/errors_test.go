package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusAndKind(t *testing.T) {
	cases := []struct {
		err    error
		kind   Kind
		status int
	}{
		{ErrInvalidRequest, KindInvalidRequest, http.StatusBadRequest},
		{ErrInvalidIdentifier, KindInvalidIdentifier, http.StatusBadRequest},
		{ErrUnauthorized, KindUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, KindForbidden, http.StatusForbidden},
		{ErrNotFound, KindNotFound, http.StatusNotFound},
		{ErrDuplicateUser, KindDuplicateUser, http.StatusConflict},
		{ErrSeatsExhausted, KindSeatsExhausted, http.StatusConflict},
		{ErrPaymentGateway, KindPaymentGateway, http.StatusBadGateway},
		{ErrStoreUnavailable, KindStoreUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("layer: %w", tc.err)
		assert.Equal(t, tc.kind, KindOf(wrapped), tc.err.Error())
		assert.Equal(t, tc.status, Status(wrapped), tc.err.Error())
	}
}
