package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/summer-camp/internal/apperr"
	"github.com/iliyamo/summer-camp/internal/config"
	"github.com/iliyamo/summer-camp/internal/model"
	"github.com/iliyamo/summer-camp/internal/policy"
	"github.com/iliyamo/summer-camp/internal/utils"
)

type staticResolver map[string]string

func (r staticResolver) ResolveCaller(_ context.Context, email string) (policy.Caller, error) {
	role, ok := r[email]
	if !ok {
		return policy.Caller{}, apperr.ErrUnauthorized
	}
	return policy.Caller{Email: email, Role: role}, nil
}

func newServer(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/whoami", func(c echo.Context) error {
		caller := CallerFrom(c)
		return c.JSON(http.StatusOK, echo.Map{"email": Email(c), "role": caller.Role})
	}, mw...)
	return e
}

func do(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJWTAuthAndResolveCaller(t *testing.T) {
	resolver := staticResolver{"ada@camp.test": model.RoleAdmin, "sam@camp.test": ""}
	e := newServer(JWTAuth("secret"), ResolveCaller(resolver))

	rec := do(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decode(t, rec)["kind"])

	rec = do(e, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := utils.NewAccessToken("secret", "ada@camp.test", time.Minute)
	require.NoError(t, err)
	rec = do(e, tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ada@camp.test", body["email"])
	assert.Equal(t, model.RoleAdmin, body["role"])

	ghost, err := utils.NewAccessToken("secret", "ghost@camp.test", time.Minute)
	require.NoError(t, err)
	rec = do(e, ghost.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	resolver := staticResolver{"ada@camp.test": model.RoleAdmin, "sam@camp.test": model.RoleStudent}
	e := newServer(JWTAuth("secret"), ResolveCaller(resolver), RequireRole(model.RoleAdmin))

	admin, err := utils.NewAccessToken("secret", "ada@camp.test", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(e, admin.Token).Code)

	student, err := utils.NewAccessToken("secret", "sam@camp.test", time.Minute)
	require.NoError(t, err)
	rec := do(e, student.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decode(t, rec)["kind"])

	// without ResolveCaller there is no identity
	bare := newServer(RequireRole(model.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, do(bare, "").Code)
}

func TestRateKey(t *testing.T) {
	cfg := config.RateLimitConfig{
		Prefix: "camp:rl",
		Browse: config.Bucket{Capacity: 60, Every: time.Second},
		Enroll: config.Bucket{Capacity: 10, Every: 6 * time.Second},
	}
	e := echo.New()
	newCtx := func(method, path string) echo.Context {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
		return e.NewContext(req, httptest.NewRecorder())
	}

	tests := []struct {
		name   string
		method string
		email  string
		key    string
		bucket config.Bucket
	}{
		{"anonymous read", http.MethodGet, "", "camp:rl:browse:ip:10.0.0.7", cfg.Browse},
		{"signed-in read", http.MethodGet, "sam@camp.test", "camp:rl:browse:ip:10.0.0.7", cfg.Browse},
		{"seat reservation", http.MethodPatch, "sam@camp.test", "camp:rl:enroll:user:sam@camp.test", cfg.Enroll},
		{"registration", http.MethodPost, "", "camp:rl:enroll:ip:10.0.0.7", cfg.Enroll},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newCtx(tc.method, "/reduce-class-seat/abc")
			if tc.email != "" {
				c.Set(emailKey, tc.email)
			}
			key, b := rateKey(cfg, c)
			assert.Equal(t, tc.key, key)
			assert.Equal(t, tc.bucket, b)
		})
	}
}

func TestParseBucketResult(t *testing.T) {
	res, ok := parseBucketResult([]interface{}{int64(1), int64(4), int64(0)})
	require.True(t, ok)
	assert.Equal(t, bucketResult{allowed: true, remaining: 4}, res)

	res, ok = parseBucketResult([]interface{}{int64(0), int64(0), "1500"})
	require.True(t, ok)
	assert.False(t, res.allowed)
	assert.EqualValues(t, 1500, res.retryMs)

	_, ok = parseBucketResult("nope")
	assert.False(t, ok)
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	e := newServer(NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, nil))
	assert.Equal(t, http.StatusOK, do(e, "").Code)
}
