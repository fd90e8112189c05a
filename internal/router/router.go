// Package router builds the echo instance: global middleware first, then
// the public, student, instructor and admin route sets.
package router

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/summer-camp/internal/config"
	"github.com/iliyamo/summer-camp/internal/handler"
	"github.com/iliyamo/summer-camp/internal/middleware"
	"github.com/iliyamo/summer-camp/internal/service"
)

// Deps is everything the routes need.
type Deps struct {
	Services  *service.Services
	Config    config.Config
	RateLimit config.RateLimitConfig
	Redis     *redis.Client  // nil disables rate limiting
	Store     handler.Pinger // nil for the in-memory store
	Log       *zap.Logger
}

// handlers bundles one handler per resource.
type handlers struct {
	auth     *handler.AuthHandler
	health   *handler.HealthHandler
	showcase *handler.ShowcaseHandler
	classes  *handler.ClassHandler
	users    *handler.UserHandler
	bookings *handler.BookingHandler
	payments *handler.PaymentHandler
}

// New returns a fully wired echo instance.
func New(d Deps) *echo.Echo {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler(log)

	// request id first so every log line below can carry it
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	svc := d.Services
	h := handlers{
		auth:     handler.NewAuthHandler(svc.Users, d.Config.JWTSecret, d.Config.AccessTTL(), log),
		health:   handler.NewHealthHandler(d.Store, log),
		showcase: handler.NewShowcaseHandler(svc.Showcase, log),
		classes:  handler.NewClassHandler(svc.Classes, log),
		users:    handler.NewUserHandler(svc.Users, log),
		bookings: handler.NewBookingHandler(svc.Bookings, log),
		payments: handler.NewPaymentHandler(svc.Payments, d.Config.PaymentCurrency, log),
	}

	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis, log)
	// authed runs the limiter after JWTAuth so buckets can key on the email
	authed := []echo.MiddlewareFunc{
		middleware.JWTAuth(d.Config.JWTSecret),
		limit,
		middleware.ResolveCaller(svc.Users),
	}

	registerPublic(e, h, limit)
	registerStudent(e, h, authed)
	registerInstructor(e, h, authed)
	registerAdmin(e, h, authed)
	return e
}

// requestLogger writes one zap line per request; failed requests are
// logged at warn level with the error.
func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency.Round(time.Microsecond)),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				log.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}

// with returns mw followed by extra without aliasing mw's backing array.
func with(mw []echo.MiddlewareFunc, extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mw)+len(extra))
	out = append(out, mw...)
	return append(out, extra...)
}
