package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Options configures Connect.
type Options struct {
	URI      string
	Name     string
	Timeout  time.Duration // client-side timeout for every operation
	Attempts int           // connection attempts before giving up
}

// Client owns the process-wide MongoDB connection. It is created once at
// startup and closed on shutdown.
type Client struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// Connect dials MongoDB and verifies the connection with a ping. Failed
// attempts are retried with exponential backoff, starting at one second and
// capped at 30 seconds, until opts.Attempts is exhausted or ctx ends.
func Connect(ctx context.Context, opts Options, log *zap.Logger) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetTimeout(opts.Timeout).
		SetServerSelectionTimeout(opts.Timeout)

	backoff := time.Second
	var lastErr error
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		c, err := dial(ctx, clientOpts, opts.Timeout)
		if err == nil {
			log.Info("mongo connected", zap.String("db", opts.Name), zap.Int("attempt", attempt))
			return &Client{client: c, db: c.Database(opts.Name), timeout: opts.Timeout}, nil
		}
		lastErr = err
		if attempt == opts.Attempts {
			break
		}
		log.Warn("mongo connect failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("connect mongo after %d attempts: %w", opts.Attempts, lastErr)
}

func dial(ctx context.Context, opts *options.ClientOptions, timeout time.Duration) (*mongo.Client, error) {
	c, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := c.Ping(pctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, err
	}
	return c, nil
}

// Database returns the application database.
func (c *Client) Database() *mongo.Database { return c.db }

// Ping checks that the primary is reachable within the operation timeout.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Ping(ctx, readpref.Primary())
}

// Disconnect closes every pooled connection.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
