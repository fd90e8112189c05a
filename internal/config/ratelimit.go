package config

import (
	"os"
	"strconv"
	"time"
)

// Bucket is the size and refill pace of one token bucket. One token is
// added back every Every.
type Bucket struct {
	Capacity int
	Every    time.Duration
}

// RateLimitConfig configures the Redis token buckets in front of the API.
// Browsing (GET) is limited per client address. Enrolling (every write:
// bookings, seat reservations, payments, listings) is limited per signed-in
// email so one student cannot hammer the seat counters from many devices.
type RateLimitConfig struct {
	Enabled bool
	Browse  Bucket
	Enroll  Bucket
	TTL     time.Duration
	Prefix  string
	Debug   bool
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables. RATE_LIMIT_CAPACITY and
// RATE_LIMIT_REFILL_EVERY are accepted as the browse bucket.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: envBool("RATE_LIMIT_ENABLED", true),
		Browse: Bucket{
			Capacity: envInt("RATE_LIMIT_BROWSE_CAPACITY", envInt("RATE_LIMIT_CAPACITY", 60)),
			Every:    envDur("RATE_LIMIT_BROWSE_REFILL_EVERY", envDur("RATE_LIMIT_REFILL_EVERY", time.Second)),
		},
		Enroll: Bucket{
			Capacity: envInt("RATE_LIMIT_ENROLL_CAPACITY", 10),
			Every:    envDur("RATE_LIMIT_ENROLL_REFILL_EVERY", 6*time.Second),
		},
		TTL:    envDur("RATE_LIMIT_TTL", 10*time.Minute),
		Prefix: envStr("RATE_LIMIT_PREFIX", "camp:rl"),
		Debug:  envBool("RATE_LIMIT_DEBUG", false),
	}
	cfg.Browse = cfg.Browse.clamp()
	cfg.Enroll = cfg.Enroll.clamp()

	// keep idle buckets around for a few refill periods of the slower bucket
	slowest := max(cfg.Browse.Every, cfg.Enroll.Every)
	if minTTL := 5 * slowest; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}

func (b Bucket) clamp() Bucket {
	if b.Capacity < 1 {
		b.Capacity = 1
	}
	if b.Every <= 0 {
		b.Every = time.Second
	}
	return b
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if dur, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return dur
	}
	return d
}
