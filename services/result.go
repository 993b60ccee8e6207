package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"news-spectrum/cache"
	"news-spectrum/stance"

	"github.com/charmbracelet/log"
)

var (
	// ErrNotConfigured is returned by endpoints that have no sample data to
	// serve without a database.
	ErrNotConfigured = errors.New("database not configured")
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")

	errNoRows = errors.New("no rows")
)

// Source tells whether a payload came from the database or the bundled
// sample data.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Result is a payload together with where it came from. Reason explains a
// fallback and is empty for live data.
type Result[T any] struct {
	Data   T
	Source Source
	Reason string
}

func live[T any](v T) Result[T] {
	return Result[T]{Data: v, Source: SourceLive}
}

func fellBack[T any](v T, reason string) Result[T] {
	return Result[T]{Data: v, Source: SourceFallback, Reason: reason}
}

// memo caches rendered live payloads.
type memo struct {
	cache cache.Cache
	ttl   time.Duration
	log   *log.Logger
}

func newMemo(c cache.Cache, ttl time.Duration, logger *log.Logger) memo {
	if c == nil {
		c = cache.Noop{}
	}
	return memo{cache: c, ttl: ttl, log: logger}
}

// remember returns the cached value under key, or loads, stores and returns
// it. Cache failures are logged and never fail the call.
func remember[T any](ctx context.Context, m memo, key string, load func(context.Context) (T, error)) (T, error) {
	if m.ttl > 0 {
		if raw, ok, err := m.cache.Get(ctx, key); err != nil {
			m.log.Warn("cache read failed", "key", key, "err", err)
		} else if ok {
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				return v, nil
			}
			m.log.Warn("cache entry undecodable", "key", key)
		}
	}
	return refresh(ctx, m, key, load)
}

// refresh loads the value and overwrites whatever is cached under key.
func refresh[T any](ctx context.Context, m memo, key string, load func(context.Context) (T, error)) (T, error) {
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	m.put(ctx, key, v)
	return v, nil
}

func (m memo) put(ctx context.Context, key string, v any) {
	if m.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(v)
	if err == nil {
		err = m.cache.Set(ctx, key, raw, m.ttl)
	}
	if err != nil {
		m.log.Warn("cache write failed", "key", key, "err", err)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func distributionOf(minVisible float64, entries []stance.Entry) stance.Distribution {
	signals := make([]stance.Signal, 0, len(entries))
	for _, e := range entries {
		signals = append(signals, stance.Signal{Label: e.Stance, CountryCode: e.CountryCode})
	}
	return stance.Aggregate(signals, minVisible)
}
