package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/avatarctic/user-management-service/internal/core/ports"
)

const (
	defaultTTL             = 300 * time.Second
	defaultOpTimeout       = 5 * time.Second
	defaultBreakerFailures = 5
	defaultBreakerOpenFor  = 30 * time.Second
)

// StoreConfig tunes a Store. Zero fields take defaults.
type StoreConfig struct {
	DefaultTTL      time.Duration
	OpTimeout       time.Duration
	Codec           Codec
	BreakerFailures uint32
	BreakerOpenFor  time.Duration
}

// Store is the fault tolerant cache adapter. It connects to its backend
// lazily on first use; if that fails the store stays disabled for the rest
// of the process and every operation is a no-op. Backend errors after that
// are logged and reported as misses, never returned.
type Store struct {
	connect Connector
	cfg     StoreConfig
	metrics *Metrics
	logger  *logrus.Logger
	breaker *gobreaker.CircuitBreaker

	once     sync.Once
	backend  Backend
	disabled atomic.Bool
}

var _ ports.Cache = (*Store)(nil)

// NewStore creates a Store over the backend produced by connect.
func NewStore(connect Connector, cfg *StoreConfig, metrics *Metrics, logger *logrus.Logger) *Store {
	c := StoreConfig{}
	if cfg != nil {
		c = *cfg
	}
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = defaultTTL
	}
	if c.OpTimeout <= 0 {
		c.OpTimeout = defaultOpTimeout
	}
	if c.Codec == nil {
		c.Codec = JSONCodec{}
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = defaultBreakerFailures
	}
	if c.BreakerOpenFor <= 0 {
		c.BreakerOpenFor = defaultBreakerOpenFor
	}

	s := &Store{connect: connect, cfg: c, metrics: metrics, logger: logger}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "cache",
		MaxRequests: 1,
		Timeout:     c.BreakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			// the caller giving up is not a backend fault
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
					Warn("cache: circuit breaker state changed")
			}
		},
	})
	return s
}

// NewDisabledStore returns a Store on which every operation is a no-op.
func NewDisabledStore(logger *logrus.Logger) *Store {
	s := NewStore(nil, nil, nil, logger)
	s.once.Do(func() { s.disabled.Store(true) })
	return s
}

// Enabled reports whether the store has (or may still get) a usable backend.
func (s *Store) Enabled() bool {
	return s != nil && !s.disabled.Load()
}

// BackendName returns the backend name, or "disabled".
func (s *Store) BackendName() string {
	if b, ok := s.acquire(); ok {
		return b.Name()
	}
	return "disabled"
}

func (s *Store) acquire() (Backend, bool) {
	if s == nil {
		return nil, false
	}
	s.once.Do(s.open)
	if s.disabled.Load() {
		return nil, false
	}
	return s.backend, true
}

func (s *Store) open() {
	if s.connect == nil {
		s.disabled.Store(true)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.OpTimeout)
	defer cancel()
	b, err := s.connect(ctx)
	if err != nil || b == nil {
		s.disabled.Store(true)
		if s.logger != nil {
			s.logger.WithError(err).Warn("cache: backend unavailable, caching disabled")
		}
		return
	}
	s.backend = b
	if s.logger != nil {
		s.logger.WithField("backend", b.Name()).Info("cache: connected")
	}
}

func (s *Store) exec(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	return s.breaker.Execute(func() (any, error) {
		opCtx, cancel := context.WithTimeout(ctx, s.cfg.OpTimeout)
		defer cancel()
		return fn(opCtx)
	})
}

func (s *Store) warn(op, key string, err error) {
	if s.logger == nil {
		return
	}
	entry := s.logger.WithFields(logrus.Fields{"op": op, "key": key}).WithError(err)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		entry.Debug("cache: operation skipped, breaker open")
		return
	}
	entry.Warn("cache: operation failed")
}

// Get implements ports.Cache.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	b, ok := s.acquire()
	if !ok {
		s.metrics.observe("get", "disabled")
		return false
	}
	res, err := s.exec(ctx, func(ctx context.Context) (any, error) {
		raw, found, err := b.Get(ctx, key)
		if err != nil || !found {
			return nil, err
		}
		return raw, nil
	})
	if err != nil {
		s.warn("get", key, err)
		s.metrics.observe("get", "error")
		return false
	}
	raw, _ := res.([]byte)
	if raw == nil {
		s.metrics.observe("get", "miss")
		return false
	}
	if err := s.cfg.Codec.Unmarshal(raw, dest); err != nil {
		s.warn("decode", key, err)
		s.metrics.observe("get", "decode_error")
		return false
	}
	s.metrics.observe("get", "hit")
	return true
}

// Set implements ports.Cache.
func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	b, ok := s.acquire()
	if !ok {
		s.metrics.observe("set", "disabled")
		return false
	}
	if ttl <= 0 {
		ttl = s.cfg.DefaultTTL
	}
	raw, err := s.cfg.Codec.Marshal(value)
	if err != nil {
		s.warn("encode", key, err)
		s.metrics.observe("set", "encode_error")
		return false
	}
	if _, err := s.exec(ctx, func(ctx context.Context) (any, error) {
		return nil, b.Set(ctx, key, raw, ttl)
	}); err != nil {
		s.warn("set", key, err)
		s.metrics.observe("set", "error")
		return false
	}
	s.metrics.observe("set", "ok")
	return true
}

// DeletePattern implements ports.Cache.
func (s *Store) DeletePattern(ctx context.Context, pattern string) int {
	b, ok := s.acquire()
	if !ok {
		s.metrics.observe("delete", "disabled")
		return 0
	}
	res, err := s.exec(ctx, func(ctx context.Context) (any, error) {
		return b.DeletePattern(ctx, pattern)
	})
	// a scan that fails partway still reports the keys it already removed
	n, _ := res.(int)
	s.metrics.invalidatedKeys(pattern, n)
	if err != nil {
		s.warn("delete", pattern, err)
		s.metrics.observe("delete", "error")
		return n
	}
	s.metrics.observe("delete", "ok")
	return n
}

// Ping implements ports.Cache.
func (s *Store) Ping(ctx context.Context) error {
	b, ok := s.acquire()
	if !ok {
		return ErrStoreDisabled
	}
	_, err := s.exec(ctx, func(ctx context.Context) (any, error) {
		return nil, b.Ping(ctx)
	})
	return err
}
