package cache

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/avatarctic/user-management-service/internal/core/ports"
)

// sharedLoadTimeout bounds a coalesced load, which no longer follows any one caller's context.
const sharedLoadTimeout = 30 * time.Second

// LoadFunc computes the uncached result for a call.
type LoadFunc[A, R any] func(ctx context.Context, args A) (R, error)

// CachedReader wraps a read so repeated calls with equal arguments are
// served from the cache for ttl. Concurrent misses on the same key share
// one underlying call; every caller but the one that ran it gets its own
// copy of the result. Errors are never cached.
type CachedReader[A, R any] struct {
	cache   ports.Cache
	prefix  string
	ttl     time.Duration
	keyArgs func(A) Args
	shape   Shape[R]
	load    LoadFunc[A, R]
	logger  *logrus.Logger
	group   singleflight.Group
}

// NewCachedReader wraps load. keyArgs maps a call to the arguments its key
// is derived from. A nil cache makes Read a plain pass-through.
func NewCachedReader[A, R any](
	cache ports.Cache,
	prefix string,
	ttl time.Duration,
	keyArgs func(A) Args,
	shape Shape[R],
	load LoadFunc[A, R],
	logger *logrus.Logger,
) *CachedReader[A, R] {
	return &CachedReader[A, R]{
		cache:   cache,
		prefix:  prefix,
		ttl:     ttl,
		keyArgs: keyArgs,
		shape:   shape,
		load:    load,
		logger:  logger,
	}
}

// Prefix returns the key namespace of this reader.
func (r *CachedReader[A, R]) Prefix() string { return r.prefix }

// Key returns the cache key for args.
func (r *CachedReader[A, R]) Key(args A) string {
	return r.keyArgs(args).Key(r.prefix)
}

// Read returns the cached result for args or computes and caches it.
func (r *CachedReader[A, R]) Read(ctx context.Context, args A) (R, error) {
	if r.cache == nil {
		return r.load(ctx, args)
	}
	key := r.Key(args)

	var p Payload
	if r.cache.Get(ctx, key, &p) {
		v, err := r.shape.Restore(p)
		if err == nil {
			return v, nil
		}
		if r.logger != nil {
			r.logger.WithField("key", key).WithError(err).Warn("cache: discarding unreadable entry")
		}
	}

	leader := false
	ch := r.group.DoChan(key, func() (any, error) {
		leader = true
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()
		res, err := r.load(loadCtx, args)
		if err != nil {
			return nil, err
		}
		return loaded[R]{res: res, payload: r.store(loadCtx, key, res)}, nil
	})

	var zero R
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case out := <-ch:
		if out.Err != nil {
			return zero, out.Err
		}
		l := out.Val.(loaded[R])
		if leader || l.payload == nil {
			return l.res, nil
		}
		v, err := r.shape.Restore(*l.payload)
		if err != nil {
			if r.logger != nil {
				r.logger.WithField("key", key).WithError(err).Warn("cache: failed to copy shared result, loading directly")
			}
			return r.load(ctx, args)
		}
		return v, nil
	}
}

// loaded is the outcome of one shared load. payload is nil when the result was not cacheable.
type loaded[R any] struct {
	res     R
	payload *Payload
}

func (r *CachedReader[A, R]) store(ctx context.Context, key string, res R) *Payload {
	p, err := r.shape.Flatten(res)
	if err != nil {
		if r.logger != nil {
			r.logger.WithField("key", key).WithError(err).Warn("cache: result not serializable, skipping")
		}
		return nil
	}
	if p == nil {
		return nil
	}
	r.cache.Set(ctx, key, *p, r.ttl)
	return p
}
