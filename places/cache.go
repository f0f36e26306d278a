package places

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"wayfarer/models"
	"wayfarer/utils"
)

var ErrEmptyCity = errors.New("city is required")

// Source loads attractions for a city.
type Source interface {
	Attractions(ctx context.Context, city string) ([]models.Attraction, error)
}

// RemoteCache is the shared cache tier, usually Redis.
type RemoteCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// CityRecorder is told about every city that produced attractions.
type CityRecorder interface {
	RecordCity(ctx context.Context, city string) error
}

const sharedFetchTimeout = 30 * time.Second

// CachedSource wraps a Source with an in-process cache and an optional remote one.
// Entries are keyed by the normalized city name. Empty results are not cached.
type CachedSource struct {
	next     Source
	local    *gocache.Cache
	remote   RemoteCache
	recorder CityRecorder
	ttl      time.Duration
	timeout  time.Duration
	group    singleflight.Group
	log      *zap.Logger
}

type CacheOption func(*CachedSource)

func WithRemote(rc RemoteCache) CacheOption {
	return func(c *CachedSource) { c.remote = rc }
}

func WithRecorder(r CityRecorder) CacheOption {
	return func(c *CachedSource) { c.recorder = r }
}

func NewCachedSource(next Source, ttl time.Duration, log *zap.Logger, opts ...CacheOption) *CachedSource {
	if log == nil {
		log = zap.NewNop()
	}
	c := &CachedSource{
		next:  next,
		local: gocache.New(ttl, 2*ttl),
		ttl:     ttl,
		timeout: sharedFetchTimeout,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedSource) Attractions(ctx context.Context, city string) ([]models.Attraction, error) {
	key := utils.NormalizeCity(city)
	if key == "" {
		return nil, ErrEmptyCity
	}
	if v, ok := c.local.Get(key); ok {
		return cloneAttractions(v.([]models.Attraction)), nil
	}

	// The shared fetch outlives any single caller; each caller only stops waiting.
	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := c.detach(ctx)
		defer cancel()
		if c.remote != nil {
			var cached []models.Attraction
			found, err := c.remote.GetJSON(fctx, remoteKey(key), &cached)
			if err != nil {
				c.log.Warn("remote cache read failed", zap.String("city", key), zap.Error(err))
			}
			if found && len(cached) > 0 {
				c.local.SetDefault(key, cached)
				return cached, nil
			}
		}
		return c.fetch(fctx, key, city)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneAttractions(res.Val.([]models.Attraction)), nil
	}
}

// Refresh fetches the city from the underlying source and overwrites both cache tiers.
func (c *CachedSource) Refresh(ctx context.Context, city string) error {
	key := utils.NormalizeCity(city)
	if key == "" {
		return ErrEmptyCity
	}
	_, err, _ := c.group.Do("refresh:"+key, func() (any, error) {
		fctx, cancel := c.detach(ctx)
		defer cancel()
		return c.fetch(fctx, key, city)
	})
	return err
}

func (c *CachedSource) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
}

func (c *CachedSource) fetch(ctx context.Context, key, city string) ([]models.Attraction, error) {
	fresh, err := c.next.Attractions(ctx, city)
	if err != nil {
		return nil, err
	}
	if len(fresh) == 0 {
		return []models.Attraction{}, nil
	}
	c.local.SetDefault(key, fresh)
	if c.remote != nil {
		if err := c.remote.SetJSON(ctx, remoteKey(key), fresh, c.ttl); err != nil {
			c.log.Warn("remote cache write failed", zap.String("city", key), zap.Error(err))
		}
	}
	if c.recorder != nil {
		if err := c.recorder.RecordCity(ctx, city); err != nil {
			c.log.Warn("recording city failed", zap.String("city", city), zap.Error(err))
		}
	}
	return fresh, nil
}

func remoteKey(city string) string {
	return "attractions:" + city
}

func cloneAttractions(in []models.Attraction) []models.Attraction {
	out := make([]models.Attraction, len(in))
	copy(out, in)
	return out
}
