package places

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher reloads one city into the cache.
type Refresher interface {
	Refresh(ctx context.Context, city string) error
}

// Warmer refreshes a fixed list of popular cities on a cron schedule.
type Warmer struct {
	cron    *cron.Cron
	src     Refresher
	cities  []string
	timeout time.Duration
	log     *zap.Logger
}

func NewWarmer(src Refresher, cities []string, log *zap.Logger) *Warmer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Warmer{
		cron:    cron.New(),
		src:     src,
		cities:  cities,
		timeout: 30 * time.Second,
		log:     log,
	}
}

// Start schedules the warm-up with a standard five-field cron spec and runs
// the first pass in the background.
func (w *Warmer) Start(spec string) error {
	if _, err := w.cron.AddFunc(spec, w.WarmAll); err != nil {
		return err
	}
	w.cron.Start()
	go w.WarmAll()
	return nil
}

// Stop halts the scheduler. The returned context is done once a running pass finishes.
func (w *Warmer) Stop() context.Context {
	return w.cron.Stop()
}

// WarmAll refreshes every configured city. Failures are logged and skipped.
func (w *Warmer) WarmAll() {
	ok := 0
	for _, city := range w.cities {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		err := w.src.Refresh(ctx, city)
		cancel()
		if err != nil {
			w.log.Warn("cache warm failed", zap.String("city", city), zap.Error(err))
			continue
		}
		ok++
	}
	w.log.Info("attraction cache warmed", zap.Int("cities", len(w.cities)), zap.Int("ok", ok))
}
