package sweeper

import (
	"context"
	"sync/atomic"
	"time"

	"storefront_api/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const lockKey = "sweeper:payment_expiry:lock"

// Expirer reclaims stock from overdue unpaid orders.
type Expirer interface {
	ExpireOverdue() (int, error)
}

// Sweeper runs Expirer on a fixed interval. A redis lock keeps multiple
// replicas from sweeping the same window; without redis the sweeper still
// runs, relying on the conditional order updates for correctness.
type Sweeper struct {
	expirer  Expirer
	redis    *redis.Client
	interval time.Duration
	running  atomic.Bool
	stop     chan struct{}
	done     chan struct{}
}

func New(expirer Expirer, rdb *redis.Client, interval time.Duration) *Sweeper {
	return &Sweeper{
		expirer:  expirer,
		redis:    rdb,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	go s.loop()
	logger.Log.Info("Expiration sweeper started", zap.Duration("interval", s.interval))
}

// Stop blocks until an in-flight sweep finishes.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// One pass at startup so a restart does not delay overdue reclaims
	// by a full interval.
	s.Sweep()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}

// Sweep runs a single pass. Overlapping passes are skipped.
func (s *Sweeper) Sweep() {
	if !s.running.CompareAndSwap(false, true) {
		logger.Log.Warn("Skipping sweep, previous pass still running")
		return
	}
	defer s.running.Store(false)

	if !s.acquireLock() {
		return
	}

	expired, err := s.expirer.ExpireOverdue()
	if err != nil {
		// Soft failure, the next tick retries.
		logger.Log.Error("Expiration sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		logger.Log.Info("Expiration sweep reclaimed stock", zap.Int("orders", expired))
	}
}

func (s *Sweeper) acquireLock() bool {
	if s.redis == nil {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ok, err := s.redis.SetNX(ctx, lockKey, 1, s.interval).Result()
	if err != nil {
		// Redis being down should not stop reclaims.
		logger.Log.Warn("Sweeper lock unavailable, proceeding without it", zap.Error(err))
		return true
	}
	return ok
}
