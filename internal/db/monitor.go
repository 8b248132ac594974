package db

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Pinger is implemented by every storage backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

const (
	stateUnknown int32 = iota
	stateUp
	stateDown
)

// HealthMonitor periodically pings a store and remembers the outcome so
// health checks do not hit the store on every request.
type HealthMonitor struct {
	state   atomic.Int32
	onCheck func(ok bool)
}

// Healthy reports whether the most recent ping succeeded.
func (m *HealthMonitor) Healthy() bool {
	return m.state.Load() == stateUp
}

// StartHealthMonitor pings store once immediately and then every interval
// until ctx is canceled. State changes are logged; onCheck, if non-nil,
// receives every result.
func StartHealthMonitor(
	ctx context.Context,
	store Pinger,
	interval time.Duration,
	log *zap.Logger,
	onCheck func(ok bool),
) *HealthMonitor {
	m := &HealthMonitor{onCheck: onCheck}
	m.check(ctx, store, interval, log)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.check(ctx, store, interval, log)
			}
		}
	}()
	return m
}

func (m *HealthMonitor) check(ctx context.Context, store Pinger, timeout time.Duration, log *zap.Logger) {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	err := store.Ping(pingCtx)
	cancel()

	next := stateUp
	if err != nil {
		next = stateDown
	}
	if prev := m.state.Swap(next); prev != next {
		if err != nil {
			log.Error("store ping failed", zap.Error(err))
		} else {
			log.Info("store reachable")
		}
	}
	if m.onCheck != nil {
		m.onCheck(err == nil)
	}
}
