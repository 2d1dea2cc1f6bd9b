package goAuthClient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrEthical07/goAuthClient/credential"
)

// refreshFlight is the single-flight renewal coordinator. The refreshing flag and the
// waiter queue form one shared resource guarded by mu: checking and flipping
// Idle -> Refreshing is atomic with enqueueing, so two initiators can never start two
// renewal calls for the same episode.
type refreshFlight struct {
	mu         sync.Mutex
	refreshing bool
	waiters    []chan renewResult

	store   credential.Store
	renew   func(ctx context.Context, refreshToken string) (credential.Pair, error)
	timeout time.Duration
	metrics *Metrics
	audit   *auditDispatcher
}

type renewResult struct {
	pair credential.Pair
	err  error
}

func newRefreshFlight(
	store credential.Store,
	renew func(ctx context.Context, refreshToken string) (credential.Pair, error),
	timeout time.Duration,
	metrics *Metrics,
	audit *auditDispatcher,
) *refreshFlight {
	return &refreshFlight{
		store:   store,
		renew:   renew,
		timeout: timeout,
		metrics: metrics,
		audit:   audit,
	}
}

// acquire returns a freshly renewed credential pair, issuing at most one backend
// renewal call per episode. The first caller of an episode becomes the initiator and
// performs the call; every later caller is appended to the waiter queue and suspends
// until the initiator settles. Waiters are resolved in FIFO order with the shared
// outcome. Cancelling a waiter's ctx abandons only that waiter; the shared renewal
// call keeps running for everyone else.
func (f *refreshFlight) acquire(ctx context.Context) (credential.Pair, error) {
	f.mu.Lock()
	if f.refreshing {
		ch := make(chan renewResult, 1)
		f.waiters = append(f.waiters, ch)
		f.mu.Unlock()

		f.metrics.Inc(MetricRenewalJoined)

		select {
		case res := <-ch:
			return res.pair, res.err
		case <-ctx.Done():
			return credential.Pair{}, ctx.Err()
		}
	}
	f.refreshing = true
	f.mu.Unlock()

	res := f.settle(ctx, f.run(ctx))
	return res.pair, res.err
}

// run performs one renewal episode end to end. The backend call is detached from the
// initiating request's cancellation and runs under the coordinator's own timeout: a
// cancelled initiator must not kill a renewal other requests are waiting on.
func (f *refreshFlight) run(ctx context.Context) renewResult {
	f.metrics.Inc(MetricRenewalInitiated)
	f.emit(ctx, auditEventRenewalStarted, true, nil)

	renewCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()

	current, err := f.store.Get(renewCtx)
	if err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			return renewResult{err: fmt.Errorf("%w: %w", ErrRenewalFailed, ErrNoRefreshCredential)}
		}
		return renewResult{err: fmt.Errorf("%w: %w", ErrRenewalFailed, err)}
	}
	if current.RefreshToken == "" {
		return renewResult{err: fmt.Errorf("%w: %w", ErrRenewalFailed, ErrNoRefreshCredential)}
	}

	pair, err := f.renew(renewCtx, current.RefreshToken)
	if err != nil {
		return renewResult{err: err}
	}

	if err := f.store.Set(renewCtx, pair); err != nil {
		return renewResult{err: fmt.Errorf("%w: persisting renewed credentials: %w", ErrRenewalFailed, err)}
	}

	return renewResult{pair: pair}
}

// settle closes the episode: on failure it clears the credential store, then it drains
// the waiter queue in FIFO order with the shared outcome, flips the coordinator back
// to idle, and hands the outcome to the initiator. The queue is drained exactly once
// per episode, never partially.
func (f *refreshFlight) settle(ctx context.Context, res renewResult) renewResult {
	if res.err != nil {
		clearCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
		if clearErr := f.store.Clear(clearCtx); clearErr != nil {
			res.err = fmt.Errorf("%w (credential clear failed: %v)", res.err, clearErr)
		}
		cancel()

		f.metrics.Inc(MetricRenewalFailure)
		f.metrics.Inc(MetricCredentialsCleared)
		f.emit(ctx, auditEventRenewalFailure, false, res.err)
		f.emit(ctx, auditEventCredentialsCleared, true, nil)
	} else {
		f.metrics.Inc(MetricRenewalSuccess)
		f.emit(ctx, auditEventRenewalSuccess, true, nil)
	}

	f.mu.Lock()
	waiters := f.waiters
	f.waiters = nil
	f.refreshing = false
	f.mu.Unlock()

	for _, ch := range waiters {
		ch <- res
	}

	return res
}

func (f *refreshFlight) emit(ctx context.Context, eventType string, success bool, err error) {
	if f == nil || f.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Success:   success,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	f.audit.Emit(ctx, event)
}
