package goAuthClient

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MrEthical07/goAuthClient/credential"
)

func newTestFlight(store credential.Store, renew func(ctx context.Context, refreshToken string) (credential.Pair, error)) *refreshFlight {
	return newRefreshFlight(store, renew, 2*time.Second, NewMetrics(MetricsConfig{Enabled: true}), nil)
}

func seededStore(t *testing.T, pair credential.Pair) *credential.MemoryStore {
	t.Helper()

	store := credential.NewMemoryStore()
	if err := store.Set(context.Background(), pair); err != nil {
		t.Fatalf("seeding store failed: %v", err)
	}
	return store
}

func TestFlightSettleDrainsWaitersInOrder(t *testing.T) {
	f := newTestFlight(credential.NewMemoryStore(), nil)

	f.mu.Lock()
	f.refreshing = true
	waiters := make([]chan renewResult, 4)
	for i := range waiters {
		waiters[i] = make(chan renewResult, 1)
		f.waiters = append(f.waiters, waiters[i])
	}
	f.mu.Unlock()

	want := renewResult{pair: credential.Pair{AccessToken: "a", RefreshToken: "r"}}
	f.settle(context.Background(), want)

	for i, ch := range waiters {
		select {
		case res := <-ch:
			if res.pair != want.pair {
				t.Fatalf("waiter %d got %+v", i, res.pair)
			}
		default:
			t.Fatalf("waiter %d was not resolved", i)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refreshing {
		t.Fatal("flight still marked refreshing after settle")
	}
	if f.waiters != nil {
		t.Fatalf("waiter queue not reset: %d entries", len(f.waiters))
	}
}

func TestFlightWaiterCancellationLeavesRenewalRunning(t *testing.T) {
	release := make(chan struct{})
	store := seededStore(t, credential.Pair{AccessToken: "a", RefreshToken: "r"})
	f := newTestFlight(store, func(ctx context.Context, _ string) (credential.Pair, error) {
		select {
		case <-release:
			return credential.Pair{AccessToken: "a2", RefreshToken: "r2"}, nil
		case <-ctx.Done():
			return credential.Pair{}, fmt.Errorf("%w: %v", ErrRenewalFailed, ctx.Err())
		}
	})

	initiatorDone := make(chan error, 1)
	go func() {
		_, err := f.acquire(context.Background())
		initiatorDone <- err
	}()

	// Wait until the initiator holds the episode, then attach a doomed waiter.
	for {
		f.mu.Lock()
		refreshing := f.refreshing
		f.mu.Unlock()
		if refreshing {
			break
		}
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithCancel(context.Background())
	waiterDone := make(chan error, 1)
	go func() {
		_, err := f.acquire(ctx)
		waiterDone <- err
	}()

	for f.metrics.Value(MetricRenewalJoined) == 0 {
		time.Sleep(time.Millisecond)
	}
	cancel()

	if err := <-waiterDone; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled for the abandoned waiter, got %v", err)
	}

	close(release)
	if err := <-initiatorDone; err != nil {
		t.Fatalf("cancelled waiter must not affect the shared renewal: %v", err)
	}

	pair, err := store.Get(context.Background())
	if err != nil || pair.AccessToken != "a2" {
		t.Fatalf("expected rotated pair in store, got %+v (%v)", pair, err)
	}
}

func TestFlightInitiatorCancellationDoesNotKillRenewal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := seededStore(t, credential.Pair{AccessToken: "a", RefreshToken: "r"})

	f := newTestFlight(store, func(renewCtx context.Context, _ string) (credential.Pair, error) {
		cancel()
		select {
		case <-renewCtx.Done():
			return credential.Pair{}, fmt.Errorf("%w: %v", ErrRenewalFailed, renewCtx.Err())
		case <-time.After(50 * time.Millisecond):
			return credential.Pair{AccessToken: "a2", RefreshToken: "r2"}, nil
		}
	})

	pair, err := f.acquire(ctx)
	if err != nil {
		t.Fatalf("caller cancellation leaked into the renewal call: %v", err)
	}
	if pair.AccessToken != "a2" {
		t.Fatalf("unexpected pair %+v", pair)
	}
}

func TestFlightRenewalTimeout(t *testing.T) {
	store := seededStore(t, credential.Pair{AccessToken: "a", RefreshToken: "r"})
	f := newRefreshFlight(store, func(ctx context.Context, _ string) (credential.Pair, error) {
		<-ctx.Done()
		return credential.Pair{}, fmt.Errorf("%w: %v", ErrRenewalFailed, ctx.Err())
	}, 20*time.Millisecond, NewMetrics(MetricsConfig{Enabled: true}), nil)

	_, err := f.acquire(context.Background())
	if !errors.Is(err, ErrRenewalFailed) {
		t.Fatalf("expected ErrRenewalFailed after timeout, got %v", err)
	}
	if _, err := store.Get(context.Background()); !errors.Is(err, credential.ErrNotFound) {
		t.Fatalf("expected cleared store after timed-out renewal, got %v", err)
	}
}

func TestFlightMissingRefreshCredential(t *testing.T) {
	f := newTestFlight(credential.NewMemoryStore(), func(context.Context, string) (credential.Pair, error) {
		t.Fatal("renewal must not be attempted without a refresh credential")
		return credential.Pair{}, nil
	})

	_, err := f.acquire(context.Background())
	if !errors.Is(err, ErrRenewalFailed) || !errors.Is(err, ErrNoRefreshCredential) {
		t.Fatalf("expected ErrRenewalFailed wrapping ErrNoRefreshCredential, got %v", err)
	}
}

func TestFlightStoreWriteFailureFailsEpisode(t *testing.T) {
	inner := seededStore(t, credential.Pair{AccessToken: "a", RefreshToken: "r"})
	storeErr := fmt.Errorf("%w: write refused", credential.ErrUnavailable)
	store := &failingStore{setErr: storeErr, inner: inner}

	f := newTestFlight(store, func(context.Context, string) (credential.Pair, error) {
		return credential.Pair{AccessToken: "a2", RefreshToken: "r2"}, nil
	})

	_, err := f.acquire(context.Background())
	if !errors.Is(err, ErrRenewalFailed) || !errors.Is(err, credential.ErrUnavailable) {
		t.Fatalf("expected renewal failure wrapping the store error, got %v", err)
	}
	if got := f.metrics.Value(MetricRenewalFailure); got != 1 {
		t.Fatalf("expected 1 renewal failure, got %d", got)
	}
}
