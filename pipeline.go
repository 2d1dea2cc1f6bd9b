package goAuthClient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/goAuthClient/credential"
	"github.com/MrEthical07/goAuthClient/transport"
)

// Pipeline defines a public type used by goAuthClient APIs.
//
// Pipeline instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Pipeline struct {
	config    Config
	store     credential.Store
	transport transport.Transport
	flight    *refreshFlight
	audit     *auditDispatcher
	metrics   *Metrics
}

// requestAttempt carries the per-attempt state of one logical request. A fresh value
// is created for every Send call; retried transitions false -> true at most once and
// is never stored on the shared request descriptor.
type requestAttempt struct {
	id      string
	retried bool
}

func newRequestAttempt() requestAttempt {
	return requestAttempt{id: uuid.NewString()}
}

// Send describes the send operation and its observable behavior.
//
// Send may return an error when input validation, dependency calls, or security checks fail.
// Send does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Send attaches the stored access credential, dispatches the request, and on an
// unauthorized outcome renews through the single-flight coordinator and replays the
// request exactly once. Transport errors and non-401 responses pass through verbatim.
// A 401 on the replay is fatal for the request and returned together with
// [ErrUnauthorized] alongside the response.
func (p *Pipeline) Send(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	if p == nil || p.transport == nil || p.store == nil {
		return nil, ErrPipelineNotReady
	}
	if req == nil {
		return nil, ErrNilRequest
	}

	start := time.Now()
	attempt := newRequestAttempt()

	pair, err := p.store.Get(ctx)
	switch {
	case err == nil:
	case errors.Is(err, credential.ErrNotFound):
		pair = credential.Pair{}
	default:
		p.metricInc(MetricStorageError)
		return nil, err
	}

	if pair.AccessToken != "" && p.config.Renewal.Lead > 0 && expiresWithin(pair.AccessToken, p.config.Renewal.Lead) {
		p.metricInc(MetricRenewalLead)
		renewed, renewErr := p.flight.acquire(ctx)
		if renewErr != nil {
			p.emitAudit(ctx, auditEventReauthRequired, false, attempt.id, renewErr, nil)
			return nil, renewErr
		}
		pair = renewed
	}

	resp, err := p.transport.Send(ctx, withBearer(req, pair.AccessToken))
	if err != nil {
		p.metricInc(MetricTransportFailure)
		return nil, err
	}
	if !resp.Unauthorized {
		p.metricInc(MetricRequestSuccess)
		p.observeLatency(start)
		return resp, nil
	}

	// First unauthorized outcome for this attempt: renew once, replay once.
	p.metricInc(MetricRequestUnauthorized)
	attempt.retried = true

	renewed, renewErr := p.flight.acquire(ctx)
	if renewErr != nil {
		p.emitAudit(ctx, auditEventReauthRequired, false, attempt.id, renewErr, nil)
		return nil, renewErr
	}

	p.metricInc(MetricRetryDispatched)
	p.emitAudit(ctx, auditEventRequestRetried, true, attempt.id, nil, nil)

	resp, err = p.transport.Send(ctx, withBearer(req, renewed.AccessToken))
	if err != nil {
		p.metricInc(MetricTransportFailure)
		return nil, err
	}
	if resp.Unauthorized && attempt.retried {
		p.metricInc(MetricRequestFatalUnauthorized)
		p.emitAudit(ctx, auditEventReauthRequired, false, attempt.id, ErrUnauthorized, nil)
		return resp, ErrUnauthorized
	}

	p.metricInc(MetricRequestSuccess)
	p.observeLatency(start)
	return resp, nil
}

// Renew describes the renew operation and its observable behavior.
//
// Renew may return an error when input validation, dependency calls, or security checks fail.
// Renew does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Renew forces a credential renewal through the same single-flight path Send uses;
// concurrent callers share one backend call.
func (p *Pipeline) Renew(ctx context.Context) (credential.Pair, error) {
	if p == nil || p.flight == nil {
		return credential.Pair{}, ErrPipelineNotReady
	}
	return p.flight.acquire(ctx)
}

// SetCredentials describes the setcredentials operation and its observable behavior.
//
// SetCredentials may return an error when input validation, dependency calls, or security checks fail.
// SetCredentials does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// SetCredentials stores the pair obtained from an interactive login.
func (p *Pipeline) SetCredentials(ctx context.Context, pair credential.Pair) error {
	if p == nil || p.store == nil {
		return ErrPipelineNotReady
	}
	if err := p.store.Set(ctx, pair); err != nil {
		p.metricInc(MetricStorageError)
		return err
	}
	p.emitAudit(ctx, auditEventCredentialsStored, true, "", nil, nil)
	return nil
}

// Credentials describes the credentials operation and its observable behavior.
//
// Credentials may return an error when input validation, dependency calls, or security checks fail.
// Credentials does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *Pipeline) Credentials(ctx context.Context) (credential.Pair, error) {
	if p == nil || p.store == nil {
		return credential.Pair{}, ErrPipelineNotReady
	}
	return p.store.Get(ctx)
}

// ClearCredentials describes the clearcredentials operation and its observable behavior.
//
// ClearCredentials may return an error when input validation, dependency calls, or security checks fail.
// ClearCredentials does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// ClearCredentials removes both stored slots atomically; callers use it on logout.
func (p *Pipeline) ClearCredentials(ctx context.Context) error {
	if p == nil || p.store == nil {
		return ErrPipelineNotReady
	}
	if err := p.store.Clear(ctx); err != nil {
		p.metricInc(MetricStorageError)
		return err
	}
	p.metricInc(MetricCredentialsCleared)
	p.emitAudit(ctx, auditEventCredentialsCleared, true, "", nil, nil)
	return nil
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *Pipeline) Close() {
	if p == nil {
		return
	}
	if p.audit != nil {
		p.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *Pipeline) AuditDropped() uint64 {
	if p == nil || p.audit == nil {
		return 0
	}
	return p.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *Pipeline) MetricsSnapshot() MetricsSnapshot {
	if p == nil || p.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return p.metrics.Snapshot()
}

func (p *Pipeline) metricInc(id MetricID) {
	if p == nil || p.metrics == nil {
		return
	}
	p.metrics.Inc(id)
}

func (p *Pipeline) observeLatency(start time.Time) {
	if p == nil || p.metrics == nil || !p.metrics.LatencyEnabled() {
		return
	}
	p.metrics.Observe(MetricSendLatency, time.Since(start))
}

// withBearer clones the request descriptor and attaches the access credential; the
// caller's descriptor is never mutated, so replays start from a clean copy.
func withBearer(req *transport.Request, accessToken string) *transport.Request {
	clone := req.Clone()
	if accessToken != "" {
		clone.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return clone
}
