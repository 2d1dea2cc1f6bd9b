package goAuthClient

import (
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goAuthClient/credential"
	"github.com/MrEthical07/goAuthClient/transport"
)

// Builder defines a public type used by goAuthClient APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	store      credential.Store
	transport  transport.Transport
	httpClient *http.Client
	auditSink  AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithStore describes the withstore operation and its observable behavior.
//
// WithStore may return an error when input validation, dependency calls, or security checks fail.
// WithStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithStore(store credential.Store) *Builder {
	b.store = store
	return b
}

// WithTransport describes the withtransport operation and its observable behavior.
//
// WithTransport may return an error when input validation, dependency calls, or security checks fail.
// WithTransport does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithTransport(tr transport.Transport) *Builder {
	b.transport = tr
	return b
}

// WithHTTPClient describes the withhttpclient operation and its observable behavior.
//
// WithHTTPClient may return an error when input validation, dependency calls, or security checks fail.
// WithHTTPClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Pipeline, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// -------- CREDENTIAL STORE --------
	store := b.store
	if store == nil {
		if b.redis == nil {
			return nil, errors.New("credential store required: provide a redis client or a custom store")
		}
		store = credential.NewRedisStore(b.redis, cfg.Credentials.RedisPrefix, cfg.Credentials.Namespace)
	}

	// -------- TRANSPORT --------
	tr := b.transport
	if tr == nil {
		if cfg.Transport.BaseURL == "" {
			return nil, errors.New("Transport BaseURL required when no custom transport is provided")
		}
		httpClient := b.httpClient
		if httpClient == nil {
			httpClient = &http.Client{Timeout: cfg.Transport.RequestTimeout}
		}
		tr = transport.NewHTTP(httpClient, cfg.Transport.BaseURL, cfg.Transport.UserAgent)
	}

	// -------- RENEWAL --------
	if cfg.Renewal.URL == "" {
		return nil, errors.New("Renewal URL required")
	}
	rn := newRenewer(b.httpClient, cfg.Renewal.URL, cfg.Transport.UserAgent)

	pipeline := &Pipeline{
		config:    cfg,
		store:     store,
		transport: tr,
	}

	pipeline.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	pipeline.metrics = NewMetrics(cfg.Metrics)
	pipeline.flight = newRefreshFlight(store, rn.renew, cfg.Renewal.Timeout, pipeline.metrics, pipeline.audit)

	b.built = true

	return pipeline, nil
}
