package goAuthClient

import (
	"errors"
	"net/url"
	"time"
)

// Config defines a public type used by goAuthClient APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Transport   TransportConfig
	Renewal     RenewalConfig
	Credentials CredentialsConfig
	Audit       AuditConfig
	Metrics     MetricsConfig
}

/*
====================================
TRANSPORT CONFIG
====================================
*/

// TransportConfig defines a public type used by goAuthClient APIs.
//
// TransportConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TransportConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	UserAgent      string
}

/*
====================================
RENEWAL CONFIG
====================================
*/

// RenewalConfig defines a public type used by goAuthClient APIs.
//
// RenewalConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Lead enables proactive renewal: when > 0 and the stored access token is a JWT whose
// expiry falls within Lead of now, the pipeline renews before dispatching instead of
// waiting for the 401. Lead = 0 disables the probe entirely.
type RenewalConfig struct {
	URL     string
	Timeout time.Duration
	Lead    time.Duration
}

/*
====================================
CREDENTIALS CONFIG
====================================
*/

// CredentialsConfig defines a public type used by goAuthClient APIs.
//
// CredentialsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CredentialsConfig struct {
	RedisPrefix string
	Namespace   string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goAuthClient APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goAuthClient APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Transport: TransportConfig{
			RequestTimeout: 30 * time.Second,
			UserAgent:      "goAuthClient",
		},
		Renewal: RenewalConfig{
			Timeout: 30 * time.Second,
			Lead:    0,
		},
		Credentials: CredentialsConfig{
			RedisPrefix: "ac",
			Namespace:   "default",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a full copy.
	return cfg
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Transport
	if c.Transport.RequestTimeout <= 0 {
		return errors.New("Transport RequestTimeout must be > 0")
	}
	if c.Transport.BaseURL != "" {
		if _, err := url.ParseRequestURI(c.Transport.BaseURL); err != nil {
			return errors.New("Transport BaseURL is not a valid URL")
		}
	}

	// Renewal
	if c.Renewal.Timeout <= 0 {
		return errors.New("Renewal Timeout must be > 0")
	}
	if c.Renewal.Lead < 0 {
		return errors.New("Renewal Lead must be >= 0")
	}
	if c.Renewal.URL != "" {
		if _, err := url.ParseRequestURI(c.Renewal.URL); err != nil {
			return errors.New("Renewal URL is not a valid URL")
		}
	}

	// Credentials
	if c.Credentials.RedisPrefix == "" {
		return errors.New("Credentials RedisPrefix must not be empty")
	}
	if c.Credentials.Namespace == "" {
		return errors.New("Credentials Namespace must not be empty")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}

	return nil
}
