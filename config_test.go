package goAuthClient

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(cfg *Config)
		valid  bool
	}{
		{name: "defaults", mutate: func(*Config) {}, valid: true},
		{name: "zero request timeout", mutate: func(cfg *Config) { cfg.Transport.RequestTimeout = 0 }, valid: false},
		{name: "bad base url", mutate: func(cfg *Config) { cfg.Transport.BaseURL = "://nope" }, valid: false},
		{name: "good base url", mutate: func(cfg *Config) { cfg.Transport.BaseURL = "https://api.example.com" }, valid: true},
		{name: "zero renewal timeout", mutate: func(cfg *Config) { cfg.Renewal.Timeout = 0 }, valid: false},
		{name: "negative lead", mutate: func(cfg *Config) { cfg.Renewal.Lead = -time.Second }, valid: false},
		{name: "positive lead", mutate: func(cfg *Config) { cfg.Renewal.Lead = 30 * time.Second }, valid: true},
		{name: "bad renewal url", mutate: func(cfg *Config) { cfg.Renewal.URL = "://nope" }, valid: false},
		{name: "empty redis prefix", mutate: func(cfg *Config) { cfg.Credentials.RedisPrefix = "" }, valid: false},
		{name: "empty namespace", mutate: func(cfg *Config) { cfg.Credentials.Namespace = "" }, valid: false},
		{name: "audit enabled zero buffer", mutate: func(cfg *Config) { cfg.Audit.Enabled = true; cfg.Audit.BufferSize = 0 }, valid: false},
		{name: "audit disabled zero buffer", mutate: func(cfg *Config) { cfg.Audit.Enabled = false; cfg.Audit.BufferSize = 0 }, valid: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.valid && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tc.valid && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCloneConfigIsIndependent(t *testing.T) {
	cfg := defaultConfig()
	clone := cloneConfig(cfg)

	clone.Credentials.Namespace = "other"
	clone.Renewal.Lead = time.Minute

	if cfg.Credentials.Namespace != "default" || cfg.Renewal.Lead != 0 {
		t.Fatal("mutating the clone leaked into the original")
	}
}
