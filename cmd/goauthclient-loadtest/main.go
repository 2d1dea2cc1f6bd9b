package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	goAuthClient "github.com/MrEthical07/goAuthClient"
	"github.com/MrEthical07/goAuthClient/credential"
	"github.com/MrEthical07/goAuthClient/transport"
)

func main() {
	var (
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "requests to send")
		rotateEvery = flag.Int("rotate-every", 5000, "invalidate the access token after this many backend hits (0 disables)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "ac", "credential key prefix")
	)
	flag.Parse()

	if *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "concurrency and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	backend := newLoadBackend(*rotateEvery)
	server := httptest.NewServer(backend.routes())
	defer server.Close()

	cfg := goAuthClient.Config{
		Transport: goAuthClient.TransportConfig{
			BaseURL:        server.URL,
			RequestTimeout: 10 * time.Second,
			UserAgent:      "goauthclient-loadtest",
		},
		Renewal: goAuthClient.RenewalConfig{
			URL:     server.URL + "/oauth/renew",
			Timeout: 10 * time.Second,
		},
		Credentials: goAuthClient.CredentialsConfig{
			RedisPrefix: *prefix,
			Namespace:   "loadtest",
		},
		Metrics: goAuthClient.MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
	}

	pipeline, err := goAuthClient.New().
		WithConfig(cfg).
		WithRedis(client).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pipeline build failed: %v\n", err)
		os.Exit(1)
	}
	defer pipeline.Close()

	if err := pipeline.SetCredentials(ctx, backend.initialPair()); err != nil {
		fmt.Fprintf(os.Stderr, "seeding credentials failed: %v\n", err)
		os.Exit(1)
	}

	stats := runSendPhase(ctx, pipeline, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("send", stats)

	snapshot := pipeline.MetricsSnapshot()
	fmt.Printf("renewals: initiated=%d joined=%d success=%d failure=%d replays=%d fatal=%d\n",
		snapshot.Counters[goAuthClient.MetricRenewalInitiated],
		snapshot.Counters[goAuthClient.MetricRenewalJoined],
		snapshot.Counters[goAuthClient.MetricRenewalSuccess],
		snapshot.Counters[goAuthClient.MetricRenewalFailure],
		snapshot.Counters[goAuthClient.MetricRetryDispatched],
		snapshot.Counters[goAuthClient.MetricRequestFatalUnauthorized],
	)
}

func runSendPhase(ctx context.Context, pipeline *goAuthClient.Pipeline, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	req := &transport.Request{Method: http.MethodGet, Path: "/api/resource"}

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				resp, err := pipeline.Send(ctx, req)
				d := time.Since(t0)
				if err != nil || resp.StatusCode != http.StatusOK {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

// loadBackend is the in-process target: it accepts exactly one access token at a
// time and rotates the pair on every renewal. When rotateEvery > 0 it additionally
// invalidates the current access token after that many resource hits, forcing the
// pipeline through full renew-and-replay cycles under load.
type loadBackend struct {
	mu          sync.Mutex
	access      string
	refresh     string
	serial      int
	hits        int
	rotateEvery int
}

func newLoadBackend(rotateEvery int) *loadBackend {
	return &loadBackend{
		access:      "access-0",
		refresh:     "refresh-0",
		rotateEvery: rotateEvery,
	}
}

func (b *loadBackend) initialPair() credential.Pair {
	b.mu.Lock()
	defer b.mu.Unlock()
	return credential.Pair{AccessToken: b.access, RefreshToken: b.refresh}
}

func (b *loadBackend) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/resource", b.resourceHandler)
	mux.HandleFunc("POST /oauth/renew", b.renewHandler)
	return mux
}

func (b *loadBackend) resourceHandler(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	authorized := r.Header.Get("Authorization") == "Bearer "+b.access
	if authorized {
		b.hits++
		if b.rotateEvery > 0 && b.hits%b.rotateEvery == 0 {
			b.serial++
			b.access = fmt.Sprintf("access-%d", b.serial)
		}
	}
	b.mu.Unlock()

	if !authorized {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (b *loadBackend) renewHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if body.RefreshToken != b.refresh {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	b.serial++
	b.access = fmt.Sprintf("access-%d", b.serial)
	b.refresh = fmt.Sprintf("refresh-%d", b.serial)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"access_token":  b.access,
		"refresh_token": b.refresh,
	})
}
