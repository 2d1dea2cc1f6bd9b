package goAuthClient

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricRequestSuccess)
	m.Observe(MetricSendLatency, 10*time.Millisecond)

	if m.Value(MetricRequestSuccess) != 0 {
		t.Fatal("disabled metrics must not count")
	}

	s := m.Snapshot()
	if len(s.Histograms) != 0 {
		t.Fatal("disabled metrics must produce an empty snapshot")
	}
	for id, v := range s.Counters {
		if v != 0 {
			t.Fatalf("disabled snapshot has nonzero counter %d", id)
		}
	}

	// Nil receiver is equally inert.
	var nilMetrics *Metrics
	nilMetrics.Inc(MetricRequestSuccess)
	if nilMetrics.Value(MetricRequestSuccess) != 0 || nilMetrics.Enabled() {
		t.Fatal("nil metrics must be a no-op")
	}
}

func TestMetricsIncAndValue(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricRenewalInitiated)
	m.Inc(MetricRenewalInitiated)
	m.Inc(MetricRetryDispatched)

	if got := m.Value(MetricRenewalInitiated); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := m.Value(MetricRetryDispatched); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := m.Value(metricIDCount); got != 0 {
		t.Fatalf("out-of-range id must read 0, got %d", got)
	}
}

func TestMetricsLatencyGating(t *testing.T) {
	withoutHist := NewMetrics(MetricsConfig{Enabled: true})
	withoutHist.Observe(MetricSendLatency, 10*time.Millisecond)
	if s := withoutHist.Snapshot(); len(s.Histograms) != 0 {
		t.Fatal("latency histogram recorded without the toggle")
	}

	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})
	m.Observe(MetricSendLatency, 3*time.Millisecond)
	m.Observe(MetricSendLatency, 40*time.Millisecond)
	m.Observe(MetricSendLatency, time.Second)

	// Only the send latency series accepts observations.
	m.Observe(MetricRenewalInitiated, time.Millisecond)

	s := m.Snapshot()
	buckets, ok := s.Histograms[MetricSendLatency]
	if !ok {
		t.Fatal("expected a send latency histogram")
	}
	if buckets[0] != 1 || buckets[3] != 1 || buckets[7] != 1 {
		t.Fatalf("unexpected bucket distribution %v", buckets)
	}

	var total uint64
	for _, b := range buckets {
		total += b
	}
	if total != 3 {
		t.Fatalf("expected 3 observations, got %d", total)
	}
}

func TestMetricsBucketBoundaries(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want int
	}{
		{5 * time.Millisecond, 0},
		{6 * time.Millisecond, 1},
		{10 * time.Millisecond, 1},
		{25 * time.Millisecond, 2},
		{50 * time.Millisecond, 3},
		{100 * time.Millisecond, 4},
		{250 * time.Millisecond, 5},
		{500 * time.Millisecond, 6},
		{501 * time.Millisecond, 7},
		{time.Minute, 7},
	}

	for _, tc := range cases {
		if got := bucketIndex(tc.d); got != tc.want {
			t.Fatalf("bucketIndex(%v) = %d, want %d", tc.d, got, tc.want)
		}
	}
}

func TestMetricsConcurrentInc(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	const workers = 8
	const perWorker = 1000

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				m.Inc(MetricRequestSuccess)
			}
		}()
	}
	wg.Wait()

	if got := m.Value(MetricRequestSuccess); got != workers*perWorker {
		t.Fatalf("lost increments: expected %d, got %d", workers*perWorker, got)
	}
}
