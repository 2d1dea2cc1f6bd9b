package prometheus

import (
	"net/http/httptest"
	"strings"
	"testing"

	goAuthClient "github.com/MrEthical07/goAuthClient"
)

type fakeSource struct {
	snapshot goAuthClient.MetricsSnapshot
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() goAuthClient.MetricsSnapshot {
	return f.snapshot
}

func (f *fakeSource) AuditDropped() uint64 {
	return f.dropped
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		snapshot: goAuthClient.MetricsSnapshot{
			Counters: map[goAuthClient.MetricID]uint64{
				goAuthClient.MetricRequestSuccess:   42,
				goAuthClient.MetricRenewalInitiated: 3,
				goAuthClient.MetricRetryDispatched:  7,
			},
			Histograms: map[goAuthClient.MetricID][]uint64{
				goAuthClient.MetricSendLatency: {1, 0, 2, 0, 0, 0, 0, 1},
			},
		},
		dropped: 5,
	}
}

func TestRenderCounters(t *testing.T) {
	exporter := NewPrometheusExporterFromSource(newFakeSource())
	out := exporter.Render()

	for _, want := range []string{
		"# TYPE goauthclient_request_success_total counter",
		"goauthclient_request_success_total 42",
		"goauthclient_renewal_initiated_total 3",
		"goauthclient_retry_dispatched_total 7",
		"goauthclient_renewal_joined_total 0",
		"goauthclient_audit_dropped_total 5",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderHistogramIsCumulative(t *testing.T) {
	exporter := NewPrometheusExporterFromSource(newFakeSource())
	out := exporter.Render()

	for _, want := range []string{
		"# TYPE goauthclient_send_latency_seconds histogram",
		`goauthclient_send_latency_seconds_bucket{le="0.005"} 1`,
		`goauthclient_send_latency_seconds_bucket{le="0.025"} 3`,
		`goauthclient_send_latency_seconds_bucket{le="+Inf"} 4`,
		"goauthclient_send_latency_seconds_count 4",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderEmptySource(t *testing.T) {
	exporter := NewPrometheusExporterFromSource(&fakeSource{
		snapshot: goAuthClient.MetricsSnapshot{
			Counters:   map[goAuthClient.MetricID]uint64{},
			Histograms: map[goAuthClient.MetricID][]uint64{},
		},
	})
	if out := exporter.Render(); out != "" {
		t.Fatalf("expected empty output for an empty source, got:\n%s", out)
	}

	var nilExporter *PrometheusExporter
	if out := nilExporter.Render(); out != "" {
		t.Fatal("nil exporter must render nothing")
	}
}

func TestHandlerServesTextExposition(t *testing.T) {
	exporter := NewPrometheusExporterFromSource(newFakeSource())

	rec := httptest.NewRecorder()
	exporter.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected Content-Type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "goauthclient_request_success_total 42") {
		t.Fatalf("handler body missing counters:\n%s", rec.Body.String())
	}
}
