package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_CountsOutcomes(t *testing.T) {
	rec := NewRecorder()

	rec.CycleStarted()
	rec.CycleStarted()
	rec.FetchFailed()
	rec.RelayFailed()
	rec.RelayAnswered(200)
	rec.RelayAnswered(200)
	rec.RelayAnswered(401)
	rec.CycleFinished(50*time.Millisecond, 200*time.Millisecond)
	rec.CycleFinished(300*time.Millisecond, 200*time.Millisecond)

	if got := testutil.ToFloat64(rec.cycles); got != 2 {
		t.Errorf("cycles = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.fetchErrors); got != 1 {
		t.Errorf("fetchErrors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.relayErrors); got != 1 {
		t.Errorf("relayErrors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.relayResponses.WithLabelValues("200")); got != 2 {
		t.Errorf("relayResponses{200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.relayResponses.WithLabelValues("401")); got != 1 {
		t.Errorf("relayResponses{401} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.overruns); got != 1 {
		t.Errorf("overruns = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(rec.cycleDuration); got != 1 {
		t.Errorf("cycleDuration series = %d, want 1", got)
	}
}

func TestRecorder_ExactPeriodIsOverrun(t *testing.T) {
	rec := NewRecorder()

	rec.CycleFinished(199*time.Millisecond, 200*time.Millisecond)
	rec.CycleFinished(200*time.Millisecond, 200*time.Millisecond)

	if got := testutil.ToFloat64(rec.overruns); got != 1 {
		t.Errorf("overruns = %v, want 1", got)
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var rec *Recorder

	// These should not panic
	rec.CycleStarted()
	rec.FetchFailed()
	rec.RelayFailed()
	rec.RelayAnswered(200)
	rec.CycleFinished(time.Second, time.Millisecond)

	rr := httptest.NewRecorder()
	rec.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("nil Handler status = %d, want 404", rr.Code)
	}
}

func TestRecorder_HandlerExposesCollectors(t *testing.T) {
	rec := NewRecorder()
	rec.CycleStarted()

	server := httptest.NewServer(rec.Handler())
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(body), "froggi_ocr_cycles_total 1") {
		t.Fatalf("metrics body missing cycles counter:\n%s", body)
	}
}
