package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistry_Counters(t *testing.T) {
	r := NewRegistry()
	r.Runs.Inc()
	r.OrdersLoaded.Add(3)
	r.LoadErrors.WithLabelValues(KindFormat).Inc()
	r.AvgOrder.Set(35)

	if got := testutil.ToFloat64(r.OrdersLoaded); got != 3 {
		t.Fatalf("orders loaded: got=%v", got)
	}
	if got := testutil.ToFloat64(r.LoadErrors.WithLabelValues(KindFormat)); got != 1 {
		t.Fatalf("format errors: got=%v", got)
	}

	if got := testutil.ToFloat64(r.Runs); got != 1 {
		t.Fatalf("runs: got=%v", got)
	}
	if got := testutil.ToFloat64(r.AvgOrder); got != 35 {
		t.Fatalf("average order price: got=%v", got)
	}
}

func TestRegistry_Push(t *testing.T) {
	var gotPath string
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer gw.Close()

	r := NewRegistry()
	r.Runs.Inc()
	if err := r.Push(context.Background(), gw.URL, "orderstats"); err != nil {
		t.Fatalf("push: %v", err)
	}
	if gotPath != "/metrics/job/orderstats" {
		t.Fatalf("unexpected push path: %s", gotPath)
	}
}

func TestRegistry_PushFailure(t *testing.T) {
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer gw.Close()

	if err := NewRegistry().Push(context.Background(), gw.URL, "orderstats"); err == nil {
		t.Fatalf("expected push error")
	}
}
