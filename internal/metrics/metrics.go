package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Load error kinds used as the "kind" label.
const (
	KindNotFound     = "not_found"
	KindFormat       = "format"
	KindMissingField = "missing_field"
	KindOther        = "other"
)

type Registry struct {
	reg          *prometheus.Registry
	Runs         prometheus.Counter
	OrdersLoaded prometheus.Counter
	LoadErrors   *prometheus.CounterVec
	AggregateSec prometheus.Histogram
	AvgOrder     prometheus.Gauge
	AvgItem      prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	runs := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderstats_runs_total"})
	loaded := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderstats_orders_loaded_total"})
	loadErrors := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "orderstats_load_errors_total"}, []string{"kind"})
	aggSec := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orderstats_aggregate_seconds",
		Buckets: prometheus.DefBuckets,
	})
	avgOrder := prometheus.NewGauge(prometheus.GaugeOpts{Name: "orderstats_average_order_price"})
	avgItem := prometheus.NewGauge(prometheus.GaugeOpts{Name: "orderstats_average_item_price"})

	r.MustRegister(runs, loaded, loadErrors, aggSec, avgOrder, avgItem)
	return &Registry{
		reg:          r,
		Runs:         runs,
		OrdersLoaded: loaded,
		LoadErrors:   loadErrors,
		AggregateSec: aggSec,
		AvgOrder:     avgOrder,
		AvgItem:      avgItem,
	}
}

// Push sends the current values to a Pushgateway under the given job name.
func (r *Registry) Push(ctx context.Context, url string, job string) error {
	if err := push.New(url, job).Gatherer(r.reg).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
