package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the service's collectors on a private prometheus registry
type Registry struct {
	reg *prometheus.Registry

	Comparisons        prometheus.Counter
	ComparisonDuration prometheus.Histogram
	TermsNotFound      prometheus.Counter
	StoreQueries       *prometheus.CounterVec
	StoreQueryDuration *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	comparisons := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cartcompare_comparisons_total",
		Help: "Completed price comparisons.",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cartcompare_comparison_duration_seconds",
		Help:    "Wall time of a full comparison.",
		Buckets: prometheus.DefBuckets,
	})
	notFound := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cartcompare_terms_not_found_total",
		Help: "Search terms no store matched.",
	})
	storeQueries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cartcompare_store_queries_total",
		Help: "Catalog queries per store and outcome.",
	}, []string{"store", "outcome"})
	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cartcompare_store_query_duration_seconds",
		Help:    "Catalog query latency per store.",
		Buckets: prometheus.DefBuckets,
	}, []string{"store"})

	r.MustRegister(comparisons, duration, notFound, storeQueries, storeDuration)
	return &Registry{
		reg:                r,
		Comparisons:        comparisons,
		ComparisonDuration: duration,
		TermsNotFound:      notFound,
		StoreQueries:       storeQueries,
		StoreQueryDuration: storeDuration,
	}
}

// ObserveComparison records one finished comparison
func (r *Registry) ObserveComparison(d time.Duration, carts, notFound int) {
	r.Comparisons.Inc()
	r.ComparisonDuration.Observe(d.Seconds())
	r.TermsNotFound.Add(float64(notFound))
}

// ObserveStoreQuery records one catalog query
func (r *Registry) ObserveStoreQuery(store, outcome string, d time.Duration) {
	r.StoreQueries.WithLabelValues(store, outcome).Inc()
	r.StoreQueryDuration.WithLabelValues(store).Observe(d.Seconds())
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
