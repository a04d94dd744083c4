package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/inmuebla/listing-service/internal/platform/logger"
)

// Manager holds custom Prometheus metrics for the listing core.
type Manager struct {
	Registry *prometheus.Registry

	ListingsCreatedTotal   prometheus.Counter
	ListingUpdatesTotal    prometheus.Counter
	PaymentsInitiatedTotal prometheus.Counter
	PaymentsCompletedTotal prometheus.Counter
	PaymentsFailedTotal    prometheus.Counter

	// Expected business-rule rejections, labeled by workflow.
	WorkflowRejectionsTotal *prometheus.CounterVec

	CacheHitsTotal            *prometheus.CounterVec
	CacheMissesTotal          *prometheus.CounterVec
	CacheRefreshFailuresTotal *prometheus.CounterVec
}

// NewManager initializes and registers the service metrics on a private registry.
func NewManager(serviceName string) *Manager {
	registry := prometheus.NewRegistry()

	listingsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listings_created_total",
		Help:      "Total number of draft listings created.",
	})
	listingUpdatesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listing_updates_total",
		Help:      "Total number of listing content updates.",
	})
	paymentsInitiatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "payments_initiated_total",
		Help:      "Total number of listing-fee payments initiated.",
	})
	paymentsCompletedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "payments_completed_total",
		Help:      "Total number of listing-fee payments completed.",
	})
	paymentsFailedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "payments_failed_total",
		Help:      "Total number of listing-fee payments failed.",
	})
	workflowRejectionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "workflow_rejections_total",
		Help:      "Total number of workflow invocations rejected by business rules.",
	}, []string{"workflow"})

	cacheHitsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "active_cache_hits_total",
		Help:      "Active-listings cache hits by operation type.",
	}, []string{"operation_type"})
	cacheMissesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "active_cache_misses_total",
		Help:      "Active-listings cache misses by operation type.",
	}, []string{"operation_type"})
	cacheRefreshFailuresTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "active_cache_refresh_failures_total",
		Help:      "Failed data-source refreshes by operation type.",
	}, []string{"operation_type"})

	registry.MustRegister(
		listingsCreatedTotal,
		listingUpdatesTotal,
		paymentsInitiatedTotal,
		paymentsCompletedTotal,
		paymentsFailedTotal,
		workflowRejectionsTotal,
		cacheHitsTotal,
		cacheMissesTotal,
		cacheRefreshFailuresTotal,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:                  registry,
		ListingsCreatedTotal:      listingsCreatedTotal,
		ListingUpdatesTotal:       listingUpdatesTotal,
		PaymentsInitiatedTotal:    paymentsInitiatedTotal,
		PaymentsCompletedTotal:    paymentsCompletedTotal,
		PaymentsFailedTotal:       paymentsFailedTotal,
		WorkflowRejectionsTotal:   workflowRejectionsTotal,
		CacheHitsTotal:            cacheHitsTotal,
		CacheMissesTotal:          cacheMissesTotal,
		CacheRefreshFailuresTotal: cacheRefreshFailuresTotal,
	}
}

// StartMetricsServer starts an HTTP server exposing the registry on /metrics.
func StartMetricsServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	return server.ListenAndServe()
}
