package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

func outcome(failure bool) Outcome {
	if failure {
		return Error
	}
	return Success
}

var defaultHistogramBucketsSeconds = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10}

var (
	once          sync.Once
	metricsRouter *chi.Mux

	eventProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "event_processing_duration_seconds",
			Help:    "Event processing duration in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"event_type", "status", "retry"},
	)

	skippedEventsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skipped_events_count",
			Help: "Number of events skipped without mutation, split by kind and reason",
		},
		[]string{"event_type", "reason"},
	)

	openWhileActiveCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "loan_open_while_active_count",
			Help: "Number of loan opens received for an account with a loan still active",
		},
	)

	lastProcessedBlockGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "last_processed_block",
			Help: "Block number of the last applied event",
		},
	)

	loansOriginatedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "protocol_loans_originated",
			Help: "Loans originated since the beginning of the log",
		},
	)

	uniqueBorrowersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "protocol_unique_borrowers",
			Help: "Distinct accounts that ever opened a loan",
		},
	)

	queueReceiveErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_receive_error_count",
			Help: "The total number of messages that could not be decoded or processed",
		},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)

	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of query api request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"route", "method", "status"},
	)
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Info().Msgf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics registers the collectors with the default registry.
func registerMetrics() {
	prometheus.MustRegister(
		eventProcessingDuration,
		skippedEventsCounter,
		openWhileActiveCounter,
		lastProcessedBlockGauge,
		loansOriginatedGauge,
		uniqueBorrowersGauge,
		queueReceiveErrorCounter,
		pollerDurationHistogram,
		dbLatency,
		httpRequestDurationHistogram,
	)
}

func RecordEventProcessingDuration(d time.Duration, eventType string, retry int, failure bool) {
	eventProcessingDuration.
		WithLabelValues(eventType, outcome(failure).String(), strconv.Itoa(retry)).
		Observe(d.Seconds())
}

func IncSkippedEvents(eventType, reason string) {
	skippedEventsCounter.WithLabelValues(eventType, reason).Inc()
}

func IncOpenWhileActive() {
	openWhileActiveCounter.Inc()
}

func RecordLastProcessedBlock(blockNumber uint64) {
	lastProcessedBlockGauge.Set(float64(blockNumber))
}

func RecordProtocolStats(loansOriginated, uniqueBorrowers uint64) {
	loansOriginatedGauge.Set(float64(loansOriginated))
	uniqueBorrowersGauge.Set(float64(uniqueBorrowers))
}

func RecordQueueReceiveError() {
	queueReceiveErrorCounter.Inc()
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	dbLatency.WithLabelValues(method, outcome(failure).String()).Observe(d.Seconds())
}

// RecordHttpRequestDuration records the duration of a query api request. The
// route is the pattern the request matched, not the raw path.
func RecordHttpRequestDuration(d time.Duration, route, method string, statusCode int) {
	httpRequestDurationHistogram.WithLabelValues(
		route,
		method,
		strconv.Itoa(statusCode),
	).Observe(d.Seconds())
}
