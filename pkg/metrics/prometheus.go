package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for rankings.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeTimeout  = "timeout"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Ranking
	rankings        *prometheus.CounterVec
	rankingLatency  prometheus.Histogram
	competitors     prometheus.Histogram
	batchDivisions  prometheus.Histogram
	matchesReceived prometheus.Counter
	matchesCounted  prometheus.Counter
	matchesDropped  *prometheus.CounterVec
	matchesNoWinner prometheus.Counter
	tieGroups       prometheus.Counter
	idFallbacks     prometheus.Counter

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActive            prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     prometheus.Counter

	errorsByComponent *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide recorder

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // global recorder setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "standings",
		subsystem:        "ranker",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) initializeMetrics() {
	sizeBuckets := prometheus.ExponentialBuckets(1, 2, 12)

	m.rankings = m.counterVec("rankings_total", "Division rankings by outcome", "outcome")
	m.rankingLatency = m.histogram("ranking_latency_milliseconds", "Time to rank one division in milliseconds", m.histogramBuckets)
	m.competitors = m.histogram("division_competitors", "Competitors per ranked division", sizeBuckets)
	m.batchDivisions = m.histogram("batch_divisions", "Divisions per batch request", sizeBuckets)
	m.matchesReceived = m.counter("matches_received_total", "Match records received for ranking")
	m.matchesCounted = m.counter("matches_counted_total", "Match records that contributed to a table")
	m.matchesDropped = m.counterVec("matches_dropped_total", "Match records excluded from a table by reason", "reason")
	m.matchesNoWinner = m.counter("matches_no_winner_total", "Completed matches counted without a winner")
	m.tieGroups = m.counter("tie_groups_total", "Tie-groups resolved with mini-standings")
	m.idFallbacks = m.counter("id_fallbacks_total", "Adjacent rows separated only by competitor id")

	m.queueSize = m.gauge("queue_size", "Current number of queued ranking jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of queued ranking jobs")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Ranking jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Ranking jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Ranking jobs rejected by the queue")

	m.workerCount = m.gauge("worker_count", "Configured ranking workers")
	m.workerActive = m.gauge("worker_active_count", "Workers currently ranking a division")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Queue wait plus ranking time per job in milliseconds", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Jobs a worker failed to complete")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.httpRateLimited = m.counter("http_rate_limited_total", "HTTP requests rejected by the rate limiter")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
}

// RecordRanking counts one ranking and, for successful ones, its latency
// and size.
func (m *Manager) RecordRanking(outcome string, latencyMs float64, competitors int) {
	m.rankings.WithLabelValues(outcome).Inc()
	if outcome != OutcomeOK {
		return
	}
	m.rankingLatency.Observe(latencyMs)
	m.competitors.Observe(float64(competitors))
}

// RecordMatches adds received and counted match records.
func (m *Manager) RecordMatches(received, counted int) {
	m.matchesReceived.Add(float64(received))
	m.matchesCounted.Add(float64(counted))
}

// RecordDropped adds n excluded match records under reason. Zero is a no-op.
func (m *Manager) RecordDropped(reason string, n int) {
	if n <= 0 {
		return
	}
	m.matchesDropped.WithLabelValues(reason).Add(float64(n))
}

// RecordTieResolution adds winnerless matches, tie-groups and id fallbacks.
func (m *Manager) RecordTieResolution(noWinner, groups, fallbacks int) {
	m.matchesNoWinner.Add(float64(noWinner))
	m.tieGroups.Add(float64(groups))
	m.idFallbacks.Add(float64(fallbacks))
}

// RecordBatch observes the size of a batch request.
func (m *Manager) RecordBatch(divisions int) {
	m.batchDivisions.Observe(float64(divisions))
}

// Global recorders.

// RecordRanking records a ranking on the global manager.
func RecordRanking(outcome string, latencyMs float64, competitors int) {
	globalManager.RecordRanking(outcome, latencyMs, competitors)
}

// RecordMatches records match counts on the global manager.
func RecordMatches(received, counted int) {
	globalManager.RecordMatches(received, counted)
}

// RecordDropped records excluded matches on the global manager.
func RecordDropped(reason string, n int) {
	globalManager.RecordDropped(reason, n)
}

// RecordTieResolution records tie handling on the global manager.
func RecordTieResolution(noWinner, groups, fallbacks int) {
	globalManager.RecordTieResolution(noWinner, groups, fallbacks)
}

// RecordBatch records a batch size on the global manager.
func RecordBatch(divisions int) {
	globalManager.RecordBatch(divisions)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// AddWorkerActive moves the active worker gauge by delta.
func AddWorkerActive(delta int) {
	globalManager.workerActive.Add(float64(delta))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPRateLimited increments the rate limited counter.
func RecordHTTPRateLimited() {
	globalManager.httpRateLimited.Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
