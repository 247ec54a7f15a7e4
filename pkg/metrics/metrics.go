package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
// Пример запроса PromQL: rate(http_requests_total{service="storefront"}[5m])
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Gateway Метрики (вызовы удалённого backend)
// =============================================================================

// GatewayCallsTotal - счётчик RPC вызовов к backend gateway
var GatewayCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gateway_calls_total",
		Help: "Total number of backend gateway calls",
	},
	[]string{"service", "operation", "status"}, // status: ok, rejected, error
)

// GatewayCallDuration - время ожидания ответа gateway
// UI блокируется на время вызова, поэтому следим за хвостами
var GatewayCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "gateway_call_duration_seconds",
		Help:    "Duration of backend gateway calls in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Query Cache Метрики
// =============================================================================

// CacheHits - попадания в кеш запросов
var CacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "query_cache_hits_total",
		Help: "Total number of query cache hits",
	},
	[]string{"service", "key_family"},
)

// CacheMisses - промахи кеша запросов
var CacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "query_cache_misses_total",
		Help: "Total number of query cache misses",
	},
	[]string{"service", "key_family"},
)

// CacheInvalidations - инвалидации, вызванные мутациями
var CacheInvalidations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "query_cache_invalidations_total",
		Help: "Total number of query cache invalidations",
	},
	[]string{"service", "key_family"},
)

// CacheResets - полные сбросы кеша (logout)
var CacheResets = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "query_cache_resets_total",
		Help: "Total number of full query cache resets",
	},
)

// =============================================================================
// Mutation Метрики
// =============================================================================

// MutationsTotal - выполненные мутации по имени и результату
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mutations_total",
		Help: "Total number of mutations by name and outcome",
	},
	[]string{"service", "mutation", "status"}, // status: succeeded, failed, rejected_duplicate
)

// CheckoutsTotal - оформленные заказы (бизнес-метрика витрины)
var CheckoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "storefront_checkouts_total",
		Help: "Total number of successful checkouts",
	},
)

// =============================================================================
// Kafka Метрики (consumer событий каталога)
// =============================================================================

// KafkaEventsConsumed - обработанные события каталога
var KafkaEventsConsumed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_events_consumed_total",
		Help: "Total number of Kafka catalog events consumed",
	},
	[]string{"service", "topic", "event_type"},
)

// KafkaErrors - ошибки чтения/обработки событий
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka consumer errors",
	},
	[]string{"service", "topic", "operation"}, // operation: fetch, process, commit
)
