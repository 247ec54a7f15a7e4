package metrics

import "time"

// GatewayTimer измеряет длительность одного RPC вызова к gateway
type GatewayTimer struct {
	service   string
	operation string
	start     time.Time
}

func NewGatewayTimer(service, operation string) *GatewayTimer {
	return &GatewayTimer{
		service:   service,
		operation: operation,
		start:     time.Now(),
	}
}

func (gt *GatewayTimer) Observe(status string) {
	GatewayCallDuration.WithLabelValues(gt.service, gt.operation).Observe(time.Since(gt.start).Seconds())
	GatewayCallsTotal.WithLabelValues(gt.service, gt.operation, status).Inc()
}

func RecordCacheHit(service, keyFamily string) {
	CacheHits.WithLabelValues(service, keyFamily).Inc()
}

func RecordCacheMiss(service, keyFamily string) {
	CacheMisses.WithLabelValues(service, keyFamily).Inc()
}

func RecordCacheInvalidation(service, keyFamily string) {
	CacheInvalidations.WithLabelValues(service, keyFamily).Inc()
}

func RecordMutation(service, mutation, status string) {
	MutationsTotal.WithLabelValues(service, mutation, status).Inc()
}

func RecordKafkaEvent(service, topic, eventType string) {
	KafkaEventsConsumed.WithLabelValues(service, topic, eventType).Inc()
}

func RecordKafkaError(service, topic, operation string) {
	KafkaErrors.WithLabelValues(service, topic, operation).Inc()
}
