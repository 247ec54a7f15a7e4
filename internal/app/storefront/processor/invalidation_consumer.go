package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meadowmarket/internal/app/storefront/cache"
	"meadowmarket/internal/app/storefront/entity"
	"meadowmarket/pkg/logger"
	"meadowmarket/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const serviceName = "storefront-service"

// CatalogEvent - событие изменения каталога, публикуемое backend'ом
type CatalogEvent struct {
	EventType  string            `json:"event_type"` // PRODUCT_CREATED, PRODUCT_UPDATED, PRODUCT_DELETED, CATEGORY_CREATED
	ProductID  entity.ProductID  `json:"product_id,omitempty"`
	CategoryID entity.CategoryID `json:"category_id,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// InvalidationConsumer слушает события каталога и сбрасывает
// соответствующие ключи кеша. Долгоживущие сессии витрины сходятся к
// актуальному каталогу, даже если мутацию сделал кто-то другой.
type InvalidationConsumer struct {
	reader   *kafka.Reader
	store    cache.Store
	topic    string
	stopChan chan struct{}
	doneChan chan struct{}
}

func NewInvalidationConsumer(brokers []string, topic, groupID string, store cache.Store) *InvalidationConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       1 << 20,
		StartOffset:    kafka.LastOffset,
		CommitInterval: time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &InvalidationConsumer{
		reader:   reader,
		store:    store,
		topic:    topic,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *InvalidationConsumer) Start(ctx context.Context) {
	logger.Info().Str("topic", c.topic).Msg("Starting catalog invalidation consumer")
	go c.consume(ctx)
}

// Stop останавливает consumer и дожидается завершения
func (c *InvalidationConsumer) Stop() {
	logger.Info().Msg("Stopping catalog invalidation consumer")
	close(c.stopChan)
	<-c.doneChan
	c.reader.Close()
}

func (c *InvalidationConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return
				}
				metrics.RecordKafkaError(serviceName, c.topic, "fetch")
				time.Sleep(time.Second)
				continue
			}

			if err := c.processMessage(ctx, message); err != nil {
				logger.Error().Err(err).Msg("failed to process catalog event")
				metrics.RecordKafkaError(serviceName, c.topic, "process")
				// Offset не коммитим - событие будет обработано повторно
				continue
			}

			if err := c.reader.CommitMessages(ctx, message); err != nil {
				metrics.RecordKafkaError(serviceName, c.topic, "commit")
			}
		}
	}
}

func (c *InvalidationConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event CatalogEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal catalog event: %w", err)
	}

	prefixes := prefixesFor(event)
	if len(prefixes) == 0 {
		// Неизвестный тип события: пропускаем, коммитим
		logger.Warn().Str("event_type", event.EventType).Msg("unknown catalog event type")
		return nil
	}

	if err := c.store.Invalidate(ctx, prefixes...); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}

	metrics.RecordKafkaEvent(serviceName, c.topic, event.EventType)
	logger.Debug().
		Str("event_type", event.EventType).
		Uint64("product_id", event.ProductID).
		Int64("offset", message.Offset).
		Msg("catalog event applied")
	return nil
}

// prefixesFor переводит событие каталога в набор сбрасываемых префиксов
func prefixesFor(event CatalogEvent) []string {
	switch event.EventType {
	case "PRODUCT_CREATED":
		return []string{cache.FamilyProducts}
	case "PRODUCT_UPDATED", "PRODUCT_DELETED":
		return []string{cache.FamilyProducts, cache.ProductKey(event.ProductID)}
	case "CATEGORY_CREATED":
		return []string{cache.FamilyCategories}
	default:
		return nil
	}
}

// Stats возвращает статистику reader'а
func (c *InvalidationConsumer) Stats() kafka.ReaderStats {
	return c.reader.Stats()
}
