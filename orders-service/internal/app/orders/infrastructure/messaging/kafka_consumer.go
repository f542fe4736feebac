package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mistrytech/orders-service/internal/app/orders/entity"
	"mistrytech/pkg/logger"
	"mistrytech/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

// CatalogEventHandler обрабатывает события каталога
type CatalogEventHandler interface {
	HandleProductEvent(ctx context.Context, event *entity.ProductEvent) error
}

// KafkaConsumer читает события каталога из топика product_events
// и отвязывает удаленные товары и варианты от позиций заказов
type KafkaConsumer struct {
	reader   *kafka.Reader
	handler  CatalogEventHandler
	groupID  string
	stopChan chan struct{}
	doneChan chan struct{}
}

func NewKafkaConsumer(brokers []string, topic, groupID string, handler CatalogEventHandler) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		StartOffset:    kafka.LastOffset,
		CommitInterval: time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:   reader,
		handler:  handler,
		groupID:  groupID,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().Str("topic", c.reader.Config().Topic).Msg("Starting Kafka consumer")
	go c.consume(ctx)
}

// Stop останавливает consumer и дожидается завершения цикла чтения
func (c *KafkaConsumer) Stop() {
	close(c.stopChan)
	<-c.doneChan
	if err := c.reader.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close Kafka reader")
	}
	logger.Info().Msg("Kafka consumer stopped")
}

func (c *KafkaConsumer) consume(ctx context.Context) {
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
				if readCtx.Err() != nil {
					// Таймаут чтения при пустом топике, не ошибка
					continue
				}
				logger.Error().Err(err).Msg("Failed to fetch Kafka message")
				metrics.RecordKafkaError("orders-service", c.reader.Config().Topic, "consume")
				time.Sleep(time.Second)
				continue
			}

			if err := c.processMessage(ctx, message); err != nil {
				// Offset не коммитится, сообщение будет обработано повторно
				logger.Error().
					Err(err).
					Int64("offset", message.Offset).
					Msg("Failed to process Kafka message")
				continue
			}

			if err := c.reader.CommitMessages(ctx, message); err != nil {
				logger.Error().Err(err).Msg("Failed to commit Kafka message")
			}
		}
	}
}

func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	start := time.Now()

	var event entity.ProductEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal product event: %w", err)
	}

	logger.Info().
		Str("event_type", event.EventType).
		Int64("product_id", event.ProductID).
		Int64("offset", message.Offset).
		Msg("Received catalog event")

	if err := c.handler.HandleProductEvent(ctx, &event); err != nil {
		return fmt.Errorf("failed to handle product event: %w", err)
	}

	metrics.RecordKafkaMessageConsumed("orders-service", c.reader.Config().Topic, c.groupID, time.Since(start))

	return nil
}
