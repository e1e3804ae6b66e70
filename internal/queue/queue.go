package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/lendoor/lendoor-indexer/internal/config"
	"github.com/lendoor/lendoor-indexer/internal/observability/metrics"
	"github.com/lendoor/lendoor-indexer/internal/observability/tracing"
	"github.com/lendoor/lendoor-indexer/internal/types"
)

const consumerTag = "lendoor-indexer"

// EventHandler applies one decoded event. Validation errors mean the event
// was consumed and skipped, any other error means it was not applied.
type EventHandler func(ctx context.Context, event *types.Event) *types.Error

// QueueManager consumes the decoded event stream in delivery order. Messages
// are acknowledged only once the handler is done with them.
type QueueManager struct {
	cfg  *config.QueueConfig
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewQueueManager(cfg *config.QueueConfig) (*QueueManager, error) {
	uri, err := cfg.AmqpURI()
	if err != nil {
		return nil, err
	}

	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to queue: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open queue channel: %w", err)
	}

	// events of one stream must be applied one at a time
	if err := ch.Qos(cfg.Prefetch, 0, false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set queue prefetch: %w", err)
	}

	if _, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", cfg.QueueName, err)
	}

	return &QueueManager{
		cfg:  cfg,
		conn: conn,
		ch:   ch,
	}, nil
}

// Consume blocks until ctx is done or an event cannot be applied. In the
// latter case the message is requeued and the error returned, later events
// are not consumed out of order.
func (qm *QueueManager) Consume(ctx context.Context, handler EventHandler) error {
	deliveries, err := qm.ch.ConsumeWithContext(ctx, qm.cfg.QueueName, consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume from %s: %w", qm.cfg.QueueName, err)
	}

	log.Ctx(ctx).Info().Str("queue", qm.cfg.QueueName).Msg("Consuming events")

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("queue delivery channel closed")
			}
			if err := qm.handleDelivery(ctx, delivery, handler); err != nil {
				return err
			}
		}
	}
}

func (qm *QueueManager) handleDelivery(ctx context.Context, delivery amqp.Delivery, handler EventHandler) error {
	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	var event types.Event
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		// a message that is not an event never will be
		log.Error().Err(err).Str("body", string(delivery.Body)).Msg("Dropping undecodable message")
		metrics.RecordQueueReceiveError()
		return qm.ack(delivery)
	}

	processCtx, cancel := context.WithTimeout(ctx, qm.cfg.ProcessingTimeout)
	defer cancel()

	perr := handler(processCtx, &event)
	if perr == nil || perr.ErrorCode == types.ValidationError {
		return qm.ack(delivery)
	}

	metrics.RecordQueueReceiveError()
	if err := delivery.Nack(false, true); err != nil {
		log.Error().Err(err).Msg("Failed to requeue message")
	}
	return fmt.Errorf("failed to apply event %s: %w", event.String(), perr)
}

func (qm *QueueManager) ack(delivery amqp.Delivery) error {
	if err := delivery.Ack(false); err != nil {
		return fmt.Errorf("failed to ack message: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the interaction with the queue, ensuring all resources are properly released.
func (qm *QueueManager) Shutdown() {
	log.Info().Msg("Shutting down queue manager")

	if err := qm.ch.Cancel(consumerTag, false); err != nil {
		log.Warn().Err(err).Msg("Failed to cancel queue consumer")
	}
	if err := qm.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		log.Warn().Err(err).Msg("Failed to close queue connection")
	}
}
