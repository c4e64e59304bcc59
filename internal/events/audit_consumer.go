package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/shareit-lending/service-shareit/internal/common/kafka"
	"github.com/shareit-lending/service-shareit/internal/common/metrics"
	"go.uber.org/zap"
)

// AuditConsumer reads the booking topic back and records every lifecycle event in the log.
type AuditConsumer struct {
	consumer *kafka.Consumer
	logger   *zap.Logger
}

// NewAuditConsumer creates a new AuditConsumer in consumer group groupID.
func NewAuditConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *AuditConsumer {
	if topic == "" {
		topic = TopicBookingEvents
	}
	return &AuditConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, topic, logger),
		logger:   logger,
	}
}

// Start begins consuming booking events. This blocks until the context is cancelled.
func (c *AuditConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *AuditConsumer) Close() error {
	return c.consumer.Close()
}

func (c *AuditConsumer) handleMessage(_ context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case BookingCreated:
		var evt BookingCreatedEvent
		if !c.parse(cloudEvent, &evt) {
			return nil
		}
		c.logger.Info("booking requested",
			zap.Int64("booking_id", evt.BookingID),
			zap.Int64("item_id", evt.ItemID),
			zap.Int64("booker_id", evt.BookerID),
			zap.Int64("owner_id", evt.OwnerID),
		)
	case BookingApproved, BookingRejected:
		var evt BookingDecidedEvent
		if !c.parse(cloudEvent, &evt) {
			return nil
		}
		c.logger.Info("booking decided",
			zap.Int64("booking_id", evt.BookingID),
			zap.Int64("owner_id", evt.OwnerID),
			zap.String("status", evt.Status),
		)
	case CommentCreated:
		var evt CommentCreatedEvent
		if !c.parse(cloudEvent, &evt) {
			return nil
		}
		c.logger.Info("item commented",
			zap.Int64("comment_id", evt.CommentID),
			zap.Int64("item_id", evt.ItemID),
			zap.Int64("author_id", evt.AuthorID),
		)
	default:
		c.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}

	metrics.IncEventConsumed(cloudEvent.Type)
	return nil
}

func (c *AuditConsumer) parse(cloudEvent kafka.CloudEvent, v any) bool {
	if err := cloudEvent.ParseData(v); err != nil {
		c.logger.Error("failed to parse event data",
			zap.String("type", cloudEvent.Type),
			zap.String("event_id", cloudEvent.ID),
			zap.Error(err),
		)
		return false
	}
	return true
}
