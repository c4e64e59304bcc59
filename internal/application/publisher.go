package application

import (
	"context"
	"strconv"

	"github.com/shareit-lending/service-shareit/internal/common/kafka"
	"github.com/shareit-lending/service-shareit/internal/common/metrics"
	"github.com/shareit-lending/service-shareit/internal/events"
	"go.uber.org/zap"
)

// EventPublisher hands CloudEvents to the broker. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// emitter publishes after a successful mutation. Failures are logged and counted, never returned.
type emitter struct {
	publisher EventPublisher
	topic     string
	logger    *zap.Logger
}

func newEmitter(publisher EventPublisher, topic string, logger *zap.Logger) emitter {
	if publisher == nil {
		publisher = kafka.DiscardPublisher{}
	}
	if topic == "" {
		topic = events.TopicBookingEvents
	}
	return emitter{publisher: publisher, topic: topic, logger: logger}
}

func (e emitter) publish(ctx context.Context, eventType string, key int64, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent(events.Source, eventType, data)
	if err != nil {
		e.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent = cloudEvent.WithSubject(strconv.FormatInt(key, 10))

	if err := e.publisher.PublishEvent(ctx, e.topic, cloudEvent); err != nil {
		metrics.IncEventPublished(eventType, false)
		e.logger.Error("failed to publish event",
			zap.String("topic", e.topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	metrics.IncEventPublished(eventType, true)
}
