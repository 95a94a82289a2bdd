package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"railway/entity"
)

type AuditLog interface {
	StoreEvent(ctx context.Context, event entity.AuditEvent) error
}

// NewRouter builds the watermill router consuming booking lifecycle events:
// every event is copied into the audit log, and the typed handlers below
// keep observability-only side effects out of the request path.
func NewRouter(
	redisClient *redis.Client,
	auditLog AuditLog,
	watermillLogger watermill.LoggerAdapter,
) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("could not create router: %w", err)
	}

	useMiddlewares(router, watermillLogger)

	auditSubscriber := NewRedisSubscriber(redisClient, "svc-authority.audit", watermillLogger)
	router.AddNoPublisherHandler(
		"store_to_audit_log",
		EventsTopic,
		auditSubscriber,
		func(msg *message.Message) error {
			return storeToAuditLog(msg, auditLog)
		},
	)

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(router, cqrs.EventProcessorConfig{
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return EventsTopic, nil
		},
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return NewRedisSubscriber(redisClient, "svc-authority."+params.HandlerName, watermillLogger), nil
		},
		Marshaler:         marshaler,
		AckOnUnknownEvent: true,
		Logger:            watermillLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create event processor: %w", err)
	}

	err = eventProcessor.AddHandlers(
		cqrs.NewEventHandler(
			"log.OnTicketBooked",
			func(ctx context.Context, event *entity.TicketBooked) error {
				logrus.WithFields(logrus.Fields{
					"ticket_id": event.TicketID,
					"pnr":       event.PNR,
					"train":     event.TrainNumber,
				}).Info("ticket booking confirmed")
				return nil
			},
		),
		cqrs.NewEventHandler(
			"log.OnTicketCancelled",
			func(ctx context.Context, event *entity.TicketCancelled) error {
				logrus.WithFields(logrus.Fields{
					"ticket_id": event.TicketID,
					"pnr":       event.PNR,
				}).Info("ticket booking cancelled")
				return nil
			},
		),
	)
	if err != nil {
		return nil, fmt.Errorf("could not add handlers to event processor: %w", err)
	}

	return router, nil
}

func storeToAuditLog(msg *message.Message, auditLog AuditLog) error {
	var payload struct {
		Header entity.EventHeader `json:"header"`
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("could not decode event header: %w", err)
	}

	return auditLog.StoreEvent(msg.Context(), entity.AuditEvent{
		ID:          payload.Header.ID,
		PublishedAt: payload.Header.PublishedAt,
		Name:        msg.Metadata.Get("name"),
		Payload:     msg.Payload,
	})
}
