package pubsub

import (
	"context"
	stdSQL "database/sql"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
)

const outboxTopic = "events_to_forward"

// NewEventBusForTx returns an event bus that writes events to the Postgres
// outbox within the given transaction. Events become visible to consumers
// only if the transaction commits.
func NewEventBusForTx(tx *stdSQL.Tx, watermillLogger watermill.LoggerAdapter) (*cqrs.EventBus, error) {
	sqlPublisher, err := sql.NewPublisher(
		tx,
		sql.PublisherConfig{
			SchemaAdapter: sql.DefaultPostgreSQLSchema{},
		},
		watermillLogger,
	)
	if err != nil {
		return nil, err
	}

	publisher := forwarder.NewPublisher(sqlPublisher, forwarder.PublisherConfig{
		ForwarderTopic: outboxTopic,
	})

	return NewEventBus(publisher)
}

func NewPostgresSubscriber(db *stdSQL.DB, watermillLogger watermill.LoggerAdapter) (message.Subscriber, error) {
	return sql.NewSubscriber(db, sql.SubscriberConfig{
		SchemaAdapter:    sql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   sql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
	}, watermillLogger)
}

// InitializeOutboxSchema creates the outbox table up front, so transactional
// publishers don't race the forwarder's subscriber on first boot.
func InitializeOutboxSchema(db *stdSQL.DB, watermillLogger watermill.LoggerAdapter) error {
	sub, err := sql.NewSubscriber(db, sql.SubscriberConfig{
		SchemaAdapter:    sql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   sql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
	}, watermillLogger)
	if err != nil {
		return err
	}
	defer sub.Close()

	return sub.SubscribeInitialize(outboxTopic)
}

// RunForwarder moves outbox messages from Postgres to their target Redis
// topic. It blocks until ctx is cancelled.
func RunForwarder(
	ctx context.Context,
	postgresSubscriber message.Subscriber,
	redisPublisher message.Publisher,
	watermillLogger watermill.LoggerAdapter,
) error {
	fwd, err := forwarder.NewForwarder(postgresSubscriber, redisPublisher, watermillLogger, forwarder.Config{
		ForwarderTopic: outboxTopic,
	})
	if err != nil {
		return err
	}

	return fwd.Run(ctx)
}
