package service

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"golang.org/x/sync/errgroup"

	"railway/booking"
	"railway/db"
	"railway/db/events"
	"railway/db/tickets"
	"railway/http"
	"railway/pubsub"
)

// Service is the booking authority: the HTTP surface, the booking lifecycle
// engine, and the event plumbing that fans bookings out to the audit log.
type Service struct {
	db              *sqlx.DB
	watermillRouter *message.Router
	forwarderRun    func(ctx context.Context) error
	httpServer      *http.Server
}

func New(
	addr string,
	dbConn *sqlx.DB,
	redisClient *redis.Client,
) Service {
	watermillLogger := pubsub.NewLogrusLogger(logrus.NewEntry(logrus.StandardLogger()))

	ticketsRepo := tickets.NewPostgresRepository(dbConn, watermillLogger)
	auditLog := events.NewPostgresRepository(dbConn)

	bookingService := booking.NewService(ticketsRepo, booking.FixedFare{Amount: booking.StandardFare})

	watermillRouter, err := pubsub.NewRouter(redisClient, auditLog, watermillLogger)
	if err != nil {
		panic(fmt.Errorf("failed to create watermill router: %w", err))
	}

	postgresSubscriber, err := pubsub.NewPostgresSubscriber(dbConn.DB, watermillLogger)
	if err != nil {
		panic(fmt.Errorf("failed to create postgres subscriber: %w", err))
	}
	redisPublisher := pubsub.NewRedisPublisher(redisClient, watermillLogger)

	httpServer := http.NewServer(addr, bookingService)

	return Service{
		db:              dbConn,
		watermillRouter: watermillRouter,
		forwarderRun: func(ctx context.Context) error {
			return pubsub.RunForwarder(ctx, postgresSubscriber, redisPublisher, watermillLogger)
		},
		httpServer: httpServer,
	}
}

func (s Service) Run(ctx context.Context) error {
	if err := db.InitializeDatabaseSchema(s.db); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	watermillLogger := pubsub.NewLogrusLogger(logrus.NewEntry(logrus.StandardLogger()))
	if err := pubsub.InitializeOutboxSchema(s.db.DB, watermillLogger); err != nil {
		return fmt.Errorf("failed to initialize outbox schema: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	g.Go(func() error {
		<-s.watermillRouter.Running()
		return s.forwarderRun(ctx)
	})

	g.Go(func() error {
		// the HTTP server starts only once the router is up, so the service
		// is not reachable before it can process events
		<-s.watermillRouter.Running()
		return s.httpServer.Run(ctx)
	})

	return g.Wait()
}
