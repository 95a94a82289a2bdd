package tickets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"railway/entity"
	"railway/pubsub"
)

type PostgresRepository struct {
	db              *sqlx.DB
	watermillLogger watermill.LoggerAdapter
}

func NewPostgresRepository(db *sqlx.DB, watermillLogger watermill.LoggerAdapter) *PostgresRepository {
	return &PostgresRepository{db: db, watermillLogger: watermillLogger}
}

const ticketColumns = `
	ticket_id, passenger_first_name, passenger_last_name, gender,
	from_station, to_station, journey_date, train_number,
	fare, status, pnr, booked_at
`

// Add inserts the ticket and publishes TicketBooked through the outbox in
// the same transaction. A unique violation on pnr is reported as
// entity.ErrDuplicateReference so the caller can regenerate and retry.
func (r *PostgresRepository) Add(ctx context.Context, ticket entity.Ticket) (_ int, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			rollbackErr := tx.Rollback()
			if rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				err = errors.Join(err, rollbackErr)
			}
			return
		}
		err = tx.Commit()
	}()

	var ticketID int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO tickets (
			passenger_first_name, passenger_last_name, gender,
			from_station, to_station, journey_date, train_number,
			fare, status, pnr, booked_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ticket_id
	`,
		ticket.PassengerFirstName, ticket.PassengerLastName, ticket.Gender,
		ticket.FromStation, ticket.ToStation, ticket.JourneyDate, ticket.TrainNumber,
		ticket.Fare, ticket.Status, ticket.PNR, ticket.BookedAt,
	).Scan(&ticketID)

	var postgresErr *pq.Error
	if errors.As(err, &postgresErr) && postgresErr.Code.Name() == "unique_violation" {
		return 0, entity.ErrDuplicateReference
	}
	if err != nil {
		return 0, fmt.Errorf("could not insert ticket: %w", err)
	}

	eventBus, err := pubsub.NewEventBusForTx(tx.Tx, r.watermillLogger)
	if err != nil {
		return 0, fmt.Errorf("could not create event bus: %w", err)
	}

	err = eventBus.Publish(ctx, entity.TicketBooked{
		Header:      entity.NewEventHeader(),
		TicketID:    ticketID,
		PNR:         ticket.PNR,
		FromStation: ticket.FromStation,
		ToStation:   ticket.ToStation,
		TrainNumber: ticket.TrainNumber,
		Fare:        ticket.Fare,
	})
	if err != nil {
		return 0, fmt.Errorf("could not publish event: %w", err)
	}

	return ticketID, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, ticketID int) (entity.Ticket, error) {
	var ticket entity.Ticket
	err := r.db.GetContext(ctx, &ticket, `
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE ticket_id = $1
	`, ticketID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Ticket{}, fmt.Errorf("%w with ID: %d", entity.ErrNotFound, ticketID)
	}
	if err != nil {
		return entity.Ticket{}, fmt.Errorf("could not get ticket: %w", err)
	}
	return ticket, nil
}

// UpdateStatus rewrites the status field and publishes TicketCancelled when
// the new status is CANCELLED, in the same transaction as the update.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, ticketID int, status entity.TicketStatus) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			rollbackErr := tx.Rollback()
			if rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				err = errors.Join(err, rollbackErr)
			}
			return
		}
		err = tx.Commit()
	}()

	var pnr string
	err = tx.QueryRowContext(ctx, `
		UPDATE tickets
		SET status = $1
		WHERE ticket_id = $2
		RETURNING pnr
	`, status, ticketID).Scan(&pnr)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w with ID: %d", entity.ErrNotFound, ticketID)
	}
	if err != nil {
		return fmt.Errorf("could not update ticket status: %w", err)
	}

	if status != entity.StatusCancelled {
		return nil
	}

	eventBus, err := pubsub.NewEventBusForTx(tx.Tx, r.watermillLogger)
	if err != nil {
		return fmt.Errorf("could not create event bus: %w", err)
	}

	err = eventBus.Publish(ctx, entity.TicketCancelled{
		Header:   entity.NewEventHeader(),
		TicketID: ticketID,
		PNR:      pnr,
	})
	if err != nil {
		return fmt.Errorf("could not publish event: %w", err)
	}

	return nil
}

func (r *PostgresRepository) FindPage(ctx context.Context, offset, limit int) ([]entity.Ticket, int, error) {
	var tickets []entity.Ticket
	err := r.db.SelectContext(ctx, &tickets, `
		SELECT `+ticketColumns+`
		FROM tickets
		ORDER BY ticket_id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("could not select tickets page: %w", err)
	}

	var total int
	err = r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM tickets`)
	if err != nil {
		return nil, 0, fmt.Errorf("could not count tickets: %w", err)
	}

	return tickets, total, nil
}

func (r *PostgresRepository) FindByPNR(ctx context.Context, pnr string) ([]entity.Ticket, error) {
	var tickets []entity.Ticket
	err := r.db.SelectContext(ctx, &tickets, `
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE pnr = $1
	`, pnr)
	if err != nil {
		return nil, fmt.Errorf("could not select tickets by pnr: %w", err)
	}
	return tickets, nil
}

func (r *PostgresRepository) FindByPassengerName(ctx context.Context, fragment string) ([]entity.Ticket, error) {
	var tickets []entity.Ticket
	err := r.db.SelectContext(ctx, &tickets, `
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE passenger_first_name ILIKE '%' || $1 || '%'
		   OR passenger_last_name ILIKE '%' || $1 || '%'
	`, fragment)
	if err != nil {
		return nil, fmt.Errorf("could not select tickets by passenger name: %w", err)
	}
	return tickets, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]entity.Ticket, error) {
	var tickets []entity.Ticket
	err := r.db.SelectContext(ctx, &tickets, `
		SELECT `+ticketColumns+`
		FROM tickets
		ORDER BY ticket_id
	`)
	if err != nil {
		return nil, fmt.Errorf("could not select tickets: %w", err)
	}
	return tickets, nil
}
