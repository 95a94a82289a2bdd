package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"railway/api"
	"railway/entity"
	"railway/metrics"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// Attempts to generate a reference that the store accepts. Randomness
	// alone is not trusted: the unique constraint on pnr is the safety net.
	maxReferenceAttempts = 3
)

type Repository interface {
	Add(ctx context.Context, ticket entity.Ticket) (int, error)
	GetByID(ctx context.Context, ticketID int) (entity.Ticket, error)
	UpdateStatus(ctx context.Context, ticketID int, status entity.TicketStatus) error
	FindPage(ctx context.Context, offset, limit int) ([]entity.Ticket, int, error)
	FindByPNR(ctx context.Context, pnr string) ([]entity.Ticket, error)
	FindByPassengerName(ctx context.Context, fragment string) ([]entity.Ticket, error)
	FindAll(ctx context.Context) ([]entity.Ticket, error)
}

// Service is the booking lifecycle engine. It owns identifier generation,
// fare computation, status transitions, search semantics and pagination.
type Service struct {
	repo   Repository
	fare   FareCalculator
	newPNR ReferenceGenerator
}

func NewService(repo Repository, fare FareCalculator) *Service {
	return &Service{
		repo:   repo,
		fare:   fare,
		newPNR: RandomReference,
	}
}

// Book validates the request, assigns fare and a booking reference, and
// persists the ticket as CONFIRMED. On a reference collision at insert time
// the reference is regenerated a bounded number of times.
func (s *Service) Book(ctx context.Context, request entity.BookingRequest) (entity.TicketView, error) {
	if err := request.Validate(); err != nil {
		return entity.TicketView{}, err
	}

	journeyDate, err := time.Parse("2006-01-02", request.JourneyDate)
	if err != nil {
		return entity.TicketView{}, fmt.Errorf("%w: invalid journey date %q", entity.ErrMalformedInput, request.JourneyDate)
	}

	ticket := entity.Ticket{
		PassengerFirstName: request.FirstName,
		PassengerLastName:  request.LastName,
		Gender:             request.Gender,
		FromStation:        request.From,
		ToStation:          request.To,
		JourneyDate:        journeyDate,
		TrainNumber:        request.TrainNumber,
		Fare:               s.fare.Fare(request.From, request.To, journeyDate, request.TrainNumber),
		Status:             entity.StatusConfirmed,
		BookedAt:           time.Now().UTC(),
	}

	logrus.WithFields(logrus.Fields{
		"first_name": request.FirstName,
		"last_name":  request.LastName,
	}).Info("booking ticket")

	var ticketID int
	for attempt := 0; ; attempt++ {
		ticket.PNR = s.newPNR()

		ticketID, err = s.repo.Add(ctx, ticket)
		if err == nil {
			break
		}
		if !errors.Is(err, entity.ErrDuplicateReference) || attempt+1 >= maxReferenceAttempts {
			return entity.TicketView{}, fmt.Errorf("could not store ticket: %w", err)
		}
	}
	ticket.ID = ticketID

	metrics.TicketsBooked.Inc()
	logrus.WithFields(logrus.Fields{
		"ticket_id": ticketID,
		"pnr":       ticket.PNR,
	}).Info("ticket booked")

	return ticket.View(), nil
}

func (s *Service) Get(ctx context.Context, ticketID int) (entity.TicketView, error) {
	ticket, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return entity.TicketView{}, err
	}
	return ticket.View(), nil
}

// Cancel moves a ticket to CANCELLED. The transition is monotonic: there is
// no un-cancel, and cancelling an already-cancelled ticket succeeds silently,
// rewriting the same terminal state.
func (s *Service) Cancel(ctx context.Context, ticketID int) error {
	if _, err := s.repo.GetByID(ctx, ticketID); err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, ticketID, entity.StatusCancelled); err != nil {
		return err
	}

	metrics.TicketsCancelled.Inc()
	logrus.WithField("ticket_id", ticketID).Info("ticket cancelled")
	return nil
}

// List returns one zero-based page of tickets in insertion order, with the
// total count. Out-of-range inputs are clamped rather than rejected.
func (s *Service) List(ctx context.Context, pageNumber, pageSize int) (api.TicketPage, error) {
	if pageNumber < 0 {
		pageNumber = 0
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	tickets, total, err := s.repo.FindPage(ctx, pageNumber*pageSize, pageSize)
	if err != nil {
		return api.TicketPage{}, fmt.Errorf("could not list tickets: %w", err)
	}

	return api.TicketPage{
		Tickets:    lo.Map(tickets, func(t entity.Ticket, _ int) entity.TicketView { return t.View() }),
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalCount: total,
	}, nil
}

// Search filters by exact PNR when one is given, otherwise by a
// case-insensitive substring of the first or last name, otherwise returns
// everything. A present PNR short-circuits the name filter entirely.
func (s *Service) Search(ctx context.Context, pnr, passengerName string) ([]entity.TicketView, error) {
	var (
		tickets []entity.Ticket
		err     error
	)

	switch {
	case strings.TrimSpace(pnr) != "":
		tickets, err = s.repo.FindByPNR(ctx, pnr)
	case strings.TrimSpace(passengerName) != "":
		tickets, err = s.repo.FindByPassengerName(ctx, passengerName)
	default:
		tickets, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("could not search tickets: %w", err)
	}

	return lo.Map(tickets, func(t entity.Ticket, _ int) entity.TicketView { return t.View() }), nil
}
