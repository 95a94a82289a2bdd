package booking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"railway/entity"
)

// RepositoryMock is an in-memory Repository with the same observable
// semantics as the Postgres implementation, including the unique constraint
// on booking references.
type RepositoryMock struct {
	mock sync.Mutex

	tickets map[int]entity.Ticket
	nextID  int
}

func NewRepositoryMock() *RepositoryMock {
	return &RepositoryMock{
		tickets: make(map[int]entity.Ticket),
	}
}

func (r *RepositoryMock) Add(ctx context.Context, ticket entity.Ticket) (int, error) {
	r.mock.Lock()
	defer r.mock.Unlock()

	for _, existing := range r.tickets {
		if existing.PNR == ticket.PNR {
			return 0, entity.ErrDuplicateReference
		}
	}

	r.nextID++
	ticket.ID = r.nextID
	r.tickets[ticket.ID] = ticket

	return ticket.ID, nil
}

func (r *RepositoryMock) GetByID(ctx context.Context, ticketID int) (entity.Ticket, error) {
	r.mock.Lock()
	defer r.mock.Unlock()

	ticket, ok := r.tickets[ticketID]
	if !ok {
		return entity.Ticket{}, fmt.Errorf("%w with ID: %d", entity.ErrNotFound, ticketID)
	}
	return ticket, nil
}

func (r *RepositoryMock) UpdateStatus(ctx context.Context, ticketID int, status entity.TicketStatus) error {
	r.mock.Lock()
	defer r.mock.Unlock()

	ticket, ok := r.tickets[ticketID]
	if !ok {
		return fmt.Errorf("%w with ID: %d", entity.ErrNotFound, ticketID)
	}
	ticket.Status = status
	r.tickets[ticketID] = ticket

	return nil
}

func (r *RepositoryMock) FindPage(ctx context.Context, offset, limit int) ([]entity.Ticket, int, error) {
	all := r.all()

	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	return all[offset:end], len(all), nil
}

func (r *RepositoryMock) FindByPNR(ctx context.Context, pnr string) ([]entity.Ticket, error) {
	var matches []entity.Ticket
	for _, ticket := range r.all() {
		if ticket.PNR == pnr {
			matches = append(matches, ticket)
		}
	}
	return matches, nil
}

func (r *RepositoryMock) FindByPassengerName(ctx context.Context, fragment string) ([]entity.Ticket, error) {
	fragment = strings.ToLower(fragment)

	var matches []entity.Ticket
	for _, ticket := range r.all() {
		if strings.Contains(strings.ToLower(ticket.PassengerFirstName), fragment) ||
			strings.Contains(strings.ToLower(ticket.PassengerLastName), fragment) {
			matches = append(matches, ticket)
		}
	}
	return matches, nil
}

func (r *RepositoryMock) FindAll(ctx context.Context) ([]entity.Ticket, error) {
	return r.all(), nil
}

func (r *RepositoryMock) all() []entity.Ticket {
	r.mock.Lock()
	defer r.mock.Unlock()

	tickets := make([]entity.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		tickets = append(tickets, ticket)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })

	return tickets
}
