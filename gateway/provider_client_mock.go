package gateway

import (
	"context"
	"sync"

	"railway/entity"
)

type ProviderMock struct {
	mock sync.Mutex

	Tickets map[int]entity.TicketView

	nextID int
}

func (c *ProviderMock) BookTicket(ctx context.Context, request entity.BookingRequest) (entity.TicketView, error) {
	c.mock.Lock()
	defer c.mock.Unlock()

	if c.Tickets == nil {
		c.Tickets = make(map[int]entity.TicketView)
	}

	c.nextID++
	view := entity.TicketView{
		TicketID:      c.nextID,
		PassengerName: request.FirstName + " " + request.LastName,
		From:          request.From,
		To:            request.To,
		TrainNumber:   request.TrainNumber,
		Cost:          "500.00 INR",
		Status:        string(entity.StatusConfirmed),
		PNR:           "0123456789",
	}
	c.Tickets[c.nextID] = view

	return view, nil
}

func (c *ProviderMock) GetTicket(ctx context.Context, ticketID int) (entity.TicketView, error) {
	c.mock.Lock()
	defer c.mock.Unlock()

	view, ok := c.Tickets[ticketID]
	if !ok {
		return entity.TicketView{}, entity.NotFoundError{TicketID: ticketID}
	}
	return view, nil
}

func (c *ProviderMock) CancelTicket(ctx context.Context, ticketID int) (string, error) {
	c.mock.Lock()
	defer c.mock.Unlock()

	view, ok := c.Tickets[ticketID]
	if !ok {
		return "", entity.NotFoundError{TicketID: ticketID}
	}

	view.Status = string(entity.StatusCancelled)
	c.Tickets[ticketID] = view

	return "Ticket cancelled successfully", nil
}
