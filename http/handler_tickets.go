package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"railway/api"
	"railway/entity"
)

func (s *Server) PostTicket(c echo.Context) error {
	var request entity.BookingRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	view, err := s.booking.Book(c.Request().Context(), request)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, api.NewResponse("Ticket booked successfully", view))
}

func (s *Server) GetTicket(c echo.Context) error {
	ticketID, err := TicketIDParam(c)
	if err != nil {
		return err
	}

	view, err := s.booking.Get(c.Request().Context(), ticketID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view)
}

func (s *Server) DeleteTicket(c echo.Context) error {
	ticketID, err := TicketIDParam(c)
	if err != nil {
		return err
	}

	if err := s.booking.Cancel(c.Request().Context(), ticketID); err != nil {
		return err
	}

	return c.String(http.StatusOK, "Ticket cancelled successfully")
}

func (s *Server) GetTickets(c echo.Context) error {
	pageNo, _ := strconv.Atoi(c.QueryParam("pageNo"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))

	page, err := s.booking.List(c.Request().Context(), pageNo, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, page)
}

func (s *Server) SearchTickets(c echo.Context) error {
	views, err := s.booking.Search(
		c.Request().Context(),
		c.QueryParam("pnr"),
		c.QueryParam("passengerName"),
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, views)
}

func TicketIDParam(c echo.Context) (int, error) {
	ticketID, err := strconv.Atoi(c.Param("ticket_id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "ticket id must be an integer")
	}
	return ticketID, nil
}
