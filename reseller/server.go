package reseller

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"railway/api"
	"railway/entity"
	authorityHTTP "railway/http"
)

// TicketProvider is the reseller's view of the booking authority. It is
// satisfied by gateway.ProviderClient.
type TicketProvider interface {
	BookTicket(ctx context.Context, request entity.BookingRequest) (entity.TicketView, error)
	GetTicket(ctx context.Context, ticketID int) (entity.TicketView, error)
	CancelTicket(ctx context.Context, ticketID int) (string, error)
}

// Server exposes book/get/cancel to the reseller's own clients. It holds no
// state of its own: every call is forwarded synchronously to the authority.
type Server struct {
	addr     string
	e        *echo.Echo
	provider TicketProvider
}

func NewServer(addr string, provider TicketProvider) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = api.NewHTTPErrorHandler()
	e.Use(otelecho.Middleware("reseller"))
	e.Use(authorityHTTP.CorrelationID)

	server := &Server{
		addr:     addr,
		e:        e,
		provider: provider,
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.POST("/agency/tickets", server.PostTicket)
	e.GET("/agency/tickets/:ticket_id", server.GetTicket)
	e.DELETE("/agency/tickets/:ticket_id", server.DeleteTicket)

	return server
}

func (s *Server) PostTicket(c echo.Context) error {
	var request entity.BookingRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	// Reject obviously invalid requests before spending a network call.
	if err := request.Validate(); err != nil {
		return err
	}

	view, err := s.provider.BookTicket(c.Request().Context(), request)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, view)
}

func (s *Server) GetTicket(c echo.Context) error {
	ticketID, err := authorityHTTP.TicketIDParam(c)
	if err != nil {
		return err
	}

	view, err := s.provider.GetTicket(c.Request().Context(), ticketID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view)
}

func (s *Server) DeleteTicket(c echo.Context) error {
	ticketID, err := authorityHTTP.TicketIDParam(c)
	if err != nil {
		return err
	}

	confirmation, err := s.provider.CancelTicket(c.Request().Context(), ticketID)
	if err != nil {
		return err
	}

	return c.String(http.StatusOK, confirmation)
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		if err := s.e.Shutdown(context.Background()); err != nil {
			logrus.WithError(err).Error("failed to shutdown HTTP server")
		}
	}()

	logrus.WithField("addr", s.addr).Info("[HTTP] reseller listening")
	if err := s.e.Start(s.addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
