package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"railway/api"
	"railway/booking"
)

type Server struct {
	addr    string
	e       *echo.Echo
	booking *booking.Service
}

func NewServer(addr string, bookingService *booking.Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = api.NewHTTPErrorHandler()
	e.Use(otelecho.Middleware("authority"))
	e.Use(CorrelationID)

	server := &Server{
		addr:    addr,
		e:       e,
		booking: bookingService,
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/tickets", server.PostTicket)
	e.GET("/tickets/:ticket_id", server.GetTicket)
	e.DELETE("/tickets/:ticket_id", server.DeleteTicket)
	e.GET("/tickets", server.GetTickets)
	e.GET("/tickets/search", server.SearchTickets)

	return server
}

// CorrelationID assigns a correlation id to requests that arrive without
// one and echoes it back on the response.
func CorrelationID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		correlationID := c.Request().Header.Get("Correlation-ID")
		if correlationID == "" {
			correlationID = shortuuid.New()
		}
		c.Response().Header().Set("Correlation-ID", correlationID)
		return next(c)
	}
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		if err := s.e.Shutdown(context.Background()); err != nil {
			logrus.WithError(err).Error("failed to shutdown HTTP server")
		}
	}()

	logrus.WithField("addr", s.addr).Info("[HTTP] server listening")
	if err := s.e.Start(s.addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
