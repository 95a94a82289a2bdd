package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railway/api"
	"railway/entity"
)

func fakeAuthority(t *testing.T) *httptest.Server {
	t.Helper()

	e := echo.New()

	e.POST("/tickets", func(c echo.Context) error {
		var request entity.BookingRequest
		require.NoError(t, c.Bind(&request))

		return c.JSON(http.StatusOK, api.NewResponse("Ticket booked successfully", entity.TicketView{
			TicketID:      1,
			PassengerName: request.FirstName + " " + request.LastName,
			From:          request.From,
			To:            request.To,
			TrainNumber:   request.TrainNumber,
			Cost:          "500.00 INR",
			Status:        "CONFIRMED",
			PNR:           "4242424242",
		}))
	})
	e.GET("/tickets/:ticket_id", func(c echo.Context) error {
		switch c.Param("ticket_id") {
		case "1":
			return c.JSON(http.StatusOK, entity.TicketView{TicketID: 1, PNR: "4242424242", Status: "CONFIRMED"})
		case "500":
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		default:
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not Found"})
		}
	})
	e.DELETE("/tickets/:ticket_id", func(c echo.Context) error {
		if c.Param("ticket_id") != "1" {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not Found"})
		}
		return c.String(http.StatusOK, "Ticket cancelled successfully")
	})

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	return server
}

func TestProviderClient_BookTicket(t *testing.T) {
	server := fakeAuthority(t)
	client := NewProviderClient(server.URL)

	view, err := client.BookTicket(context.Background(), entity.BookingRequest{
		FirstName:   "Asha",
		LastName:    "Rao",
		Gender:      "Female",
		From:        "Pune",
		To:          "Delhi",
		JourneyDate: "2025-12-01",
		TrainNumber: "12345",
	})
	require.NoError(t, err)

	// the envelope is unwrapped, only the inner view is returned
	assert.Equal(t, 1, view.TicketID)
	assert.Equal(t, "Asha Rao", view.PassengerName)
	assert.Equal(t, "4242424242", view.PNR)
}

func TestProviderClient_GetTicket(t *testing.T) {
	server := fakeAuthority(t)
	client := NewProviderClient(server.URL)

	view, err := client.GetTicket(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "4242424242", view.PNR)
}

func TestProviderClient_GetTicket_notFoundIsRehomed(t *testing.T) {
	server := fakeAuthority(t)
	client := NewProviderClient(server.URL)

	_, err := client.GetTicket(context.Background(), 999)
	require.Error(t, err)

	var notFoundErr entity.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, 999, notFoundErr.TicketID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestProviderClient_GetTicket_providerError(t *testing.T) {
	server := fakeAuthority(t)
	client := NewProviderClient(server.URL)

	_, err := client.GetTicket(context.Background(), 500)
	require.Error(t, err)

	var providerErr entity.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusInternalServerError, providerErr.StatusCode)
}

func TestProviderClient_unreachableProvider(t *testing.T) {
	server := fakeAuthority(t)
	server.Close()

	client := NewProviderClient(server.URL)

	_, err := client.GetTicket(context.Background(), 1)
	require.Error(t, err)

	var delegationErr entity.DelegationError
	assert.ErrorAs(t, err, &delegationErr)

	_, err = client.BookTicket(context.Background(), entity.BookingRequest{})
	assert.ErrorAs(t, err, &delegationErr)

	_, err = client.CancelTicket(context.Background(), 1)
	assert.ErrorAs(t, err, &delegationErr)
}

func TestProviderClient_malformedEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("not json at all"))
	}))
	t.Cleanup(server.Close)

	client := NewProviderClient(server.URL)

	_, err := client.BookTicket(context.Background(), entity.BookingRequest{})
	require.Error(t, err)

	var delegationErr entity.DelegationError
	assert.ErrorAs(t, err, &delegationErr)
}

func TestProviderClient_CancelTicket(t *testing.T) {
	server := fakeAuthority(t)
	client := NewProviderClient(server.URL)

	confirmation, err := client.CancelTicket(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Ticket cancelled successfully", confirmation)

	_, err = client.CancelTicket(context.Background(), 999)
	var notFoundErr entity.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}
