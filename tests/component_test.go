package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"railway/api"
	"railway/db/events"
	"railway/entity"
	"railway/gateway"
	"railway/reseller"
	"railway/service"
)

var (
	authorityAddress = ":8080"
	authorityURL     = "http://localhost:8080"
	resellerAddress  = ":8081"
	resellerURL      = "http://localhost:8081"
)

const bookingBody = `{
	"fname": "Asha",
	"lname": "Rao",
	"gender": "Female",
	"from": "Pune",
	"to": "Delhi",
	"doj": "2025-12-01",
	"trainNum": "12345"
}`

func TestComponent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("github.com/testcontainers/testcontainers-go.(*Reaper).Connect.func1"))
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dbconn, err := sqlx.Open("postgres", postgresURL)
	if err != nil {
		panic(err)
	}
	defer dbconn.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: redisURL})
	defer redisClient.Close()

	done := make(chan struct{})
	go func() {
		<-done
		e := syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
		require.NoError(t, e)
	}()

	authorityFinished := make(chan struct{})
	go func() {
		svc := service.New(authorityAddress, dbconn, redisClient)
		assert.NoError(t, svc.Run(ctx))
		close(authorityFinished)
	}()

	resellerFinished := make(chan struct{})
	go func() {
		server := reseller.NewServer(resellerAddress, gateway.NewProviderClient(authorityURL))
		assert.NoError(t, server.Run(ctx))
		close(resellerFinished)
	}()

	defer func() {
		close(done)
		<-authorityFinished
		<-resellerFinished
	}()

	waitForHTTPServer(t, authorityURL)
	waitForHTTPServer(t, resellerURL)

	// book through the reseller, which delegates to the authority
	booked := bookThroughReseller(t)
	assert.Equal(t, "CONFIRMED", booked.Status)
	assert.Equal(t, "Asha Rao", booked.PassengerName)
	assert.Equal(t, "500.00 INR", booked.Cost)
	assert.Regexp(t, `^\d{10}$`, booked.PNR)

	// the authority serves the same ticket directly
	fetched := getFromAuthority(t, booked.TicketID)
	assert.Equal(t, booked.PNR, fetched.PNR)

	// pnr search wins over the name filter
	results := searchAuthority(t, fmt.Sprintf("/tickets/search?pnr=%s&passengerName=nomatch", booked.PNR))
	require.Len(t, results, 1)
	assert.Equal(t, booked.TicketID, results[0].TicketID)

	results = searchAuthority(t, "/tickets/search?passengerName=rao")
	require.NotEmpty(t, results)

	// cancellation flows back through the reseller verbatim
	confirmation := cancelThroughReseller(t, booked.TicketID)
	assert.Equal(t, "Ticket cancelled successfully", confirmation)

	fetched = getFromAuthority(t, booked.TicketID)
	assert.Equal(t, "CANCELLED", fetched.Status)

	assertMissingTicketRehomed(t)
	assertPaginatedListing(t)
	assertEventsInAuditLog(t, dbconn, booked.PNR)
}

func bookThroughReseller(t *testing.T) entity.TicketView {
	t.Helper()

	resp, err := http.Post(resellerURL+"/agency/tickets", "application/json", strings.NewReader(bookingBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var view entity.TicketView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	return view
}

func getFromAuthority(t *testing.T, ticketID int) entity.TicketView {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/tickets/%d", authorityURL, ticketID))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view entity.TicketView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	return view
}

func searchAuthority(t *testing.T, path string) []entity.TicketView {
	t.Helper()

	resp, err := http.Get(authorityURL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var results []entity.TicketView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&results))
	return results
}

func cancelThroughReseller(t *testing.T, ticketID int) string {
	t.Helper()

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/agency/tickets/%d", resellerURL, ticketID), nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func assertMissingTicketRehomed(t *testing.T) {
	t.Helper()

	resp, err := http.Get(resellerURL + "/agency/tickets/999999")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp api.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "Not Found", errResp.Error)
}

func assertPaginatedListing(t *testing.T) {
	t.Helper()

	resp, err := http.Get(authorityURL + "/tickets?pageNo=0&pageSize=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page api.TicketPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Len(t, page.Tickets, 1)
	assert.GreaterOrEqual(t, page.TotalCount, 1)
}

// the booked and cancelled events travel through the outbox, the forwarder
// and Redis before the audit handler stores them, hence Eventually
func assertEventsInAuditLog(t *testing.T, dbconn *sqlx.DB, pnr string) {
	t.Helper()

	auditLog := events.NewPostgresRepository(dbconn)

	assert.Eventually(
		t,
		func() bool {
			stored, err := auditLog.GetEvents(context.Background())
			if err != nil {
				return false
			}

			var bookedSeen, cancelledSeen bool
			for _, event := range stored {
				if !strings.Contains(string(event.Payload), pnr) {
					continue
				}
				switch {
				case strings.Contains(event.Name, "TicketBooked"):
					bookedSeen = true
				case strings.Contains(event.Name, "TicketCancelled"):
					cancelledSeen = true
				}
			}

			return bookedSeen && cancelledSeen
		},
		10*time.Second,
		100*time.Millisecond,
	)
}

func waitForHTTPServer(t *testing.T, baseURL string) {
	t.Helper()

	require.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			resp, err := http.Get(baseURL + "/health")
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()

			assert.Less(t, resp.StatusCode, 300, "API not ready, http status: %d", resp.StatusCode)
		},
		time.Second*10,
		time.Millisecond*50,
	)
}
