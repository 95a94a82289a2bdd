package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"railway/api"
	"railway/entity"
)

// ProviderClient delegates ticket operations to the booking authority over
// HTTP. Every remote outcome is classified into the local error vocabulary
// before it is returned: a raw transport error never crosses this boundary.
type ProviderClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewProviderClient(baseURL string) *ProviderClient {
	return &ProviderClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *ProviderClient) BookTicket(ctx context.Context, request entity.BookingRequest) (entity.TicketView, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return entity.TicketView{}, entity.DelegationError{Err: err}
	}

	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/tickets", bytes.NewReader(body))
	if err != nil {
		return entity.TicketView{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.TicketView{}, entity.ProviderError{StatusCode: resp.StatusCode}
	}

	var envelope api.Response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return entity.TicketView{}, entity.DelegationError{Err: fmt.Errorf("could not decode booking response: %w", err)}
	}

	return envelope.Data, nil
}

func (c *ProviderClient) GetTicket(ctx context.Context, ticketID int) (entity.TicketView, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/tickets/%d", c.baseURL, ticketID), nil)
	if err != nil {
		return entity.TicketView{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var view entity.TicketView
		if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
			return entity.TicketView{}, entity.DelegationError{Err: fmt.Errorf("could not decode ticket response: %w", err)}
		}
		return view, nil
	case http.StatusNotFound:
		return entity.TicketView{}, entity.NotFoundError{TicketID: ticketID}
	default:
		return entity.TicketView{}, entity.ProviderError{StatusCode: resp.StatusCode}
	}
}

func (c *ProviderClient) CancelTicket(ctx context.Context, ticketID int) (string, error) {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/tickets/%d", c.baseURL, ticketID), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		confirmation, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", entity.DelegationError{Err: fmt.Errorf("could not read cancel response: %w", err)}
		}
		return string(confirmation), nil
	case http.StatusNotFound:
		return "", entity.NotFoundError{TicketID: ticketID}
	default:
		return "", entity.ProviderError{StatusCode: resp.StatusCode}
	}
}

func (c *ProviderClient) do(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, entity.DelegationError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Correlation-ID", shortuuid.New())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, entity.DelegationError{Err: err}
	}
	return resp, nil
}
