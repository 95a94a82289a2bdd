package api

import (
	"time"

	"railway/entity"
)

// Response is the success envelope returned by the authority's booking
// endpoint: a success flag, a human-readable message and the payload.
type Response struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Data      entity.TicketView `json:"data"`
	Timestamp time.Time         `json:"timestamp"`
}

func NewResponse(message string, data entity.TicketView) Response {
	return Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// ErrorResponse is the error envelope shared by both services. Either
// Message or ValidationErrors is set, never both.
type ErrorResponse struct {
	Timestamp        time.Time         `json:"timestamp"`
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message,omitempty"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

// TicketPage is a single page of ticket views plus total-count metadata.
type TicketPage struct {
	Tickets    []entity.TicketView `json:"tickets"`
	PageNumber int                 `json:"pageNo"`
	PageSize   int                 `json:"pageSize"`
	TotalCount int                 `json:"totalCount"`
}
