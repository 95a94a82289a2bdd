package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"railway/entity"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "validation error",
			err:        entity.ValidationError{Fields: map[string]string{"doj": "date format should be yyyy-MM-dd"}},
			wantStatus: http.StatusBadRequest,
			wantError:  "Validation Failed",
		},
		{
			name:       "malformed input",
			err:        fmt.Errorf("%w: invalid journey date", entity.ErrMalformedInput),
			wantStatus: http.StatusBadRequest,
			wantError:  "Bad Request",
		},
		{
			name:       "not found",
			err:        fmt.Errorf("%w with ID: 999", entity.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantError:  "Not Found",
		},
		{
			name:       "rehomed not found",
			err:        entity.NotFoundError{TicketID: 999},
			wantStatus: http.StatusNotFound,
			wantError:  "Not Found",
		},
		{
			name:       "duplicate reference",
			err:        entity.ErrDuplicateReference,
			wantStatus: http.StatusConflict,
			wantError:  "Conflict",
		},
		{
			name:       "provider error carries remote status",
			err:        entity.ProviderError{StatusCode: http.StatusServiceUnavailable},
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "Provider Error",
		},
		{
			name:       "delegation failure",
			err:        entity.DelegationError{Err: errors.New("dial tcp: connection refused")},
			wantStatus: http.StatusBadGateway,
			wantError:  "Bad Gateway",
		},
		{
			name:       "anything else is a generic internal failure",
			err:        errors.New("pq: relation does not exist"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := classify(tt.err)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantError, resp.Error)
		})
	}
}

func TestClassify_neverLeaksInternalDetails(t *testing.T) {
	resp := classify(errors.New("pq: password authentication failed for user"))
	assert.NotContains(t, resp.Message, "pq:")
	assert.Equal(t, "Something went wrong. Please try again later.", resp.Message)
}
