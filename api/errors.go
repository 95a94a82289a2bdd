package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"railway/entity"
)

// NewHTTPErrorHandler classifies every error leaving a handler into the
// shared error envelope. Domain errors keep their message; anything
// unexpected is logged and surfaced as a generic internal failure so that
// internal details are never leaked to callers.
func NewHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := classify(err)

		if resp.Status >= http.StatusInternalServerError {
			logrus.WithError(err).
				WithField("path", c.Request().URL.Path).
				Error("request failed")
		}

		if writeErr := c.JSON(resp.Status, resp); writeErr != nil {
			logrus.WithError(writeErr).Error("failed to write error response")
		}
	}
}

func classify(err error) ErrorResponse {
	resp := ErrorResponse{Timestamp: time.Now()}

	var validationErr entity.ValidationError
	var notFoundErr entity.NotFoundError
	var providerErr entity.ProviderError
	var delegationErr entity.DelegationError
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &validationErr):
		resp.Status = http.StatusBadRequest
		resp.Error = "Validation Failed"
		resp.ValidationErrors = validationErr.Fields

	case errors.Is(err, entity.ErrMalformedInput):
		resp.Status = http.StatusBadRequest
		resp.Error = "Bad Request"
		resp.Message = err.Error()

	case errors.As(err, &notFoundErr):
		resp.Status = http.StatusNotFound
		resp.Error = "Not Found"
		resp.Message = notFoundErr.Error()

	case errors.Is(err, entity.ErrNotFound):
		resp.Status = http.StatusNotFound
		resp.Error = "Not Found"
		resp.Message = err.Error()

	case errors.Is(err, entity.ErrDuplicateReference):
		resp.Status = http.StatusConflict
		resp.Error = "Conflict"
		resp.Message = "could not assign a unique booking reference, please retry"

	case errors.As(err, &providerErr):
		resp.Status = providerErr.StatusCode
		resp.Error = "Provider Error"
		resp.Message = "the booking provider rejected the request"

	case errors.As(err, &delegationErr):
		resp.Status = http.StatusBadGateway
		resp.Error = "Bad Gateway"
		resp.Message = "the booking provider is unavailable"

	case errors.As(err, &echoErr):
		resp.Status = echoErr.Code
		resp.Error = http.StatusText(echoErr.Code)
		if msg, ok := echoErr.Message.(string); ok {
			resp.Message = msg
		} else {
			resp.Message = http.StatusText(echoErr.Code)
		}

	default:
		resp.Status = http.StatusInternalServerError
		resp.Error = "Internal Server Error"
		resp.Message = "Something went wrong. Please try again later."
	}

	return resp
}
