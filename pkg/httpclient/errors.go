package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// maxErrorBody caps how much of an error body is read and kept.
const maxErrorBody = 1 << 20

// StatusError describes a non-2xx upstream response.
type StatusError struct {
	Service    string
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s returned status %d (%s): %s", e.Service, e.StatusCode, e.Code, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
}

// Unwrap maps the status class onto the shared sentinels so callers can use
// errors.Is without inspecting codes.
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return apperrors.ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return apperrors.ErrConflict
	case e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500:
		return apperrors.ErrServiceUnavail
	case IsClientError(e.StatusCode):
		return apperrors.ErrInvalidInput
	default:
		return nil
	}
}

// structuredError matches the httputil error envelope when an upstream
// speaks it.
type structuredError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError consumes and closes the body of a non-2xx response and
// returns a *StatusError. A structured error envelope keeps its code and
// message; any other body is kept verbatim as the message.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	statusErr := &StatusError{Service: serviceName, StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		statusErr.Message = fmt.Sprintf("failed to read body: %v", err)
		return statusErr
	}

	var structured structuredError
	if json.Unmarshal(body, &structured) == nil && structured.Error != nil {
		statusErr.Code = structured.Error.Code
		statusErr.Message = structured.Error.Message
		return statusErr
	}

	statusErr.Message = strings.TrimSpace(string(body))
	return statusErr
}

// IsClientError reports whether status is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
