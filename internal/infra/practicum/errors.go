// internal/infra/practicum/errors.go
package practicum

import "fmt"

// TransportError means the request did not complete: DNS, connect, timeout or a broken body.
type TransportError struct {
	Endpoint string
	FromDate int64
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s (from_date=%d) failed: %v", e.Endpoint, e.FromDate, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError means the endpoint answered with a non-200 status.
type HTTPError struct {
	Endpoint   string
	FromDate   int64
	StatusCode int
	Body       string // truncated excerpt
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("endpoint %s (from_date=%d) returned HTTP %d: %s", e.Endpoint, e.FromDate, e.StatusCode, e.Body)
}

// ApplicationError means the endpoint answered 200 but the body carries a rejection.
type ApplicationError struct {
	Endpoint string
	FromDate int64
	Code     string
	Message  string
}

func (e *ApplicationError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("API at %s (from_date=%d) rejected the request: %s (code %s)", e.Endpoint, e.FromDate, e.Message, e.Code)
	case e.Code != "":
		return fmt.Sprintf("API at %s (from_date=%d) rejected the request with code %s", e.Endpoint, e.FromDate, e.Code)
	default:
		return fmt.Sprintf("API at %s (from_date=%d) rejected the request: %s", e.Endpoint, e.FromDate, e.Message)
	}
}
