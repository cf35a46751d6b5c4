package session

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// ErrNoSession is returned when an operation needs an authkey but none is held.
var ErrNoSession = errors.New("not authenticated")

// ErrMalformedResponse is returned when a 200 response lacks the fields needed
// to build a Credential.
var ErrMalformedResponse = errors.New("malformed response")

// APIError is a non-200 answer from the API. For authenticate it means no
// session was established; for reauthenticate the held session was dropped.
type APIError struct {
	// Operation is the session operation that was rejected.
	Operation string
	// StatusCode is the HTTP status returned by the server.
	StatusCode int
	// Code is the application error code from the response body, if any.
	Code int
	// Message is the reason given in the response body, if any.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s rejected: %d %s", e.Operation, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Code != 0 {
		msg += fmt.Sprintf(" (code %d)", e.Code)
	}
	return msg
}

// newAPIError builds an APIError from a response. The body may carry
// {"code": n, "message": "..."} or, for 400, {"reason": "..."}.
func newAPIError(operation string, res *Response) *APIError {
	apiErr := &APIError{Operation: operation, StatusCode: res.StatusCode}
	if res.Body == nil {
		return apiErr
	}
	if n, ok := intField(res.Body, "code"); ok {
		apiErr.Code = int(n)
	}
	if msg, ok := res.Body["message"].(string); ok {
		apiErr.Message = msg
	} else if reason, ok := res.Body["reason"].(string); ok {
		apiErr.Message = reason
	}
	return apiErr
}

// IsRejected reports whether err is an APIError.
func IsRejected(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// NetworkErrorKind categorizes a transport failure.
type NetworkErrorKind int

const (
	// NetworkErrorUnknown indicates an unclassified transport error.
	NetworkErrorUnknown NetworkErrorKind = iota
	// NetworkErrorTLS indicates a TLS/certificate verification error.
	NetworkErrorTLS
	// NetworkErrorConnection indicates a connectivity error (refused, reset, unreachable).
	NetworkErrorConnection
	// NetworkErrorTimeout indicates the request exceeded its deadline.
	NetworkErrorTimeout
	// NetworkErrorDNS indicates a DNS resolution failure.
	NetworkErrorDNS
	// NetworkErrorCanceled indicates the caller cancelled the request.
	NetworkErrorCanceled
)

// String returns a human-readable name for the kind.
func (k NetworkErrorKind) String() string {
	switch k {
	case NetworkErrorTLS:
		return "TLS error"
	case NetworkErrorConnection:
		return "connection error"
	case NetworkErrorTimeout:
		return "timeout"
	case NetworkErrorDNS:
		return "DNS resolution error"
	case NetworkErrorCanceled:
		return "canceled"
	default:
		return "network error"
	}
}

// NetworkError is a request that never produced an HTTP response.
type NetworkError struct {
	// Endpoint is the base URL that could not be reached.
	Endpoint string
	// Kind categorizes the failure.
	Kind NetworkErrorKind
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s talking to %s: %v", e.Kind, e.Endpoint, e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err is a NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// classifyNetworkError wraps a transport error in a NetworkError with the
// appropriate kind. Returns nil for a nil error.
func classifyNetworkError(err error, endpoint string) *NetworkError {
	if err == nil {
		return nil
	}

	kind := NetworkErrorUnknown
	var dnsErr *net.DNSError
	switch {
	case errors.Is(err, context.Canceled):
		kind = NetworkErrorCanceled
	case isTLSError(err):
		kind = NetworkErrorTLS
	case errors.As(err, &dnsErr):
		kind = NetworkErrorDNS
	case isTimeoutError(err):
		kind = NetworkErrorTimeout
	case isConnectionError(err.Error()):
		kind = NetworkErrorConnection
	}

	return &NetworkError{Endpoint: endpoint, Kind: kind, Err: err}
}

func isTLSError(err error) bool {
	var certErr *x509.CertificateInvalidError
	var hostErr *x509.HostnameError
	var unknownAuthErr *x509.UnknownAuthorityError
	if errors.As(err, &certErr) || errors.As(err, &hostErr) || errors.As(err, &unknownAuthErr) {
		return true
	}

	errStr := err.Error()
	for _, keyword := range []string{"x509:", "tls:", "TLS handshake"} {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}

	return strings.Contains(err.Error(), "Client.Timeout exceeded")
}

func isConnectionError(errStr string) bool {
	for _, keyword := range []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"no route to host",
		"EOF",
	} {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}
