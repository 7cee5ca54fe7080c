package llm

import (
	"github.com/pkg/errors"
)

// ErrorKind categorizes client errors.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTimeout
	KindConnection
	KindModelNotFound
	KindStatus
	KindInvalidResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindModelNotFound:
		return "model not found"
	case KindStatus:
		return "status"
	case KindInvalidResponse:
		return "invalid response"
	default:
		return "unknown"
	}
}

// ClientError is returned by OllamaClient.
type ClientError struct {
	Cause      error
	Message    string
	Kind       ErrorKind
	StatusCode int
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}

	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is a *ClientError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Kind == kind
	}

	return false
}

// IsTimeout reports whether err is a client timeout.
func IsTimeout(err error) bool {
	return IsKind(err, KindTimeout)
}
