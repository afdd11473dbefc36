package client

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// TransportFailure covers connection errors and non-2xx answers.
	TransportFailure Kind = iota + 1
	// MalformedResponse is a body that is not the JSON envelope.
	MalformedResponse
	// Remote is a success:false envelope.
	Remote
)

func (k Kind) String() string {
	switch k {
	case TransportFailure:
		return "transport"
	case MalformedResponse:
		return "malformed response"
	case Remote:
		return "remote"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var (
	ErrTransport         = errors.New("transport failure")
	ErrMalformedResponse = errors.New("malformed response")
	ErrRemote            = errors.New("remote error")
)

// Error is what every failed Gateway.Request returns.
type Error struct {
	Kind    Kind
	Action  string
	Status  int // HTTP status, 0 when no answer arrived
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Action + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == TransportFailure
	case ErrMalformedResponse:
		return e.Kind == MalformedResponse
	case ErrRemote:
		return e.Kind == Remote
	}
	return false
}
