package domain

import (
	"context"
	"errors"
	"net"
)

const UnknownErrorMessage = "unknown error"

type FailureKind string

const (
	FailureTransport FailureKind = "transport"
	FailureServer    FailureKind = "server"
	FailureStorage   FailureKind = "storage"
)

// Failure is the single failure shape produced by every async operation.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Op      string      `json:"op"`
	Status  int         `json:"status,omitempty"`
	Message string      `json:"message"`
	cause   error
}

func (f *Failure) Error() string {
	if f.Message == "" {
		return UnknownErrorMessage
	}
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.cause
}

func NewFailure(kind FailureKind, op, message string) *Failure {
	return &Failure{Kind: kind, Op: op, Message: message}
}

func TransportFailure(op string, err error) *Failure {
	return &Failure{Kind: FailureTransport, Op: op, Message: err.Error(), cause: err}
}

func ServerFailure(op string, status int, message string) *Failure {
	return &Failure{Kind: FailureServer, Op: op, Status: status, Message: message}
}

func StorageFailure(op string, err error) *Failure {
	return &Failure{Kind: FailureStorage, Op: op, Message: err.Error(), cause: err}
}

// AsFailure normalises any error into a Failure. Errors that already are
// failures keep their kind; context and network errors count as transport.
func AsFailure(err error, op string) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	var netErr net.Error
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return TransportFailure(op, err)
	}
	return &Failure{Kind: FailureServer, Op: op, Message: err.Error(), cause: err}
}

// String returns the human-readable text stored in state, or "" for nil.
func (f *Failure) String() string {
	if f == nil {
		return ""
	}
	return f.Error()
}
