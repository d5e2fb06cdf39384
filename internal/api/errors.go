package api

import (
	"errors"
	"fmt"
)

// ErrUnexpected marks a response that neither carried the success marker
// nor a detail message.
var ErrUnexpected = errors.New("unexpected response")

// TransportError is returned when the request never produced a usable
// response: connection refused, cancelled context, undecodable body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RejectedError carries the backend's "detail" message. The backend sets it
// on domain rejections, whatever the HTTP status.
type RejectedError struct {
	Op     string
	Status int
	Detail string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

func unexpected(op, why string) error {
	return fmt.Errorf("%s: %w: %s", op, ErrUnexpected, why)
}

// Detail returns the server-provided message if err is a rejection.
func Detail(err error) (string, bool) {
	var rej *RejectedError
	if errors.As(err, &rej) {
		return rej.Detail, true
	}
	return "", false
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
