package service

import (
	"fmt"
	"net/http"
)

// RemoteError is returned when the backend answered with a non-2xx status.
type RemoteError struct {
	Status int
}

func (e *RemoteError) Error() string {
	if text := http.StatusText(e.Status); text != "" {
		return fmt.Sprintf("remote error: %d %s", e.Status, text)
	}
	return fmt.Sprintf("remote error: %d", e.Status)
}

// MalformedResponseError is returned when a 2xx body does not have the expected shape.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// TransportError is returned when the request could not be completed at all.
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
