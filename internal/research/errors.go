package research

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTopic is returned before any call when the topic is blank.
	ErrEmptyTopic = errors.New("research topic is empty")
	// ErrNotConfigured means the requester has no client or model.
	ErrNotConfigured = errors.New("requester not configured")
	// ErrEmptyResponse means the model answered without any text.
	ErrEmptyResponse = errors.New("empty response from model")
)

// MalformedResponseError wraps a JSON decoding failure of the model text.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return "malformed research response: " + e.Err.Error()
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// RequestError is what Perform returns on any failure. Err is ErrEmptyTopic,
// ErrNotConfigured, the transport error, ErrEmptyResponse or a
// *MalformedResponseError.
type RequestError struct {
	Topic string
	Err   error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("research %q: %v", e.Topic, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }
