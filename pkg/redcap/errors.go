package redcap

import (
	"errors"
	"fmt"
)

// ErrMissingConfig matches every *ConfigError with errors.Is.
var ErrMissingConfig = errors.New("redcap: missing configuration")

// ConfigError is returned when the API URL or token is not configured.
// No request is sent when it occurs.
type ConfigError struct {
	Variable string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("redcap: missing configuration: %s is not set", e.Variable)
}

func (e *ConfigError) Unwrap() error { return ErrMissingConfig }

// TransportError wraps a failure to build or deliver the request.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("redcap: send request: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError is returned for any response status outside 2xx.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("redcap: server returned %d: %s", e.StatusCode, string(e.Body))
}

// DecodeError is returned when the response body is not valid JSON.
type DecodeError struct {
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("redcap: decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
