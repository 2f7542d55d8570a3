package transport

import (
	"encoding/json"
	"time"
)

// Descriptor describes one logical HTTP call. It is immutable per call: the
// Executor never mutates it, and retries reuse the same descriptor.
type Descriptor struct {
	// Path is appended to the resolved base URL.
	Path string

	// Method is the HTTP method.
	Method string

	// Headers are merged over the Executor's standard headers.
	Headers map[string]string

	// Body, when non-nil, is JSON-encoded into the request body. A
	// Content-Type header is attached only when the encoded body is a
	// structured value (object or array).
	Body any

	// Timeout bounds each individual attempt.
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt, so the
	// Executor makes at most MaxRetries+1 attempts.
	MaxRetries int
}

// Response is a successful, decodable reply.
type Response struct {
	Status int
	Body   []byte
}

// Decode unmarshals the response body into v. An empty body decodes to the
// zero value.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}
