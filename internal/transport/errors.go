package transport

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed request. Every failure path of the Executor
// produces exactly one kind; no untyped errors cross the package boundary.
type ErrorKind string

const (
	KindNetwork    ErrorKind = "network"     // transport-level unreachability
	KindTimeout    ErrorKind = "timeout"     // no response within budget
	KindHTTPClient ErrorKind = "http_client" // 4xx, request fault
	KindHTTPServer ErrorKind = "http_server" // 5xx, transient
	KindAuth       ErrorKind = "auth"        // 401, credential invalidated
	KindParse      ErrorKind = "parse"       // response body not decodable
)

// ClassifiedError is a tagged failure value with one fixed kind, an optional
// HTTP status and a human message.
type ClassifiedError struct {
	Kind    ErrorKind
	Status  int // 0 when no HTTP status applies
	Message string
}

func (e *ClassifiedError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Retryable reports whether another attempt may change the outcome.
// AUTH and HTTP_CLIENT are terminal: the request itself is presumed invalid
// or unauthorized, so retrying cannot help.
func (e *ClassifiedError) Retryable() bool {
	switch e.Kind {
	case KindAuth, KindHTTPClient:
		return false
	default:
		return true
	}
}

// userMessages maps each kind to its stable user-facing message. The mapping
// is part of the contract; UI layers key off it.
var userMessages = map[ErrorKind]string{
	KindNetwork:    "Cannot reach the server. Check your connection.",
	KindTimeout:    "The server took too long to respond. Try again.",
	KindHTTPClient: "The request was rejected by the server.",
	KindHTTPServer: "The server ran into a problem. Try again shortly.",
	KindAuth:       "Your session has expired. Sign in again.",
	KindParse:      "The server returned an unreadable response. Try again.",
}

// UserMessage returns the stable user-facing message for the error's kind.
func (e *ClassifiedError) UserMessage() string {
	return userMessages[e.Kind]
}

// AsClassified unwraps a ClassifiedError from an error chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var cerr *ClassifiedError
	if errors.As(err, &cerr) {
		return cerr, true
	}
	return nil, false
}
