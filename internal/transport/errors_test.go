package transport

import (
	"fmt"
	"testing"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		kind   ErrorKind
		expect bool
	}{
		{KindNetwork, true},
		{KindTimeout, true},
		{KindHTTPServer, true},
		{KindParse, true},
		{KindHTTPClient, false},
		{KindAuth, false},
	}

	for _, tt := range tests {
		err := &ClassifiedError{Kind: tt.kind}
		if got := err.Retryable(); got != tt.expect {
			t.Errorf("Retryable(%s) = %v, want %v", tt.kind, got, tt.expect)
		}
	}
}

func TestUserMessageCoversAllKinds(t *testing.T) {
	kinds := []ErrorKind{KindNetwork, KindTimeout, KindHTTPClient, KindHTTPServer, KindAuth, KindParse}
	for _, kind := range kinds {
		err := &ClassifiedError{Kind: kind}
		if err.UserMessage() == "" {
			t.Errorf("no user message for kind %s", kind)
		}
	}
}

func TestAsClassified(t *testing.T) {
	cerr := &ClassifiedError{Kind: KindHTTPServer, Status: 503, Message: "unavailable"}
	wrapped := fmt.Errorf("list reminders: %w", cerr)

	got, ok := AsClassified(wrapped)
	if !ok {
		t.Fatal("expected classified error in chain")
	}
	if got.Kind != KindHTTPServer || got.Status != 503 {
		t.Errorf("got %+v", got)
	}

	if _, ok := AsClassified(fmt.Errorf("plain")); ok {
		t.Error("plain error should not classify")
	}
}

func TestErrorString(t *testing.T) {
	withStatus := &ClassifiedError{Kind: KindHTTPClient, Status: 404, Message: "not found"}
	if withStatus.Error() != "http_client (404): not found" {
		t.Errorf("Error() = %q", withStatus.Error())
	}

	noStatus := &ClassifiedError{Kind: KindNetwork, Message: "connection refused"}
	if noStatus.Error() != "network: connection refused" {
		t.Errorf("Error() = %q", noStatus.Error())
	}
}
