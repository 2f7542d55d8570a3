package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/remindd/internal/metrics"
)

// CredentialStore is the slice of the secure credential store the Executor
// needs: a bearer token is read before each attempt and deleted when the
// server rejects it.
type CredentialStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

// Config holds Executor settings. BaseURL is resolved once, before
// construction; the Executor holds no ambient state beyond it.
type Config struct {
	BaseURL    string
	HealthPath string
	TokenKey   string

	Timeout    time.Duration
	MaxRetries int
	Backoff    Backoff
}

// Executor issues logical HTTP calls with per-attempt timeouts, a bounded
// retry loop and typed error classification. Construct one per process and
// inject it; it is safe for concurrent use.
type Executor struct {
	cfg        Config
	httpClient *http.Client
	creds      CredentialStore
}

// NewExecutor creates an Executor. creds may be nil when no credential store
// is available; requests then go out unauthenticated.
func NewExecutor(cfg Config, creds CredentialStore) *Executor {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Backoff == (Backoff{}) {
		cfg.Backoff = DefaultBackoff
	}
	if cfg.HealthPath == "" {
		cfg.HealthPath = "/health"
	}
	if cfg.TokenKey == "" {
		cfg.TokenKey = "auth_token"
	}
	return &Executor{
		cfg: cfg,
		httpClient: &http.Client{
			// Per-attempt contexts own the timeout.
			Timeout: 0,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		creds: creds,
	}
}

// Execute runs the descriptor through the retry loop. On failure the returned
// error is always a *ClassifiedError.
func (e *Executor) Execute(ctx context.Context, d Descriptor) (*Response, error) {
	corrID := uuid.New().String()
	url := e.cfg.BaseURL + d.Path

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = e.cfg.Timeout
	}

	body, structured, cerr := encodeBody(d.Body)
	if cerr != nil {
		return nil, cerr
	}

	var lastErr *ClassifiedError
	for attempt := 0; attempt <= d.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.RequestRetriesTotal.Inc()
		}

		start := time.Now()
		resp, attemptErr := e.attempt(ctx, d, url, body, structured, timeout)
		metrics.RequestLatency.WithLabelValues(d.Method).Observe(time.Since(start).Seconds())

		if attemptErr == nil {
			metrics.RequestsTotal.WithLabelValues(d.Method, "success").Inc()
			slog.Debug("Request succeeded",
				"correlation_id", corrID, "method", d.Method, "url", url,
				"attempt", attempt, "status", resp.Status)
			return resp, nil
		}

		lastErr = attemptErr
		metrics.RequestsTotal.WithLabelValues(d.Method, "failure").Inc()
		metrics.RequestErrorsTotal.WithLabelValues(string(attemptErr.Kind)).Inc()
		slog.Warn("Request attempt failed",
			"correlation_id", corrID, "method", d.Method, "url", url,
			"attempt", attempt, "kind", string(attemptErr.Kind),
			"status", attemptErr.Status, "error", attemptErr.Message)

		if !attemptErr.Retryable() || attempt == d.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return nil, classifyContext(ctx.Err())
		case <-time.After(e.cfg.Backoff.Delay()):
		}
	}

	return nil, lastErr
}

// attempt issues one call under its own deadline. The deadline context is
// derived from the caller's, so either firing aborts the attempt; cancel on
// return abandons any response that arrives late.
func (e *Executor) attempt(
	ctx context.Context,
	d Descriptor,
	url string,
	body []byte,
	structured bool,
	timeout time.Duration,
) (*Response, *ClassifiedError) {
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(actx, d.Method, url, reader)
	if err != nil {
		return nil, &ClassifiedError{Kind: KindNetwork, Message: fmt.Sprintf("create request: %v", err)}
	}

	for k, v := range d.Headers {
		req.Header.Set(k, v)
	}
	if body != nil && structured {
		req.Header.Set("Content-Type", "application/json")
	}

	// Token absence is not an error; the request simply goes out unsigned.
	if e.creds != nil {
		token, ok, err := e.creds.Get(ctx, e.cfg.TokenKey)
		if err != nil {
			slog.Warn("Credential store read failed", "error", err)
		} else if ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, e.classifyTransport(ctx, actx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if e.creds != nil {
			if derr := e.creds.Delete(ctx, e.cfg.TokenKey); derr != nil {
				slog.Warn("Failed to invalidate credential", "error", derr)
			}
		}
		return nil, &ClassifiedError{Kind: KindAuth, Status: resp.StatusCode, Message: "unauthorized"}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, e.classifyTransport(ctx, actx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := KindHTTPServer
		if resp.StatusCode < 500 {
			kind = KindHTTPClient
		}
		return nil, &ClassifiedError{
			Kind:    kind,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("http %d: %s", resp.StatusCode, truncate(respBody, 200)),
		}
	}

	if len(respBody) > 0 && !json.Valid(respBody) {
		return nil, &ClassifiedError{
			Kind:    KindParse,
			Status:  resp.StatusCode,
			Message: "response body is not valid JSON",
		}
	}

	return &Response{Status: resp.StatusCode, Body: respBody}, nil
}

// classifyTransport distinguishes the attempt deadline firing from caller
// cancellation and from plain transport failure.
func (e *Executor) classifyTransport(ctx, actx context.Context, err error) *ClassifiedError {
	if ctx.Err() != nil {
		return classifyContext(ctx.Err())
	}
	if errors.Is(actx.Err(), context.DeadlineExceeded) {
		return &ClassifiedError{Kind: KindTimeout, Message: "no response within budget"}
	}
	return &ClassifiedError{Kind: KindNetwork, Message: err.Error()}
}

func classifyContext(err error) *ClassifiedError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ClassifiedError{Kind: KindTimeout, Message: "no response within budget"}
	}
	return &ClassifiedError{Kind: KindNetwork, Message: "request canceled"}
}

// encodeBody marshals the body and reports whether it encodes to a structured
// value. Only structured bodies get a JSON Content-Type.
func encodeBody(body any) ([]byte, bool, *ClassifiedError) {
	if body == nil {
		return nil, false, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, false, &ClassifiedError{Kind: KindParse, Message: fmt.Sprintf("encode request body: %v", err)}
	}
	structured := len(data) > 0 && (data[0] == '{' || data[0] == '[')
	return data, structured, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

// Get issues a GET through Execute with the Executor's default retry policy.
func (e *Executor) Get(ctx context.Context, path string) (*Response, error) {
	return e.Execute(ctx, Descriptor{Path: path, Method: http.MethodGet, MaxRetries: e.cfg.MaxRetries})
}

// Post issues a POST with a JSON body.
func (e *Executor) Post(ctx context.Context, path string, body any) (*Response, error) {
	return e.Execute(ctx, Descriptor{Path: path, Method: http.MethodPost, Body: body, MaxRetries: e.cfg.MaxRetries})
}

// Put issues a PUT with a JSON body.
func (e *Executor) Put(ctx context.Context, path string, body any) (*Response, error) {
	return e.Execute(ctx, Descriptor{Path: path, Method: http.MethodPut, Body: body, MaxRetries: e.cfg.MaxRetries})
}

// Delete issues a DELETE.
func (e *Executor) Delete(ctx context.Context, path string) (*Response, error) {
	return e.Execute(ctx, Descriptor{Path: path, Method: http.MethodDelete, MaxRetries: e.cfg.MaxRetries})
}

// Revalidate probes the health endpoint with a single attempt. Its error, if
// any, is the ClassifiedError callers surface for retry prompts.
func (e *Executor) Revalidate(ctx context.Context) error {
	_, err := e.Execute(ctx, Descriptor{Path: e.cfg.HealthPath, Method: http.MethodGet})
	return err
}
