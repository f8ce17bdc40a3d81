package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/jsamuelsen11/donation-gateway/internal/platform/httpclient"
)

// Requester centralizes the HTTP request lifecycle for the tracker API:
// request creation, form encoding, execution via httpclient.Client, response
// body cleanup, status validation, error translation, and JSON decoding.
//
// The tracker's API is uniform: GET /search returns serialized model record
// lists, POST /add and /edit accept form-encoded fields and return the
// affected records, POST /delete returns a result message.
type Requester struct {
	client *httpclient.Client
	logger *slog.Logger
}

// NewRequester creates a Requester backed by the given HTTP client and logger.
func NewRequester(client *httpclient.Client, logger *slog.Logger) *Requester {
	return &Requester{client: client, logger: logger}
}

// Search issues GET /search with the given query parameters and decodes the
// serialized record list. An empty result is not an error.
func (r *Requester) Search(ctx context.Context, params url.Values) ([]modelRecord, error) {
	target := r.client.BaseURL() + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}

	var records []modelRecord
	if err := r.execute(req, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Submit posts form-encoded parameters to /add or /edit and decodes the
// returned record list. The tracker echoes the affected records back, so a
// successful write always yields at least one record.
func (r *Requester) Submit(ctx context.Context, path string, params url.Values) ([]modelRecord, error) {
	req, err := r.formRequest(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var records []modelRecord
	if err := r.execute(req, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("tracker returned no records for POST %s", path)
	}
	return records, nil
}

// Delete posts form-encoded parameters to /delete. The tracker returns a
// human-readable result message, which is logged and discarded.
func (r *Requester) Delete(ctx context.Context, params url.Values) error {
	req, err := r.formRequest(ctx, "/delete", params)
	if err != nil {
		return err
	}

	var result deleteResult
	if err := r.execute(req, &result); err != nil {
		return err
	}

	r.logger.DebugContext(req.Context(), "tracker delete",
		slog.String("result", result.Result),
	)
	return nil
}

// CircuitBreakerState returns the circuit breaker state from the underlying
// HTTP client.
func (r *Requester) CircuitBreakerState() string {
	return r.client.CircuitBreakerState()
}

func (r *Requester) formRequest(ctx context.Context, path string, params url.Values) (*http.Request, error) {
	target := r.client.BaseURL() + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating POST request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

// closeBody closes an HTTP response body and logs on failure.
func (r *Requester) closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		r.logger.WarnContext(ctx, "failed to close response body",
			slog.String("error", err.Error()),
		)
	}
}

// execute sends the request, checks for 200 OK, and decodes the response
// body into out. It ensures resp.Body is always closed.
func (r *Requester) execute(req *http.Request, out any) error {
	resp, err := r.client.Do(req.Context(), req)
	if err != nil {
		// httpclient.Do can return both resp and err when retries are exhausted
		// on a retryable status (e.g. 5xx). In that case, translate the HTTP
		// response into a domain error rather than returning the raw retry error.
		if resp != nil {
			defer r.closeBody(req.Context(), resp)
			if resp.StatusCode != http.StatusOK {
				return TranslateHTTPError(resp)
			}
		}
		r.logger.ErrorContext(req.Context(), "request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer r.closeBody(req.Context(), resp)

	if resp.StatusCode != http.StatusOK {
		translateErr := TranslateHTTPError(resp)
		r.logger.ErrorContext(req.Context(), "unexpected status",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Int("status", resp.StatusCode),
		)
		return translateErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response from %s %s: %w", req.Method, req.URL.Path, err)
		}
	}

	return nil
}
