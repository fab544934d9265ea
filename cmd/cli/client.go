package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const idempotencyKeyHeader = "Idempotency-Key"

// apiError is a non-2xx API response.
type apiError struct {
	Status  int
	Reason  string `json:"error"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	switch {
	case e.Message != "" && e.Reason != "":
		return fmt.Sprintf("%s: %s (status %d)", e.Reason, e.Message, e.Status)
	case e.Reason != "":
		return fmt.Sprintf("%s (status %d)", e.Reason, e.Status)
	default:
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
}

type apiClient struct {
	baseURL    string
	http       *http.Client
	maxElapsed time.Duration
}

func newAPIClient(baseURL string, timeout, maxElapsed time.Duration) *apiClient {
	return &apiClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: timeout},
		maxElapsed: maxElapsed,
	}
}

// do sends a request and decodes a 2xx JSON body into out. Busy responses
// (429, 503) and transport errors are retried with exponential backoff; the
// idempotency key, when set, is reused on every attempt.
func (c *apiClient) do(ctx context.Context, method, path string, body any, idempotencyKey string, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	var respBody []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if idempotencyKey != "" {
			req.Header.Set(idempotencyKeyHeader, idempotencyKey)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		apiErr := &apiError{Status: resp.StatusCode}
		_ = json.Unmarshal(respBody, apiErr)

		if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests {
			return apiErr
		}
		return backoff.Permanent(apiErr)
	}

	if err := backoff.Retry(operation, c.backOff(ctx)); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *apiClient) backOff(ctx context.Context) backoff.BackOff {
	if c.maxElapsed <= 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = c.maxElapsed
	return backoff.WithContext(b, ctx)
}
