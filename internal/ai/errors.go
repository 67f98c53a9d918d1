// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Generation calls hit a metered external API. Callers need to tell apart
// "the service is down", "we are being throttled", and "the call took too
// long" because the right reaction differs for each: the first two may be
// retried by the caller with backoff, the last usually should not be.
// Providers here never retry on their own.
var (
	// ErrUnavailable indicates the provider could not be reached at all.
	ErrUnavailable = errors.New("ai: provider unavailable")

	// ErrTimeout indicates no response arrived within the bounded wait.
	ErrTimeout = errors.New("ai: request timed out")
)

// RateLimitedError indicates the provider signalled throttling (HTTP 429).
// RetryAfter is zero when the provider gave no hint.
type RateLimitedError struct {
	Provider   string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: rate limited, retry after %s", e.Provider, e.RetryAfter)
	}
	return fmt.Sprintf("%s: rate limited", e.Provider)
}

// APIError carries a non-OK provider response that is neither throttling
// nor unavailability, such as an invalid request or an auth failure.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// classifyTransport turns an http.Client error into a typed failure.
func classifyTransport(provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", provider, ErrTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s: %w", provider, ErrTimeout)
	}
	return fmt.Errorf("%s: %w: %v", provider, ErrUnavailable, err)
}

// classifyStatus turns a non-200 provider response into a typed failure.
func classifyStatus(provider string, statusCode int, header http.Header, body []byte) error {
	switch statusCode {
	case http.StatusTooManyRequests:
		return &RateLimitedError{Provider: provider, RetryAfter: parseRetryAfter(header)}
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return fmt.Errorf("%s: %w (status %d)", provider, ErrUnavailable, statusCode)
	case http.StatusGatewayTimeout:
		return fmt.Errorf("%s: %w (status %d)", provider, ErrTimeout, statusCode)
	default:
		return &APIError{Provider: provider, StatusCode: statusCode, Body: string(body)}
	}
}

// parseRetryAfter reads the Retry-After header in its delta-seconds form.
// The HTTP-date form is rare on LLM APIs and is ignored.
func parseRetryAfter(header http.Header) time.Duration {
	v := header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
