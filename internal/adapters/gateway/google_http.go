package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// apiStatusError is a non-OK top-level "status" in a Google response body.
type apiStatusError struct {
	Status  string
	Message string
}

func (e *apiStatusError) Error() string {
	if e.Message == "" {
		return "status " + e.Status
	}
	return fmt.Sprintf("status %s: %s", e.Status, e.Message)
}

// permanent reports errors that another attempt cannot fix.
func permanent(err error) bool {
	var ae *apiStatusError
	if errors.As(err, &ae) {
		switch ae.Status {
		case "REQUEST_DENIED", "INVALID_REQUEST", "MAX_WAYPOINTS_EXCEEDED", "MAX_ELEMENTS_EXCEEDED":
			return true
		}
	}
	var he *httpStatusError
	if errors.As(err, &he) {
		return he.Code == http.StatusUnauthorized || he.Code == http.StatusForbidden
	}
	return errors.Is(err, ErrTooManyPoints)
}

// requestFault reports permanent errors caused by the request itself rather than
// by the service or the credential. They do not count against the breaker.
func requestFault(err error) bool {
	var ae *apiStatusError
	if errors.As(err, &ae) {
		switch ae.Status {
		case "INVALID_REQUEST", "MAX_WAYPOINTS_EXCEEDED", "MAX_ELEMENTS_EXCEEDED":
			return true
		}
	}
	return errors.Is(err, ErrTooManyPoints)
}

func (g *GoogleGateway) newRequest(ctx context.Context, path string, params url.Values) (*http.Request, error) {
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return req, nil
}

func (g *GoogleGateway) do(req *http.Request) (*http.Response, error) {
	resp, err := g.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// getJSON performs one GET and decodes the body into out.
func (g *GoogleGateway) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := g.newRequest(ctx, path, params)
	if err != nil {
		return err
	}

	resp, err := g.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// withRetry runs attempt up to g.attempts times with a fixed pause between tries.
//
// Each try waits for the rate limiter, passes through the circuit breaker and gets
// its own timeout. attempt covers the request, decoding and validation, so a
// malformed body is retried like a transport error. Permanent errors, an open
// circuit and caller cancellation stop immediately.
func (g *GoogleGateway) withRetry(ctx context.Context, op string, attempt func(ctx context.Context) error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(g.backoff), uint64(g.attempts-1)),
		ctx,
	)

	tries := 0
	operation := func() error {
		tries++

		if err := g.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("rate limit wait: %w", err))
		}

		_, err := g.breaker.Execute(func() (struct{}, error) {
			actx, cancel := context.WithTimeout(ctx, g.timeout)
			defer cancel()
			return struct{}{}, attempt(actx)
		})

		if err == nil {
			g.metrics.ObserveGatewayAttempt(string(g.mode), "ok")
			return nil
		}
		g.metrics.ObserveGatewayAttempt(string(g.mode), "error")

		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return backoff.Permanent(fmt.Errorf("circuit open: %w", err))
		case ctx.Err() != nil:
			return backoff.Permanent(ctx.Err())
		case permanent(err):
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		g.log.Warn().Err(err).Str("op", op).Int("attempt", tries).Dur("retry_in", wait).Msg("routing call failed, retrying")
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return fmt.Errorf("%s after %d attempt(s): %w", op, tries, err)
	}
	return nil
}
