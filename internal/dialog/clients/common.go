// Package clients holds the HTTP implementations of the dialog package's
// collaborator interfaces: the NLU service, the forecast backend and the
// historical-climate backend.
package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// newCircuitBreaker builds the breaker shared settings for one collaborator.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// doRequest executes one HTTP request through the circuit breaker. Calls are
// single-attempt: the client timeout bounds them and there is no retry. The
// response body is returned even on failure statuses so callers can surface
// the raw payload.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (status int, body []byte, err error) {
	if client == nil {
		return 0, nil, errNoHTTPClient
	}

	req, err := buildRequest()
	if err != nil {
		return 0, nil, err
	}
	req = req.WithContext(ctx)

	_, err = cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		b, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, readErr
		}
		status, body = resp.StatusCode, b

		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, errRateLimited
		}
		if resp.StatusCode >= 500 {
			return nil, errServerError
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}
		return nil, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return status, body, fmt.Errorf("%w: %v", errCircuitOpen, err)
	}
	return status, body, err
}
