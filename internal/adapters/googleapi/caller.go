// Package googleapi holds the HTTP plumbing shared by the two Google API
// clients: client-side rate limiting, retry with backoff on throttling and
// transient server errors, and outbound-request metrics.
package googleapi

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"review_replier/internal/adapters/observability"
)

// StatusError is a non-2xx response that is not retryable (or exhausted its
// retries), with a small body snippet for diagnostics.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("bad status %d", e.Code)
	}
	return fmt.Sprintf("bad status %d: %s", e.Code, e.Body)
}

// Caller issues JSON requests for one upstream service.
type Caller struct {
	HC      *http.Client
	RL      *rate.Limiter
	Service string // metrics label: "places" | "business_profile"
}

func New(service string, rps int) *Caller {
	if rps <= 0 {
		rps = 5
	}
	return &Caller{
		HC:      &http.Client{Timeout: 20 * time.Second},
		RL:      rate.NewLimiter(rate.Limit(rps), rps),
		Service: service,
	}
}

// GetJSON performs a GET and decodes the response into out. Retries on 429
// and transient 5xx, honoring Retry-After when provided. Reads only; writes
// must go through DoOnce so a failed write is never repeated.
func (c *Caller) GetJSON(ctx context.Context, endpoint, url string, out any) error {
	if err := c.RL.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.HC.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return lastErr
		}
		observability.ObserveExternal(c.Service, endpoint, resp.StatusCode, time.Since(start))

		retryable, err := consume(resp, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
		wait := retryAfter(resp)
		if wait == 0 {
			wait = backoff(i)
		}
		if i < 3 && sleepCtx(ctx, wait) {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return lastErr
	}
	return lastErr
}

// DoOnce performs a single attempt of req (used for the reply write path),
// decoding a 2xx JSON body into out.
func (c *Caller) DoOnce(ctx context.Context, endpoint string, req *http.Request, out any) error {
	if err := c.RL.Wait(ctx); err != nil {
		return err
	}
	start := time.Now()
	resp, err := c.HC.Do(req.WithContext(ctx))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	observability.ObserveExternal(c.Service, endpoint, resp.StatusCode, time.Since(start))
	_, err = consume(resp, out)
	return err
}

// consume closes the body and either decodes it into out or returns an error;
// retryable marks throttling and transient server statuses.
func consume(resp *http.Response, out any) (retryable bool, err error) {
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return false, nil
		}
		return false, json.NewDecoder(resp.Body).Decode(out)

	case http.StatusNoContent:
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil

	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		_, _ = io.Copy(io.Discard, resp.Body)
		return true, &StatusError{Code: resp.StatusCode}

	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return false, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). Returns 0 if absent.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles each attempt (200ms, 400ms, 800ms...) with up to +50%
// jitter from crypto/rand so concurrent callers do not herd.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
