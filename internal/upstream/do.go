// Package upstream calls the external geocoding and isochrone providers.
package upstream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mohammed-shakir/resource-radius/internal/core/observability"
)

const maxErrorBody = 8 << 10

// retryBackoff is the pause before attempt n (n >= 1)
var retryBackoff = func(n int) time.Duration { return time.Duration(n) * 200 * time.Millisecond }

// WorstCase is the longest one provider call can take when every attempt
// runs into timeout, backoff included. A non-positive timeout means calls
// are unbounded and WorstCase returns 0.
func WorstCase(timeout time.Duration, retries int) time.Duration {
	if timeout <= 0 {
		return 0
	}
	retries = max(retries, 0)
	d := time.Duration(retries+1) * timeout
	for n := 1; n <= retries; n++ {
		d += retryBackoff(n)
	}
	return d
}

// do sends the request built by newReq, retrying up to retries extra times
// on transport errors and 5xx answers. With retries == 0 exactly one attempt
// is made.
func do(ctx context.Context, client *http.Client, name string, retries int, newReq func() (*http.Request, error)) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			t := time.NewTimer(retryBackoff(attempt))
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			case <-t.C:
			}
		}

		req, err := newReq()
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		start := time.Now()
		resp, err := client.Do(req)
		observability.ObserveUpstreamLatency(name, time.Since(start).Seconds())
		if err != nil {
			lastErr = stripURL(err)
			if ctx.Err() != nil {
				return nil, lastErr
			}
			continue
		}
		if resp.StatusCode >= 500 && attempt < retries {
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("upstream status %d", resp.StatusCode)
			continue
		}
		return resp, nil
	}
	return nil, lastErr
}
