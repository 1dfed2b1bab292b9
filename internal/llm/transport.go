package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	maxAttempts       = 3
	initialRetryDelay = 500 * time.Millisecond
)

// postJSON sends a JSON payload and returns the response body on
// success. Transport errors, 429s, and 5xx responses are retried with
// exponential backoff; the delays are kept short so retries fit inside
// the per-stage timeouts the pipeline runs under. Non-retryable API
// errors return immediately as a *ProviderError.
func postJSON(ctx context.Context, client *http.Client, url string, payload []byte, header http.Header, scope string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := initialRetryDelay << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("%s: create request: %w", scope, err)
		}
		for key, values := range header {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%s: request failed: %w", scope, err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%s: read response: %w", scope, err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			perr := readProviderError(resp.StatusCode, body)
			lastErr = fmt.Errorf("%s: %w", scope, perr)
			if perr.Retryable() {
				continue
			}
			return nil, lastErr
		}

		return body, nil
	}

	return nil, fmt.Errorf("%s: retries exhausted after %d attempts: %w", scope, maxAttempts, lastErr)
}
