package linkcheck

import (
	"context"
	"errors"
	"net/http"
	"time"
)

const DefaultTimeout = 10 * time.Second

// Probe fetches a tracked project's link and reports whether it still
// resolves to a live page. Any 2xx or 3xx status counts as alive.
func Probe(ctx context.Context, link string, timeout time.Duration) error {
	if link == "" {
		return errors.New("empty link")
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := &http.Client{
		Timeout: timeout,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)

	if err != nil {
		return err
	}

	req.Header.Set("User-Agent", "dropdeck-linkcheck/1.0")

	resp, err := client.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errors.New("unexpected status code: " + resp.Status)
	}

	return nil
}
