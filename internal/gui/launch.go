package gui

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kartoza/qmc-desk/internal/dispatch"
)

// FrontendURL appends the launch parameters to the page address
func FrontendURL(serverURL string, params dispatch.LaunchParams) string {
	return dispatch.NormalizeBaseURL(serverURL) + "/?" + params.Query().Encode()
}

// WaitForHealth polls <baseURL>/health until it answers 200 or timeout passes
func WaitForHealth(ctx context.Context, baseURL string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := dispatch.NormalizeBaseURL(baseURL) + "/health"
	client := &http.Client{Timeout: 2 * time.Second}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var lastErr error
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			lastErr = fmt.Errorf("health check returned %d", resp.StatusCode)
		} else {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("API at %s not healthy after %s: %w", baseURL, timeout, lastErr)
		case <-ticker.C:
		}
	}
}
