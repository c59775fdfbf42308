package recipes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	maxRetries        = 3
	defaultTimeout    = 30 * time.Second
	retryWaitDuration = 2 * time.Second
)

// fetcher performs GET requests with a fixed number of attempts
type fetcher struct {
	client    *http.Client
	log       *zap.Logger
	headers   map[string]string
	retryWait time.Duration
}

func newFetcher(client *http.Client, log *zap.Logger) *fetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &fetcher{
		client:    client,
		log:       log,
		headers:   defaultHeaders(),
		retryWait: retryWaitDuration,
	}
}

// fetch retrieves url, retrying transport errors and non-200 responses
func (f *fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		content, err := f.once(ctx, url)
		if err == nil {
			f.log.Debug("Fetched URL",
				zap.String("url", url),
				zap.Int("content_length", len(content)))
			return content, nil
		}
		lastErr = err

		f.log.Warn("HTTP request failed",
			zap.Error(err),
			zap.String("url", url),
			zap.Int("attempt", attempt))

		if attempt == maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.retryWait):
		}
	}

	return nil, fmt.Errorf("failed to fetch %s after %d attempts: %w", url, maxRetries, lastErr)
}

func (f *fetcher) once(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return content, nil
}

func defaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "nutriplan/1.0 (+https://github.com/bradykim7/nutriplan)",
		"Accept":          "application/json,text/html;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
		"Cache-Control":   "no-cache",
	}
}
