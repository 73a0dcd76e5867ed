package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"awards/internal/config"
)

// Client downloads encyclopedia pages that hold award tables.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.WikiTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.WikiRateLimitRPS),
	}
}

// FetchPage returns the HTML of a page title such as
// "BAFTA Award for Best Film". Retryable statuses back off exponentially.
func (c *Client) FetchPage(ctx context.Context, page string) ([]byte, error) {
	if strings.TrimSpace(page) == "" {
		return nil, errors.New("empty page title")
	}
	if err := c.cfg.Require("AWARDS_WIKI_BASE_URL", c.cfg.WikiBaseURL); err != nil {
		return nil, err
	}

	u, err := url.Parse(strings.TrimRight(c.cfg.WikiBaseURL, "/") + "/" + url.PathEscape(strings.ReplaceAll(strings.TrimSpace(page), " ", "_")))
	if err != nil {
		return nil, err
	}

	attempts := c.cfg.WikiMaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := c.limiter.WaitTurn(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/html")
		req.Header.Set("User-Agent", "awards-merge/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < attempts {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(backoff):
				}
				lastErr = fmt.Errorf("wiki status %d", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("wiki fetch %s: status=%d", page, resp.StatusCode)
		}
		return body, nil
	}

	if lastErr == nil {
		lastErr = errors.New("wiki request failed")
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
