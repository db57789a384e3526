package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"trendscout/pkg/config"
	"trendscout/pkg/errors"
	"trendscout/pkg/logger"
)

const defaultTimeout = 30 * time.Second

// Client is an authenticated Instagram web API client.
//
// A rate.Limiter caps the raw request rate as a hard ceiling; the
// humanized pacing between calls lives in the executor, not here.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	limiter    *rate.Limiter
	logger     logger.Logger
}

// NewClient creates a client from the Instagram and pacing configuration
func NewClient(igCfg *config.InstagramConfig, pacing *config.PacingConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	rpm := 60
	if pacing != nil && pacing.RequestsPerMinute > 0 {
		rpm = pacing.RequestsPerMinute
	}

	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		headers: map[string]string{
			"Accept":          "application/json",
			"Accept-Language": "en-US,en;q=0.9",
		},
		baseURL: BaseURL,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		logger:  log,
	}

	if igCfg != nil {
		if igCfg.UserAgent != "" {
			c.headers["User-Agent"] = igCfg.UserAgent
		}

		var cookies []string
		if igCfg.SessionID != "" {
			cookies = append(cookies, fmt.Sprintf("sessionid=%s", igCfg.SessionID))
		}
		if igCfg.CSRFToken != "" {
			cookies = append(cookies, fmt.Sprintf("csrftoken=%s", igCfg.CSRFToken))
			c.headers["x-csrftoken"] = igCfg.CSRFToken
		}
		if len(cookies) > 0 {
			c.headers["Cookie"] = strings.Join(cookies, "; ")
		}
	}

	return c
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetBaseURL overrides the upstream base URL, used by tests
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimSuffix(base, "/")
}

// GetBaseURL returns the configured upstream base URL
func (c *Client) GetBaseURL() string {
	return c.baseURL
}

// GetJSON performs a GET request and decodes the JSON response into
// target. Failures are classified into the scan error taxonomy.
func (c *Client) GetJSON(ctx context.Context, url string, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(errors.TypeOther, err, "failed to build request")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.WarnWithFields("HTTP request failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return errors.Wrap(errors.TypeTransientNetwork, err, "network error")
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if resp.StatusCode != http.StatusOK {
		return c.classifyStatus(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errors.Wrap(errors.TypeOther, err, "failed to parse response")
	}

	return nil
}

// classifyStatus maps a non-200 response to a typed error
func (c *Client) classifyStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	t := errors.FromStatusCode(resp.StatusCode)
	e := errors.Newf(t, "unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))).
		WithCode(resp.StatusCode)

	// An explicit 429 is the strongest throttling signal upstream sends
	if t == errors.TypeRateLimited {
		e = e.WithSeverity(errors.SeverityHigh)
	}

	return e
}
