// Package artifact provides an HTTP client that downloads firmware images into memory.
package artifact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"fwversion/internal/config"
	"fwversion/internal/firmware"
)

// Client downloads firmware artifacts over HTTP(S).
type Client struct {
	timeout    time.Duration      // Request timeout
	retry      config.RetryConfig // Retry configuration
	maxSize    int64              // Maximum response size, 0 = unlimited
	httpClient *resty.Client      // HTTP client
	logger     zerolog.Logger     // Logger
}

// NewClient creates a new artifact download client.
func NewClient(cfg *config.FetchConfig, maxSize int64, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	retry := cfg.Retry
	if retry.BaseDelay == 0 {
		retry.BaseDelay = 1 * time.Second
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/octet-stream").
		SetHeaders(cfg.Headers).
		SetRetryCount(retry.MaxRetries).
		SetRetryWaitTime(retry.BaseDelay).
		SetRetryMaxWaitTime(retry.BaseDelay * 8). // Max wait time for exponential backoff
		AddRetryCondition(retryCondition)

	logger = logger.With().Str("component", "artifact-client").Logger()
	httpClient.SetLogger(restyLogger{logger})

	return &Client{
		timeout:    timeout,
		retry:      retry,
		maxSize:    maxSize,
		httpClient: httpClient,
		logger:     logger,
	}
}

// restyLogger sends resty's internal messages to zerolog at debug level,
// the final error is reported by the caller.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), v...)
}

// retryCondition determines whether a request should be retried.
// Retry on transport errors, 5xx and 429; never on other 4xx.
func retryCondition(resp *resty.Response, err error) bool {
	if err != nil {
		return true
	}

	if resp != nil && (resp.StatusCode() >= 500 || resp.StatusCode() == http.StatusTooManyRequests) {
		return true
	}

	return false
}

// Fetch downloads rawURL and returns the whole body.
// The body is streamed and reading stops once it exceeds the size limit.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	c.logger.Debug().Str("url", rawURL).Msg("downloading firmware")

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		c.logger.Debug().Err(err).Str("url", rawURL).Msg("failed to download firmware")
		return nil, fmt.Errorf("failed to download %s: %w", rawURL, err)
	}
	body := resp.RawBody()
	defer body.Close()

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", firmware.ErrFileNotFound, rawURL)
	case resp.StatusCode() != http.StatusOK:
		c.logger.Debug().
			Int("status_code", resp.StatusCode()).
			Str("url", rawURL).
			Msg("firmware server returned non-200 status")
		return nil, fmt.Errorf("download of %s returned status %d", rawURL, resp.StatusCode())
	}

	var reader io.Reader = body
	if c.maxSize > 0 {
		if length := resp.RawResponse.ContentLength; length > c.maxSize {
			return nil, fmt.Errorf("%s is %d bytes, larger than the %d byte limit", rawURL, length, c.maxSize)
		}
		reader = io.LimitReader(body, c.maxSize+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	if c.maxSize > 0 && int64(len(data)) > c.maxSize {
		return nil, fmt.Errorf("%s is larger than the %d byte limit", rawURL, c.maxSize)
	}

	c.logger.Debug().
		Str("url", rawURL).
		Int("size", len(data)).
		Dur("elapsed", resp.Time()).
		Msg("firmware downloaded")
	return data, nil
}
