// Package livechat is the client for the chat platform's list API
package livechat

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	perr "livetakip/internal/platform/errors"
	"livetakip/internal/platform/logger"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 3
	defaultRetryBase   = time.Second
	defaultPageSize    = 100
	defaultPageDelay   = 100 * time.Millisecond
	defaultUA          = "livetakip-sync"
)

// Options configures the Client
type Options struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration

	// MaxAttempts counts the first try; RetryBase*n is slept after failed attempt n
	MaxAttempts int
	RetryBase   time.Duration

	PageSize  int
	PageDelay time.Duration
}

// Client talks to the chat platform with bounded retries
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// NewClient creates a Client with defaults filled in
func NewClient(o Options) *Client {
	o.BaseURL = strings.TrimRight(strings.TrimSpace(o.BaseURL), "/")
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defaultMaxAttempts
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.PageSize <= 0 {
		o.PageSize = defaultPageSize
	}
	// zero means the default pacing, negative disables it
	switch {
	case o.PageDelay == 0:
		o.PageDelay = defaultPageDelay
	case o.PageDelay < 0:
		o.PageDelay = 0
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("livechat"),
		now:   time.Now,
		sleep: sleepCtx,
	}
}

// Validate fails when the client cannot possibly reach the platform
func (c *Client) Validate() error {
	if c.opts.BaseURL == "" {
		return perr.Configf("livechat: base url is not configured")
	}
	if c.opts.APIKey == "" {
		return perr.Configf("livechat: api key is not configured")
	}
	return nil
}

// StatusError is a response the retry loop gave up on
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return "livechat: status " + http.StatusText(e.Status)
	}
	return "livechat: status " + http.StatusText(e.Status) + ": " + e.Body
}

// Do sends req, retrying transport errors and 5xx answers up to MaxAttempts times.
// Any answer below 500 is returned as is; the caller checks the status
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	var last error
	for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
		r := req.Clone(ctx)
		r.Header.Set("User-Agent", c.opts.UserAgent)
		r.Header.Set("Accept", "application/json")
		if c.opts.APIKey != "" {
			r.Header.Set("X-API-Key", c.opts.APIKey)
		}

		start := c.now()
		resp, err := c.http.Do(r)
		lat := c.now().Sub(start)

		switch {
		case err != nil:
			last = err
			c.log.Warn().Err(err).Int("attempt", attempt).Dur("latency", lat).Msg("livechat transport error")
		case resp.StatusCode >= http.StatusInternalServerError:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			_ = resp.Body.Close()
			last = &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
			c.log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Dur("latency", lat).Msg("livechat server error")
		default:
			c.log.Debug().
				Str("path", r.URL.Path).
				Int("status", resp.StatusCode).
				Int("attempt", attempt).
				Dur("latency", lat).
				Msg("livechat http response")
			return resp, nil
		}

		if attempt == c.opts.MaxAttempts {
			break
		}
		back := c.opts.RetryBase * time.Duration(attempt)
		c.log.Info().Dur("retry_in", back).Int("attempt", attempt).Msg("livechat retrying")
		if err := c.sleep(ctx, back); err != nil {
			return nil, err
		}
	}
	return nil, perr.Wrapf(last, perr.ErrorCodeUnavailable, "livechat: gave up after %d attempts", c.opts.MaxAttempts)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
