package domain

import (
	"time"

	perr "livetakip/internal/platform/errors"
)

// Settings is the sync configuration, built once at startup and passed in
type Settings struct {
	APIBaseURL string
	APIKey     string

	BatchSize     int
	PageSize      int
	DefaultWindow time.Duration
	MaxDays       int

	// AnalyzeLimit caps threads graded per run; 0 disables the analysis pass
	AnalyzeLimit int

	// RedeliverLimit caps alerts retried per sweep
	RedeliverLimit int

	Cron          string
	RedeliverCron string
	QueueSize     int
	QueueBackend  string
}

// Defaults fills zero values
func (s Settings) Defaults() Settings {
	if s.BatchSize <= 0 {
		s.BatchSize = 50
	}
	if s.PageSize <= 0 {
		s.PageSize = 100
	}
	if s.DefaultWindow <= 0 {
		s.DefaultWindow = 20 * time.Minute
	}
	if s.MaxDays <= 0 {
		s.MaxDays = 90
	}
	if s.RedeliverLimit <= 0 {
		s.RedeliverLimit = 50
	}
	return s
}

// Validate fails on settings a sync cannot run without
func (s Settings) Validate() error {
	if s.APIBaseURL == "" {
		return perr.Configf("sync: LIVECHAT_API_URL is not set")
	}
	if s.APIKey == "" {
		return perr.Configf("sync: LIVECHAT_API_KEY is not set")
	}
	return nil
}
