// Package domain holds the chat sync types and the ports the service is wired through
package domain

import (
	"encoding/json"
	"time"

	"livetakip/internal/core/thread"
)

// Window is the creation range of containers a sync covers
type Window = thread.Window

// JobStatus is a sync job lifecycle state
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Terminal reports whether no further transition is possible
func (s JobStatus) Terminal() bool { return s == JobCompleted || s == JobFailed }

// Trigger records what created a job
const (
	TriggerHTTP     = "http"
	TriggerSchedule = "schedule"
	TriggerCLI      = "cli"
)

// Job is a sync_jobs row
type Job struct {
	ID          string          `json:"id"`
	Status      JobStatus       `json:"status"`
	Trigger     string          `json:"trigger"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	Days        *int            `json:"days,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       *string         `json:"error,omitempty"`
}

// Result is the summary of one pipeline run
type Result struct {
	Success bool `json:"success"`
	// Synced counts threads written
	Synced int `json:"synced"`
	// NewChats counts thread ids that were not stored before
	NewChats int `json:"new_chats"`
	// Analyzed counts threads graded during this run
	Analyzed   int `json:"analyzed"`
	AlertsSent int `json:"alerts_sent"`
	// Skipped counts containers without an id
	Skipped           int    `json:"skipped"`
	TotalChats        int    `json:"total_chats"`
	TotalAnalyzed     int    `json:"total_analyzed"`
	Timestamp         string `json:"timestamp"`
	TimestampIstanbul string `json:"timestamp_istanbul"`
}

// JobRequest is a request to sync, as the HTTP trigger and the scheduler express it
type JobRequest struct {
	Trigger   string
	Days      *int
	StartDate *time.Time
	EndDate   *time.Time
}

// Created is the immediate answer to a background request
type Created struct {
	Success bool      `json:"success"`
	JobID   string    `json:"job_id"`
	Status  JobStatus `json:"status"`
}

// Alert is an alerts row
type Alert struct {
	ID                int64      `json:"id"`
	ChatID            string     `json:"chat_id"`
	AnalysisID        *int64     `json:"analysis_id,omitempty"`
	AlertType         string     `json:"alert_type"`
	Severity          string     `json:"severity"`
	Message           string     `json:"message"`
	SentToTelegram    bool       `json:"sent_to_telegram"`
	TelegramMessageID *int64     `json:"telegram_message_id,omitempty"`
	SendError         *string    `json:"send_error,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	SentAt            *time.Time `json:"sent_at,omitempty"`
}

// Alert kinds and severities the sync raises
const (
	AlertMissedChat = "missed_chat"
	SeverityHigh    = "high"
)

// Totals are store wide thread counts
type Totals struct {
	Chats    int
	Analyzed int
}
