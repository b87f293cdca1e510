// Package domain holds chat analysis types and ports
package domain

import (
	"context"
	"time"

	"livetakip/internal/adapters/scoring"
)

// Pending is an unanalyzed thread with its transcript
type Pending struct {
	ThreadID     string
	AgentName    string
	CustomerName string
	Lines        []scoring.Line
}

// Analysis is a chat_analysis row
type Analysis struct {
	ID           int64     `json:"id"`
	ChatID       string    `json:"chat_id"`
	OverallScore int       `json:"overall_score"`
	Sentiment    string    `json:"sentiment"`
	Summary      string    `json:"summary"`
	Issues       []string  `json:"issues"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"created_at"`
}

// Scorer grades one transcript
type Scorer interface {
	Score(ctx context.Context, t scoring.Transcript) (scoring.Verdict, error)
}

// AnalyzerPort grades pending threads and reports how many were stored
type AnalyzerPort interface {
	AnalyzePending(ctx context.Context, limit int) (int, error)
}
