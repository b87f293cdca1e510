package repo

import (
	"context"

	"livetakip/internal/core/thread"
	"livetakip/internal/platform/store"
)

const metricsTable = "thread_metrics"

// MetricsSink appends one ClickHouse row per written thread
type MetricsSink struct {
	ch store.Clickhouse
}

// NewMetricsSink returns nil when ClickHouse is disabled
func NewMetricsSink(ch store.Clickhouse) *MetricsSink {
	if ch == nil {
		return nil
	}
	return &MetricsSink{ch: ch}
}

// EnsureSchema creates the metrics table
func (s *MetricsSink) EnsureSchema(ctx context.Context) error {
	return s.ch.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+metricsTable+` (
			thread_id              String,
			chat_id                String,
			agent_name             LowCardinality(String),
			status                 LowCardinality(String),
			message_count          UInt32,
			customer_message_count UInt32,
			agent_reply_count      UInt32,
			first_response_time    Nullable(Int32),
			missed                 Bool,
			created_at             Nullable(DateTime64(3, 'UTC')),
			synced_at              DateTime64(3, 'UTC')
		)
		ENGINE = ReplacingMergeTree(synced_at)
		ORDER BY thread_id`)
}

// Record appends the threads; column order follows EnsureSchema
func (s *MetricsSink) Record(ctx context.Context, threads []thread.Thread) error {
	if len(threads) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(threads))
	for _, t := range threads {
		var frt *int32
		if t.FirstResponseTime != nil {
			v := int32(*t.FirstResponseTime)
			frt = &v
		}
		rows = append(rows, []any{
			string(t.ID),
			string(t.ChatID),
			t.AgentName,
			string(t.Status),
			uint32(t.MessageCount),
			uint32(t.CustomerMessageCount),
			uint32(t.AgentReplyCount),
			frt,
			t.Missed,
			t.CreatedAt,
			t.SyncedAt,
		})
	}
	return s.ch.Insert(ctx, metricsTable, rows)
}
