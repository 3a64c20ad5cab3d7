package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RequestRecord is one logged LLM request.
type RequestRecord struct {
	ID           string
	CreatedAt    time.Time
	Purpose      string
	Model        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// RequestLog records LLM requests for later inspection.
type RequestLog interface {
	Append(ctx context.Context, rec RequestRecord) error
	Recent(ctx context.Context, limit int) ([]RequestRecord, error)
}

// sqlRequestLog implements RequestLog over the llm_request table.
type sqlRequestLog struct {
	db *sql.DB
}

func (l *sqlRequestLog) Append(ctx context.Context, rec RequestRecord) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO llm_request
		 (id, created_at, purpose, model, input_tokens, output_tokens, latency_ms, success, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt, rec.Purpose, rec.Model,
		rec.InputTokens, rec.OutputTokens, rec.LatencyMs, rec.Success, rec.ErrorMessage)
	if err != nil {
		return fmt.Errorf("append request record: %w", err)
	}
	return nil
}

func (l *sqlRequestLog) Recent(ctx context.Context, limit int) ([]RequestRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, created_at, purpose, model, input_tokens, output_tokens, latency_ms, success, error
		 FROM llm_request ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query request records: %w", err)
	}
	defer rows.Close()

	var out []RequestRecord
	for rows.Next() {
		var rec RequestRecord
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Purpose, &rec.Model,
			&rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs, &rec.Success, &rec.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan request record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
