package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hakim/lernix/internal/store"
)

// memRequestLog implements store.RequestLog for testing.
type memRequestLog struct {
	records []store.RequestRecord
}

func (m *memRequestLog) Append(_ context.Context, rec store.RequestRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *memRequestLog) Recent(_ context.Context, limit int) ([]store.RequestRecord, error) {
	if limit > len(m.records) {
		limit = len(m.records)
	}
	return m.records[len(m.records)-limit:], nil
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	log := &memRequestLog{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`ok`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 3},
	})
	p := WithLogging(mock, log)

	ctx := WithPurpose(context.Background(), PurposeSummary)
	_, err := p.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(log.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(log.records))
	}
	rec := log.records[0]
	if rec.Purpose != "summary" || !rec.Success {
		t.Fatalf("record = %+v", rec)
	}
	if rec.InputTokens != 12 || rec.OutputTokens != 3 {
		t.Fatalf("token counts = %d/%d", rec.InputTokens, rec.OutputTokens)
	}
	if rec.ID == "" {
		t.Fatal("expected a request id")
	}
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	log := &memRequestLog{}
	mock := NewMockProvider() // empty queue fails
	p := WithLogging(mock, log)

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}

	if len(log.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(log.records))
	}
	rec := log.records[0]
	if rec.Success || rec.ErrorMessage == "" {
		t.Fatalf("record = %+v", rec)
	}
}
