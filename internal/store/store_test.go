package store

import (
	"context"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestKVGetSet(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "wallet.points")
	if err != nil {
		t.Fatalf("get (empty): %v", err)
	}
	if ok {
		t.Fatal("expected key to be absent")
	}

	if err := kv.Set(ctx, "wallet.points", "10"); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, ok, err := kv.Get(ctx, "wallet.points")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || v != "10" {
		t.Fatalf("got (%q, %v), want (\"10\", true)", v, ok)
	}

	// Overwrite.
	if err := kv.Set(ctx, "wallet.points", "8"); err != nil {
		t.Fatalf("set (overwrite): %v", err)
	}
	v, _, _ = kv.Get(ctx, "wallet.points")
	if v != "8" {
		t.Fatalf("got %q after overwrite, want \"8\"", v)
	}
}

func TestRequestLogAppendRecent(t *testing.T) {
	s := openTestStore(t)
	log := s.RequestLog()
	ctx := context.Background()

	recs, err := log.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent (empty): %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %d", len(recs))
	}

	base := time.Now().UTC().Truncate(time.Second)
	for i, purpose := range []string{"chat", "quiz", "summary"} {
		err := log.Append(ctx, RequestRecord{
			ID:           purpose + "-id",
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
			Purpose:      purpose,
			Model:        "mock",
			InputTokens:  100,
			OutputTokens: 50,
			LatencyMs:    120,
			Success:      purpose != "quiz",
			ErrorMessage: "",
		})
		if err != nil {
			t.Fatalf("append %s: %v", purpose, err)
		}
	}

	recs, err = log.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	// Most recent first.
	if recs[0].Purpose != "summary" {
		t.Errorf("recs[0].Purpose = %q, want \"summary\"", recs[0].Purpose)
	}
	if recs[1].Purpose != "quiz" || recs[1].Success {
		t.Errorf("recs[1] = %+v, want failed quiz record", recs[1])
	}
}

func TestMemKV(t *testing.T) {
	kv := NewMemKV()
	ctx := context.Background()

	_, ok, _ := kv.Get(ctx, "k")
	if ok {
		t.Fatal("expected absent key")
	}
	if err := kv.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, _ := kv.Get(ctx, "k")
	if !ok || v != "v" {
		t.Fatalf("got (%q, %v)", v, ok)
	}
}
