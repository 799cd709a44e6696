package audit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/edallison777/vitracka-sub001/internal/model/safety"
)

func newTestSink(t *testing.T) *SQLiteSink {
	t.Helper()
	sink, err := NewSQLiteSink(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	t.Cleanup(func() { _ = sink.Close() })
	return sink
}

func TestSQLiteSinkAppendSafetyEntry(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()

	verdict := safety.Verdict{
		IsIntervention: true,
		TriggerType:    safety.SelfHarm,
		Escalation:     safety.EscalationCritical,
		Response:       "crisis response",
	}
	entry := NewSafetyEntry("s-1", "u-1", "original message", verdict)
	if entry.Classification != ClassificationRestricted {
		t.Fatalf("safety entries must be restricted, got %s", entry.Classification)
	}

	if err := sink.Append(ctx, entry); err != nil {
		t.Fatalf("append: %v", err)
	}

	count, err := sink.CountByKind(ctx, KindSafety)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 safety entry, got %d", count)
	}
}

func TestSQLiteSinkAppendInteractionEntry(t *testing.T) {
	sink := newTestSink(t)
	ctx := context.Background()

	entry := NewInteractionEntry("s-2", "u-2", "hi", "hello", []string{"coaching"})
	if entry.Classification != ClassificationConfidential {
		t.Fatalf("interaction entries must be confidential, got %s", entry.Classification)
	}

	if err := sink.Append(ctx, entry); err != nil {
		t.Fatalf("append: %v", err)
	}

	count, err := sink.CountByKind(ctx, KindInteraction)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 interaction entry, got %d", count)
	}
}
