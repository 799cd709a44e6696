// Package audit defines the immutable trail of sentinel verdicts and
// concierge decisions. Entries are append-only; the core constructs them
// and hands them off, it never reads them back on the hot path.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edallison777/vitracka-sub001/internal/model/safety"
)

// Kind distinguishes safety entries from ordinary interaction entries.
type Kind string

const (
	KindSafety      Kind = "safety"
	KindInteraction Kind = "interaction"
)

// Classification drives retention policy downstream.
type Classification string

const (
	ClassificationRestricted   Classification = "restricted"
	ClassificationConfidential Classification = "confidential"
)

// Entry reconstructs what was detected and what was returned for one turn.
type Entry struct {
	ID             string            `json:"id"`
	Kind           Kind              `json:"kind"`
	Classification Classification    `json:"classification"`
	SessionID      string            `json:"sessionId"`
	UserID         string            `json:"userId"`
	TriggerType    safety.Category   `json:"triggerType,omitempty"`
	Escalation     safety.Escalation `json:"escalationLevel,omitempty"`
	InvolvedAgents []string          `json:"involvedAgents,omitempty"`
	VetoReason     string            `json:"vetoReason,omitempty"`
	Message        string            `json:"message"`
	Response       string            `json:"response"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// NewSafetyEntry builds a restricted entry for an intervention turn.
func NewSafetyEntry(sessionID, userID, message string, verdict safety.Verdict) Entry {
	return Entry{
		ID:             uuid.NewString(),
		Kind:           KindSafety,
		Classification: ClassificationRestricted,
		SessionID:      sessionID,
		UserID:         userID,
		TriggerType:    verdict.TriggerType,
		Escalation:     verdict.Escalation,
		InvolvedAgents: []string{"safety_sentinel"},
		Message:        message,
		Response:       verdict.Response,
		CreatedAt:      time.Now().UTC(),
	}
}

// NewVetoEntry builds a restricted entry for a turn whose candidate reply
// was vetoed after generation.
func NewVetoEntry(sessionID, userID, message string, decision safety.VetoDecision) Entry {
	return Entry{
		ID:             uuid.NewString(),
		Kind:           KindSafety,
		Classification: ClassificationRestricted,
		SessionID:      sessionID,
		UserID:         userID,
		TriggerType:    decision.TriggerType,
		InvolvedAgents: []string{"safety_sentinel"},
		VetoReason:     decision.Reason,
		Message:        message,
		Response:       decision.AlternativeResponse,
		CreatedAt:      time.Now().UTC(),
	}
}

// NewInteractionEntry builds a confidential entry for an ordinary turn.
func NewInteractionEntry(sessionID, userID, message, response string, involvedAgents []string) Entry {
	return Entry{
		ID:             uuid.NewString(),
		Kind:           KindInteraction,
		Classification: ClassificationConfidential,
		SessionID:      sessionID,
		UserID:         userID,
		InvolvedAgents: involvedAgents,
		Message:        message,
		Response:       response,
		CreatedAt:      time.Now().UTC(),
	}
}

// Sink receives entries. Append must be durable before it returns for
// safety entries specifically.
type Sink interface {
	Append(ctx context.Context, entry Entry) error
}

// MemorySink collects entries in memory, for tests and local runs.
type MemorySink struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemorySink returns an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Append stores the entry.
func (m *MemorySink) Append(_ context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

// Entries returns a copy of everything appended so far.
func (m *MemorySink) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}
