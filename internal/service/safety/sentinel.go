// Package safety implements the sentinel that holds veto authority over
// every other responder in the concierge pipeline.
package safety

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/edallison777/vitracka-sub001/internal/analysis/trigger"
	"github.com/edallison777/vitracka-sub001/internal/model/safety"
)

// InterventionStore persists safety intervention records. Implemented by
// the SQLite repository; tests supply an in-memory fake.
type InterventionStore interface {
	RecordIntervention(ctx context.Context, rec safety.InterventionRecord) error
}

// Sentinel evaluates messages for safety triggers and can veto any
// candidate reply. It never fails open: an evaluation error is fatal to
// the request that caused it.
type Sentinel struct {
	store  InterventionStore
	logger *zap.Logger
}

// NewSentinel builds a sentinel backed by the given intervention store.
func NewSentinel(store InterventionStore, logger *zap.Logger) *Sentinel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sentinel{store: store, logger: logger}
}

// escalationFor is the fixed category-to-severity policy table.
func escalationFor(cat safety.Category) safety.Escalation {
	switch cat {
	case safety.SelfHarm, safety.MedicalEmergency:
		return safety.EscalationCritical
	case safety.EatingDisorder:
		return safety.EscalationHigh
	case safety.Depression:
		return safety.EscalationMedium
	default:
		return safety.EscalationNone
	}
}

// Evaluate classifies the message and returns a verdict. Non-none verdicts
// are persisted before they are returned; the caller never observes a
// verdict whose record does not exist yet.
func (s *Sentinel) Evaluate(ctx context.Context, text, userID string) (safety.Verdict, error) {
	match := trigger.Classify(text)
	if match == nil {
		return safety.NoneVerdict(), nil
	}

	cat := safety.Category(match.Category)
	escalation := escalationFor(cat)
	verdict := safety.Verdict{
		IsIntervention:            true,
		TriggerType:               cat,
		Escalation:                escalation,
		Response:                  interventionResponse(cat),
		OverridesOtherAgents:      true,
		AdminNotificationRequired: escalation == safety.EscalationHigh || escalation == safety.EscalationCritical,
	}

	rec := safety.InterventionRecord{
		UserID:        userID,
		TriggerType:   cat,
		Escalation:    escalation,
		MatchedPhrase: match.MatchedPhrase,
		Message:       text,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.RecordIntervention(ctx, rec); err != nil {
		return safety.Verdict{}, fmt.Errorf("persist safety intervention: %w", err)
	}

	s.logger.Warn("safety intervention raised",
		zap.String("user_id", userID),
		zap.String("trigger_type", string(cat)),
		zap.String("escalation", string(escalation)),
		zap.Bool("admin_notification", verdict.AdminNotificationRequired))

	return verdict, nil
}

// VetoResponse re-runs evaluation against the original user message, not
// the candidate. If intervention is warranted, the veto stands regardless
// of what any responder agent produced.
func (s *Sentinel) VetoResponse(ctx context.Context, candidate, originalText, userID string) (safety.VetoDecision, error) {
	verdict, err := s.Evaluate(ctx, originalText, userID)
	if err != nil {
		return safety.VetoDecision{}, err
	}

	if !verdict.IsIntervention {
		return safety.VetoDecision{ShouldVeto: false}, nil
	}

	return safety.VetoDecision{
		ShouldVeto:          true,
		TriggerType:         verdict.TriggerType,
		Reason:              fmt.Sprintf("safety intervention: %s", verdict.TriggerType),
		AlternativeResponse: verdict.Response,
	}, nil
}

// interventionResponse returns the canned, category-specific reply. Each
// one names at least one concrete professional-help channel and carries no
// content that could read as encouragement or instruction.
func interventionResponse(cat safety.Category) string {
	switch cat {
	case safety.SelfHarm:
		return "I'm really concerned about what you've shared, and I want you " +
			"to know you don't have to carry this alone. Please reach out to " +
			"the Suicide & Crisis Lifeline right now - call or text 988 " +
			"(in the US), available 24/7, free and confidential. If you're " +
			"outside the US, please contact your local crisis line or go to " +
			"the nearest emergency room. Your life matters."
	case safety.EatingDisorder:
		return "Thank you for trusting me with this - what you're describing " +
			"sounds really hard, and it deserves more support than a coaching " +
			"app can give. The National Eating Disorders Association (NEDA) " +
			"helpline at 1-800-931-2237 has people who understand exactly " +
			"what you're going through. Please also consider talking with " +
			"your doctor or a therapist who specializes in eating concerns."
	case safety.MedicalEmergency:
		return "What you're describing could be a medical emergency. Please " +
			"call emergency services (911 in the US) or get to the nearest " +
			"emergency room right away. Don't wait, and don't worry about " +
			"your plan or your progress - your immediate health comes first."
	case safety.Depression:
		return "It sounds like you're carrying something heavy right now, and " +
			"I'm glad you said it out loud. These feelings are worth taking " +
			"seriously - please consider reaching out to a mental health " +
			"professional, or the Suicide & Crisis Lifeline at 988 if things " +
			"feel overwhelming. You deserve real support, and asking for it " +
			"is a strong move."
	default:
		return ""
	}
}
