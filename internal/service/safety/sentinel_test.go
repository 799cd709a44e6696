package safety

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edallison777/vitracka-sub001/internal/model/safety"
)

type memoryInterventionStore struct {
	records []safety.InterventionRecord
	failure error
}

func (m *memoryInterventionStore) RecordIntervention(_ context.Context, rec safety.InterventionRecord) error {
	if m.failure != nil {
		return m.failure
	}
	m.records = append(m.records, rec)
	return nil
}

func TestEvaluateSelfHarmIsCritical(t *testing.T) {
	store := &memoryInterventionStore{}
	sentinel := NewSentinel(store, nil)

	verdict, err := sentinel.Evaluate(context.Background(), "I want to kill myself", "user-1")
	require.NoError(t, err)

	assert.True(t, verdict.IsIntervention)
	assert.Equal(t, safety.SelfHarm, verdict.TriggerType)
	assert.Equal(t, safety.EscalationCritical, verdict.Escalation)
	assert.True(t, verdict.OverridesOtherAgents)
	assert.True(t, verdict.AdminNotificationRequired)
	assert.Contains(t, verdict.Response, "988")
}

func TestEvaluateRecordsBeforeReturning(t *testing.T) {
	store := &memoryInterventionStore{}
	sentinel := NewSentinel(store, nil)

	_, err := sentinel.Evaluate(context.Background(), "I've been purging after every meal", "user-2")
	require.NoError(t, err)
	require.Len(t, store.records, 1)
	assert.Equal(t, safety.EatingDisorder, store.records[0].TriggerType)
	assert.Equal(t, "user-2", store.records[0].UserID)
}

func TestEvaluateEatingDisorderNamesSupportOrg(t *testing.T) {
	sentinel := NewSentinel(&memoryInterventionStore{}, nil)

	verdict, err := sentinel.Evaluate(context.Background(), "I've been purging after every meal", "user-3")
	require.NoError(t, err)
	assert.Equal(t, safety.EatingDisorder, verdict.TriggerType)
	assert.Equal(t, safety.EscalationHigh, verdict.Escalation)
	assert.True(t, verdict.AdminNotificationRequired)
	assert.Contains(t, verdict.Response, "Eating Disorders")
}

func TestEvaluateCleanMessageIsNoOp(t *testing.T) {
	store := &memoryInterventionStore{}
	sentinel := NewSentinel(store, nil)

	verdict, err := sentinel.Evaluate(context.Background(), "I had a great day today", "user-4")
	require.NoError(t, err)
	assert.False(t, verdict.IsIntervention)
	assert.Equal(t, safety.None, verdict.TriggerType)
	assert.Empty(t, verdict.Response)
	assert.Empty(t, store.records, "a none verdict must not be persisted")
}

func TestEvaluatePersistenceFailureIsFatal(t *testing.T) {
	store := &memoryInterventionStore{failure: errors.New("disk full")}
	sentinel := NewSentinel(store, nil)

	_, err := sentinel.Evaluate(context.Background(), "I want to hurt myself", "user-5")
	require.Error(t, err, "an unlogged intervention must surface as an error")
}

func TestVetoLawIgnoresCandidateContent(t *testing.T) {
	sentinel := NewSentinel(&memoryInterventionStore{}, nil)

	// Whatever the agents produced, the veto runs against the original
	// message only.
	for _, candidate := range []string{
		"",
		"Great job on your streak!",
		"Here is a perfectly safe coaching reply.",
	} {
		decision, err := sentinel.VetoResponse(context.Background(), candidate, "no reason to live anymore", "user-6")
		require.NoError(t, err)
		assert.True(t, decision.ShouldVeto, "candidate %q", candidate)
		assert.Equal(t, safety.SelfHarm, decision.TriggerType)
		assert.NotEmpty(t, decision.AlternativeResponse)
		assert.True(t, strings.Contains(decision.Reason, "self_harm"))
	}
}

func TestVetoPassesCleanOriginal(t *testing.T) {
	sentinel := NewSentinel(&memoryInterventionStore{}, nil)

	decision, err := sentinel.VetoResponse(context.Background(), "any reply", "what's a good breakfast", "user-7")
	require.NoError(t, err)
	assert.False(t, decision.ShouldVeto)
}

func TestEvaluateIsIdempotentPerText(t *testing.T) {
	sentinel := NewSentinel(&memoryInterventionStore{}, nil)
	ctx := context.Background()

	first, err := sentinel.Evaluate(ctx, "everything feels hopeless", "user-8")
	require.NoError(t, err)
	second, err := sentinel.Evaluate(ctx, "everything feels hopeless", "user-8")
	require.NoError(t, err)

	assert.Equal(t, first.TriggerType, second.TriggerType)
	assert.Equal(t, first.Escalation, second.Escalation)
	assert.Equal(t, safety.EscalationMedium, first.Escalation)
}
