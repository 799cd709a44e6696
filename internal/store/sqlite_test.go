package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/edallison777/vitracka-sub001/internal/model/profile"
	"github.com/edallison777/vitracka-sub001/internal/model/safety"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "vitracka.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := &profile.UserProfile{
		UserID:                 "u-1",
		Name:                   "Sam",
		CoachingStyle:          profile.StyleGentle,
		OnGLP1:                 true,
		GoalType:               profile.GoalLoss,
		GamificationPreference: "moderate",
		MedicalFlags:           []string{"glp1"},
		UpdatedAt:              time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.UpsertProfile(ctx, want); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.GetProfile(ctx, "u-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected a profile")
	}
	if got.Name != "Sam" || !got.OnGLP1 || got.CoachingStyle != profile.StyleGentle {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if len(got.MedicalFlags) != 1 || got.MedicalFlags[0] != "glp1" {
		t.Fatalf("medical flags lost: %+v", got.MedicalFlags)
	}
}

func TestGetProfileMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetProfile(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing profile, got %+v", got)
	}
}

func TestUpsertProfileReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := &profile.UserProfile{UserID: "u-2", CoachingStyle: profile.StyleGentle}
	if err := s.UpsertProfile(ctx, base); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	base.CoachingStyle = profile.StylePragmatic
	if err := s.UpsertProfile(ctx, base); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := s.GetProfile(ctx, "u-2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CoachingStyle != profile.StylePragmatic {
		t.Fatalf("expected updated style, got %s", got.CoachingStyle)
	}
}

func TestAppendWeightAndBreach(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AppendWeight(ctx, profile.WeightEntry{UserID: "u-3", WeightKg: 82.5}); err != nil {
		t.Fatalf("append weight: %v", err)
	}
	if err := s.AppendBreach(ctx, profile.BreachRecord{UserID: "u-3", Description: "late-night snack"}); err != nil {
		t.Fatalf("append breach: %v", err)
	}
}

func TestEatingPlanRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveEatingPlan(ctx, profile.EatingPlan{UserID: "u-4", PlanText: "protein first"}); err != nil {
		t.Fatalf("save plan: %v", err)
	}
	plan, err := s.GetEatingPlan(ctx, "u-4")
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if plan == nil || plan.PlanText != "protein first" {
		t.Fatalf("unexpected plan: %+v", plan)
	}
}

func TestRecordIntervention(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := safety.InterventionRecord{
		UserID:        "u-5",
		TriggerType:   safety.SelfHarm,
		Escalation:    safety.EscalationCritical,
		MatchedPhrase: "kill myself",
		Message:       "original text",
	}
	if err := s.RecordIntervention(ctx, rec); err != nil {
		t.Fatalf("record: %v", err)
	}

	count, err := s.CountInterventions(ctx, "u-5")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 intervention, got %d", count)
	}
}
