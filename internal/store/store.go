// Package store provides the persistence contracts the conversational
// core needs: read profiles by user id, append weight/plan/breach records,
// and record safety interventions.
package store

import (
	"context"

	"github.com/edallison777/vitracka-sub001/internal/model/profile"
	"github.com/edallison777/vitracka-sub001/internal/model/safety"
)

// Repository is the persistence collaborator contract. The core never
// depends on the schema behind it.
type Repository interface {
	// GetProfile retrieves a user's profile snapshot, nil when absent.
	GetProfile(ctx context.Context, userID string) (*profile.UserProfile, error)

	// UpsertProfile creates or replaces a profile.
	UpsertProfile(ctx context.Context, p *profile.UserProfile) error

	// AppendWeight appends one weigh-in.
	AppendWeight(ctx context.Context, entry profile.WeightEntry) error

	// AppendBreach appends one plan-breach record.
	AppendBreach(ctx context.Context, rec profile.BreachRecord) error

	// SaveEatingPlan replaces the user's current plan.
	SaveEatingPlan(ctx context.Context, plan profile.EatingPlan) error

	// GetEatingPlan retrieves the current plan, nil when absent.
	GetEatingPlan(ctx context.Context, userID string) (*profile.EatingPlan, error)

	// RecordIntervention persists a safety intervention. The write must be
	// durable before the call returns.
	RecordIntervention(ctx context.Context, rec safety.InterventionRecord) error

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
