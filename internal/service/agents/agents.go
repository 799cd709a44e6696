// Package agents defines the responder contract and the six named
// responders the concierge can route a message to. Responders are pure
// with respect to session context: they read it, they never mutate it, and
// they never escalate or veto on their own.
package agents

import (
	"context"

	"github.com/edallison777/vitracka-sub001/internal/model/session"
)

// Agent names used in routing tables, audit entries and responses.
const (
	NameOnboarding   = "onboarding"
	NameCoaching     = "coaching"
	NameProgress     = "progress_analysis"
	NameNutrition    = "nutrition_search"
	NamePlan         = "plan_logging"
	NameGamification = "gamification"
)

// Fragment is one responder's proposed contribution to the merged reply.
// It lives for a single concierge turn and survives only inside the audit
// entry it produces.
type Fragment struct {
	AgentName      string   `json:"agentName"`
	Text           string   `json:"text"`
	InvolvedAgents []string `json:"involvedAgents,omitempty"`
}

// Responder is the single capability every named agent implements.
type Responder interface {
	Name() string
	Respond(ctx context.Context, message string, sctx *session.Context) (Fragment, error)
}
