package profile

import "time"

// CoachingStyle selects the tone the coaching responder writes in.
type CoachingStyle string

const (
	StyleGentle     CoachingStyle = "gentle"
	StylePragmatic  CoachingStyle = "pragmatic"
	StyleUpbeat     CoachingStyle = "upbeat"
	StyleStructured CoachingStyle = "structured"
)

// GoalType describes where the user is in their weight journey.
type GoalType string

const (
	GoalLoss        GoalType = "loss"
	GoalMaintenance GoalType = "maintenance"
	GoalTransition  GoalType = "transition"
)

// UserProfile is the cached snapshot the concierge carries on a session.
// The persistence collaborator owns the source of truth.
type UserProfile struct {
	UserID                 string        `json:"userId"`
	Name                   string        `json:"name,omitempty"`
	CoachingStyle          CoachingStyle `json:"coachingStyle,omitempty"`
	OnGLP1                 bool          `json:"onGlp1"`
	GoalType               GoalType      `json:"goalType,omitempty"`
	GamificationPreference string        `json:"gamificationPreference,omitempty"` // low|moderate|high
	MedicalFlags           []string      `json:"medicalFlags,omitempty"`
	UpdatedAt              time.Time     `json:"updatedAt"`
}

// WeightEntry is one logged weigh-in.
type WeightEntry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	WeightKg   float64   `json:"weightKg"`
	RecordedAt time.Time `json:"recordedAt"`
}

// EatingPlan is the user's current plan document, opaque to the core.
type EatingPlan struct {
	UserID    string    `json:"userId"`
	PlanText  string    `json:"planText"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BreachRecord logs a self-reported departure from the eating plan.
// Stored shame-free: it carries what happened and nothing judgmental.
type BreachRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Description string    `json:"description"`
	RecordedAt  time.Time `json:"recordedAt"`
}
