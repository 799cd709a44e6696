package safety

import "time"

// Category identifies the kind of risk detected in a user message.
type Category string

const (
	None             Category = "none"
	SelfHarm         Category = "self_harm"
	EatingDisorder   Category = "eating_disorder"
	Depression       Category = "depression"
	MedicalEmergency Category = "medical_emergency"
)

// Escalation is the severity tier attached to a verdict.
type Escalation string

const (
	EscalationNone     Escalation = "none"
	EscalationMedium   Escalation = "medium"
	EscalationHigh     Escalation = "high"
	EscalationCritical Escalation = "critical"
)

// Match is the transient result of trigger classification. It never
// outlives the verdict built from it.
type Match struct {
	Category      Category
	MatchedPhrase string
	Confidence    float32
}

// Verdict is the sentinel's decision for one message. Created fresh per
// message and never mutated afterwards. IsIntervention holds exactly when
// TriggerType != None.
type Verdict struct {
	IsIntervention            bool       `json:"isIntervention"`
	TriggerType               Category   `json:"triggerType"`
	Escalation                Escalation `json:"escalationLevel"`
	Response                  string     `json:"response"`
	OverridesOtherAgents      bool       `json:"overridesOtherAgents"`
	AdminNotificationRequired bool       `json:"adminNotificationRequired"`
}

// NoneVerdict is the zero-cost verdict for messages with no trigger hit.
func NoneVerdict() Verdict {
	return Verdict{
		IsIntervention: false,
		TriggerType:    None,
		Escalation:     EscalationNone,
	}
}

// VetoDecision is the result of re-checking a candidate reply against the
// original user message.
type VetoDecision struct {
	ShouldVeto          bool     `json:"shouldVeto"`
	TriggerType         Category `json:"triggerType,omitempty"`
	Reason              string   `json:"vetoReason,omitempty"`
	AlternativeResponse string   `json:"alternativeResponse,omitempty"`
}

// InterventionRecord is persisted for every non-none verdict before the
// verdict reaches its caller. An unlogged intervention is a compliance
// violation.
type InterventionRecord struct {
	UserID        string
	TriggerType   Category
	Escalation    Escalation
	MatchedPhrase string
	Message       string
	CreatedAt     time.Time
}
