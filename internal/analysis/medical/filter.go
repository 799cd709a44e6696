// Package medical detects requests for dosage or medication-adjustment
// advice. It runs independently of the trigger classifier and only ever
// produces a conservative redirect to the user's clinician.
package medical

import "strings"

// Decision is the filter's output for one message.
type Decision struct {
	ShouldRedirect   bool   `json:"shouldRedirect"`
	RedirectResponse string `json:"redirectResponse,omitempty"`
}

const redirectResponse = "I can't advise on medication doses or changes - " +
	"that's a conversation for your prescribing clinician, who knows your " +
	"full medical picture. What I can do is support you with nutrition, " +
	"habits, and everything else on your journey. Is there something " +
	"non-medical I can help with today?"

var dosagePhrases = []string{
	"dosage", "dose", "double my dose", "increase my dose",
	"lower my dose", "adjust my medication", "change my medication",
	"stop taking my", "skip my injection", "how much ozempic",
	"how much wegovy", "how much semaglutide", "how much mounjaro",
	"how many units", "should i take more", "should i take less",
	"titrate", "up my meds", "prescribe",
}

// Check reports whether the message asks for medical dosage advice. The
// redirect never contains a specific medical recommendation.
func Check(text string) Decision {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Decision{}
	}

	for _, phrase := range dosagePhrases {
		if strings.Contains(normalized, phrase) {
			return Decision{
				ShouldRedirect:   true,
				RedirectResponse: redirectResponse,
			}
		}
	}
	return Decision{}
}
