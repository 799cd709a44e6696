// Package trigger scans raw message text for phrases that indicate a
// safety-relevant condition. Matching is case-insensitive substring
// containment so inflected forms still hit.
package trigger

import "strings"

// Category mirrors the trigger taxonomy used by the safety sentinel.
type Category string

const (
	SelfHarm         Category = "self_harm"
	EatingDisorder   Category = "eating_disorder"
	MedicalEmergency Category = "medical_emergency"
	Depression       Category = "depression"
)

// Match reports the first phrase hit for a message.
type Match struct {
	Category      Category
	MatchedPhrase string
	Confidence    float32
}

// bucket pairs a category with its phrase set. Buckets are evaluated in
// slice order and the scan stops at the first category with any hit, so the
// precedence self_harm > eating_disorder > medical_emergency > depression
// is enforced by construction.
type bucket struct {
	category Category
	priority int
	phrases  []string
}

var buckets = []bucket{
	{
		category: SelfHarm,
		priority: 1,
		phrases: []string{
			"kill myself", "killing myself", "suicide", "suicidal",
			"end my life", "end it all", "want to die", "wish i was dead",
			"better off dead", "hurt myself", "hurting myself", "self harm",
			"self-harm", "cut myself", "cutting myself", "no reason to live",
			"don't want to be here anymore", "take my own life",
		},
	},
	{
		category: EatingDisorder,
		priority: 2,
		phrases: []string{
			"purge", "purging", "make myself sick", "making myself sick",
			"throwing up after", "throw up after", "laxative",
			"starve myself", "starving myself", "haven't eaten in days",
			"havent eaten in days", "refuse to eat", "binge and purge",
			"chew and spit", "punish myself for eating",
		},
	},
	{
		category: MedicalEmergency,
		priority: 3,
		phrases: []string{
			"chest pain", "chest pains", "can't breathe", "cant breathe",
			"cannot breathe", "trouble breathing", "passing out", "passed out",
			"fainted", "fainting", "severe pain", "overdose", "overdosed",
			"allergic reaction", "coughing up blood", "vomiting blood",
		},
	},
	{
		category: Depression,
		priority: 4,
		phrases: []string{
			"hopeless", "worthless", "no point anymore", "what's the point",
			"whats the point", "can't go on", "cant go on", "empty inside",
			"so depressed", "i am depressed", "i'm depressed",
			"nothing matters", "given up on everything", "crying every day",
		},
	},
}

// Classify returns the highest-priority match for text, or nil when no
// category contains a hit. Classification is a pure function of text.
func Classify(text string) *Match {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return nil
	}

	for _, b := range buckets {
		for _, phrase := range b.phrases {
			if strings.Contains(normalized, phrase) {
				return &Match{
					Category:      b.category,
					MatchedPhrase: phrase,
					Confidence:    confidenceFor(b.priority),
				}
			}
		}
	}
	return nil
}

// confidenceFor grades confidence by bucket priority: the policy treats
// higher-priority categories as more certain interventions.
func confidenceFor(priority int) float32 {
	switch priority {
	case 1:
		return 0.95
	case 2:
		return 0.9
	case 3:
		return 0.9
	default:
		return 0.8
	}
}
