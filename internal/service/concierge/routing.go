package concierge

import (
	"strings"

	"github.com/edallison777/vitracka-sub001/internal/service/agents"
)

// intentRule maps keyword hits to the responder that owns the intent.
// Rules are evaluated in slice order, which is also the fragment merge
// order for multi-intent messages.
type intentRule struct {
	agent    string
	keywords []string
}

var routingTable = []intentRule{
	{
		agent: agents.NameOnboarding,
		keywords: []string{
			"get started", "getting started", "new here", "just joined",
			"just signed up", "how does this work", "how do i use",
			"set up my", "onboard",
		},
	},
	{
		agent: agents.NameProgress,
		keywords: []string{
			"progress", "how am i doing", "trend", "lost so far",
			"gained", "plateau", "my stats", "my numbers", "weigh-in",
			"weigh in", "weight this week",
		},
	},
	{
		agent: agents.NameNutrition,
		keywords: []string{
			// "eat" alone is a substring of too many words ("great",
			// "cheat"); match the bounded forms instead.
			"to eat", "i eat", "eating", "meal", "recipe", "food",
			"calorie", "protein", "snack", "breakfast", "lunch",
			"dinner", "nutrition", "hungry",
		},
	},
	{
		agent: agents.NamePlan,
		keywords: []string{
			"off plan", "off my plan", "cheat", "slipped", "breach",
			"log it", "log that", "log my", "went over", "broke my plan",
		},
	},
	{
		agent: agents.NameGamification,
		keywords: []string{
			"streak", "badge", "points", "challenge", "leaderboard",
			"achievement", "level up",
		},
	},
	{
		agent: agents.NameCoaching,
		keywords: []string{
			"motivat", "discouraged", "struggling", "frustrated",
			"need support", "feeling", "check in", "checking in",
		},
	},
}

// route returns the intents matched by the message, in table order.
// Coaching is the fallback when nothing matches: the concierge always
// answers with at least one responder.
func route(message string) []string {
	normalized := strings.ToLower(message)

	var selected []string
	for _, rule := range routingTable {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				selected = append(selected, rule.agent)
				break
			}
		}
	}

	if len(selected) == 0 {
		selected = []string{agents.NameCoaching}
	}
	return selected
}
