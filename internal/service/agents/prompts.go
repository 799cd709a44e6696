package agents

import (
	"strings"

	"github.com/edallison777/vitracka-sub001/internal/model/profile"
	"github.com/edallison777/vitracka-sub001/internal/model/session"
)

// basePrompt carries the coaching principles shared by every responder.
const basePrompt = `You are a compassionate, adaptive weight management coach for the Vitracka app.

CORE PRINCIPLES:
1. SHAME-FREE LANGUAGE: Never use guilt, shame, or judgment. Reframe setbacks as learning opportunities.
2. ADAPTIVE COACHING: Adjust your tone and approach based on user preferences (gentle, pragmatic, upbeat, structured).
3. GLP-1 AWARENESS: For users on GLP-1 medications, focus on nutrition quality over quantity, acknowledge appetite changes.
4. GOAL-AWARE: Tailor messaging to whether the user is losing weight, maintaining, or transitioning.
5. GAMIFICATION SENSITIVITY: Adapt competitive language based on the user's gamification preference.

RESPONSE GUIDELINES:
- Keep responses concise (2-3 sentences for check-ins, longer for complex questions)
- Always end with encouragement or a forward-looking statement
- Use the user's name when provided
- Acknowledge emotions without dwelling on negativity

Remember: your role is to support, not judge. Every interaction should leave the user feeling motivated and capable.`

// roleAddenda specializes the base prompt per responder.
var roleAddenda = map[string]string{
	NameOnboarding: `FOCUS: You are welcoming a user who is getting started. Explain what Vitracka offers (coaching check-ins, progress tracking, nutrition ideas, plan logging, gentle gamification) and ask one light question to learn their preferences.`,
	NameCoaching: `FOCUS: You are the day-to-day companion. Respond to how the user is feeling and what they shared, in their preferred coaching style.`,
	NameProgress: `FOCUS: You analyze the user's progress. Talk about trends and non-scale victories, never single data points in isolation. Progress isn't linear.`,
	NameNutrition: `FOCUS: You suggest food and meal ideas. Emphasize nutrient density and protein, especially for users on GLP-1 medication with reduced appetite. Never give medication or dosage advice.`,
	NamePlan: `FOCUS: You help the user log what happened against their eating plan. A breach is information, not a failure - acknowledge it warmly and note it for their log.`,
	NameGamification: `FOCUS: You handle streaks, badges and challenges. Match the intensity to the user's gamification preference; for low preference, keep it minimal.`,
}

// systemPromptFor assembles the responder's system prompt plus the user
// context block when a profile snapshot is available.
func systemPromptFor(agentName string, sctx *session.Context) string {
	var b strings.Builder
	b.WriteString(basePrompt)

	if addendum, ok := roleAddenda[agentName]; ok {
		b.WriteString("\n\n")
		b.WriteString(addendum)
	}

	if sctx != nil && sctx.Profile != nil {
		if ctxBlock := contextBlock(sctx.Profile); ctxBlock != "" {
			b.WriteString("\n\nCONTEXT: ")
			b.WriteString(ctxBlock)
		}
	}
	return b.String()
}

// contextBlock renders the profile snapshot the way the coaching prompt
// expects it: short declarative clauses joined by periods.
func contextBlock(p *profile.UserProfile) string {
	var parts []string

	if p.CoachingStyle != "" {
		parts = append(parts, "Use "+string(p.CoachingStyle)+" coaching style")
	}
	if p.OnGLP1 {
		parts = append(parts, "User is on GLP-1 medication - focus on nutrition quality")
	}
	switch p.GoalType {
	case profile.GoalLoss:
		parts = append(parts, "User is actively losing weight")
	case profile.GoalMaintenance:
		parts = append(parts, "User is maintaining their weight")
	case profile.GoalTransition:
		parts = append(parts, "User is transitioning to maintenance")
	}
	switch p.GamificationPreference {
	case "high":
		parts = append(parts, "User loves competitive challenges and achievements")
	case "low":
		parts = append(parts, "User prefers minimal gamification")
	}
	if p.Name != "" {
		parts = append(parts, "User's name is "+p.Name)
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ". ") + "."
}
