package agents

import (
	"context"

	"github.com/edallison777/vitracka-sub001/internal/model/profile"
	"github.com/edallison777/vitracka-sub001/internal/model/session"
)

// responder is the shared implementation behind every named agent: an
// LLM-backed reply when a generator is configured, a deterministic stub
// otherwise, so the pipeline stays usable without model credentials.
type responder struct {
	name     string
	gen      Generator
	involved []string
	stub     func(message string, sctx *session.Context) string
}

func (r *responder) Name() string { return r.name }

func (r *responder) Respond(ctx context.Context, message string, sctx *session.Context) (Fragment, error) {
	fragment := Fragment{
		AgentName:      r.name,
		InvolvedAgents: append([]string{r.name}, r.involved...),
	}

	if r.gen == nil {
		fragment.Text = r.stub(message, sctx)
		return fragment, nil
	}

	var history []session.Turn
	if sctx != nil {
		history = sctx.History
	}

	text, err := r.gen.Generate(ctx, systemPromptFor(r.name, sctx), history, message)
	if err != nil {
		return Fragment{}, err
	}
	fragment.Text = text
	return fragment, nil
}

// NewOnboarding welcomes new users. It wants the coaching voice alongside
// it so first contact is never purely procedural.
func NewOnboarding(gen Generator) Responder {
	return &responder{
		name:     NameOnboarding,
		gen:      gen,
		involved: []string{NameCoaching},
		stub: func(_ string, sctx *session.Context) string {
			name := displayName(sctx)
			return "Welcome to Vitracka" + name + "! I'm your coaching companion. " +
				"I can check in with you, track your progress, suggest meals, and " +
				"log how things go against your plan. To get us started: would you " +
				"say you respond best to gentle, pragmatic, upbeat, or structured coaching?"
		},
	}
}

// NewCoaching is the default responder when no other intent matches.
func NewCoaching(gen Generator) Responder {
	return &responder{
		name: NameCoaching,
		gen:  gen,
		stub: func(_ string, sctx *session.Context) string {
			switch coachingStyle(sctx) {
			case profile.StylePragmatic:
				return "Thanks for checking in. Let's look at what's working and " +
					"what needs adjusting - small, concrete changes move the " +
					"needle. What's the one thing you'd like to tackle next?"
			case profile.StyleUpbeat:
				return "So glad you're here! Every check-in is a win in my book. " +
					"Whatever today looked like, you're showing up, and that's " +
					"what builds momentum. What's on your mind?"
			case profile.StyleStructured:
				return "Good to hear from you. Let's keep the routine going: " +
					"review how today went, note one thing to repeat tomorrow, " +
					"and one thing to adjust. Where would you like to start?"
			default:
				return "Thanks for sharing that with me. However today went, " +
					"you're building new habits, and progress isn't linear. " +
					"I'm here with you - what would feel most helpful right now?"
			}
		},
	}
}

// NewProgress analyzes trends in the user's logged data.
func NewProgress(gen Generator) Responder {
	return &responder{
		name:     NameProgress,
		gen:      gen,
		involved: []string{NameCoaching},
		stub: func(_ string, sctx *session.Context) string {
			if onGLP1(sctx) {
				return "Looking at your journey so far: remember that on GLP-1 " +
					"medication, steady trends and non-scale victories - energy, " +
					"mobility, how clothes fit - tell the real story. You're " +
					"moving in the right direction."
			}
			return "Zooming out on your trend: day-to-day numbers bounce around, " +
				"but it's the direction over weeks that counts, and showing up " +
				"to review it is itself a habit worth celebrating."
		},
	}
}

// NewNutrition proposes food and meal ideas.
func NewNutrition(gen Generator) Responder {
	return &responder{
		name: NameNutrition,
		gen:  gen,
		stub: func(_ string, sctx *session.Context) string {
			if onGLP1(sctx) {
				return "With a smaller appetite, every bite counts: lean into " +
					"protein-forward, nutrient-dense options like Greek yogurt, " +
					"eggs, fish, or lentil soup, and keep hydration up. Want a " +
					"few specific meal ideas for this week?"
			}
			return "A good anchor is protein plus fiber at each meal - think " +
				"eggs with vegetables, a bean-heavy salad, or fish with roasted " +
				"greens. Want me to sketch a day of meals around foods you enjoy?"
		},
	}
}

// NewPlan logs plan breaches and keeps the framing shame-free.
func NewPlan(gen Generator) Responder {
	return &responder{
		name:     NamePlan,
		gen:      gen,
		involved: []string{NameCoaching},
		stub: func(_ string, _ *session.Context) string {
			return "Thanks for logging that - honest tracking is what makes the " +
				"plan useful, and one off-plan moment is information, not a " +
				"verdict. I've noted it. What can we learn from the situation " +
				"around it?"
		},
	}
}

// NewGamification handles streaks, badges and challenges.
func NewGamification(gen Generator) Responder {
	return &responder{
		name: NameGamification,
		gen:  gen,
		stub: func(_ string, sctx *session.Context) string {
			if gamificationPref(sctx) == "low" {
				return "You've been keeping up your check-in habit - quietly " +
					"consistent, just the way you like it. I'll keep the " +
					"scoreboard out of your way."
			}
			return "Your streak is alive and well! Keep stacking those check-in " +
				"days - consistency is the real achievement, and you're earning " +
				"it one day at a time."
		},
	}
}

// Registry returns all responders in the fixed selection order the
// concierge merges fragments in.
func Registry(gen Generator) []Responder {
	return []Responder{
		NewOnboarding(gen),
		NewProgress(gen),
		NewNutrition(gen),
		NewPlan(gen),
		NewGamification(gen),
		NewCoaching(gen),
	}
}

func displayName(sctx *session.Context) string {
	if sctx != nil && sctx.Profile != nil && sctx.Profile.Name != "" {
		return ", " + sctx.Profile.Name
	}
	return ""
}

func coachingStyle(sctx *session.Context) profile.CoachingStyle {
	if sctx != nil && sctx.Profile != nil {
		return sctx.Profile.CoachingStyle
	}
	return ""
}

func onGLP1(sctx *session.Context) bool {
	return sctx != nil && sctx.Profile != nil && sctx.Profile.OnGLP1
}

func gamificationPref(sctx *session.Context) string {
	if sctx != nil && sctx.Profile != nil {
		return sctx.Profile.GamificationPreference
	}
	return ""
}
