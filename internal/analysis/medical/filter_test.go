package medical

import (
	"strings"
	"testing"
)

func TestCheckDosageQuestionRedirects(t *testing.T) {
	decision := Check("Should I increase my dose of Ozempic?")
	if !decision.ShouldRedirect {
		t.Fatal("expected a redirect for a dosage question")
	}
	if !strings.Contains(decision.RedirectResponse, "clinician") {
		t.Fatalf("redirect should point at the clinician, got %q", decision.RedirectResponse)
	}
}

func TestCheckNeverGivesSpecificAdvice(t *testing.T) {
	decision := Check("how many units of semaglutide should i take")
	if !decision.ShouldRedirect {
		t.Fatal("expected a redirect")
	}
	for _, forbidden := range []string{"mg", "units", "take more", "take less"} {
		if strings.Contains(strings.ToLower(decision.RedirectResponse), forbidden) {
			t.Fatalf("redirect contains medical specifics %q: %q", forbidden, decision.RedirectResponse)
		}
	}
}

func TestCheckOrdinaryMessage(t *testing.T) {
	decision := Check("what should I eat for breakfast")
	if decision.ShouldRedirect {
		t.Fatalf("unexpected redirect: %+v", decision)
	}
}

func TestCheckEmptyText(t *testing.T) {
	if decision := Check(""); decision.ShouldRedirect {
		t.Fatal("empty text must not redirect")
	}
}
