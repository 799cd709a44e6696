// Package concierge is the single entry point of the conversational core:
// it routes each message to responder agents, merges their fragments, and
// enforces the safety sentinel's veto over everything else.
package concierge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/edallison777/vitracka-sub001/internal/analysis/medical"
	"github.com/edallison777/vitracka-sub001/internal/audit"
	"github.com/edallison777/vitracka-sub001/internal/model/profile"
	"github.com/edallison777/vitracka-sub001/internal/model/safety"
	sessionmodel "github.com/edallison777/vitracka-sub001/internal/model/session"
	"github.com/edallison777/vitracka-sub001/internal/service/agents"
	sessionsvc "github.com/edallison777/vitracka-sub001/internal/service/session"
)

// SentinelName is the agent name reported when the sentinel answers a turn.
const SentinelName = "safety_sentinel"

// MedicalBoundaryName labels the medical filter's redirect fragment.
const MedicalBoundaryName = "medical_boundary"

var (
	ErrMissingUserID = errors.New("userId is required")
	ErrEmptyMessage  = errors.New("message is required")
	ErrNoAgentReply  = errors.New("no responder agent produced a reply")
)

// SafetyEvaluator is the sentinel capability the orchestrator depends on.
type SafetyEvaluator interface {
	Evaluate(ctx context.Context, text, userID string) (safety.Verdict, error)
	VetoResponse(ctx context.Context, candidate, originalText, userID string) (safety.VetoDecision, error)
}

// ProfileReader hydrates the cached profile snapshot on a fresh session.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (*profile.UserProfile, error)
}

// Request is the one caller-facing operation's input.
type Request struct {
	UserID    string                `json:"userId"`
	Message   string                `json:"message"`
	SessionID string                `json:"sessionId,omitempty"`
	Context   *sessionmodel.Context `json:"context,omitempty"`
}

// Response carries the merged reply plus the updated session context, which
// the caller passes back on the next turn.
type Response struct {
	FinalResponse    string                `json:"finalResponse"`
	SessionID        string                `json:"sessionId"`
	InvolvedAgents   []string              `json:"involvedAgents"`
	SafetyOverride   bool                  `json:"safetyOverride"`
	RequiresFollowUp bool                  `json:"requiresFollowUp"`
	Context          *sessionmodel.Context `json:"context"`
}

// Config wires the orchestrator's collaborators.
type Config struct {
	Sentinel     SafetyEvaluator
	Responders   []agents.Responder
	Sessions     *sessionsvc.Manager
	Sink         audit.Sink
	Profiles     ProfileReader
	CheckMedical func(text string) medical.Decision
	AgentTimeout time.Duration
	Retention    int
	Logger       *zap.Logger
}

// Orchestrator implements processRequest.
type Orchestrator struct {
	sentinel     SafetyEvaluator
	responders   []agents.Responder
	byName       map[string]agents.Responder
	sessions     *sessionsvc.Manager
	sink         audit.Sink
	profiles     ProfileReader
	checkMedical func(text string) medical.Decision
	agentTimeout time.Duration
	retention    int
	logger       *zap.Logger
}

// New builds an orchestrator from its collaborators.
func New(cfg Config) *Orchestrator {
	if cfg.CheckMedical == nil {
		cfg.CheckMedical = medical.Check
	}
	if cfg.AgentTimeout <= 0 {
		cfg.AgentTimeout = 10 * time.Second
	}
	if cfg.Retention <= 0 {
		cfg.Retention = sessionmodel.DefaultRetention
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	byName := make(map[string]agents.Responder, len(cfg.Responders))
	for _, r := range cfg.Responders {
		byName[r.Name()] = r
	}

	return &Orchestrator{
		sentinel:     cfg.Sentinel,
		responders:   cfg.Responders,
		byName:       byName,
		sessions:     cfg.Sessions,
		sink:         cfg.Sink,
		profiles:     cfg.Profiles,
		checkMedical: cfg.CheckMedical,
		agentTimeout: cfg.AgentTimeout,
		retention:    cfg.Retention,
		logger:       cfg.Logger,
	}
}

// ProcessRequest handles one conversational turn. Ordering is strict:
// evaluate, then agents in parallel, then veto-check, then merge. The
// sentinel's evaluation and its audit write run detached from caller
// cancellation; a partially evaluated safety check is never dropped.
func (o *Orchestrator) ProcessRequest(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return Response{}, ErrMissingUserID
	}
	if strings.TrimSpace(req.Message) == "" {
		return Response{}, ErrEmptyMessage
	}

	sctx, release, err := o.sessions.Acquire(req.SessionID, req.UserID, req.Context)
	if err != nil {
		return Response{}, fmt.Errorf("acquire session: %w", err)
	}
	defer release()

	o.hydrateProfile(ctx, sctx)

	safetyCtx := context.WithoutCancel(ctx)
	verdict, err := o.sentinel.Evaluate(safetyCtx, req.Message, req.UserID)
	if err != nil {
		// Never fail open on safety: surface the error, no default reply.
		return Response{}, fmt.Errorf("safety evaluation: %w", err)
	}

	if verdict.IsIntervention {
		return o.interventionResponse(safetyCtx, req, sctx, verdict)
	}

	var fragments []agents.Fragment
	if decision := o.checkMedical(req.Message); decision.ShouldRedirect {
		fragments = append(fragments, agents.Fragment{
			AgentName:      MedicalBoundaryName,
			Text:           decision.RedirectResponse,
			InvolvedAgents: []string{MedicalBoundaryName},
		})
	}

	selected := route(req.Message)
	fragments = append(fragments, o.invokeResponders(ctx, selected, req.Message, sctx)...)

	candidate := mergeTexts(fragments)
	veto, err := o.sentinel.VetoResponse(safetyCtx, candidate, req.Message, req.UserID)
	if err != nil {
		return Response{}, fmt.Errorf("safety veto check: %w", err)
	}
	if veto.ShouldVeto {
		return o.vetoedResponse(safetyCtx, req, sctx, fragments, veto)
	}

	// A turn with nothing to say is an error, not a silent empty reply.
	if len(fragments) == 0 {
		return Response{}, ErrNoAgentReply
	}

	final := candidate
	involved := involvedAgents(selected, fragments)

	entry := audit.NewInteractionEntry(sctx.SessionID, req.UserID, req.Message, final, involved)
	if err := o.sink.Append(ctx, entry); err != nil {
		// Interaction entries are retried at the infrastructure layer;
		// only safety entries gate the response.
		o.logger.Error("interaction audit append failed",
			zap.String("session_id", sctx.SessionID), zap.Error(err))
	}

	now := time.Now().UTC()
	sctx.AppendTurn(sessionmodel.Turn{Sender: "user", Content: req.Message, CreatedAt: now}, o.retention)
	sctx.AppendTurn(sessionmodel.Turn{Sender: "assistant", Content: final, CreatedAt: now}, o.retention)
	sctx.LastInteractionTime = now

	return Response{
		FinalResponse:  final,
		SessionID:      sctx.SessionID,
		InvolvedAgents: involved,
		Context:        sctx.Clone(),
	}, nil
}

// interventionResponse short-circuits the turn with the sentinel's reply.
// No responder agent is invoked. The safety audit entry must be durable
// before the verdict reaches the caller.
func (o *Orchestrator) interventionResponse(ctx context.Context, req Request, sctx *sessionmodel.Context, verdict safety.Verdict) (Response, error) {
	entry := audit.NewSafetyEntry(sctx.SessionID, req.UserID, req.Message, verdict)
	if err := o.sink.Append(ctx, entry); err != nil {
		return Response{}, fmt.Errorf("append safety audit entry: %w", err)
	}

	sctx.RaiseSafetyFlag(verdict.TriggerType)
	sctx.LastInteractionTime = time.Now().UTC()

	o.logger.Info("turn short-circuited by safety sentinel",
		zap.String("session_id", sctx.SessionID),
		zap.String("trigger_type", string(verdict.TriggerType)))

	return Response{
		FinalResponse:    verdict.Response,
		SessionID:        sctx.SessionID,
		InvolvedAgents:   []string{SentinelName},
		SafetyOverride:   true,
		RequiresFollowUp: verdict.AdminNotificationRequired,
		Context:          sctx.Clone(),
	}, nil
}

// vetoedResponse discards responder fragments and substitutes the
// sentinel's alternative. The medical redirect survives the veto: it is
// inherently conservative and never offers unsafe content.
func (o *Orchestrator) vetoedResponse(ctx context.Context, req Request, sctx *sessionmodel.Context, fragments []agents.Fragment, veto safety.VetoDecision) (Response, error) {
	entry := audit.NewVetoEntry(sctx.SessionID, req.UserID, req.Message, veto)
	if err := o.sink.Append(ctx, entry); err != nil {
		return Response{}, fmt.Errorf("append safety audit entry: %w", err)
	}

	final := veto.AlternativeResponse
	involved := []string{SentinelName}
	for _, f := range fragments {
		if f.AgentName == MedicalBoundaryName {
			final = final + "\n\n" + f.Text
			involved = append(involved, MedicalBoundaryName)
			break
		}
	}

	sctx.RaiseSafetyFlag(veto.TriggerType)
	sctx.LastInteractionTime = time.Now().UTC()

	o.logger.Warn("candidate reply vetoed",
		zap.String("session_id", sctx.SessionID),
		zap.String("reason", veto.Reason))

	return Response{
		FinalResponse:    final,
		SessionID:        sctx.SessionID,
		InvolvedAgents:   involved,
		SafetyOverride:   true,
		RequiresFollowUp: true,
		Context:          sctx.Clone(),
	}, nil
}

// invokeResponders fans selected agents out concurrently and joins them
// all before returning. A slow or failing agent contributes no fragment;
// it never blocks or fails the whole turn.
func (o *Orchestrator) invokeResponders(ctx context.Context, selected []string, message string, sctx *sessionmodel.Context) []agents.Fragment {
	results := make([]*agents.Fragment, len(selected))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, name := range selected {
		i, name := i, name
		responder, ok := o.byName[name]
		if !ok {
			o.logger.Error("routing selected unknown responder", zap.String("agent", name))
			continue
		}
		eg.Go(func() error {
			agentCtx, cancel := context.WithTimeout(egCtx, o.agentTimeout)
			defer cancel()

			fragment, err := responder.Respond(agentCtx, message, sctx)
			if err != nil {
				o.logger.Warn("responder failed, fragment omitted",
					zap.String("agent", name), zap.Error(err))
				return nil
			}
			if strings.TrimSpace(fragment.Text) == "" {
				return nil
			}
			results[i] = &fragment
			return nil
		})
	}
	_ = eg.Wait()

	fragments := make([]agents.Fragment, 0, len(selected))
	for _, r := range results {
		if r != nil {
			fragments = append(fragments, *r)
		}
	}
	return fragments
}

// mergeTexts joins fragments in selection order.
func mergeTexts(fragments []agents.Fragment) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if text := strings.TrimSpace(f.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// involvedAgents unions fragment involvement with every invoked agent
// name, preserving first-seen order. An agent that was invoked but
// contributed no fragment still appears: the caller sees what ran, not
// just what survived.
func involvedAgents(selected []string, fragments []agents.Fragment) []string {
	seen := make(map[string]bool)
	var names []string
	for _, f := range fragments {
		for _, name := range f.InvolvedAgents {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	for _, name := range selected {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// hydrateProfile caches the profile snapshot on a session that lacks one.
// A read failure is recoverable: the turn proceeds without the snapshot.
func (o *Orchestrator) hydrateProfile(ctx context.Context, sctx *sessionmodel.Context) {
	if sctx.Profile != nil || o.profiles == nil {
		return
	}
	p, err := o.profiles.GetProfile(ctx, sctx.UserID)
	if err != nil {
		o.logger.Warn("profile load failed", zap.String("user_id", sctx.UserID), zap.Error(err))
		return
	}
	sctx.Profile = p
}
