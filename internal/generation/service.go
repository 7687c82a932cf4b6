package generation

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ideaforge/ideaforge-backend/internal/projects"
	"github.com/ideaforge/ideaforge-backend/internal/projects/domain"
)

// Service runs one stage generation end to end: gate on prior-stage
// data, check the rolling quota, reserve a request sequence, call the
// provider, coerce the answer into the stage's typed payload, commit it
// to the draft and append a log row. The draft is only written after a
// successful parse; any failure leaves the prior stage data untouched.
type Service struct {
	projects *projects.Repo
	logs     *LogRepo
	quota    *Quota
	client   *CompletionClient
}

func NewService(projectRepo *projects.Repo, logs *LogRepo, quota *Quota, client *CompletionClient) *Service {
	return &Service{projects: projectRepo, logs: logs, quota: quota, client: client}
}

// Outcome is what a generate endpoint returns on success.
type Outcome struct {
	Project    *domain.Project `json:"project"`
	TokensUsed int             `json:"tokens_used"`
	LatencyMs  int64           `json:"latency_ms"`
	Model      string          `json:"model"`
}

// stageOptions tunes the provider call per stage: creative stages run
// hotter than analytical ones.
func stageOptions(stage domain.Stage) Options {
	switch stage {
	case domain.StageValidate, domain.StageArchitecture:
		return Options{Temperature: 0.4, MaxTokens: 3000}
	case domain.StagePrototype, domain.StageMockup:
		return Options{Temperature: 0.7, MaxTokens: 4000}
	default:
		return Options{Temperature: 0.8, MaxTokens: 2500}
	}
}

// Generate runs the pipeline for one stage of one project. The caller
// has already verified ownership.
func (s *Service) Generate(ctx context.Context, userID string, p *domain.Project, stage domain.Stage) (*Outcome, error) {
	pc := promptContextFor(p)

	// Gating and prompt building are pure and happen before any side
	// effect: a not-ready stage costs no quota.
	system, user, err := BuildPrompt(stage, pc)
	if err != nil {
		return nil, err
	}

	if err := s.quota.Allow(ctx, userID); err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			s.appendLog(ctx, userID, p.PublicID, stage, user, "", nil, err)
		}
		return nil, err
	}

	seq, err := s.projects.NextGenerationSeq(ctx, userID, p.PublicID)
	if err != nil {
		return nil, err
	}

	res, err := s.client.Complete(ctx, system, user, stageOptions(stage))
	if err != nil {
		s.appendLog(ctx, userID, p.PublicID, stage, user, responseText(res), res, err)
		return nil, err
	}

	updated, err := s.parseAndCommit(ctx, userID, p.PublicID, stage, res.Text, seq)
	if err != nil {
		s.appendLog(ctx, userID, p.PublicID, stage, user, res.Text, res, err)
		return nil, err
	}

	s.appendLog(ctx, userID, p.PublicID, stage, user, res.Text, res, nil)

	return &Outcome{
		Project:    updated,
		TokensUsed: res.TokensUsed,
		LatencyMs:  res.Latency.Milliseconds(),
		Model:      res.Model,
	}, nil
}

func responseText(res *Result) string {
	if res == nil {
		return ""
	}
	return res.Text
}

// promptContextFor assembles the prior-stage data each prompt may need,
// resolving selections to their records.
func promptContextFor(p *domain.Project) PromptContext {
	pc := PromptContext{
		Title:         p.Title,
		Description:   p.Description,
		EmpathyMap:    p.EmpathyMap,
		Personas:      p.Personas,
		Problem:       p.Problem,
		BusinessModel: p.BusinessModel,
		Features:      p.Features,
		TechSpec:      p.TechSpec,
		Architecture:  p.Architecture,
	}

	selected := make(map[string]bool, len(p.SelectedPersonaIDs))
	for _, id := range p.SelectedPersonaIDs {
		selected[id] = true
	}
	for _, persona := range p.Personas {
		if selected[persona.ID] {
			pc.SelectedPersonas = append(pc.SelectedPersonas, persona)
		}
	}

	for i := range p.Solutions {
		if p.Solutions[i].ID == p.SelectedSolutionID && p.SelectedSolutionID != "" {
			pc.SelectedSolution = &p.Solutions[i]
			break
		}
	}

	return pc
}

// prototypeOut is the combined payload of the prototype stage.
type prototypeOut struct {
	BusinessModel *domain.BusinessModelCanvas `json:"business_model"`
	Features      *domain.FeatureSet          `json:"features"`
	TechSpec      *domain.TechnicalSpec       `json:"tech_spec"`
}

func (s *Service) parseAndCommit(ctx context.Context, userID, publicID string, stage domain.Stage, raw string, seq int64) (*domain.Project, error) {
	var payload any

	switch stage {
	case domain.StageEmpathize:
		out, err := ParseStructured[domain.EmpathyMap](raw)
		if err != nil {
			return nil, err
		}
		if len(out.Insights) == 0 {
			return nil, fmt.Errorf("%w: empathy map has no insights", ErrUnparseable)
		}
		payload = out

	case domain.StagePersonas:
		out, err := ParseStructured[struct {
			Personas []domain.Persona `json:"personas"`
		}](raw)
		if err != nil {
			return nil, err
		}
		if len(out.Personas) == 0 {
			return nil, fmt.Errorf("%w: no personas", ErrUnparseable)
		}
		for i := range out.Personas {
			out.Personas[i].ID = uuid.New().String()
		}
		payload = out.Personas

	case domain.StageDefine:
		out, err := ParseStructured[domain.ProblemStatement](raw)
		if err != nil {
			return nil, err
		}
		if out.Statement == "" {
			return nil, fmt.Errorf("%w: empty problem statement", ErrUnparseable)
		}
		payload = out

	case domain.StageIdeate:
		out, err := ParseStructured[struct {
			Solutions []domain.Solution `json:"solutions"`
		}](raw)
		if err != nil {
			return nil, err
		}
		if len(out.Solutions) == 0 {
			return nil, fmt.Errorf("%w: no solutions", ErrUnparseable)
		}
		for i := range out.Solutions {
			out.Solutions[i].ID = uuid.New().String()
			out.Solutions[i].Impact = clampScore(out.Solutions[i].Impact)
			out.Solutions[i].Feasibility = clampScore(out.Solutions[i].Feasibility)
		}
		payload = out.Solutions

	case domain.StagePrototype:
		out, err := ParseStructured[prototypeOut](raw)
		if err != nil {
			return nil, err
		}
		if out.BusinessModel == nil || out.Features == nil || out.TechSpec == nil {
			return nil, fmt.Errorf("%w: prototype payload incomplete", ErrUnparseable)
		}
		updated, err := s.projects.CommitPrototypeResult(ctx, userID, publicID, out.BusinessModel, out.Features, out.TechSpec, seq)
		return s.mapCommitErr(updated, err)

	case domain.StageValidate:
		out, err := ParseStructured[domain.ValidationResult](raw)
		if err != nil {
			return nil, err
		}
		if out.Verdict == "" {
			return nil, fmt.Errorf("%w: empty verdict", ErrUnparseable)
		}
		out.Score = clampScore(out.Score)
		payload = out

	case domain.StageArchitecture:
		out, err := ParseStructured[domain.Architecture](raw)
		if err != nil {
			return nil, err
		}
		if out.Overview == "" {
			return nil, fmt.Errorf("%w: empty overview", ErrUnparseable)
		}
		payload = out

	case domain.StageMockup:
		out, err := ParseStructured[domain.MockupData](raw)
		if err != nil {
			return nil, err
		}
		if len(out.Screens) == 0 {
			return nil, fmt.Errorf("%w: no screens", ErrUnparseable)
		}
		payload = out

	default:
		return nil, fmt.Errorf("unknown stage %q", stage)
	}

	updated, err := s.projects.CommitStageResult(ctx, userID, publicID, stage, payload, seq)
	return s.mapCommitErr(updated, err)
}

func (s *Service) mapCommitErr(p *domain.Project, err error) (*domain.Project, error) {
	if errors.Is(err, projects.ErrStaleSeq) {
		return nil, fmt.Errorf("%w: %v", ErrStaleRequest, err)
	}
	return p, err
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func (s *Service) appendLog(ctx context.Context, userID, publicID string, stage domain.Stage, prompt, response string, res *Result, genErr error) {
	entry := LogEntry{
		UserID:          userID,
		ProjectPublicID: publicID,
		Stage:           string(stage),
		PromptExcerpt:   prompt,
		ResponseExcerpt: response,
		OK:              genErr == nil,
		ErrorKind:       errorKind(genErr),
	}
	if res != nil {
		entry.TokensUsed = res.TokensUsed
		entry.LatencyMs = res.Latency.Milliseconds()
		entry.Model = res.Model
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		log.Printf("[warn] append generation log project=%s stage=%s error=%v", publicID, stage, err)
	}
}

// errorKind flattens a pipeline error to the log's enumeration.
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, ErrProviderAuth):
		return "provider_auth"
	case errors.Is(err, ErrProviderRateLimited):
		return "provider_rate_limited"
	case errors.Is(err, ErrProviderBadResponse):
		return "provider_bad_response"
	case errors.Is(err, ErrUnparseable):
		return "unparseable"
	case errors.Is(err, ErrStageNotReady):
		return "stage_not_ready"
	case errors.Is(err, ErrStaleRequest):
		return "stale_request"
	default:
		return "other"
	}
}
