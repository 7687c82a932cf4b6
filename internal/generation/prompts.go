package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ideaforge/ideaforge-backend/internal/projects/domain"
)

// PromptContext carries the prior-stage data a prompt may embed. Only
// the fields a stage needs are read; the rest are ignored.
type PromptContext struct {
	Title            string
	Description      string
	EmpathyMap       *domain.EmpathyMap
	Personas         []domain.Persona
	SelectedPersonas []domain.Persona
	Problem          *domain.ProblemStatement
	SelectedSolution *domain.Solution
	BusinessModel    *domain.BusinessModelCanvas
	Features         *domain.FeatureSet
	TechSpec         *domain.TechnicalSpec
	Architecture     *domain.Architecture
}

const systemPreamble = `You are a product strategist inside a Design Thinking tool. You receive product context and output ONLY one valid JSON object matching the requested shape. No explanations, no commentary, no markdown fences - just the JSON object.`

// BuildPrompt composes the system and user instructions for one stage.
// It is a pure function: same stage and same context always yield the
// same two strings.
func BuildPrompt(stage domain.Stage, pc PromptContext) (system, user string, err error) {
	switch stage {
	case domain.StageEmpathize:
		return buildEmpathyPrompt(pc), userHeader(pc), nil
	case domain.StagePersonas:
		return buildPersonasPrompt(), personasUser(pc), nil
	case domain.StageDefine:
		user, err = problemUser(pc)
		return buildProblemPrompt(), user, err
	case domain.StageIdeate:
		user, err = solutionsUser(pc)
		return buildSolutionsPrompt(), user, err
	case domain.StagePrototype:
		user, err = prototypeUser(pc)
		return buildPrototypePrompt(), user, err
	case domain.StageValidate:
		user, err = validationUser(pc)
		return buildValidationPrompt(), user, err
	case domain.StageArchitecture:
		user, err = architectureUser(pc)
		return buildArchitecturePrompt(), user, err
	case domain.StageMockup:
		user, err = mockupUser(pc)
		return buildMockupPrompt(), user, err
	}
	return "", "", fmt.Errorf("unknown stage %q", stage)
}

func userHeader(pc PromptContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product idea: %s\n", pc.Title)
	fmt.Fprintf(&b, "Description: %s\n", pc.Description)
	return b.String()
}

func buildEmpathyPrompt(_ PromptContext) string {
	return systemPreamble + `

Build an empathy map for the target users of the product idea.

Output shape:
{"says": ["..."], "thinks": ["..."], "does": ["..."], "feels": ["..."], "insights": ["..."]}

Each list holds 4-6 short first-person statements; "insights" holds 3-5 synthesized observations.`
}

func buildPersonasPrompt() string {
	return systemPreamble + `

Create exactly 3 distinct user personas for the product idea.

Output shape:
{"personas": [{"name": "...", "age": 30, "occupation": "...", "location": "...", "bio": "...", "pain_points": ["..."], "goals": ["..."], "frustrations": ["..."]}]}

Bios are 2-3 sentences. Every list holds 3-5 entries. Personas must differ in demographics and motivation.`
}

func personasUser(pc PromptContext) string {
	var b strings.Builder
	b.WriteString(userHeader(pc))
	if pc.EmpathyMap != nil {
		fmt.Fprintf(&b, "Empathy insights: %s\n", strings.Join(pc.EmpathyMap.Insights, "; "))
	}
	return b.String()
}

func buildProblemPrompt() string {
	return systemPreamble + `

Write a single problem statement grounded in the selected personas, plus "how might we" questions.

Output shape:
{"statement": "...", "context": "...", "how_might_we": ["..."]}

The statement is one sentence naming the user, the need and the insight. Provide 3-5 how-might-we questions.`
}

func problemUser(pc PromptContext) (string, error) {
	if len(pc.SelectedPersonas) == 0 {
		return "", fmt.Errorf("problem statement: %w", ErrStageNotReady)
	}
	var b strings.Builder
	b.WriteString(userHeader(pc))
	b.WriteString("Selected personas:\n")
	for _, p := range pc.SelectedPersonas {
		fmt.Fprintf(&b, "- %s, %d, %s: %s (pain points: %s)\n",
			p.Name, p.Age, p.Occupation, p.Bio, strings.Join(p.PainPoints, "; "))
	}
	return b.String(), nil
}

func buildSolutionsPrompt() string {
	return systemPreamble + `

Propose 5 distinct solution candidates for the problem statement. Score each for impact and feasibility on a 0-10 scale and justify the scores.

Output shape:
{"solutions": [{"title": "...", "description": "...", "impact": 7, "feasibility": 5, "rationale": "..."}]}`
}

func solutionsUser(pc PromptContext) (string, error) {
	if pc.Problem == nil {
		return "", fmt.Errorf("solutions: %w", ErrStageNotReady)
	}
	var b strings.Builder
	b.WriteString(userHeader(pc))
	fmt.Fprintf(&b, "Problem statement: %s\n", pc.Problem.Statement)
	if len(pc.Problem.HowMightWe) > 0 {
		fmt.Fprintf(&b, "How might we: %s\n", strings.Join(pc.Problem.HowMightWe, "; "))
	}
	return b.String(), nil
}

func buildPrototypePrompt() string {
	return systemPreamble + `

For the selected solution, produce a business model canvas, an MVP feature set and a technical spec.

Output shape:
{"business_model": {"key_partners": ["..."], "key_activities": ["..."], "key_resources": ["..."], "value_propositions": ["..."], "customer_relationships": ["..."], "channels": ["..."], "customer_segments": ["..."], "cost_structure": ["..."], "revenue_streams": ["..."]},
 "features": {"core": [{"title": "...", "description": "..."}], "nice_to_have": [{"title": "...", "description": "..."}]},
 "tech_spec": {"frontend": "...", "backend": "...", "database": "...", "hosting": "...", "apis": ["..."], "integrations": ["..."], "notes": "..."}}

Every canvas list holds 2-4 entries. 4-6 core features, 3-5 nice-to-have.`
}

func prototypeUser(pc PromptContext) (string, error) {
	if pc.SelectedSolution == nil {
		return "", fmt.Errorf("prototype: %w", ErrStageNotReady)
	}
	var b strings.Builder
	b.WriteString(userHeader(pc))
	fmt.Fprintf(&b, "Selected solution: %s - %s\n", pc.SelectedSolution.Title, pc.SelectedSolution.Description)
	if pc.Problem != nil {
		fmt.Fprintf(&b, "Problem statement: %s\n", pc.Problem.Statement)
	}
	return b.String(), nil
}

func buildValidationPrompt() string {
	return systemPreamble + `

Critically validate the MVP plan. Be honest about risks and unproven assumptions.

Output shape:
{"verdict": "...", "score": 7.5, "strengths": ["..."], "risks": ["..."], "assumptions": ["..."], "next_steps": ["..."]}

The verdict is one sentence; score is 0-10 overall viability.`
}

func validationUser(pc PromptContext) (string, error) {
	if pc.Features == nil || pc.BusinessModel == nil {
		return "", fmt.Errorf("validation: %w", ErrStageNotReady)
	}
	var b strings.Builder
	b.WriteString(userHeader(pc))
	appendJSON(&b, "MVP features", pc.Features)
	appendJSON(&b, "Business model", pc.BusinessModel)
	return b.String(), nil
}

func buildArchitecturePrompt() string {
	return systemPreamble + `

Describe a pragmatic system architecture for the MVP.

Output shape:
{"overview": "...", "components": [{"name": "...", "responsibility": "...", "technology": "..."}], "data_flow": ["..."]}

4-7 components; data_flow is an ordered list of request/data paths.`
}

func architectureUser(pc PromptContext) (string, error) {
	if pc.TechSpec == nil || pc.Features == nil {
		return "", fmt.Errorf("architecture: %w", ErrStageNotReady)
	}
	var b strings.Builder
	b.WriteString(userHeader(pc))
	appendJSON(&b, "Technical spec", pc.TechSpec)
	appendJSON(&b, "Core features", pc.Features.Core)
	return b.String(), nil
}

func buildMockupPrompt() string {
	return systemPreamble + `

Design the screens and navigation of the MVP web app.

Output shape:
{"screens": [{"name": "dashboard", "title": "...", "purpose": "...", "elements": ["..."]}],
 "navigation": [{"label": "...", "screen": "dashboard"}],
 "guidelines": {"primary_color": "#4f46e5", "secondary_color": "#a5b4fc", "font_family": "Inter", "tone": "..."}}

Screen names are lowercase identifiers. Every navigation entry must reference a screen by name. 4-8 screens covering the core features.`
}

func mockupUser(pc PromptContext) (string, error) {
	if pc.Features == nil {
		return "", fmt.Errorf("mockup: %w", ErrStageNotReady)
	}
	var b strings.Builder
	b.WriteString(userHeader(pc))
	appendJSON(&b, "Core features", pc.Features.Core)
	if pc.Architecture != nil {
		fmt.Fprintf(&b, "Architecture overview: %s\n", pc.Architecture.Overview)
	}
	return b.String(), nil
}

func appendJSON(b *strings.Builder, label string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, data)
}
