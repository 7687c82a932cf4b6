package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ideaforge/ideaforge-backend/internal/projects/domain"
)

// Markdown renders a human-readable snapshot of every populated stage
// output. Sections for unsubmitted stages are omitted.
func Markdown(p *domain.Project) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Description)
	}
	fmt.Fprintf(&b, "Status: %s\n\n", p.Status)

	if p.EmpathyMap != nil {
		b.WriteString("## Empathy Map\n\n")
		writeList(&b, "Says", p.EmpathyMap.Says)
		writeList(&b, "Thinks", p.EmpathyMap.Thinks)
		writeList(&b, "Does", p.EmpathyMap.Does)
		writeList(&b, "Feels", p.EmpathyMap.Feels)
		writeList(&b, "Insights", p.EmpathyMap.Insights)
	}

	if len(p.Personas) > 0 {
		b.WriteString("## Personas\n\n")
		selected := make(map[string]bool, len(p.SelectedPersonaIDs))
		for _, id := range p.SelectedPersonaIDs {
			selected[id] = true
		}
		for _, persona := range p.Personas {
			marker := ""
			if selected[persona.ID] {
				marker = " (selected)"
			}
			fmt.Fprintf(&b, "### %s%s\n\n", persona.Name, marker)
			fmt.Fprintf(&b, "%d, %s, %s\n\n%s\n\n", persona.Age, persona.Occupation, persona.Location, persona.Bio)
			writeList(&b, "Pain points", persona.PainPoints)
			writeList(&b, "Goals", persona.Goals)
			writeList(&b, "Frustrations", persona.Frustrations)
		}
	}

	if p.Problem != nil {
		b.WriteString("## Problem Statement\n\n")
		fmt.Fprintf(&b, "%s\n\n", p.Problem.Statement)
		if p.Problem.Context != "" {
			fmt.Fprintf(&b, "%s\n\n", p.Problem.Context)
		}
		writeList(&b, "How might we", p.Problem.HowMightWe)
	}

	if len(p.Solutions) > 0 {
		b.WriteString("## Solutions\n\n")
		for _, s := range p.Solutions {
			marker := ""
			if s.ID == p.SelectedSolutionID && p.SelectedSolutionID != "" {
				marker = " (selected)"
			}
			fmt.Fprintf(&b, "### %s%s\n\n", s.Title, marker)
			fmt.Fprintf(&b, "%s\n\nImpact: %.1f/10, Feasibility: %.1f/10\n\n%s\n\n", s.Description, s.Impact, s.Feasibility, s.Rationale)
		}
	}

	if p.BusinessModel != nil {
		b.WriteString("## Business Model Canvas\n\n")
		bm := p.BusinessModel
		writeList(&b, "Key partners", bm.KeyPartners)
		writeList(&b, "Key activities", bm.KeyActivities)
		writeList(&b, "Key resources", bm.KeyResources)
		writeList(&b, "Value propositions", bm.ValuePropositions)
		writeList(&b, "Customer relationships", bm.CustomerRelationships)
		writeList(&b, "Channels", bm.Channels)
		writeList(&b, "Customer segments", bm.CustomerSegments)
		writeList(&b, "Cost structure", bm.CostStructure)
		writeList(&b, "Revenue streams", bm.RevenueStreams)
	}

	if p.Features != nil {
		b.WriteString("## MVP Features\n\n### Core\n\n")
		for _, f := range p.Features.Core {
			fmt.Fprintf(&b, "- **%s** - %s\n", f.Title, f.Description)
		}
		b.WriteString("\n### Nice to have\n\n")
		for _, f := range p.Features.NiceToHave {
			fmt.Fprintf(&b, "- **%s** - %s\n", f.Title, f.Description)
		}
		b.WriteString("\n")
	}

	if p.TechSpec != nil {
		b.WriteString("## Technical Spec\n\n")
		ts := p.TechSpec
		fmt.Fprintf(&b, "- Frontend: %s\n- Backend: %s\n- Database: %s\n- Hosting: %s\n", ts.Frontend, ts.Backend, ts.Database, ts.Hosting)
		writeList(&b, "APIs", ts.APIs)
		writeList(&b, "Integrations", ts.Integrations)
		if ts.Notes != "" {
			fmt.Fprintf(&b, "%s\n\n", ts.Notes)
		}
	}

	if p.Validation != nil {
		b.WriteString("## Validation\n\n")
		fmt.Fprintf(&b, "%s (score %.1f/10)\n\n", p.Validation.Verdict, p.Validation.Score)
		writeList(&b, "Strengths", p.Validation.Strengths)
		writeList(&b, "Risks", p.Validation.Risks)
		writeList(&b, "Assumptions", p.Validation.Assumptions)
		writeList(&b, "Next steps", p.Validation.NextSteps)
	}

	if p.Architecture != nil {
		b.WriteString("## Architecture\n\n")
		fmt.Fprintf(&b, "%s\n\n", p.Architecture.Overview)
		for _, comp := range p.Architecture.Components {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", comp.Name, comp.Technology, comp.Responsibility)
		}
		b.WriteString("\n")
		writeList(&b, "Data flow", p.Architecture.DataFlow)
	}

	if p.Mockup != nil {
		b.WriteString("## Mockup Screens\n\n")
		for _, s := range p.Mockup.Screens {
			fmt.Fprintf(&b, "- **%s**: %s\n", s.Name, s.Purpose)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// JSON renders the machine-readable snapshot.
func JSON(p *domain.Project) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**\n\n", label)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
