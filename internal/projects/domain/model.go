package domain

import "time"

// Project is the draft record accumulating every wizard stage output for
// one product idea. It is intentionally storage-agnostic and used across
// repository and HTTP layers. Stage payloads are nil until their stage
// has been submitted.
type Project struct {
	PublicID    string `json:"public_id"`
	OwnerID     string `json:"-"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`

	// GenerationSeq increases on every accepted generation request and
	// guards against a slow earlier response overwriting a newer one.
	GenerationSeq int64 `json:"generation_seq"`

	EmpathyMap         *EmpathyMap          `json:"empathy_map,omitempty"`
	Personas           []Persona            `json:"personas,omitempty"`
	SelectedPersonaIDs []string             `json:"selected_persona_ids,omitempty"`
	Problem            *ProblemStatement    `json:"problem,omitempty"`
	Solutions          []Solution           `json:"solutions,omitempty"`
	SelectedSolutionID string               `json:"selected_solution_id,omitempty"`
	BusinessModel      *BusinessModelCanvas `json:"business_model,omitempty"`
	Features           *FeatureSet          `json:"features,omitempty"`
	TechSpec           *TechnicalSpec       `json:"tech_spec,omitempty"`
	Validation         *ValidationResult    `json:"validation,omitempty"`
	Architecture       *Architecture        `json:"architecture,omitempty"`
	Mockup             *MockupData          `json:"mockup,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmpathyMap captures the empathize-stage research synthesis.
type EmpathyMap struct {
	Says     []string `json:"says"`
	Thinks   []string `json:"thinks"`
	Does     []string `json:"does"`
	Feels    []string `json:"feels"`
	Insights []string `json:"insights"`
}

// Persona is one AI-generated target user. Personas are created in bulk
// by a single call and replaced wholesale on regeneration.
type Persona struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Age          int      `json:"age"`
	Occupation   string   `json:"occupation"`
	Location     string   `json:"location"`
	Bio          string   `json:"bio"`
	PainPoints   []string `json:"pain_points"`
	Goals        []string `json:"goals"`
	Frustrations []string `json:"frustrations"`
}

type ProblemStatement struct {
	Statement  string   `json:"statement"`
	Context    string   `json:"context"`
	HowMightWe []string `json:"how_might_we"`
}

// Solution is one ideation candidate. Impact and feasibility are
// AI-assigned on a fixed 0-10 scale.
type Solution struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Impact      float64 `json:"impact"`
	Feasibility float64 `json:"feasibility"`
	Rationale   string  `json:"rationale"`
}

// BusinessModelCanvas is the fixed nine-field canvas. User-editable
// after generation.
type BusinessModelCanvas struct {
	KeyPartners           []string `json:"key_partners"`
	KeyActivities         []string `json:"key_activities"`
	KeyResources          []string `json:"key_resources"`
	ValuePropositions     []string `json:"value_propositions"`
	CustomerRelationships []string `json:"customer_relationships"`
	Channels              []string `json:"channels"`
	CustomerSegments      []string `json:"customer_segments"`
	CostStructure         []string `json:"cost_structure"`
	RevenueStreams        []string `json:"revenue_streams"`
}

type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type FeatureSet struct {
	Core       []Feature `json:"core"`
	NiceToHave []Feature `json:"nice_to_have"`
}

type TechnicalSpec struct {
	Frontend     string   `json:"frontend"`
	Backend      string   `json:"backend"`
	Database     string   `json:"database"`
	Hosting      string   `json:"hosting"`
	APIs         []string `json:"apis"`
	Integrations []string `json:"integrations"`
	Notes        string   `json:"notes"`
}

type ValidationResult struct {
	Verdict     string   `json:"verdict"`
	Score       float64  `json:"score"`
	Strengths   []string `json:"strengths"`
	Risks       []string `json:"risks"`
	Assumptions []string `json:"assumptions"`
	NextSteps   []string `json:"next_steps"`
}

type ArchComponent struct {
	Name           string `json:"name"`
	Responsibility string `json:"responsibility"`
	Technology     string `json:"technology"`
}

type Architecture struct {
	Overview   string          `json:"overview"`
	Components []ArchComponent `json:"components"`
	DataFlow   []string        `json:"data_flow"`
}

// Screen is one page of the generated mockup site.
type Screen struct {
	Name     string   `json:"name"`
	Title    string   `json:"title"`
	Purpose  string   `json:"purpose"`
	Elements []string `json:"elements"`
}

type NavItem struct {
	Label  string `json:"label"`
	Screen string `json:"screen"`
}

type DesignGuidelines struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	FontFamily     string `json:"font_family"`
	Tone           string `json:"tone"`
}

type MockupData struct {
	Screens    []Screen         `json:"screens"`
	Navigation []NavItem        `json:"navigation"`
	Guidelines DesignGuidelines `json:"guidelines"`
}
