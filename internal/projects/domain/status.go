package domain

// Stage is one named phase of the design-thinking wizard, in fixed order.
type Stage string

const (
	StageEmpathize    Stage = "empathize"
	StagePersonas     Stage = "personas"
	StageDefine       Stage = "define"
	StageIdeate       Stage = "ideate"
	StagePrototype    Stage = "prototype"
	StageValidate     Stage = "validate"
	StageArchitecture Stage = "architecture"
	StageMockup       Stage = "mockup"
)

// StageOrder is the fixed wizard order. No stage may be skipped forward.
var StageOrder = []Stage{
	StageEmpathize,
	StagePersonas,
	StageDefine,
	StageIdeate,
	StagePrototype,
	StageValidate,
	StageArchitecture,
	StageMockup,
}

// StageIndex returns the position of a stage in StageOrder, or -1.
func StageIndex(s Stage) int {
	for i, st := range StageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Status is the coarse server-side progress marker of a project. It
// mirrors the stage names plus terminal states and only ever advances.
type Status string

const (
	StatusDraft        Status = "DRAFT"
	StatusEmpathize    Status = "EMPATHIZE"
	StatusPersonas     Status = "PERSONAS"
	StatusDefine       Status = "DEFINE"
	StatusIdeate       Status = "IDEATE"
	StatusPrototype    Status = "PROTOTYPE"
	StatusValidate     Status = "VALIDATE"
	StatusArchitecture Status = "ARCHITECTURE"
	StatusMockup       Status = "MOCKUP"
	StatusCompleted    Status = "COMPLETED"
	StatusArchived     Status = "ARCHIVED"
)

var statusRank = map[Status]int{
	StatusDraft:        0,
	StatusEmpathize:    1,
	StatusPersonas:     2,
	StatusDefine:       3,
	StatusIdeate:       4,
	StatusPrototype:    5,
	StatusValidate:     6,
	StatusArchitecture: 7,
	StatusMockup:       8,
	StatusCompleted:    9,
	StatusArchived:     10,
}

// StatusForStage maps a successful stage submission to the status it
// advances the project to. The terminal mockup stage completes the
// project.
func StatusForStage(s Stage) Status {
	switch s {
	case StageEmpathize:
		return StatusEmpathize
	case StagePersonas:
		return StatusPersonas
	case StageDefine:
		return StatusDefine
	case StageIdeate:
		return StatusIdeate
	case StagePrototype:
		return StatusPrototype
	case StageValidate:
		return StatusValidate
	case StageArchitecture:
		return StatusArchitecture
	case StageMockup:
		return StatusCompleted
	}
	return StatusDraft
}

// AdvanceStatus returns the further-along of the two statuses. Status
// never regresses: resubmitting an earlier stage keeps the current one.
func AdvanceStatus(current, next Status) Status {
	if statusRank[next] > statusRank[current] {
		return next
	}
	return current
}
