package wizard

import (
	"fmt"

	"github.com/ideaforge/ideaforge-backend/internal/projects/domain"
)

// Sequencer tracks a user's position in the wizard: the current stage
// and the set of completed stages. Navigation state is decoupled from
// the project's server-side status, which only moves on successful
// stage submission.
type Sequencer struct {
	Current   domain.Stage          `json:"current"`
	Completed map[domain.Stage]bool `json:"completed"`
}

// NewSequencer starts at the first stage with nothing completed.
func NewSequencer() *Sequencer {
	return &Sequencer{
		Current:   domain.StageOrder[0],
		Completed: make(map[domain.Stage]bool),
	}
}

// CanEnter reports whether a stage is reachable: the first stage always
// is, any other stage only once its immediate predecessor is completed.
func (s *Sequencer) CanEnter(stage domain.Stage) bool {
	idx := domain.StageIndex(stage)
	if idx < 0 {
		return false
	}
	if idx == 0 {
		return true
	}
	return s.Completed[domain.StageOrder[idx-1]]
}

// MarkCompleted records a stage as completed. Re-completion is a no-op,
// so resubmitting an earlier stage never breaks later navigability.
func (s *Sequencer) MarkCompleted(stage domain.Stage) {
	if domain.StageIndex(stage) >= 0 {
		s.Completed[stage] = true
	}
}

// Advance marks the current stage completed and moves to the next one.
// At the terminal stage it only marks completion.
func (s *Sequencer) Advance() {
	s.MarkCompleted(s.Current)
	idx := domain.StageIndex(s.Current)
	if idx >= 0 && idx < len(domain.StageOrder)-1 {
		s.Current = domain.StageOrder[idx+1]
	}
}

// Retreat moves to the previous stage without touching completion
// state. Backward navigation is always allowed.
func (s *Sequencer) Retreat() {
	idx := domain.StageIndex(s.Current)
	if idx > 0 {
		s.Current = domain.StageOrder[idx-1]
	}
}

// GoTo jumps to a stage if the gating predicate allows it.
func (s *Sequencer) GoTo(stage domain.Stage) error {
	if !s.CanEnter(stage) {
		return fmt.Errorf("stage %q not reachable: predecessor incomplete", stage)
	}
	s.Current = stage
	return nil
}

// CompletedList returns the completed stages in wizard order, which
// keeps the serialized form stable.
func (s *Sequencer) CompletedList() []domain.Stage {
	out := make([]domain.Stage, 0, len(s.Completed))
	for _, st := range domain.StageOrder {
		if s.Completed[st] {
			out = append(out, st)
		}
	}
	return out
}
