package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ideaforge/ideaforge-backend/internal/projects/domain"
)

func TestStatusForStage_TerminalStageCompletes(t *testing.T) {
	assert.Equal(t, domain.StatusCompleted, domain.StatusForStage(domain.StageMockup))
	assert.Equal(t, domain.StatusEmpathize, domain.StatusForStage(domain.StageEmpathize))
	assert.Equal(t, domain.StatusPrototype, domain.StatusForStage(domain.StagePrototype))
}

func TestAdvanceStatus_NeverRegresses(t *testing.T) {
	// Resubmitting an earlier stage keeps the further-along status.
	assert.Equal(t, domain.StatusIdeate, domain.AdvanceStatus(domain.StatusIdeate, domain.StatusPersonas))
	assert.Equal(t, domain.StatusIdeate, domain.AdvanceStatus(domain.StatusPersonas, domain.StatusIdeate))
	assert.Equal(t, domain.StatusCompleted, domain.AdvanceStatus(domain.StatusCompleted, domain.StatusMockup))
	assert.Equal(t, domain.StatusDraft, domain.AdvanceStatus(domain.StatusDraft, domain.StatusDraft))
}

func TestStageIndex(t *testing.T) {
	assert.Equal(t, 0, domain.StageIndex(domain.StageEmpathize))
	assert.Equal(t, len(domain.StageOrder)-1, domain.StageIndex(domain.StageMockup))
	assert.Equal(t, -1, domain.StageIndex(domain.Stage("daydream")))
}

func TestNewPublicID_Format(t *testing.T) {
	id, err := domain.NewPublicID()
	assert.NoError(t, err)
	assert.Regexp(t, `^idea-\d{5}-\d{4}$`, id)
}
