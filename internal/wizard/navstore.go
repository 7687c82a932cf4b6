package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ideaforge/ideaforge-backend/internal/projects/domain"
	"github.com/redis/go-redis/v9"
)

const (
	navKeyPrefix = "wizard:nav:" // wizard:nav:{user_id}:{project_public_id}
	navTTL       = 30 * 24 * time.Hour
)

// NavStore persists the wizard navigation slice per user and project so
// a reload resumes position. It is a convenience cache, not the source
// of truth for progress.
type NavStore struct {
	client *redis.Client
}

func NewNavStore(client *redis.Client) *NavStore {
	return &NavStore{client: client}
}

type navState struct {
	Current   domain.Stage   `json:"current"`
	Completed []domain.Stage `json:"completed"`
}

func (s *NavStore) key(userID, publicID string) string {
	return navKeyPrefix + userID + ":" + publicID
}

// Save stores the sequencer state with a sliding TTL.
func (s *NavStore) Save(ctx context.Context, userID, publicID string, seq *Sequencer) error {
	state := navState{Current: seq.Current, Completed: seq.CompletedList()}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal nav state: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID, publicID), data, navTTL).Err(); err != nil {
		return fmt.Errorf("save nav state: %w", err)
	}
	return nil
}

// Load restores the sequencer for a user and project. A missing key
// yields a fresh sequencer at the first stage.
func (s *NavStore) Load(ctx context.Context, userID, publicID string) (*Sequencer, error) {
	data, err := s.client.Get(ctx, s.key(userID, publicID)).Result()
	if err == redis.Nil {
		return NewSequencer(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load nav state: %w", err)
	}

	var state navState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("unmarshal nav state: %w", err)
	}

	seq := NewSequencer()
	if domain.StageIndex(state.Current) >= 0 {
		seq.Current = state.Current
	}
	for _, st := range state.Completed {
		seq.MarkCompleted(st)
	}
	return seq, nil
}

// Clear drops the persisted slice, e.g. when a project is deleted.
func (s *NavStore) Clear(ctx context.Context, userID, publicID string) error {
	return s.client.Del(ctx, s.key(userID, publicID)).Err()
}
