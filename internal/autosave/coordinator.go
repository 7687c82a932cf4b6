package autosave

import (
	"context"
	"sync"
	"time"
)

// SaveFunc persists a merged field patch for one project.
type SaveFunc func(ctx context.Context, publicID string, patch map[string]any) error

// Coordinator debounces draft writes. Every queued mutation replaces the
// pending timer, so a rapid burst results in exactly one persistence
// call carrying the merged final state. A failed save keeps the entry
// dirty so the next mutation or manual flush retries.
//
// Last writer wins; there is no optimistic-concurrency token. A manual
// flush may race an in-flight debounced save, in which case the last
// response to land is the persisted one.
type Coordinator struct {
	mu      sync.Mutex
	delay   time.Duration
	save    SaveFunc
	entries map[string]*entry
}

type entry struct {
	pending     map[string]any
	timer       *time.Timer
	dirty       bool
	saving      bool
	lastSavedAt time.Time
	lastErr     error
}

// State is a snapshot of one project's save status.
type State struct {
	Dirty       bool      `json:"dirty"`
	Saving      bool      `json:"saving"`
	LastSavedAt time.Time `json:"last_saved_at"`
	LastError   string    `json:"last_error,omitempty"`
}

func New(delay time.Duration, save SaveFunc) *Coordinator {
	return &Coordinator{
		delay:   delay,
		save:    save,
		entries: make(map[string]*entry),
	}
}

// Queue merges a field patch for the project and (re)arms the debounce
// timer. The previous pending timer is replaced, never stacked.
func (c *Coordinator) Queue(publicID string, patch map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entries[publicID]
	if e == nil {
		e = &entry{pending: make(map[string]any)}
		c.entries[publicID] = e
	}
	for k, v := range patch {
		e.pending[k] = v
	}
	e.dirty = true

	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(c.delay, func() { c.fire(publicID) })
}

// Flush saves the pending patch immediately, bypassing the delay.
func (c *Coordinator) Flush(ctx context.Context, publicID string) error {
	c.mu.Lock()
	e := c.entries[publicID]
	if e == nil || !e.dirty {
		c.mu.Unlock()
		return nil
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	c.mu.Unlock()

	return c.persist(ctx, publicID, e)
}

// State reports the save status for a project.
func (c *Coordinator) State(publicID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entries[publicID]
	if e == nil {
		return State{}
	}
	s := State{
		Dirty:       e.dirty,
		Saving:      e.saving,
		LastSavedAt: e.lastSavedAt,
	}
	if e.lastErr != nil {
		s.LastError = e.lastErr.Error()
	}
	return s
}

func (c *Coordinator) fire(publicID string) {
	c.mu.Lock()
	e := c.entries[publicID]
	if e == nil {
		c.mu.Unlock()
		return
	}
	if e.saving {
		// A save is already in flight; try again after another delay.
		e.timer = time.AfterFunc(c.delay, func() { c.fire(publicID) })
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	_ = c.persist(context.Background(), publicID, e)
}

func (c *Coordinator) persist(ctx context.Context, publicID string, e *entry) error {
	c.mu.Lock()
	if len(e.pending) == 0 {
		e.dirty = false
		c.mu.Unlock()
		return nil
	}
	snapshot := e.pending
	e.pending = make(map[string]any)
	e.saving = true
	c.mu.Unlock()

	err := c.save(ctx, publicID, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()
	e.saving = false
	if err != nil {
		// Put the failed patch back without clobbering newer values.
		for k, v := range snapshot {
			if _, ok := e.pending[k]; !ok {
				e.pending[k] = v
			}
		}
		e.lastErr = err
		return err
	}
	e.lastErr = nil
	e.lastSavedAt = time.Now()
	if len(e.pending) == 0 {
		e.dirty = false
	}
	return nil
}
