// Package session keeps one workflow controller per editing session.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"slidecast/internal/domain"
	"slidecast/internal/workflow"
)

// Session is a single editing session. Its fields are only touched while the
// session lock is held, i.e. inside Store.With.
type Session struct {
	ID        string
	ProjectID string
	CreatedAt time.Time

	ctrl     *workflow.Controller
	taskIDs  []string
	lastSeen time.Time
	busy     bool
	mu       sync.Mutex
}

// Controller returns the session's workflow controller.
func (s *Session) Controller() *workflow.Controller { return s.ctrl }

// Busy reports whether a backend generation call owns the session.
func (s *Session) Busy() bool { return s.busy }

// SetBusy claims or releases the session for a generation call. The workflow
// state mirrors the flag in IsGenerating for display only.
func (s *Session) SetBusy(on bool) {
	s.busy = on
	s.ctrl.SetGenerating(on)
}

// AddTask records a submitted render task.
func (s *Session) AddTask(taskID string) { s.taskIDs = append(s.taskIDs, taskID) }

// Snapshot copies the session into a value safe to hand out.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:        s.ID,
		ProjectID: s.ProjectID,
		State:     s.ctrl.State(),
		TaskIDs:   append([]string(nil), s.taskIDs...),
		CreatedAt: s.CreatedAt,
		LastSeen:  s.lastSeen,
	}
}

// Snapshot is a point-in-time copy of a session.
type Snapshot struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"projectId"`
	State     workflow.State `json:"state"`
	TaskIDs   []string       `json:"taskIds"`
	CreatedAt time.Time      `json:"createdAt"`
	LastSeen  time.Time      `json:"lastSeen"`
}

// Store is an in-memory session registry with idle expiry. The store lock
// guards the map only; each session serializes its own work.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store whose sessions expire after ttl without use.
// A non-positive ttl disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{sessions: make(map[string]*Session), ttl: ttl, now: time.Now}
}

// Create starts a session for projectID with a fresh workflow.
func (st *Store) Create(projectID string) Snapshot {
	now := st.now()
	s := &Session{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		CreatedAt: now,
		ctrl:      workflow.NewController(),
		lastSeen:  now,
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s.Snapshot()
}

// Get returns a snapshot of session id.
func (st *Store) Get(id string) (Snapshot, error) {
	var snap Snapshot
	err := st.With(id, func(s *Session) error {
		snap = s.Snapshot()
		return nil
	})
	return snap, err
}

// With runs fn with exclusive access to session id and marks it as used.
func (st *Store) With(id string, fn func(*Session) error) error {
	s, err := st.lookup(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = st.now()
	return fn(s)
}

func (st *Store) lookup(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	if st.expired(s, st.now()) {
		delete(st.sessions, id)
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionExpired)
	}
	return s, nil
}

// expired reports whether s sat idle past the TTL. A session that is locked
// is in use and never expired.
func (st *Store) expired(s *Session, now time.Time) bool {
	if st.ttl <= 0 {
		return false
	}
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	return !s.busy && now.Sub(s.lastSeen) > st.ttl
}

// Delete removes session id.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	delete(st.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep evicts sessions idle longer than the TTL and returns how many went.
func (st *Store) Sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, s := range st.sessions {
		if st.expired(s, now) {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (st *Store) RunSweeper(ctx context.Context, interval time.Duration, log zerolog.Logger) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.Sweep(now); n > 0 {
				log.Info().Int("evicted", n).Int("live", st.Len()).Msg("session sweep")
			}
		}
	}
}
