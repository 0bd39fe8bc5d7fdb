package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"slidecast/internal/domain"
	"slidecast/internal/workflow"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestStore(ttl time.Duration) (*Store, *clock) {
	c := &clock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	st := NewStore(ttl)
	st.now = c.Now
	return st, c
}

func TestCreateAndGet(t *testing.T) {
	st, _ := newTestStore(time.Hour)
	snap := st.Create("proj-1")
	if snap.ID == "" || snap.ProjectID != "proj-1" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.State.CurrentStep != workflow.StepImageSelection {
		t.Fatalf("fresh session on %s", snap.State.CurrentStep)
	}
	got, err := st.Get(snap.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != snap.ID {
		t.Fatalf("Get returned %s", got.ID)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	st, _ := newTestStore(time.Hour)
	a := st.Create("p")
	b := st.Create("p")
	err := st.With(a.ID, func(s *Session) error {
		s.Controller().GoToStep(workflow.StepVideoGeneration)
		s.AddTask("task-1")
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	gotB, _ := st.Get(b.ID)
	if gotB.State.CurrentStep != workflow.StepImageSelection || len(gotB.TaskIDs) != 0 {
		t.Fatalf("session b affected by a: %+v", gotB)
	}
	gotA, _ := st.Get(a.ID)
	if gotA.State.CurrentStep != workflow.StepVideoGeneration || len(gotA.TaskIDs) != 1 {
		t.Fatalf("session a lost its changes: %+v", gotA)
	}
}

func TestUnknownAndDeleted(t *testing.T) {
	st, _ := newTestStore(time.Hour)
	if _, err := st.Get("missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get(missing) err = %v", err)
	}
	snap := st.Create("p")
	if err := st.Delete(snap.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := st.Delete(snap.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second Delete err = %v", err)
	}
}

func TestExpiry(t *testing.T) {
	st, c := newTestStore(30 * time.Minute)
	idle := st.Create("p")
	busy := st.Create("p")

	c.Advance(20 * time.Minute)
	if _, err := st.Get(busy.ID); err != nil {
		t.Fatalf("touch busy: %v", err)
	}
	c.Advance(15 * time.Minute)

	if _, err := st.Get(idle.ID); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("idle session err = %v, want expired", err)
	}
	if _, err := st.Get(idle.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expired session should be gone, err = %v", err)
	}
	if _, err := st.Get(busy.ID); err != nil {
		t.Fatalf("busy session: %v", err)
	}
}

func TestGeneratingSessionOutlivesTTL(t *testing.T) {
	st, c := newTestStore(time.Minute)
	snap := st.Create("p")
	if err := st.With(snap.ID, func(s *Session) error {
		s.SetBusy(true)
		return nil
	}); err != nil {
		t.Fatalf("With: %v", err)
	}
	c.Advance(10 * time.Minute)
	if n := st.Sweep(c.Now()); n != 0 {
		t.Fatalf("Sweep evicted %d generating sessions", n)
	}
	got, err := st.Get(snap.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.State.IsGenerating {
		t.Fatal("busy session should show isGenerating")
	}
}

func TestSweep(t *testing.T) {
	st, c := newTestStore(time.Minute)
	st.Create("p")
	st.Create("p")
	keep := st.Create("p")
	c.Advance(50 * time.Second)
	_, _ = st.Get(keep.ID)
	c.Advance(20 * time.Second)

	if n := st.Sweep(c.Now()); n != 2 {
		t.Fatalf("Sweep evicted %d, want 2", n)
	}
	if st.Len() != 1 {
		t.Fatalf("Len = %d, want 1", st.Len())
	}
}

func TestNoTTLNeverExpires(t *testing.T) {
	st, c := newTestStore(0)
	snap := st.Create("p")
	c.Advance(1000 * time.Hour)
	if n := st.Sweep(c.Now()); n != 0 {
		t.Fatalf("Sweep evicted %d", n)
	}
	if _, err := st.Get(snap.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

func TestWithSerializesAccess(t *testing.T) {
	st, _ := newTestStore(time.Hour)
	snap := st.Create("p")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = st.With(snap.ID, func(s *Session) error {
				s.AddTask("t")
				return nil
			})
		}()
	}
	wg.Wait()
	got, _ := st.Get(snap.ID)
	if len(got.TaskIDs) != 50 {
		t.Fatalf("TaskIDs = %d, want 50", len(got.TaskIDs))
	}
}

func TestWithPropagatesError(t *testing.T) {
	st, _ := newTestStore(time.Hour)
	snap := st.Create("p")
	boom := errors.New("boom")
	if err := st.With(snap.ID, func(*Session) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunSweeperStops(t *testing.T) {
	st, _ := newTestStore(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		st.RunSweeper(ctx, time.Millisecond, zerolog.Nop())
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}
