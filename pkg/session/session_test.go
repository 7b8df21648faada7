package session

import (
	"context"
	"math"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/skinsuite/pkg/errors"
	"github.com/matzehuels/skinsuite/pkg/mesh"
	"github.com/matzehuels/skinsuite/pkg/observability"
	"github.com/matzehuels/skinsuite/pkg/weights"
)

// square is the 4-vertex example: 0-1-2-3-0 with "spine" on 0 and 1 only.
func square() *mesh.Mesh {
	m := mesh.New(4, []mesh.Edge{{0, 1}, {1, 2}, {2, 3}, {3, 0}})
	m.SetWeight(0, "spine", 0.5)
	m.SetWeight(1, "spine", 0.4)
	m.ActiveGroup = "spine"
	return m
}

func TestIslandSession(t *testing.T) {
	ctx := context.Background()
	m := square()

	s, err := NewIslands(ctx, m, "", time.Minute)
	if err != nil {
		t.Fatalf("NewIslands: %v", err)
	}
	if s.Group() != "spine" {
		t.Errorf("Group() = %q, want active group", s.Group())
	}
	if s.Info().Kind != KindIslands || s.Info().ID == "" {
		t.Errorf("Info() = %+v", s.Info())
	}
	if lo, hi := s.Range(); lo != DefaultIslandLower || hi != DefaultIslandUpper {
		t.Errorf("default range = (%v, %v)", lo, hi)
	}
	if n := len(s.Result().Islands); n != 1 {
		t.Fatalf("islands = %d, want 1", n)
	}

	sel, err := s.Update(ctx, 0.4, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(sel, []int{0, 1}) || !slices.Equal(m.Selected(), []int{0, 1}) {
		t.Errorf("selection = %v, mesh = %v", sel, m.Selected())
	}

	// the next update replaces, it never accumulates
	sel, err = s.Update(ctx, 0.45, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(sel) != 0 || m.SelectedCount() != 0 {
		t.Errorf("selection = %v, mesh = %v", sel, m.Selected())
	}

	if _, err := s.Update(ctx, math.NaN(), 1); !errors.Is(err, errors.ErrCodeInvalidRange) {
		t.Errorf("NaN limit: got %v", err)
	}
	s.Finish(ctx)
}

func TestIslandSessionPartitionIsMemoized(t *testing.T) {
	ctx := context.Background()
	m := square()
	s, err := NewIslands(ctx, m, "spine", 0)
	if err != nil {
		t.Fatal(err)
	}
	// weight changes after invoke do not affect the running session
	m.SetWeight(2, "spine", 0.9)
	sel, _ := s.Update(ctx, 0, 1)
	if !slices.Equal(sel, []int{0, 1}) {
		t.Errorf("selection = %v, want [0 1]", sel)
	}
}

func TestResolveGroupErrors(t *testing.T) {
	ctx := context.Background()
	m := square()
	m.ActiveGroup = ""

	if _, err := NewIslands(ctx, m, "", 0); !errors.Is(err, errors.ErrCodeInvalidGroup) {
		t.Errorf("no group: got %v", err)
	}
	if _, err := NewRange(ctx, m, "arm", 0); !errors.Is(err, errors.ErrCodeGroupNotFound) {
		t.Errorf("unknown group: got %v", err)
	}
}

func TestRangeSession(t *testing.T) {
	ctx := context.Background()
	m := square()
	s, err := NewRange(ctx, m, "spine", 0)
	if err != nil {
		t.Fatal(err)
	}
	if lo, hi := s.Range(); lo != 0 || hi != 1 {
		t.Errorf("default range = (%v, %v)", lo, hi)
	}

	tests := []struct {
		lower, upper float64
		want         []int
	}{
		{0, 1, []int{0, 1}},
		{0.4, 1, []int{0}},
		{0, 0.4, []int{1}},
		{-1, 0, []int{2, 3}},
	}
	for _, tt := range tests {
		sel, err := s.Update(ctx, tt.lower, tt.upper)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(sel, tt.want) {
			t.Errorf("Update(%v, %v) = %v, want %v", tt.lower, tt.upper, sel, tt.want)
		}
	}
	s.Finish(ctx)
}

func pasteMesh() *mesh.Mesh {
	m := mesh.New(3, nil)
	m.SetWeight(0, "arm", 1)
	m.SetWeight(1, "arm", 0.5)
	m.SetWeight(1, "hand", 0.5)
	m.SetWeight(2, "arm", 1)
	m.SetSelection([]int{0, 1})
	return m
}

func TestViewMeshDuringUpdates(t *testing.T) {
	ctx := context.Background()
	s, err := NewIslands(ctx, square(), "spine", 0)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 500 {
			upper := 0.1
			if i%2 == 0 {
				upper = 1
			}
			if _, err := s.Update(ctx, 0, upper); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for range 500 {
			_ = s.ViewMesh(func(m *mesh.Mesh) error {
				// updates replace the selection as a whole
				if sel := m.Selected(); len(sel) != 0 && !slices.Equal(sel, []int{0, 1}) {
					t.Errorf("torn selection %v", sel)
				}
				return nil
			})
		}
	}()
	wg.Wait()
}

func TestPasteSession(t *testing.T) {
	ctx := context.Background()
	m := pasteMesh()
	src := weights.Aggregated{"spine": 1}

	s, err := NewPaste(ctx, m, src, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(s.Indices(), []int{0, 1}) {
		t.Errorf("Indices() = %v", s.Indices())
	}
	if !m.HasGroup("spine") {
		t.Fatal("paste should declare missing groups")
	}
	if w, ok := m.Vertices[0].Groups["spine"]; !ok || w != 0 {
		t.Errorf("new group weight = %v, %v", w, ok)
	}
	if _, ok := m.Vertices[2].Groups["spine"]; ok {
		t.Error("unselected vertex must not receive the group")
	}

	if err := s.Update(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(ctx, 0.5); err != nil {
		t.Fatal(err)
	}
	// blends from the recorded weights, not from the previous update
	if got := m.Weight(0, "spine"); got != 0.5 {
		t.Errorf("spine on 0 = %v, want 0.5", got)
	}
	if got := m.Weight(0, "arm"); got != 1 {
		t.Errorf("arm on 0 = %v, groups outside the clipboard are untouched", got)
	}
	if s.Factor() != 0.5 {
		t.Errorf("Factor() = %v", s.Factor())
	}

	if err := s.Update(ctx, 1.5); !errors.Is(err, errors.ErrCodeInvalidRange) {
		t.Errorf("factor 1.5: got %v", err)
	}

	if err := s.Apply(ctx); err != nil {
		t.Fatal(err)
	}
	if got := m.TotalWeight(0); math.Abs(got-1) > 1e-12 {
		t.Errorf("total after apply = %v, want 1", got)
	}
	if got := m.Weight(0, "spine"); math.Abs(got-1.0/3) > 1e-12 {
		t.Errorf("spine after apply = %v, want 1/3", got)
	}
	if err := s.Update(ctx, 1); err == nil {
		t.Error("update after apply should fail")
	}
}

func TestPasteSessionCancel(t *testing.T) {
	ctx := context.Background()
	m := pasteMesh()
	s, err := NewPaste(ctx, m, weights.Aggregated{"arm": 0.25, "hand": 0.75}, 0)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Update(ctx, 1)
	if got := m.Weight(1, "hand"); got != 0.75 {
		t.Errorf("hand on 1 = %v", got)
	}
	s.Cancel(ctx)
	if m.Weight(1, "hand") != 0.5 || m.Weight(1, "arm") != 0.5 || m.Weight(0, "arm") != 1 {
		t.Errorf("weights not restored: %v %v", m.Vertices[0].Groups, m.Vertices[1].Groups)
	}
}

func TestPasteSessionEmpty(t *testing.T) {
	ctx := context.Background()
	m := pasteMesh()
	if _, err := NewPaste(ctx, m, weights.Aggregated{}, 0); !errors.Is(err, errors.ErrCodeEmptySelection) {
		t.Errorf("empty clipboard: got %v", err)
	}
	m.ClearSelection()
	if _, err := NewPaste(ctx, m, weights.Aggregated{"a": 1}, 0); !errors.Is(err, errors.ErrCodeEmptySelection) {
		t.Errorf("empty selection: got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	s, err := NewIslands(ctx, square(), "spine", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, s); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, s.Info().ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != Session(s) {
		t.Error("Get returned a different session")
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("missing: got %v", err)
	}

	if err := store.Delete(ctx, s.Info().ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, s.Info().ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("deleted: got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	s, _ := NewIslands(ctx, square(), "spine", time.Minute)
	s.info.ExpiresAt = time.Now().Add(-time.Second)
	_ = store.Set(ctx, s)

	live, _ := NewRange(ctx, square(), "spine", time.Minute)
	_ = store.Set(ctx, live)

	if err := store.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 1 {
		t.Errorf("Len() after cleanup = %d, want 1", store.Len())
	}
	if _, err := store.Get(ctx, s.Info().ID); !errors.Is(err, errors.ErrCodeSessionNotFound) {
		t.Errorf("expired: got %v", err)
	}
}

func TestMemoryStoreTouch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	s, _ := NewRange(ctx, square(), "spine", time.Minute)
	before := s.Info().ExpiresAt
	_ = store.Set(ctx, s)
	if _, err := store.Get(ctx, s.Info().ID); err != nil {
		t.Fatal(err)
	}
	if !s.Info().ExpiresAt.After(before) {
		t.Error("Get should extend the session lifetime")
	}
}

type countingHooks struct {
	observability.NoopSessionHooks
	started, updated, ended int
	applied                 []bool
}

func (c *countingHooks) OnSessionStart(context.Context, string, string)  { c.started++ }
func (c *countingHooks) OnSessionUpdate(context.Context, string, string) { c.updated++ }
func (c *countingHooks) OnSessionEnd(_ context.Context, _, _ string, applied bool) {
	c.ended++
	c.applied = append(c.applied, applied)
}

func TestSessionHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetSessionHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	s, _ := NewPaste(ctx, pasteMesh(), weights.Aggregated{"arm": 1}, 0)
	_ = s.Update(ctx, 0.2)
	_ = s.Update(ctx, 0.8)
	s.Cancel(ctx)
	s.Cancel(ctx)

	if hooks.started != 1 || hooks.updated != 2 || hooks.ended != 1 {
		t.Errorf("hooks = %+v", hooks)
	}
	if !slices.Equal(hooks.applied, []bool{false}) {
		t.Errorf("applied = %v", hooks.applied)
	}
}
