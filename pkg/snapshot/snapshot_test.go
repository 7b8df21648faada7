package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/skinsuite/pkg/errors"
	"github.com/matzehuels/skinsuite/pkg/observability"
)

func newFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFileStore(
		filepath.Join(dir, "nested", "saved_selection.json"),
		filepath.Join(dir, "nested", "clipboard.json"),
	)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"file": func(t *testing.T) Store {
			s, _ := newFileStore(t)
			return s
		},
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
	}

	for name, mk := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := mk(t)

			if _, err := s.LoadSelection(ctx); !errors.Is(err, errors.ErrCodeIO) {
				t.Fatalf("LoadSelection before save: got %v, want IO_FAULT", err)
			}
			if _, err := s.LoadWeights(ctx); !errors.Is(err, errors.ErrCodeIO) {
				t.Fatalf("LoadWeights before save: got %v, want IO_FAULT", err)
			}

			if err := s.SaveSelection(ctx, []int{4, 0, 17}); err != nil {
				t.Fatalf("SaveSelection: %v", err)
			}
			sel, err := s.LoadSelection(ctx)
			if err != nil {
				t.Fatalf("LoadSelection: %v", err)
			}
			if !slices.Equal(sel, []int{4, 0, 17}) {
				t.Errorf("selection = %v", sel)
			}

			want := map[string]float64{"spine": 0.625, "chest": 0.375}
			if err := s.SaveWeights(ctx, want); err != nil {
				t.Fatalf("SaveWeights: %v", err)
			}
			got, err := s.LoadWeights(ctx)
			if err != nil {
				t.Fatalf("LoadWeights: %v", err)
			}
			if len(got) != 2 || got["spine"] != 0.625 || got["chest"] != 0.375 {
				t.Errorf("weights = %v", got)
			}

			// overwrite
			if err := s.SaveSelection(ctx, nil); err != nil {
				t.Fatalf("SaveSelection(nil): %v", err)
			}
			sel, err = s.LoadSelection(ctx)
			if err != nil {
				t.Fatalf("LoadSelection: %v", err)
			}
			if len(sel) != 0 {
				t.Errorf("selection after overwrite = %v", sel)
			}
		})
	}
}

func TestFileStoreFormat(t *testing.T) {
	ctx := context.Background()
	s, _ := newFileStore(t)

	if err := s.SaveSelection(ctx, []int{1, 2}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(s.Location(KindSelection))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[\n  1,\n  2\n]" {
		t.Errorf("selection file = %q", data)
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	ctx := context.Background()
	s, _ := newFileStore(t)

	if err := os.WriteFile(s.Location(KindClipboard), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := s.LoadWeights(ctx)
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Fatalf("got %v, want IO_FAULT", err)
	}

	if err := os.WriteFile(s.Location(KindClipboard), []byte("null"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadWeights(ctx); !errors.Is(err, errors.ErrCodeIO) {
		t.Fatalf("null clipboard: got %v, want IO_FAULT", err)
	}
}

func TestNewFileStoreEmptyPath(t *testing.T) {
	if _, err := NewFileStore("", filepath.Join(t.TempDir(), "c.json")); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestMemoryStoreCopiesData(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	in := []int{1, 2, 3}
	if err := s.SaveSelection(ctx, in); err != nil {
		t.Fatal(err)
	}
	in[0] = 99
	out, _ := s.LoadSelection(ctx)
	if out[0] != 1 {
		t.Errorf("stored selection changed through caller slice: %v", out)
	}
}

type recordingHooks struct {
	observability.NoopSnapshotHooks
	saves, loads []string
	failed       int
}

func (r *recordingHooks) OnSave(_ context.Context, kind string, _ int, err error) {
	r.saves = append(r.saves, kind)
	if err != nil {
		r.failed++
	}
}

func (r *recordingHooks) OnLoad(_ context.Context, kind string, _ int, err error) {
	r.loads = append(r.loads, kind)
	if err != nil {
		r.failed++
	}
}

func TestSnapshotHooks(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetSnapshotHooks(rec)
	defer observability.Reset()

	ctx := context.Background()
	s := NewMemoryStore()
	_, _ = s.LoadWeights(ctx)
	_ = s.SaveWeights(ctx, map[string]float64{"a": 1})
	_, _ = s.LoadWeights(ctx)

	if !slices.Equal(rec.saves, []string{"clipboard"}) {
		t.Errorf("saves = %v", rec.saves)
	}
	if !slices.Equal(rec.loads, []string{"clipboard", "clipboard"}) {
		t.Errorf("loads = %v", rec.loads)
	}
	if rec.failed != 1 {
		t.Errorf("failed = %d, want 1", rec.failed)
	}
}
