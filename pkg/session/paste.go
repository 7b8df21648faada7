package session

import (
	"context"
	"time"

	"github.com/matzehuels/skinsuite/pkg/errors"
	"github.com/matzehuels/skinsuite/pkg/mesh"
	"github.com/matzehuels/skinsuite/pkg/observability"
	"github.com/matzehuels/skinsuite/pkg/weights"
)

// PasteSession fades a copied weight distribution onto the selected vertices.
type PasteSession struct {
	base
	paste  *weights.Paste
	factor float64
	done   bool
}

// NewPaste records the weights of the selected vertices of m and prepares
// blending source onto them. Missing source groups are created on the
// selected vertices with weight 0. No blend is applied until [PasteSession.Update].
func NewPaste(ctx context.Context, m *mesh.Mesh, source weights.Aggregated, ttl time.Duration) (*PasteSession, error) {
	if len(source) == 0 {
		return nil, errors.New(errors.ErrCodeEmptySelection, "clipboard holds no weights")
	}
	if m.SelectedCount() == 0 {
		return nil, errors.New(errors.ErrCodeEmptySelection, "no vertices selected")
	}
	s := &PasteSession{paste: weights.NewPaste(m, source)}
	s.init(ctx, KindPaste, m, ttl)
	return s, nil
}

// Indices returns the vertices the paste affects.
func (s *PasteSession) Indices() []int { return s.paste.Indices() }

// Factor returns the blend factor of the last update.
func (s *PasteSession) Factor() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.factor
}

// Update re-blends from the recorded weights with factor t in [0,1].
func (s *PasteSession) Update(ctx context.Context, t float64) error {
	if err := errors.ValidateFactor(t); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return errors.New(errors.ErrCodeInvalidInput, "paste session %s already finished", s.info.ID)
	}
	s.factor = t
	s.paste.Apply(s.mesh, t)
	s.updated(ctx)
	return nil
}

// Apply keeps the current blend and normalizes every vertex of the mesh.
func (s *PasteSession) Apply(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return errors.New(errors.ErrCodeInvalidInput, "paste session %s already finished", s.info.ID)
	}
	s.done = true
	s.mesh.NormalizeAll()
	observability.Analysis().OnEdit(ctx, string(KindPaste), len(s.paste.Indices()), nil)
	s.ended(ctx, true)
	return nil
}

// Cancel restores the recorded weights. Groups created for the paste stay on
// the vertices with weight 0.
func (s *PasteSession) Cancel(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.done = true
	s.paste.Restore(s.mesh)
	s.ended(ctx, false)
}
