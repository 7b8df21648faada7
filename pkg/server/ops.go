package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/skinsuite/pkg/errors"
	"github.com/matzehuels/skinsuite/pkg/island"
	"github.com/matzehuels/skinsuite/pkg/mesh"
	"github.com/matzehuels/skinsuite/pkg/observability"
	"github.com/matzehuels/skinsuite/pkg/render"
	"github.com/matzehuels/skinsuite/pkg/selection"
	"github.com/matzehuels/skinsuite/pkg/snapshot"
	"github.com/matzehuels/skinsuite/pkg/weights"
)

type copyResponse struct {
	Weights weights.Aggregated `json:"weights"`
	Stored  string             `json:"stored"`
}

type editResponse struct {
	Changed int             `json:"changed"`
	Removed []string        `json:"removed,omitempty"`
	Mesh    json.RawMessage `json:"mesh"`
}

type transferRequest struct {
	Source       json.RawMessage `json:"source"`
	Target       json.RawMessage `json:"target"`
	SelectedOnly bool            `json:"selected_only,omitempty"`
	Additive     bool            `json:"additive,omitempty"`
}

func (s *Server) copyWeights(w http.ResponseWriter, r *http.Request) {
	var req meshRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := req.mesh()
	if err != nil {
		writeError(w, err)
		return
	}
	agg, err := weights.AggregateSelected(m, s.opts.MaxInfluence)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.snapshots.SaveWeights(r.Context(), agg); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, copyResponse{Weights: agg, Stored: s.snapshots.Location(snapshot.KindClipboard)})
}

func (s *Server) getClipboard(w http.ResponseWriter, r *http.Request) {
	agg, err := s.snapshots.LoadWeights(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, copyResponse{Weights: agg, Stored: s.snapshots.Location(snapshot.KindClipboard)})
}

// selectOp runs a selection operator on the posted mesh and answers with the
// new selection and the mesh carrying it.
func (s *Server) selectOp(w http.ResponseWriter, r *http.Request) {
	op := chi.URLParam(r, "op")
	var req meshRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := req.mesh()
	if err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()
	switch op {
	case "grow":
		m.SetSelection(selection.Grow(m.Adjacency(), m.Selected()))
	case "shrink":
		m.SetSelection(selection.Shrink(m.Adjacency(), m.Selected()))
	case "unnormalized":
		m.SetSelection(selection.Unnormalized(m))
	case "save":
		err = s.snapshots.SaveSelection(ctx, m.Selected())
	case "saved", "unsaved":
		var saved []int
		if saved, err = s.snapshots.LoadSelection(ctx); err == nil {
			m.Select(saved, op == "saved")
		}
	default:
		err = errors.New(errors.ErrCodeUnsupported, "unknown selection operation %q", op)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	sel := m.Selected()
	if sel == nil {
		sel = []int{}
	}
	observability.Analysis().OnSelect(ctx, op, len(sel))
	raw, err := encodeMesh(m)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, selectionResponse{Selected: sel, Mesh: raw})
}

// weightsOp runs a weight editing operator on the posted mesh.
func (s *Server) weightsOp(w http.ResponseWriter, r *http.Request) {
	op := chi.URLParam(r, "op")
	var req meshRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := req.mesh()
	if err != nil {
		writeError(w, err)
		return
	}

	var resp editResponse
	switch op {
	case "zero":
		group := req.Group
		if group == "" {
			group = m.ActiveGroup
		}
		resp.Changed, err = weights.ZeroGroup(m, group)
		if err == nil && resp.Changed == 0 {
			err = errors.New(errors.ErrCodeEmptySelection, "no vertices selected")
		}
	case "prune":
		resp.Removed = weights.PruneUnused(m, s.opts.PruneMargin)
		resp.Changed = len(resp.Removed)
	case "normalize":
		m.NormalizeAll()
		resp.Changed = m.Len()
	default:
		err = errors.New(errors.ErrCodeUnsupported, "unknown weights operation %q", op)
	}
	observability.Analysis().OnEdit(r.Context(), op, resp.Changed, err)
	if err != nil {
		writeError(w, err)
		return
	}
	if resp.Mesh, err = encodeMesh(m); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	src, err := meshRequest{Mesh: req.Source}.mesh()
	if err != nil {
		writeError(w, err)
		return
	}
	dst, err := meshRequest{Mesh: req.Target}.mesh()
	if err != nil {
		writeError(w, err)
		return
	}

	n := weights.Transfer(src, dst, weights.TransferOptions{
		SelectedOnly: req.SelectedOnly,
		Additive:     req.Additive,
	})
	dst.NormalizeAll()
	observability.Analysis().OnEdit(r.Context(), "transfer", n, nil)

	raw, err := encodeMesh(dst)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, editResponse{Changed: n, Mesh: raw})
}

// renderIslands answers with the island graph of the posted mesh as SVG, or as
// DOT source with ?format=dot.
func (s *Server) renderIslands(w http.ResponseWriter, r *http.Request) {
	var req meshRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := req.mesh()
	if err != nil {
		writeError(w, err)
		return
	}
	group := req.Group
	if group == "" {
		group = m.ActiveGroup
	}
	if !m.HasGroup(group) {
		writeError(w, errors.New(errors.ErrCodeGroupNotFound, "vertex group %q not found", group))
		return
	}

	dot := islandDOT(r, m, group)
	switch format := r.URL.Query().Get("format"); format {
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	case "", "svg":
		svg, err := render.RenderSVG(r.Context(), dot)
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		writeError(w, errors.New(errors.ErrCodeUnsupported, "unknown format %q (want svg or dot)", format))
	}
}

func islandDOT(r *http.Request, m *mesh.Mesh, group string) string {
	start := time.Now()
	res := island.Build(m.Adjacency(), m.Lookup(group))
	observability.Analysis().OnIslands(r.Context(), group, len(res.Weights), len(res.Islands), time.Since(start))
	return render.ToDOT(m, res, render.Options{
		Group:    group,
		Detailed: r.URL.Query().Get("detailed") == "true",
	})
}
