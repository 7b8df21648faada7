package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/skinsuite/pkg/errors"
	"github.com/matzehuels/skinsuite/pkg/island"
	"github.com/matzehuels/skinsuite/pkg/session"
	"github.com/matzehuels/skinsuite/pkg/weights"
)

type sessionResponse struct {
	session.Info
	Group   string           `json:"group,omitempty"`
	Islands []island.Summary `json:"islands,omitempty"`
	Indices []int            `json:"indices,omitempty"`
	Mesh    json.RawMessage  `json:"mesh,omitempty"`
}

type rangeRequest struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

type factorRequest struct {
	Factor float64 `json:"factor"`
}

type pasteRequest struct {
	Mesh json.RawMessage `json:"mesh"`
	// Weights overrides the stored clipboard when set.
	Weights weights.Aggregated `json:"weights,omitempty"`
}

type selectionResponse struct {
	Selected []int           `json:"selected"`
	Mesh     json.RawMessage `json:"mesh,omitempty"`
}

func (s *Server) createIslands(w http.ResponseWriter, r *http.Request) {
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
	sess, err := session.NewIslands(r.Context(), m, req.Group, s.opts.SessionTTL)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{
		Info:    sess.Info(),
		Group:   sess.Group(),
		Islands: sess.Result().Summarize(),
	})
}

func (s *Server) createRange(w http.ResponseWriter, r *http.Request) {
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
	sess, err := session.NewRange(r.Context(), m, req.Group, s.opts.SessionTTL)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Info: sess.Info(), Group: sess.Group()})
}

func (s *Server) updateIslands(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r, session.KindIslands)
	if !ok {
		return
	}
	var req rangeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sel, err := sess.(*session.IslandSession).Update(r.Context(), req.Lower, req.Upper)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, selectionResponse{Selected: sel})
}

func (s *Server) updateRange(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r, session.KindRange)
	if !ok {
		return
	}
	var req rangeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sel, err := sess.(*session.RangeSession).Update(r.Context(), req.Lower, req.Upper)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, selectionResponse{Selected: sel})
}

func (s *Server) createPaste(w http.ResponseWriter, r *http.Request) {
	var req pasteRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	m, err := meshRequest{Mesh: req.Mesh}.mesh()
	if err != nil {
		writeError(w, err)
		return
	}
	source := req.Weights
	if source == nil {
		source, err = s.snapshots.LoadWeights(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
	}
	sess, err := session.NewPaste(r.Context(), m, source, s.opts.SessionTTL)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Info: sess.Info(), Indices: sess.Indices()})
}

func (s *Server) updatePaste(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r, session.KindPaste)
	if !ok {
		return
	}
	var req factorRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := sess.(*session.PasteSession).Update(r.Context(), req.Factor); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) applyPaste(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r, session.KindPaste)
	if !ok {
		return
	}
	paste := sess.(*session.PasteSession)
	if err := paste.Apply(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	_ = s.sessions.Delete(r.Context(), paste.Info().ID)

	raw, err := encodeSessionMesh(paste)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Info: paste.Info(), Indices: paste.Indices(), Mesh: raw})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r, "")
	if !ok {
		return
	}
	raw, err := encodeSessionMesh(sess)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := sessionResponse{Info: sess.Info(), Mesh: raw}
	switch sess := sess.(type) {
	case *session.IslandSession:
		resp.Group = sess.Group()
		resp.Islands = sess.Result().Summarize()
	case *session.RangeSession:
		resp.Group = sess.Group()
	case *session.PasteSession:
		resp.Indices = sess.Indices()
	}
	writeJSON(w, http.StatusOK, resp)
}

// deleteSession ends a session. A paste session that was never applied is
// cancelled, restoring its mesh.
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r, "")
	if !ok {
		return
	}
	switch sess := sess.(type) {
	case *session.IslandSession:
		sess.Finish(r.Context())
	case *session.RangeSession:
		sess.Finish(r.Context())
	case *session.PasteSession:
		sess.Cancel(r.Context())
	}
	if err := s.sessions.Delete(r.Context(), sess.Info().ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lookup fetches the session named by the {id} route parameter and checks
// its kind. An empty kind accepts any session. On failure the error response
// is already written.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request, kind session.Kind) (session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	if kind != "" && sess.Info().Kind != kind {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "session %s is a %s session, not %s", id, sess.Info().Kind, kind))
		return nil, false
	}
	return sess, true
}
