package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/skinsuite/pkg/buildinfo"
	"github.com/matzehuels/skinsuite/pkg/errors"
	"github.com/matzehuels/skinsuite/pkg/mesh"
	"github.com/matzehuels/skinsuite/pkg/session"
)

// maxBody caps request bodies.
const maxBody = 64 << 20

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorResponse{Code: code, Error: errors.UserMessage(err)})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGroup,
		errors.ErrCodeInvalidRange, errors.ErrCodeInvalidMesh:
		return http.StatusBadRequest
	case errors.ErrCodeEmptySelection:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeGroupNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeIO:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

// meshRequest is the body shared by every mesh-carrying endpoint.
type meshRequest struct {
	Mesh  json.RawMessage `json:"mesh"`
	Group string          `json:"group,omitempty"`
}

func (req meshRequest) mesh() (*mesh.Mesh, error) {
	if len(req.Mesh) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request has no mesh")
	}
	m, err := mesh.Read(bytes.NewReader(req.Mesh))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMesh, err, "read mesh")
	}
	return m, nil
}

// encodeMesh returns the mesh document of m for embedding in a response.
// encodeSessionMesh encodes the mesh of sess under the session lock.
func encodeSessionMesh(sess session.Session) (json.RawMessage, error) {
	var raw json.RawMessage
	err := sess.ViewMesh(func(m *mesh.Mesh) error {
		var err error
		raw, err = encodeMesh(m)
		return err
	})
	return raw, err
}

func encodeMesh(m *mesh.Mesh) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := mesh.Write(m, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode mesh")
	}
	return buf.Bytes(), nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger logs one line per request at debug level, or warn for
// server errors.
func requestLogger(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			kv := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"elapsed", time.Since(start).Round(time.Microsecond),
				"request_id", middleware.GetReqID(r.Context()),
			}
			if rec.status >= 500 {
				l.Warn("request failed", kv...)
				return
			}
			l.Debug("request", kv...)
		})
	}
}
