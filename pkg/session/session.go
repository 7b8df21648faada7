// Package session holds the state of interactive weight operations between
// the moment they are invoked and the moment they are applied.
//
// An interactive operation (island range select, vertex range select, paste)
// does its expensive or irreversible work once when invoked and is then
// updated many times from a slider. The session object carries what the
// updates need:
//   - [IslandSession]: the island partition, computed once per invoke
//   - [RangeSession]: the weight group being thresholded
//   - [PasteSession]: the pre-paste weights of the selected vertices
//
// Every session owns the mesh it edits. Updates lock the session, and
// ViewMesh reads the mesh under the same lock, so one session may be driven
// from several goroutines (the HTTP server does this).
//
// # Usage
//
//	sess, err := session.NewIslands(ctx, m, "spine", session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	sel, err := sess.Update(ctx, 0.0, 0.1) // replaces the selection of m
//
// Sessions that must outlive a single call are kept in a [Store].
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/skinsuite/pkg/mesh"
	"github.com/matzehuels/skinsuite/pkg/observability"
)

// Kind identifies the interactive operation a session belongs to.
type Kind string

const (
	KindIslands Kind = "islands"
	KindRange   Kind = "range"
	KindPaste   Kind = "paste"
)

// DefaultTTL is how long an idle session lives in a [Store].
const DefaultTTL = 30 * time.Minute

// Default slider positions.
const (
	DefaultIslandLower = 0.0
	DefaultIslandUpper = 0.1
	DefaultRangeLower  = 0.0
	DefaultRangeUpper  = 1.0
	DefaultFactor      = 1.0
)

// Session is implemented by all session types.
type Session interface {
	// Info returns the identity and lifetime of the session.
	Info() Info

	// Mesh returns the mesh the session edits. Reads through it are not
	// synchronized with updates; use ViewMesh when another goroutine may be
	// updating the session.
	Mesh() *mesh.Mesh

	// ViewMesh runs fn with the mesh while holding the session lock. fn must
	// not call back into the session.
	ViewMesh(fn func(*mesh.Mesh) error) error

	// Touch extends the session's lifetime by ttl from now.
	Touch(ttl time.Duration)
}

// Info describes a session.
type Info struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (i Info) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// base carries the fields common to every session.
type base struct {
	mu   sync.Mutex
	info Info
	mesh *mesh.Mesh
}

func (b *base) init(ctx context.Context, kind Kind, m *mesh.Mesh, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	b.info = Info{
		ID:        uuid.NewString(),
		Kind:      kind,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	b.mesh = m
	observability.Session().OnSessionStart(ctx, string(kind), b.info.ID)
}

func (b *base) Info() Info {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.info
}

func (b *base) Mesh() *mesh.Mesh { return b.mesh }

func (b *base) ViewMesh(fn func(*mesh.Mesh) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fn(b.mesh)
}

func (b *base) Touch(ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.info.ExpiresAt = time.Now().Add(ttl)
}

func (b *base) updated(ctx context.Context) {
	observability.Session().OnSessionUpdate(ctx, string(b.info.Kind), b.info.ID)
}

func (b *base) ended(ctx context.Context, applied bool) {
	observability.Session().OnSessionEnd(ctx, string(b.info.Kind), b.info.ID, applied)
}
