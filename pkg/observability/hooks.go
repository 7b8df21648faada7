// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks without depending on a
// concrete backend. Consumers register hooks once at startup:
//
//	func main() {
//	    observability.SetAnalysisHooks(&myAnalysisHooks{})
//	    observability.SetSnapshotHooks(&mySnapshotHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	res := island.Build(adj, lookup)
//	observability.Analysis().OnIslands(ctx, group, len(res.Weights), len(res.Islands), time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Analysis Hooks
// =============================================================================

// AnalysisHooks receives events from weight analysis and editing.
type AnalysisHooks interface {
	// OnIslands records an island partition of weighted vertices.
	OnIslands(ctx context.Context, group string, weighted, islands int, duration time.Duration)

	// OnSelect records a selection replacement by an operation.
	OnSelect(ctx context.Context, op string, selected int)

	// OnEdit records a weight edit touching the given number of vertices.
	OnEdit(ctx context.Context, op string, vertices int, err error)
}

// =============================================================================
// Snapshot Hooks
// =============================================================================

// SnapshotHooks receives events from snapshot stores.
type SnapshotHooks interface {
	// OnSave records a snapshot write.
	OnSave(ctx context.Context, kind string, size int, err error)

	// OnLoad records a snapshot read.
	OnLoad(ctx context.Context, kind string, size int, err error)
}

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from interactive sessions.
type SessionHooks interface {
	OnSessionStart(ctx context.Context, kind, id string)
	OnSessionUpdate(ctx context.Context, kind, id string)
	OnSessionEnd(ctx context.Context, kind, id string, applied bool)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAnalysisHooks is a no-op implementation of AnalysisHooks.
type NoopAnalysisHooks struct{}

func (NoopAnalysisHooks) OnIslands(context.Context, string, int, int, time.Duration) {}
func (NoopAnalysisHooks) OnSelect(context.Context, string, int)                      {}
func (NoopAnalysisHooks) OnEdit(context.Context, string, int, error)                 {}

// NoopSnapshotHooks is a no-op implementation of SnapshotHooks.
type NoopSnapshotHooks struct{}

func (NoopSnapshotHooks) OnSave(context.Context, string, int, error) {}
func (NoopSnapshotHooks) OnLoad(context.Context, string, int, error) {}

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnSessionStart(context.Context, string, string)     {}
func (NoopSessionHooks) OnSessionUpdate(context.Context, string, string)    {}
func (NoopSessionHooks) OnSessionEnd(context.Context, string, string, bool) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	analysisHooks AnalysisHooks = NoopAnalysisHooks{}
	snapshotHooks SnapshotHooks = NoopSnapshotHooks{}
	sessionHooks  SessionHooks  = NoopSessionHooks{}
	hooksMu       sync.RWMutex
)

// SetAnalysisHooks registers custom analysis hooks.
// This should be called once at application startup.
func SetAnalysisHooks(h AnalysisHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		analysisHooks = h
	}
}

// SetSnapshotHooks registers custom snapshot hooks.
// This should be called once at application startup.
func SetSnapshotHooks(h SnapshotHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		snapshotHooks = h
	}
}

// SetSessionHooks registers custom session hooks.
// This should be called once at application startup.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// Analysis returns the registered analysis hooks.
func Analysis() AnalysisHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return analysisHooks
}

// Snapshot returns the registered snapshot hooks.
func Snapshot() SnapshotHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return snapshotHooks
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	analysisHooks = NoopAnalysisHooks{}
	snapshotHooks = NoopSnapshotHooks{}
	sessionHooks = NoopSessionHooks{}
}
