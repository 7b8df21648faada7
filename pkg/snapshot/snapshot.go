// Package snapshot persists the two blobs skinsuite shares between
// operations: a saved vertex selection and the copied weight clipboard.
//
// Both are flat JSON documents without versioning. A selection is an array of
// vertex indices; the clipboard is an object mapping group name to weight:
//
//	[0, 4, 5, 17]
//	{"spine": 0.625, "chest": 0.375}
//
// # Backends
//
//   - [FileStore]: two JSON files at fixed paths (the default)
//   - [RedisStore]: two keys in Redis, for sharing a clipboard between machines
//   - [MemoryStore]: in-process storage for tests and the HTTP server
//
// Reading a snapshot that was never written, or that does not decode, is an
// IO_FAULT error. Nothing is recovered or defaulted.
package snapshot

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/skinsuite/pkg/errors"
	"github.com/matzehuels/skinsuite/pkg/observability"
)

// Kind names a snapshot slot.
type Kind string

const (
	// KindSelection is the saved vertex selection.
	KindSelection Kind = "selection"
	// KindClipboard is the copied weight distribution.
	KindClipboard Kind = "clipboard"
)

// Store is the interface for snapshot backends.
type Store interface {
	// SaveSelection overwrites the saved selection.
	SaveSelection(ctx context.Context, indices []int) error

	// LoadSelection returns the saved selection.
	LoadSelection(ctx context.Context) ([]int, error)

	// SaveWeights overwrites the weight clipboard.
	SaveWeights(ctx context.Context, weights map[string]float64) error

	// LoadWeights returns the weight clipboard.
	LoadWeights(ctx context.Context) (map[string]float64, error)

	// Location describes where a slot is stored, for user messages.
	Location(kind Kind) string

	// Close releases backend resources.
	Close() error
}

// blobStore is the byte-level half of a backend; codec turns it into a Store.
type blobStore interface {
	get(ctx context.Context, kind Kind) ([]byte, error)
	put(ctx context.Context, kind Kind, data []byte) error
	Location(kind Kind) string
	Close() error
}

type codec struct {
	blobStore
}

func (c codec) SaveSelection(ctx context.Context, indices []int) error {
	if indices == nil {
		indices = []int{}
	}
	data, err := json.MarshalIndent(indices, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode selection")
	}
	return c.save(ctx, KindSelection, data)
}

func (c codec) LoadSelection(ctx context.Context) ([]int, error) {
	var indices []int
	if err := c.load(ctx, KindSelection, &indices); err != nil {
		return nil, err
	}
	return indices, nil
}

func (c codec) SaveWeights(ctx context.Context, weights map[string]float64) error {
	if weights == nil {
		weights = map[string]float64{}
	}
	data, err := json.Marshal(weights)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode clipboard")
	}
	return c.save(ctx, KindClipboard, data)
}

func (c codec) LoadWeights(ctx context.Context) (map[string]float64, error) {
	var weights map[string]float64
	if err := c.load(ctx, KindClipboard, &weights); err != nil {
		return nil, err
	}
	if weights == nil {
		return nil, errors.New(errors.ErrCodeIO, "clipboard %s holds no weights", c.Location(KindClipboard))
	}
	return weights, nil
}

func (c codec) save(ctx context.Context, kind Kind, data []byte) error {
	err := c.put(ctx, kind, data)
	observability.Snapshot().OnSave(ctx, string(kind), len(data), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s to %s", kind, c.Location(kind))
	}
	return nil
}

func (c codec) load(ctx context.Context, kind Kind, v any) error {
	data, err := c.get(ctx, kind)
	observability.Snapshot().OnLoad(ctx, string(kind), len(data), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "read %s from %s", kind, c.Location(kind))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "decode %s from %s", kind, c.Location(kind))
	}
	return nil
}
