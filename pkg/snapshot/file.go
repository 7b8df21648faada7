package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps each snapshot in its own JSON file.
type FileStore struct {
	codec
}

// NewFileStore creates a store writing the selection to selectionPath and the
// clipboard to clipboardPath. Parent directories are created when missing.
func NewFileStore(selectionPath, clipboardPath string) (*FileStore, error) {
	for _, p := range []string{selectionPath, clipboardPath} {
		if p == "" {
			return nil, fmt.Errorf("snapshot path must not be empty")
		}
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return nil, fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	return &FileStore{codec{&fileBlobs{
		paths: map[Kind]string{
			KindSelection: selectionPath,
			KindClipboard: clipboardPath,
		},
	}}}, nil
}

type fileBlobs struct {
	mu    sync.RWMutex
	paths map[Kind]string
}

func (f *fileBlobs) get(_ context.Context, kind Kind) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return os.ReadFile(f.paths[kind])
}

func (f *fileBlobs) put(_ context.Context, kind Kind, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return os.WriteFile(f.paths[kind], data, 0644)
}

func (f *fileBlobs) Location(kind Kind) string { return f.paths[kind] }

func (f *fileBlobs) Close() error { return nil }

var _ Store = (*FileStore)(nil)
