package archive

import (
	"context"
	"sync"

	"github.com/yanqian/stroke-risk/internal/domain/assessment"
)

// Object is a stored archive entry.
type Object struct {
	Data     []byte
	MimeType string
}

// MemoryArchive keeps reports in memory. Useful for tests and local dev.
type MemoryArchive struct {
	mu      sync.RWMutex
	objects map[string]Object
}

// NewMemoryArchive constructs an empty archive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{objects: make(map[string]Object)}
}

// Put stores a copy of data under key.
func (a *MemoryArchive) Put(_ context.Context, key string, data []byte, mimeType string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[key] = Object{Data: append([]byte(nil), data...), MimeType: mimeType}
	return nil
}

// Object returns the entry stored under key.
func (a *MemoryArchive) Object(key string) (Object, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	obj, ok := a.objects[key]
	return obj, ok
}

// Keys lists every stored key.
func (a *MemoryArchive) Keys() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	keys := make([]string, 0, len(a.objects))
	for key := range a.objects {
		keys = append(keys, key)
	}
	return keys
}

// Discard drops every report.
type Discard struct{}

// Put implements assessment.Archive.
func (Discard) Put(context.Context, string, []byte, string) error { return nil }

var (
	_ assessment.Archive = (*MemoryArchive)(nil)
	_ assessment.Archive = Discard{}
)
