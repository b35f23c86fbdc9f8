package imaging

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Registry maps opaque handle IDs to live handles so that a calling process
// can refer to images across requests.
//
// A handle stays registered until Release or Clear is called; the registry
// keeps it alive in the meantime. Registry is safe for concurrent use.
//
// # Example Usage
//
//	reg := imaging.NewRegistry()
//	h, err := imaging.Load("/path/to/photo.jpg")
//	if err != nil {
//	    return err
//	}
//	id := reg.Put(h)
//	// later requests...
//	h, err = reg.Get(id)
//	reg.Release(id)
type Registry struct {
	mu      sync.RWMutex
	handles map[string]*Handle
}

// ErrUnknownHandle is returned by Get for IDs that are not registered.
var ErrUnknownHandle = errors.New("unknown handle")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handles: make(map[string]*Handle),
	}
}

// Put registers h under a new random ID and returns the ID.
func (r *Registry) Put(h *Handle) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.handles[id] = h
	r.mu.Unlock()
	return id
}

// Get returns the handle registered under id.
func (r *Registry) Get(id string) (*Handle, error) {
	r.mu.RLock()
	h, ok := r.handles[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHandle, id)
	}
	return h, nil
}

// Release drops the handle registered under id. It reports whether the ID
// was registered.
func (r *Registry) Release(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handles[id]; !ok {
		return false
	}
	delete(r.handles, id)
	return true
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}

// Clear releases every handle.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.handles = make(map[string]*Handle)
	r.mu.Unlock()
}
