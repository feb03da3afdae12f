// Package registry holds the single "latest artifact" slot shared by upload
// and retrieval requests.
package registry

import "sync/atomic"

// Registry is a single-slot cell holding the path of the most recently
// committed artifact. Swap is one atomic exchange, so a reader sees either the
// old path or the new one, never a partial update.
//
// A reader may still get a path whose file is deleted right after Swap
// returns it as the previous value. Callers serving the file must treat a
// missing file as "not found".
type Registry struct {
	latest atomic.Pointer[string]
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// Latest returns the current artifact path, if any.
func (r *Registry) Latest() (string, bool) {
	p := r.latest.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

// Swap stores path as the latest artifact and returns the one it replaced.
func (r *Registry) Swap(path string) (prev string, ok bool) {
	old := r.latest.Swap(&path)
	if old == nil {
		return "", false
	}
	return *old, true
}
