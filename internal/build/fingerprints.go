package build

import "sync"

// SkipEvaluator decides whether a document changed since its last render.
type SkipEvaluator interface {
	Unchanged(name, fingerprint string) bool
	Record(name, fingerprint string)
}

// FingerprintTracker remembers the fingerprint of the last successful
// render per document. Safe for concurrent use.
type FingerprintTracker struct {
	mu   sync.Mutex
	seen map[string]string
}

// NewFingerprintTracker creates an empty tracker.
func NewFingerprintTracker() *FingerprintTracker {
	return &FingerprintTracker{seen: make(map[string]string)}
}

// Unchanged reports whether fingerprint matches the recorded one.
func (t *FingerprintTracker) Unchanged(name, fingerprint string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev, ok := t.seen[name]
	return ok && prev == fingerprint
}

// Record stores fingerprint as the latest for name.
func (t *FingerprintTracker) Record(name, fingerprint string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen[name] = fingerprint
}

// Forget drops name, so its next render is never skipped.
func (t *FingerprintTracker) Forget(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.seen, name)
}
