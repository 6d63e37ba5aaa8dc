// Package capability models an optional external collaborator that is either
// available or not, decided once at construction time.
package capability

// Capability wraps an implementation that may be absent. Call sites branch on
// Get: the Unavailable variant is the structural fallback path.
type Capability[T any] struct {
	impl   T
	ok     bool
	reason string
}

// Available returns a capability backed by impl
func Available[T any](impl T) Capability[T] {
	return Capability[T]{impl: impl, ok: true}
}

// Unavailable returns a capability that always selects the fallback
func Unavailable[T any](reason string) Capability[T] {
	return Capability[T]{reason: reason}
}

// Get returns the implementation and whether it is available
func (c Capability[T]) Get() (T, bool) {
	return c.impl, c.ok
}

// IsAvailable reports whether an implementation is present
func (c Capability[T]) IsAvailable() bool {
	return c.ok
}

// Reason explains why the capability is unavailable (empty when available)
func (c Capability[T]) Reason() string {
	if c.ok {
		return ""
	}
	if c.reason == "" {
		return "not configured"
	}
	return c.reason
}
