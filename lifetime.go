package acorn

// Lifetime controls how many instances a descriptor produces per [Provider].
type Lifetime int

const (
	// Singleton descriptors are activated on first resolution and the
	// instance is reused for the rest of the owning provider's life.
	Singleton Lifetime = iota

	// Transient descriptors are activated again on every resolution and are
	// never cached.
	Transient
)

// String returns the human-readable name of the lifetime.
func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}
