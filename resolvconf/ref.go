package resolvconf

import "resolvcore/internal/refcount"

// Ref is a shared, reference-counted Config (spec.md §5). Once published,
// a Config is never mutated in place; refresh by building a new Config and
// swapping the Ref a caller holds.
type Ref = refcount.Box[*Config]

// NewRef wraps cfg in a Ref with a starting count of one.
func NewRef(cfg *Config) *Ref {
	return refcount.New(cfg, nil)
}
