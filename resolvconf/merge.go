package resolvconf

import "dario.cat/mergo"

// MergeDefaults fills any zero-valued field of cfg from New()'s defaults,
// leaving fields the caller already populated untouched. It is meant for
// config assembled programmatically (tests, callers that skip Load
// entirely) rather than for the file loader, which already applies
// DefaultOptions up front.
func MergeDefaults(cfg *Config) error {
	return mergo.Merge(cfg, New())
}
