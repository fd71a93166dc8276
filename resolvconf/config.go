// Package resolvconf models a classic resolv.conf-style configuration: a
// typed Config plus a line-oriented loader (spec.md §4.4). Config values are
// shared, immutable-after-setup, and reference-counted (spec.md §5) via
// Ref.
package resolvconf

import (
	"net/netip"
	"time"
)

// Limits on the fixed-size fields, matching the "small, but the standard
// limit" constraints classic resolvers apply to resolv.conf.
const (
	MaxNameservers = 3
	MaxSearch      = 6
	MaxLookup      = 2
)

// LookupSource is one entry of the OpenBSD-style "lookup" directive.
type LookupSource byte

const (
	LookupFile LookupSource = 'f'
	LookupBind LookupSource = 'b'
)

// Options holds the "options" directive's recognized knobs (spec.md §4.4,
// plus the timeout/attempts/rotate options supplemented in SPEC_FULL.md
// §4.4 from the original resolver and from noisysockets-resolver's
// dnsconfig.Config).
type Options struct {
	EDNS0     bool
	NDots     uint8 // threshold dot-count to try the name as-is first; default 1
	Recursive bool
	Timeout   time.Duration // default 5s
	Attempts  int           // default 2
	Rotate    bool
}

// DefaultOptions returns the package's documented defaults.
func DefaultOptions() Options {
	return Options{
		NDots:    1,
		Timeout:  5 * time.Second,
		Attempts: 2,
	}
}

// Config is the typed, parsed form of a resolv.conf file.
type Config struct {
	Nameservers []netip.AddrPort
	Search      []string
	Lookup      []LookupSource
	Options     Options
	Interface   netip.AddrPort
}

// New returns a Config with DefaultOptions and no servers/search entries.
func New() *Config {
	return &Config{Options: DefaultOptions()}
}
