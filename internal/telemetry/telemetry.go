// Package telemetry collects lightweight counters across the library:
// search-list candidates emitted, packet compression hits, hints penalty
// transitions, and malformed-record counts from Grep. It is adapted from
// the original project's request/response stats collector, narrowed to
// counters that make sense for a library with no query/response cycle of
// its own.
package telemetry

import "go.uber.org/atomic"

// Counters is a process-wide (or caller-scoped, if instantiated per
// resolver) set of monotonically increasing counts. All fields are safe
// for concurrent use.
type Counters struct {
	SearchCandidates atomic.Int64 // search.Next calls that returned a candidate
	CompressionHits  atomic.Int64 // wire.Compress calls that found a dictionary match
	DictionaryFull   atomic.Int64 // wire.Packet.dictAdd calls dropped for a full dictionary
	HintsPenalized   atomic.Int64 // hints.Table.Update calls with nice<0
	HintsRestored    atomic.Int64 // hints slots restored, lazily or via nice>0
	GrepMalformed    atomic.Int64 // wire.Grep calls that terminated on a malformed record
}

// New returns a zeroed Counters.
func New() *Counters { return &Counters{} }

// Snapshot is a point-in-time, JSON-friendly copy of Counters.
type Snapshot struct {
	SearchCandidates int64 `json:"search_candidates"`
	CompressionHits  int64 `json:"compression_hits"`
	DictionaryFull   int64 `json:"dictionary_full"`
	HintsPenalized   int64 `json:"hints_penalized"`
	HintsRestored    int64 `json:"hints_restored"`
	GrepMalformed    int64 `json:"grep_malformed"`
}

// Snapshot copies c's current values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		SearchCandidates: c.SearchCandidates.Load(),
		CompressionHits:  c.CompressionHits.Load(),
		DictionaryFull:   c.DictionaryFull.Load(),
		HintsPenalized:   c.HintsPenalized.Load(),
		HintsRestored:    c.HintsRestored.Load(),
		GrepMalformed:    c.GrepMalformed.Load(),
	}
}
