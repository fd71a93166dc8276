// Package search implements the search-list candidate generator: a
// restartable state machine that turns a bare query name plus a resolv.conf
// configuration into a sequence of fully-qualified candidate names, driven
// by the "ndots" policy (spec.md §4.4).
package search

import (
	"strings"

	"resolvcore/resolvconf"
	"resolvcore/wire"
)

type phase uint8

const (
	phaseInitial phase = iota
	phaseSuffix
	phaseFinal
	phaseDone
)

// State is the caller-opaque token threaded through successive Next calls
// (spec.md §4.4, §6: "a caller-opaque 64-bit integer... the caller MUST NOT
// inspect or modify it between calls"). The zero value is the valid initial
// state.
type State struct {
	ph     phase
	srchi  uint8
	ndots  uint8
	tryAny bool // whether ndots >= options.NDots, decided once at phase 0
}

// Next returns the next candidate FQDN for qname given cfg, and the updated
// state to pass on the following call. ok is false once the phases are
// exhausted; the caller must stop calling at that point (spec.md §4.4:
// "returning zero means no more candidates").
//
// Phase 0 (only on the zero State): count qname's interior dots. If that
// count is >= cfg.Options.NDots, emit qname anchored as-is and move to
// phase 1; otherwise move directly to phase 1 without emitting.
// Phase 1: emit qname + "." + each search suffix in order, anchored.
// Phase 2: if the dot count was below NDots, emit qname anchored once more.
func Next(qname string, cfg *resolvconf.Config, state State) (string, State, bool) {
	switch state.ph {
	case phaseInitial:
		state.ndots = countDots(qname)
		state.tryAny = state.ndots >= cfg.Options.NDots
		state.ph = phaseSuffix
		if state.tryAny {
			return wire.Anchor(qname), state, true
		}
		return Next(qname, cfg, state)

	case phaseSuffix:
		if int(state.srchi) >= len(cfg.Search) {
			state.ph = phaseFinal
			return Next(qname, cfg, state)
		}
		suffix := cfg.Search[state.srchi]
		state.srchi++
		return wire.Anchor(qname + "." + suffix), state, true

	case phaseFinal:
		state.ph = phaseDone
		if !state.tryAny {
			return wire.Anchor(qname), state, true
		}
		return "", state, false

	default:
		return "", state, false
	}
}

func countDots(name string) uint8 {
	n := strings.Count(name, ".")
	if n > 255 {
		n = 255
	}
	return uint8(n)
}

// All drains Next to completion, for callers that don't need to interleave
// I/O between candidates (tests, simple callers). The core library itself
// never calls this — restartability is the point (spec.md §7).
func All(qname string, cfg *resolvconf.Config) []string {
	var out []string
	state := State{}
	for {
		cand, next, ok := Next(qname, cfg, state)
		if !ok {
			return out
		}
		out = append(out, cand)
		state = next
	}
}
