package hints

import (
	"math/rand"
	"net/netip"
)

// Iterator yields a zone's addresses in ascending effective-priority order,
// randomizing the start position within each priority tier (spec.md §4.5).
// It is a caller-owned, restartable value; the zero value is a legal
// initial state once Zone is set via NewIterator.
type Iterator struct {
	zone string

	started  bool
	priority uint32 // current target priority tier
	p        int    // next random-walk position (unbounded, wraps via %count)
	end      int    // p stops advancing once it reaches this
}

// NewIterator returns an Iterator over zoneName. Equivalent to
// dns_hints_i_init plus setting the zone name.
func NewIterator(zoneName string) Iterator {
	return Iterator{zone: zoneName}
}

// Next returns the next address in t's hints for the iterator's zone, or
// ok=false once every entry at every priority tier has been visited once.
//
// Within a tier, entries are visited starting at a random index and
// wrapping around exactly once (each entry at that priority visited
// exactly once per tier pass); ties are therefore randomized across
// restarts but stable within a single sweep of a tier. Once a tier is
// exhausted, the target priority advances to the smallest effective
// priority strictly greater than the current one; entries sitting at
// priority 0 (penalized) are skipped until Update lazily restores them
// (spec.md §4.5). This direction — strictly ascending, terminating when no
// higher priority remains — is the corrected reading of the original
// iterator's priority-advance loop (spec.md §9).
func (it *Iterator) Next(t *Table) (netip.AddrPort, bool) {
	z := t.fetch(it.zone)
	if z == nil || z.count == 0 {
		return netip.AddrPort{}, false
	}

	if !it.started {
		min, ok := nextPriority(z, 1)
		if !ok {
			return netip.AddrPort{}, false
		}
		it.priority = min
		it.p = rand.Intn(z.count)
		it.end = it.p + z.count
		it.started = true
	}

	for {
		for it.p < it.end {
			j := it.p % z.count
			it.p++
			if z.addrs[j].effectivePriority.Load() == it.priority {
				return z.addrs[j].addr, true
			}
		}

		next, ok := nextPriority(z, it.priority+1)
		if !ok {
			return netip.AddrPort{}, false
		}
		it.priority = next
		it.p = rand.Intn(z.count)
		it.end = it.p + z.count
	}
}

// nextPriority returns the smallest effective priority >= floor present
// among z's addrs, or ok=false if none qualifies (every slot is either
// below floor or, at floor==1, currently penalized to 0).
func nextPriority(z *zone, floor uint32) (uint32, bool) {
	var (
		best  uint32
		found bool
	)
	for i := 0; i < z.count; i++ {
		pri := z.addrs[i].effectivePriority.Load()
		if pri < floor {
			continue
		}
		if !found || pri < best {
			best = pri
			found = true
		}
	}
	return best, found
}
