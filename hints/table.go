// Package hints implements the per-zone nameserver hints table: insertion,
// health-based reprioritization, and a randomized priority-ordered
// iterator (spec.md §4.5). It fixes the two defects spec.md §9 identifies
// in the original linked-list insertion and priority-advance logic.
package hints

import (
	"fmt"
	"net/netip"
	"strings"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"resolvcore/internal/refcount"
	"resolvcore/internal/telemetry"
	"resolvcore/resolvconf"
)

// MaxAddrs is the per-zone address capacity. Beyond it, inserting wraps
// around and overwrites slot count%MaxAddrs; count itself stops growing
// (spec.md §4.5).
const MaxAddrs = 16

type addrSlot struct {
	addr netip.AddrPort

	savedPriority     uint32 // written once at Insert, read-only afterward
	effectivePriority atomic.Uint32
	penaltyTTL        atomic.Int64
	nlost             atomic.Uint32
}

// zone is one node of the table's singly-linked zone list.
type zone struct {
	name  string
	addrs [MaxAddrs]addrSlot
	count int
	next  *zone
}

// Table holds every zone's hint list. The zone list itself is guarded by a
// mutex; per-address priority/ttl/nlost fields use relaxed atomics per
// spec.md §5, so Update may safely race with other Update calls on
// different (or even the same) entry without holding the zone-list lock.
type Table struct {
	clock *Clock
	tel   *telemetry.Counters

	mu   sync.Mutex
	head *zone
}

// New returns an empty Table.
func New() *Table {
	return &Table{clock: NewClock()}
}

// SetTelemetry attaches a counters sink that Update reports penalty and
// restore transitions to. It is optional; a nil (the default) disables
// reporting.
func (t *Table) SetTelemetry(c *telemetry.Counters) { t.tel = c }

// Ref is a shared, reference-counted Table, mirroring dns_hints_acquire/
// dns_hints_release (spec.md §5).
type Ref = refcount.Box[*Table]

// NewRef wraps t in a Ref with a starting count of one.
func NewRef(t *Table) *Ref {
	return refcount.New(t, nil)
}

func (t *Table) fetchLocked(zoneName string) *zone {
	for z := t.head; z != nil; z = z.next {
		if strings.EqualFold(z.name, zoneName) {
			return z
		}
	}
	return nil
}

// Insert creates or fetches zoneName's entry and records addr at priority
// (clamped to a minimum of 1), both as its saved and effective priority.
//
// New zone nodes link with `z.next = t.head; t.head = z`. The original
// resolver instead assigned `H->head = soa->next`, which — since soa->next
// had just been set to the old H->head — left H->head unchanged and
// silently dropped the new node from the list (spec.md §9, fixed here).
func (t *Table) Insert(zoneName string, addr netip.AddrPort, priority uint32) {
	if priority < 1 {
		priority = 1
	}

	t.mu.Lock()
	z := t.fetchLocked(zoneName)
	if z == nil {
		z = &zone{name: zoneName}
		z.next = t.head
		t.head = z
	}
	t.mu.Unlock()

	i := z.count % MaxAddrs
	z.addrs[i].addr = addr
	z.addrs[i].savedPriority = priority
	z.addrs[i].effectivePriority.Store(priority)
	z.addrs[i].penaltyTTL.Store(0)
	z.addrs[i].nlost.Store(0)

	if z.count < MaxAddrs {
		z.count++
	}
}

// InsertResolvConf inserts every nameserver in cfg into the "." zone,
// numbering priorities 1, 2, 3... in list order (mirroring
// dns_hints_insert_resconf). It always attempts every entry and combines
// per-entry failures with multierr rather than stopping at the first one,
// returning how many were inserted successfully.
func (t *Table) InsertResolvConf(cfg *resolvconf.Config) (int, error) {
	var (
		inserted int
		errs     error
	)

	for idx, ns := range cfg.Nameservers {
		if !ns.IsValid() {
			errs = multierr.Append(errs, fmt.Errorf("hints: nameserver %d is invalid", idx))
			continue
		}
		t.Insert(".", ns, uint32(idx+1))
		inserted++
	}

	return inserted, errs
}

// Update applies a health signal for addr in zoneName: nice<0 marks a
// failure (incrementing nlost, zeroing effective priority, and setting a
// penalty TTL of min(60, 3*nlost) seconds from now); nice>0 clears the
// penalty and restores the saved priority. Independently of addr, any
// entry whose penalty TTL has already elapsed is restored lazily
// (spec.md §4.5).
func (t *Table) Update(zoneName string, addr netip.AddrPort, nice int) {
	z := t.fetch(zoneName)
	if z == nil {
		return
	}

	now := t.clock.Now()

	for i := 0; i < z.count; i++ {
		slot := &z.addrs[i]

		if slot.addr == addr {
			switch {
			case nice < 0:
				nlost := slot.nlost.Inc()
				slot.effectivePriority.Store(0)
				ttl := int64(3 * nlost)
				if ttl > 60 {
					ttl = 60
				}
				slot.penaltyTTL.Store(now + ttl)
				if t.tel != nil {
					t.tel.HintsPenalized.Inc()
				}
			case nice > 0:
				t.resetSlot(slot)
			}
			continue
		}

		ttl := slot.penaltyTTL.Load()
		if ttl > 0 && ttl < now {
			t.resetSlot(slot)
		}
	}
}

func (t *Table) resetSlot(slot *addrSlot) {
	slot.effectivePriority.Store(slot.savedPriority)
	slot.penaltyTTL.Store(0)
	slot.nlost.Store(0)
	if t.tel != nil {
		t.tel.HintsRestored.Inc()
	}
}

func (t *Table) fetch(zoneName string) *zone {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fetchLocked(zoneName)
}

// ZoneSnapshot is a point-in-time, read-only copy of one zone's entries.
type ZoneSnapshot struct {
	Zone  string
	Addrs []AddrSnapshot
}

// AddrSnapshot is a point-in-time copy of one address slot's state.
type AddrSnapshot struct {
	Addr              netip.AddrPort
	SavedPriority     uint32
	EffectivePriority uint32
	PenaltyTTL        int64
	NLost             uint32
}

// Snapshot copies every zone's current entries, for diagnostics. It takes
// the zone-list lock but reads each address's atomics lock-free.
func (t *Table) Snapshot() []ZoneSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []ZoneSnapshot
	for z := t.head; z != nil; z = z.next {
		zs := ZoneSnapshot{Zone: z.name}
		for i := 0; i < z.count; i++ {
			a := &z.addrs[i]
			zs.Addrs = append(zs.Addrs, AddrSnapshot{
				Addr:              a.addr,
				SavedPriority:     a.savedPriority,
				EffectivePriority: a.effectivePriority.Load(),
				PenaltyTTL:        a.penaltyTTL.Load(),
				NLost:             a.nlost.Load(),
			})
		}
		out = append(out, zs)
	}
	return out
}
