package hints_test

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resolvcore/hints"
	"resolvcore/internal/telemetry"
	"resolvcore/resolvconf"
)

func mustAddr(t *testing.T, s string) netip.AddrPort {
	t.Helper()
	a, err := netip.ParseAddrPort(s)
	require.NoError(t, err)
	return a
}

func TestInsertDistinctZonesAreBothRetrievable(t *testing.T) {
	// Regression test for the original's lossy `H->head = soa->next`
	// insertion: both zones must survive in the list, not just the first.
	ht := hints.New()
	ht.Insert(".", mustAddr(t, "1.1.1.1:53"), 1)
	ht.Insert("corp.example.", mustAddr(t, "10.0.0.1:53"), 1)

	zones := ht.Snapshot()
	names := map[string]bool{}
	for _, z := range zones {
		names[z.Zone] = true
	}
	assert.True(t, names["."], "zone \".\" missing from snapshot")
	assert.True(t, names["corp.example."], "zone \"corp.example.\" missing from snapshot")
}

func TestInsertClampsPriorityToOne(t *testing.T) {
	ht := hints.New()
	ht.Insert(".", mustAddr(t, "1.1.1.1:53"), 0)

	snap := ht.Snapshot()
	require.Len(t, snap, 1)
	require.Len(t, snap[0].Addrs, 1)
	assert.EqualValues(t, 1, snap[0].Addrs[0].SavedPriority)
	assert.EqualValues(t, 1, snap[0].Addrs[0].EffectivePriority)
}

func TestInsertResolvConfNumbersPrioritiesInOrder(t *testing.T) {
	cfg := resolvconf.New()
	cfg.Nameservers = []netip.AddrPort{
		mustAddr(t, "8.8.8.8:53"),
		mustAddr(t, "1.1.1.1:53"),
	}

	ht := hints.New()
	n, err := ht.InsertResolvConf(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	snap := ht.Snapshot()
	require.Len(t, snap, 1)
	require.Len(t, snap[0].Addrs, 2)
	assert.EqualValues(t, 1, snap[0].Addrs[0].SavedPriority)
	assert.EqualValues(t, 2, snap[0].Addrs[1].SavedPriority)
}

func TestUpdateNegativeNicePenalizesEntry(t *testing.T) {
	ht := hints.New()
	addr := mustAddr(t, "1.1.1.1:53")
	ht.Insert(".", addr, 1)

	ht.Update(".", addr, -1)

	snap := ht.Snapshot()
	require.Len(t, snap[0].Addrs, 1)
	a := snap[0].Addrs[0]
	assert.EqualValues(t, 0, a.EffectivePriority)
	assert.EqualValues(t, 1, a.NLost)
	assert.Greater(t, a.PenaltyTTL, int64(0))
}

func TestUpdatePositiveNiceRestoresEntry(t *testing.T) {
	ht := hints.New()
	addr := mustAddr(t, "1.1.1.1:53")
	ht.Insert(".", addr, 5)

	ht.Update(".", addr, -1)
	ht.Update(".", addr, 1)

	snap := ht.Snapshot()
	a := snap[0].Addrs[0]
	assert.EqualValues(t, 5, a.EffectivePriority)
	assert.EqualValues(t, 0, a.NLost)
	assert.EqualValues(t, 0, a.PenaltyTTL)
}

func TestTelemetryCountsPenalizeAndRestore(t *testing.T) {
	counters := telemetry.New()
	ht := hints.New()
	ht.SetTelemetry(counters)
	addr := mustAddr(t, "1.1.1.1:53")
	ht.Insert(".", addr, 1)

	ht.Update(".", addr, -1)
	assert.EqualValues(t, 1, counters.HintsPenalized.Load())

	ht.Update(".", addr, 1)
	assert.EqualValues(t, 1, counters.HintsRestored.Load())
}

func TestUpdateOnUnknownZoneIsANoOp(t *testing.T) {
	ht := hints.New()
	assert.NotPanics(t, func() {
		ht.Update("nowhere.example.", mustAddr(t, "1.1.1.1:53"), -1)
	})
}
