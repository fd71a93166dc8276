package wire_test

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resolvcore/internal/telemetry"
	"resolvcore/wire"
)

func TestPacketHeaderCountsRoundTrip(t *testing.T) {
	p := wire.NewPacket(512)
	p.SetID(0xBEEF)
	p.SetFlags(0x0100)

	require.NoError(t, p.Push(wire.SectionQD, "example.com.", wire.TypeA, wire.ClassIN, 0, nil))
	a, err := wire.NewARecord(net.ParseIP("93.184.216.34"))
	require.NoError(t, err)
	require.NoError(t, p.Push(wire.SectionAN, "example.com.", wire.TypeA, wire.ClassIN, 3600, a))

	assert.Equal(t, uint16(0xBEEF), p.ID())
	assert.Equal(t, uint16(0x0100), p.Flags())
	assert.Equal(t, uint16(1), p.QDCount())
	assert.Equal(t, uint16(1), p.ANCount())
	assert.Equal(t, uint16(0), p.NSCount())
	assert.Equal(t, uint16(0), p.ARCount())

	parsed, err := wire.ParsePacket(p.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint16(1), parsed.ANCount())
}

func TestPushRollsBackOnFailure(t *testing.T) {
	// A buffer sized to hold exactly the question, with no spare capacity
	// for the TTL/RDATA of an answer record.
	p := wire.NewPacket(12 + len("example.com.") + 2 + 1 + 1 + 4)
	require.NoError(t, p.Push(wire.SectionQD, "example.com.", wire.TypeA, wire.ClassIN, 0, nil))
	before := p.End()
	beforeAN := p.ANCount()

	a, err := wire.NewARecord(net.ParseIP("1.2.3.4"))
	require.NoError(t, err)
	err = p.Push(wire.SectionAN, "toolongtofitinthisbufferatall.example.com.", wire.TypeA, wire.ClassIN, 0, a)
	require.Error(t, err)

	assert.Equal(t, before, p.End(), "End must be restored on failure")
	assert.Equal(t, beforeAN, p.ANCount(), "ANCount must not be incremented on failure")
}

func TestTelemetryCountsCompressionHitsAndDictionaryFull(t *testing.T) {
	counters := telemetry.New()
	p := wire.NewPacket(512)
	p.SetTelemetry(counters)

	require.NoError(t, p.Push(wire.SectionQD, "example.com.", wire.TypeA, wire.ClassIN, 0, nil))
	require.NoError(t, p.Push(wire.SectionQD, "www.example.com.", wire.TypeA, wire.ClassIN, 0, nil))
	assert.EqualValues(t, 1, counters.CompressionHits.Load())

	big := wire.NewPacket(4096)
	big.SetTelemetry(counters)
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("distinct-%d.example.", i)
		require.NoError(t, big.Push(wire.SectionQD, name, wire.TypeA, wire.ClassIN, 0, nil))
	}
	assert.Greater(t, counters.DictionaryFull.Load(), int64(0))
}

func TestTTLTopBitMasked(t *testing.T) {
	p := wire.NewPacket(512)
	require.NoError(t, p.Push(wire.SectionQD, "example.com.", wire.TypeA, wire.ClassIN, 0, nil))

	a, err := wire.NewARecord(net.ParseIP("1.2.3.4"))
	require.NoError(t, err)
	require.NoError(t, p.Push(wire.SectionAN, "example.com.", wire.TypeA, wire.ClassIN, 0xFFFFFFFF, a))

	var state wire.GrepState
	rrs, err := wire.Grep(p, wire.Filter{Section: wire.MaskAN}, 1, &state)
	require.NoError(t, err)
	require.Len(t, rrs, 1)
	assert.Equal(t, uint32(0x7FFFFFFF), rrs[0].TTL)
}
