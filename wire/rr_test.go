package wire_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resolvcore/wire"
)

func TestTXTRoundTripsAndChunksAt255(t *testing.T) {
	text := bytes.Repeat([]byte("a"), 300)

	p := wire.NewPacket(1024)
	require.NoError(t, p.Push(wire.SectionQD, "example.com.", wire.TypeTXT, wire.ClassIN, 0, nil))
	require.NoError(t, p.Push(wire.SectionAN, "example.com.", wire.TypeTXT, wire.ClassIN, 0,
		wire.TXTRecord{Text: text}))

	var state wire.GrepState
	rrs, err := wire.Grep(p, wire.Filter{Section: wire.MaskAN}, 1, &state)
	require.NoError(t, err)
	require.Len(t, rrs, 1)

	// Two length-prefixed chunks (255 + 45) plus their length bytes.
	assert.Equal(t, 255+1+45+1, rrs[0].RDLen)

	rec, err := p.DecodeRData(rrs[0])
	require.NoError(t, err)
	txt, ok := rec.(wire.TXTRecord)
	require.True(t, ok)
	assert.Equal(t, text, txt.Text)
}

func TestEmptyTXTWritesOneZeroLengthChunk(t *testing.T) {
	p := wire.NewPacket(512)
	require.NoError(t, p.Push(wire.SectionQD, "example.com.", wire.TypeTXT, wire.ClassIN, 0, nil))
	require.NoError(t, p.Push(wire.SectionAN, "example.com.", wire.TypeTXT, wire.ClassIN, 0,
		wire.TXTRecord{}))

	var state wire.GrepState
	rrs, err := wire.Grep(p, wire.Filter{Section: wire.MaskAN}, 1, &state)
	require.NoError(t, err)
	require.Len(t, rrs, 1)
	assert.Equal(t, 1, rrs[0].RDLen)
}

func TestUnknownTypeRoundTripsOpaque(t *testing.T) {
	p := wire.NewPacket(512)
	require.NoError(t, p.Push(wire.SectionQD, "example.com.", wire.Type(999), wire.ClassIN, 0, nil))
	payload := wire.OpaqueRecord{RRType: wire.Type(999), Data: []byte{1, 2, 3, 4}}
	require.NoError(t, p.Push(wire.SectionAN, "example.com.", wire.Type(999), wire.ClassIN, 0, payload))

	var state wire.GrepState
	rrs, err := wire.Grep(p, wire.Filter{Section: wire.MaskAN}, 1, &state)
	require.NoError(t, err)
	require.Len(t, rrs, 1)

	rec, err := p.DecodeRData(rrs[0])
	require.NoError(t, err)
	opaque, ok := rec.(wire.OpaqueRecord)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4}, opaque.Data)
}
