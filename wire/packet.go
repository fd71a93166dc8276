// Package wire implements the on-wire DNS message codec: domain-name
// compression/expansion, an append-only packet buffer with a compression
// dictionary, a restartable record iterator, and the A/AAAA/NS/CNAME/MX/TXT
// record registry. It is compatible with RFC 1035's wire format.
package wire

import (
	"encoding/binary"

	"resolvcore/internal/telemetry"
)

// Section identifies which of the four RFC 1035 record groupings a record
// belongs to.
type Section uint8

const (
	SectionQD Section = iota // question
	SectionAN                // answer
	SectionNS                // authority
	SectionAR                // additional
)

// headerSize is the fixed 12-byte DNS message header.
const headerSize = 12

// Packet is a mutable, append-only DNS message buffer. It tracks a write
// cursor (End) and a compression dictionary of offsets at which previously
// written names begin. The four header section counts are authoritative for
// how many records the buffer currently holds (spec.md §3 invariants).
type Packet struct {
	data  []byte
	end   int
	dict  [maxDictEntries]uint16
	ndict int
	tel   *telemetry.Counters
}

// SetTelemetry attaches a counters sink that Compress and Grep report to.
// It is optional; a nil (the default) disables reporting.
func (p *Packet) SetTelemetry(c *telemetry.Counters) { p.tel = c }

// NewPacket allocates a packet with the given capacity and a zeroed 12-byte
// header.
func NewPacket(capacity int) *Packet {
	if capacity < headerSize {
		capacity = headerSize
	}
	return &Packet{
		data: make([]byte, capacity),
		end:  headerSize,
	}
}

// ParsePacket wraps a received (or otherwise pre-built) wire-format message
// for parsing with ParseRR/Grep/Name. The returned packet has no spare
// capacity to Push into; use NewPacket for building messages.
func ParsePacket(data []byte) (*Packet, error) {
	if len(data) < headerSize {
		return nil, ErrMalformed
	}
	return &Packet{data: data, end: len(data)}, nil
}

// Bytes returns the packet's serialized contents, data[:End].
func (p *Packet) Bytes() []byte { return p.data[:p.end] }

// End returns the current write cursor.
func (p *Packet) End() int { return p.end }

// Cap returns the packet's total capacity.
func (p *Packet) Cap() int { return len(p.data) }

// Data exposes the full backing buffer (including unused capacity past End)
// for use by ParseRR/Grep/Expand, which take a packet's data and its valid
// length as separate arguments per spec.md §4.1/§4.2.
func (p *Packet) Data() []byte { return p.data }

// ID returns the header's query identifier.
func (p *Packet) ID() uint16 { return binary.BigEndian.Uint16(p.data[0:2]) }

// SetID sets the header's query identifier.
func (p *Packet) SetID(id uint16) { binary.BigEndian.PutUint16(p.data[0:2], id) }

// Flags returns the header's flags word (QR|Opcode|AA|TC|RD|RA|Z|RCODE).
func (p *Packet) Flags() uint16 { return binary.BigEndian.Uint16(p.data[2:4]) }

// SetFlags sets the header's flags word.
func (p *Packet) SetFlags(flags uint16) { binary.BigEndian.PutUint16(p.data[2:4], flags) }

// QDCount, ANCount, NSCount and ARCount return the header's four section
// counts. Their sum is, by invariant, the number of records between offset
// 12 and End.
func (p *Packet) QDCount() uint16 { return binary.BigEndian.Uint16(p.data[4:6]) }
func (p *Packet) ANCount() uint16 { return binary.BigEndian.Uint16(p.data[6:8]) }
func (p *Packet) NSCount() uint16 { return binary.BigEndian.Uint16(p.data[8:10]) }
func (p *Packet) ARCount() uint16 { return binary.BigEndian.Uint16(p.data[10:12]) }

func (p *Packet) countOffset(s Section) int {
	switch s {
	case SectionQD:
		return 4
	case SectionAN:
		return 6
	case SectionNS:
		return 8
	default:
		return 10
	}
}

func (p *Packet) incCount(s Section) {
	off := p.countOffset(s)
	n := binary.BigEndian.Uint16(p.data[off : off+2])
	binary.BigEndian.PutUint16(p.data[off:off+2], n+1)
}

// dictAdd registers offset as the start of a previously-written name, in the
// first free slot. If the dictionary is already full the offset is silently
// dropped (spec.md §4.2 Push).
func (p *Packet) dictAdd(offset int) {
	if p.ndict >= maxDictEntries {
		if p.tel != nil {
			p.tel.DictionaryFull.Inc()
		}
		return
	}
	p.dict[p.ndict] = uint16(offset)
	p.ndict++
}

// Compress encodes name into dst in wire-format labels, replacing the
// longest matching suffix already present in p's dictionary with a
// two-byte compression pointer. It implements spec.md §4.1's two-pass
// algorithm: an uncompressed first pass, then a dictionary scan in
// insertion order where the first full-suffix match wins.
func Compress(dst []byte, name string, p *Packet) (int, error) {
	n, err := writeUncompressed(dst, name)
	if err != nil {
		return 0, err
	}

	written := dst[:n]
	offset := 0
	for offset < n {
		length := int(written[offset])
		if length == 0 {
			break
		}

		if target, ok := p.findSuffixMatch(written, n, offset); ok {
			written[offset] = byte(pointerFlag | (target >> 8))
			written[offset+1] = byte(target)
			if p.tel != nil {
				p.tel.CompressionHits.Inc()
			}
			return offset + 2, nil
		}

		offset += 1 + length
	}

	return n, nil
}

// findSuffixMatch scans the dictionary, in insertion order, for an entry
// whose name is identical to the suffix of dst starting at offset.
func (p *Packet) findSuffixMatch(dst []byte, dstLen, offset int) (int, bool) {
	for i := 0; i < p.ndict; i++ {
		q := int(p.dict[i])
		if q >= p.end {
			continue // stale or out-of-range entry; invariant guard
		}
		if q > 0x3FFF {
			continue // wouldn't fit in a 14-bit pointer
		}
		if suffixesEqual(dst, dstLen, offset, p.data, p.end, q) {
			return q, true
		}
	}
	return 0, false
}

// pushName compresses and appends name at the current write cursor,
// registering its start offset in the dictionary.
func (p *Packet) pushName(name string) error {
	limit := len(p.data) - p.end
	if limit <= 0 {
		return ErrNoBufs
	}

	n, err := Compress(p.data[p.end:], name, p)
	if err != nil {
		return err
	}

	start := p.end
	p.dictAdd(start)
	p.end += n
	return nil
}

// Push appends a record to section, compressing dn against the packet's
// dictionary, and increments the section's header count. For SectionQD, ttl
// and rdata are ignored. On any failure the packet is left exactly as it was
// before the call (spec.md §4.2, §7).
func (p *Packet) Push(section Section, dn string, typ Type, class Class, ttl uint32, rdata RecordKind) error {
	saved := p.end

	if err := p.pushName(dn); err != nil {
		p.end = saved
		return err
	}

	if len(p.data)-p.end < 4 {
		p.end = saved
		return ErrNoBufs
	}
	binary.BigEndian.PutUint16(p.data[p.end:], uint16(typ))
	p.end += 2
	binary.BigEndian.PutUint16(p.data[p.end:], uint16(class))
	p.end += 2

	if section == SectionQD {
		p.incCount(section)
		return nil
	}

	if len(p.data)-p.end < 4 {
		p.end = saved
		return ErrNoBufs
	}
	binary.BigEndian.PutUint32(p.data[p.end:], ttl&0x7FFFFFFF)
	p.end += 4

	if err := p.pushRData(rdata, typ); err != nil {
		p.end = saved
		return err
	}

	p.incCount(section)
	return nil
}

// pushRData serializes rdata's wire form at the current cursor, preceded by
// its 2-byte length prefix, which for name-bearing types is computed after
// the name has been compressed into the packet (spec.md §4.3).
func (p *Packet) pushRData(rdata RecordKind, typ Type) error {
	if len(p.data)-p.end < 2 {
		return ErrNoBufs
	}
	lenOffset := p.end
	p.end += 2 // placeholder, patched below

	start := p.end
	if err := rdata.serialize(p); err != nil {
		return err
	}

	rdlen := p.end - start
	if rdlen > 0xFFFF {
		return ErrTooLong
	}
	binary.BigEndian.PutUint16(p.data[lenOffset:], uint16(rdlen))
	return nil
}
