package wire

import "encoding/binary"

// RR is a parsed record descriptor: offsets and lengths into a packet, not
// the decoded payload itself (spec.md §3). Call Packet.DecodeRData to get
// the RecordKind, or Packet.Name to expand the owner name.
type RR struct {
	DNOffset int
	DNLen    int
	Type     Type
	Class    Class
	TTL      uint32
	RDOffset int
	RDLen    int
	Section  Section
}

// Name expands rr's owner name.
func (p *Packet) Name(rr RR) (string, error) {
	return ExpandString(p.data, p.end, rr.DNOffset)
}

// DecodeRData decodes rr's RDATA into a RecordKind, falling back to
// OpaqueRecord for unregistered types. It is a no-op for QD records, which
// carry no RDATA.
func (p *Packet) DecodeRData(rr RR) (RecordKind, error) {
	if rr.Section == SectionQD {
		return nil, nil
	}
	return parseRDATA(p, rr.Type, rr.RDOffset, rr.RDLen)
}

// ParseRR reads the record descriptor starting at offset within p, without
// decoding its RDATA. For QD entries TTL and RDOffset/RDLen are left zero
// (spec.md §3, §4.2).
func ParseRR(p *Packet, offset int) (RR, error) {
	if offset >= p.end {
		return RR{}, ErrMalformed
	}

	var rr RR
	rr.DNOffset = offset
	next := Skip(p.data, p.end, offset)
	rr.DNLen = next - offset

	if p.end-next < 4 {
		return RR{}, ErrMalformed
	}
	rr.Type = Type(binary.BigEndian.Uint16(p.data[next:]))
	rr.Class = Class(binary.BigEndian.Uint16(p.data[next+2:]))
	next += 4

	if offset == headerSize {
		// The very first record in a well-formed packet is always a
		// question; it carries no TTL/RDATA, matching dns_rr_parse's
		// `src == 12` special case in the original resolver.
		return rr, nil
	}

	if p.end-next < 4 {
		return RR{}, ErrMalformed
	}
	rr.TTL = binary.BigEndian.Uint32(p.data[next:]) & 0x7FFFFFFF
	next += 4

	if p.end-next < 2 {
		return RR{}, ErrMalformed
	}
	rdlen := int(binary.BigEndian.Uint16(p.data[next:]))
	next += 2

	if p.end-next < rdlen {
		return RR{}, ErrMalformed
	}
	rr.RDOffset = next
	rr.RDLen = rdlen

	return rr, nil
}

// rrLen computes the on-wire byte length of rr as already recorded (name +
// type/class[+ttl+rdlength+rdata]), used by Grep to advance past a record
// without re-parsing its name a second time.
func rrLen(rr RR) int {
	n := rr.DNLen + 4
	if rr.Section != SectionQD {
		n += 4 + 2 + rr.RDLen
	}
	return n
}

// SectionMask is a bitmask over Section values, used by Filter to select
// more than one section at once.
type SectionMask uint8

const (
	MaskQD SectionMask = 1 << SectionQD
	MaskAN SectionMask = 1 << SectionAN
	MaskNS SectionMask = 1 << SectionNS
	MaskAR SectionMask = 1 << SectionAR
)

func (s Section) mask() SectionMask { return 1 << uint(s) }

// Filter narrows Grep's scan. A zero Section mask, a zero Type, or a zero
// Class all mean "any" (matching the original resolver's dns_rr_i, where a
// zero filter field is a no-op); an empty Name means "no name filter".
type Filter struct {
	Section SectionMask
	Type    Type
	Class   Class
	Name    string // case-insensitive full-name match after expansion
}

// GrepState is the restartable iterator state for Grep: a section cursor,
// an index within that section, and the next byte offset to resume from
// (spec.md §4.2). The zero value starts at the beginning of the packet.
type GrepState struct {
	section Section
	index   int
	next    int
	started bool
}

// sectionCount returns how many records p's header claims for s.
func (p *Packet) sectionCount(s Section) int {
	switch s {
	case SectionQD:
		return int(p.QDCount())
	case SectionAN:
		return int(p.ANCount())
	case SectionNS:
		return int(p.NSCount())
	default:
		return int(p.ARCount())
	}
}

// Grep scans p for records matching filter, starting from (and updating)
// state, and returns up to lim matches. The caller resumes by passing the
// same state back in. A malformed record terminates the scan with an error,
// but state has already been advanced past it so a retry (after the caller
// decides how to handle the error) makes progress (spec.md §4.2, §7).
func Grep(p *Packet, filter Filter, lim int, state *GrepState) ([]RR, error) {
	if !state.started {
		state.next = headerSize
		state.section = SectionQD
		state.index = 0
		state.started = true
	}

	var out []RR

	for state.next < p.end {
		if state.index >= p.sectionCount(state.section) {
			if state.section == SectionAR {
				break
			}
			state.section++
			state.index = 0
			continue
		}

		rr, err := ParseRR(p, state.next)
		if err != nil {
			if p.tel != nil {
				p.tel.GrepMalformed.Inc()
			}
			return out, err
		}
		rr.Section = state.section

		state.next += rrLen(rr)
		state.index++

		if filter.Section != 0 && filter.Section&rr.Section.mask() == 0 {
			continue
		}
		if filter.Type != 0 && filter.Type != TypeANY && rr.Type != filter.Type {
			continue
		}
		if filter.Class != 0 && filter.Class != ClassANY && rr.Class != filter.Class {
			continue
		}
		if filter.Name != "" {
			name, err := p.Name(rr)
			if err != nil {
				return out, err
			}
			if !asciiEqualFoldString(name, filter.Name) {
				continue
			}
		}

		out = append(out, rr)
		if len(out) >= lim {
			return out, nil
		}
	}

	return out, nil
}

func asciiEqualFoldString(a, b string) bool {
	return asciiEqualFold([]byte(a), []byte(b))
}
