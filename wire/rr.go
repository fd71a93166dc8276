package wire

import (
	"encoding/binary"
	"fmt"
	"net"
	"strings"
)

// Type is a DNS record type (QTYPE/TYPE).
type Type uint16

// Registered record types (spec.md §4.3). Extension points for additional
// types are the RecordKind interface and the parseRDATA/kindOf switch below.
const (
	TypeA     Type = 1
	TypeNS    Type = 2
	TypeCNAME Type = 5
	TypeMX    Type = 15
	TypeTXT   Type = 16
	TypeAAAA  Type = 28
	TypeANY   Type = 255
)

// Class is a DNS record class. Only IN is meaningful to this package
// (spec.md §1 Non-goals: "anything beyond class IN").
type Class uint16

const (
	ClassIN  Class = 1
	ClassANY Class = 255
)

func (t Type) String() string {
	switch t {
	case TypeA:
		return "A"
	case TypeNS:
		return "NS"
	case TypeCNAME:
		return "CNAME"
	case TypeMX:
		return "MX"
	case TypeTXT:
		return "TXT"
	case TypeAAAA:
		return "AAAA"
	case TypeANY:
		return "ANY"
	default:
		return fmt.Sprintf("TYPE%d", uint16(t))
	}
}

// RecordKind is the sum type over known record payloads plus an opaque-bytes
// fallback (spec.md §3 Any-RR, §9 "Tagged variants replace the function-
// pointer RR table"). Every registered type and the opaque fallback
// implement it.
type RecordKind interface {
	// Type reports the wire type this payload serializes as.
	Type() Type
	// Print renders the payload the way dig/host would.
	Print() string
	// serialize writes the RDATA wire form (not including the 2-byte
	// rdlength prefix, which Packet.pushRData computes afterwards) at the
	// packet's current cursor, advancing it.
	serialize(p *Packet) error
}

// --- A ---------------------------------------------------------------

// ARecord is a 4-octet IPv4 address (spec.md §4.3 table).
type ARecord struct{ Addr [4]byte }

func NewARecord(ip net.IP) (ARecord, error) {
	v4 := ip.To4()
	if v4 == nil {
		return ARecord{}, fmt.Errorf("wire: %v is not an IPv4 address", ip)
	}
	var r ARecord
	copy(r.Addr[:], v4)
	return r, nil
}

func (r ARecord) Type() Type    { return TypeA }
func (r ARecord) Print() string { return net.IP(r.Addr[:]).String() }
func (r ARecord) serialize(p *Packet) error {
	if len(p.data)-p.end < 4 {
		return ErrNoBufs
	}
	copy(p.data[p.end:p.end+4], r.Addr[:])
	p.end += 4
	return nil
}

func parseA(rdata []byte) (ARecord, error) {
	if len(rdata) != 4 {
		return ARecord{}, ErrMalformed
	}
	var r ARecord
	copy(r.Addr[:], rdata)
	return r, nil
}

// --- AAAA --------------------------------------------------------------

// AAAARecord is a 16-octet IPv6 address.
type AAAARecord struct{ Addr [16]byte }

func NewAAAARecord(ip net.IP) (AAAARecord, error) {
	v6 := ip.To16()
	if v6 == nil {
		return AAAARecord{}, fmt.Errorf("wire: %v is not an IPv6 address", ip)
	}
	var r AAAARecord
	copy(r.Addr[:], v6)
	return r, nil
}

func (r AAAARecord) Type() Type    { return TypeAAAA }
func (r AAAARecord) Print() string { return net.IP(r.Addr[:]).String() }
func (r AAAARecord) serialize(p *Packet) error {
	if len(p.data)-p.end < 16 {
		return ErrNoBufs
	}
	copy(p.data[p.end:p.end+16], r.Addr[:])
	p.end += 16
	return nil
}

func parseAAAA(rdata []byte) (AAAARecord, error) {
	if len(rdata) != 16 {
		return AAAARecord{}, ErrMalformed
	}
	var r AAAARecord
	copy(r.Addr[:], rdata)
	return r, nil
}

// --- NS / CNAME ----------------------------------------------------------

// NSRecord names an authoritative server for a zone.
type NSRecord struct{ Host string }

func (r NSRecord) Type() Type                { return TypeNS }
func (r NSRecord) Print() string             { return r.Host }
func (r NSRecord) serialize(p *Packet) error { return p.pushName(r.Host) }

// CNAMERecord is a canonical-name alias.
type CNAMERecord struct{ Host string }

func (r CNAMERecord) Type() Type                { return TypeCNAME }
func (r CNAMERecord) Print() string             { return r.Host }
func (r CNAMERecord) serialize(p *Packet) error { return p.pushName(r.Host) }

func parseName(p *Packet, rdOffset int) (string, error) {
	return ExpandString(p.data, p.end, rdOffset)
}

// --- MX --------------------------------------------------------------

// MXRecord is a mail-exchange preference and host.
type MXRecord struct {
	Preference uint16
	Host       string
}

func (r MXRecord) Type() Type    { return TypeMX }
func (r MXRecord) Print() string { return fmt.Sprintf("%d %s", r.Preference, r.Host) }
func (r MXRecord) serialize(p *Packet) error {
	if len(p.data)-p.end < 2 {
		return ErrNoBufs
	}
	binary.BigEndian.PutUint16(p.data[p.end:], r.Preference)
	p.end += 2
	return p.pushName(r.Host)
}

func parseMX(p *Packet, rdOffset int, rdLen int) (MXRecord, error) {
	if rdLen < 3 {
		return MXRecord{}, ErrMalformed
	}
	pref := binary.BigEndian.Uint16(p.data[rdOffset:])
	host, err := parseName(p, rdOffset+2)
	if err != nil {
		return MXRecord{}, err
	}
	return MXRecord{Preference: pref, Host: host}, nil
}

// --- TXT --------------------------------------------------------------

// TXTRecord is the concatenation of one or more length-prefixed character
// strings (spec.md §4.3). Text holds the concatenated bytes.
type TXTRecord struct{ Text []byte }

func (r TXTRecord) Type() Type { return TypeTXT }

// Print renders TXT the way dig does: a double-quoted, backslash-escaped
// string, re-chunked at the 255-byte wire limit for a character-string
// (corrected from the distilled spec's "256"; see SPEC_FULL.md §4.3).
func (r TXTRecord) Print() string {
	var b strings.Builder
	for off := 0; off < len(r.Text); off += 255 {
		end := off + 255
		if end > len(r.Text) {
			end = len(r.Text)
		}
		if off > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('"')
		for _, c := range r.Text[off:end] {
			if c == '"' || c == '\\' {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		}
		b.WriteByte('"')
	}
	if len(r.Text) == 0 {
		return `""`
	}
	return b.String()
}

func (r TXTRecord) serialize(p *Packet) error {
	rest := r.Text
	for {
		chunk := rest
		if len(chunk) > 255 {
			chunk = chunk[:255]
		}
		if len(p.data)-p.end < 1+len(chunk) {
			return ErrNoBufs
		}
		p.data[p.end] = byte(len(chunk))
		p.end++
		copy(p.data[p.end:], chunk)
		p.end += len(chunk)
		rest = rest[len(chunk):]
		if len(rest) == 0 {
			return nil
		}
	}
}

func parseTXT(rdata []byte) (TXTRecord, error) {
	var out []byte
	i := 0
	for i < len(rdata) {
		n := int(rdata[i])
		i++
		if i+n > len(rdata) {
			return TXTRecord{}, ErrMalformed
		}
		out = append(out, rdata[i:i+n]...)
		i += n
	}
	return TXTRecord{Text: out}, nil
}

// --- Opaque ------------------------------------------------------------

// OpaqueRecord preserves an unrecognized record type's RDATA verbatim,
// round-tripping it without interpretation (spec.md §4.3, §7).
type OpaqueRecord struct {
	RRType Type
	Data   []byte
}

func (r OpaqueRecord) Type() Type    { return r.RRType }
func (r OpaqueRecord) Print() string { return fmt.Sprintf("\\# %d %x", len(r.Data), r.Data) }
func (r OpaqueRecord) serialize(p *Packet) error {
	if len(p.data)-p.end < len(r.Data) {
		return ErrNoBufs
	}
	copy(p.data[p.end:], r.Data)
	p.end += len(r.Data)
	return nil
}

// parseRDATA builds the RecordKind for typ from the RDATA region
// [rdOffset, rdOffset+rdLen) of p, falling back to OpaqueRecord for any type
// not in the registry table (spec.md §4.3, §7: "Unrecognized RR types are
// preserved opaquely rather than dropped").
func parseRDATA(p *Packet, typ Type, rdOffset, rdLen int) (RecordKind, error) {
	rdata := p.data[rdOffset : rdOffset+rdLen]

	switch typ {
	case TypeA:
		return parseA(rdata)
	case TypeAAAA:
		return parseAAAA(rdata)
	case TypeNS:
		host, err := parseName(p, rdOffset)
		if err != nil {
			return nil, err
		}
		return NSRecord{Host: host}, nil
	case TypeCNAME:
		host, err := parseName(p, rdOffset)
		if err != nil {
			return nil, err
		}
		return CNAMERecord{Host: host}, nil
	case TypeMX:
		return parseMX(p, rdOffset, rdLen)
	case TypeTXT:
		return parseTXT(rdata)
	default:
		data := make([]byte, rdLen)
		copy(data, rdata)
		return OpaqueRecord{RRType: typ, Data: data}, nil
	}
}
