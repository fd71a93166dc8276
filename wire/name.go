package wire

import "strings"

// Wire-format constants (spec.md §3, §9).
const (
	MaxLabel       = 63  // longest single label, in bytes
	MaxName        = 255 // longest presentation name, including terminator
	MaxPointerHops = 127 // MAXPTRS: hard cap on consecutive compression jumps
	maxDictEntries = 16  // compression dictionary size (§3 Packet invariants)
)

const pointerFlag = 0xC0 // top two bits set: compression pointer
const pointerMask = 0x3F // low six bits of the first pointer byte

// nextLabel decodes the next label of a domain name starting at off within
// data[:end], transparently following any compression pointers that precede
// it. It mirrors dns_l_expand from the original restartable resolver: the
// hop counter is local to this call, so it effectively counts pointer hops
// since the previous real label (the original resets its nptrs counter after
// every successfully read label).
//
// A normal label returns its bytes, terminator=false, and next positioned
// just past the label. The zero-length root label returns label=nil,
// terminator=true. Reserved length-prefix bit patterns (01, 10) or a
// truncated buffer return ErrMalformed; exceeding MaxPointerHops consecutive
// pointer jumps returns ErrLoop.
func nextLabel(data []byte, end, off int) (label []byte, next int, terminator bool, err error) {
	hops := 0
	cur := off

	for {
		if cur < 0 || cur >= end {
			return nil, 0, false, ErrMalformed
		}

		b := data[cur]
		switch b >> 6 {
		case 0x00:
			length := int(b & 0x3f)
			cur++
			if length == 0 {
				return nil, cur, true, nil
			}
			if end-cur < length {
				return nil, 0, false, ErrMalformed
			}
			return data[cur : cur+length], cur + length, false, nil
		case 0x01, 0x02:
			return nil, 0, false, ErrMalformed
		default: // 0x03: compression pointer
			hops++
			if hops > MaxPointerHops {
				return nil, 0, false, ErrLoop
			}
			if end-cur < 2 {
				return nil, 0, false, ErrMalformed
			}
			cur = (int(b&pointerMask) << 8) | int(data[cur+1])
		}
	}
}

// Skip advances past a single on-wire name without copying it. It follows
// normal labels until either a zero label (returns the offset right after
// it) or a pointer (two bytes consumed, returns the offset right after the
// pointer). A pointer does not recurse: Skip returns the first offset after
// the pointer bytes themselves, never following it.
func Skip(data []byte, end, off int) int {
	src := off
	for src < end {
		b := data[src]
		switch b >> 6 {
		case 0x00:
			length := int(b & 0x3f)
			src++
			if length == 0 {
				return src
			}
			if end-src <= length {
				return end
			}
			src += length
		default:
			if end-src < 2 {
				return end
			}
			return src + 2
		}
	}
	return end
}

// Expand decodes the presentation form of the name at offset src in data
// (data[:end] is the valid region) into dst, returning the number of bytes
// the presentation name occupies, not including a terminating NUL. If dst is
// too small the copy is truncated but the full logical length is still
// counted and dst is always NUL-terminated (when it has any capacity at
// all). The empty (root) name expands to a single ".".
func Expand(dst []byte, data []byte, end, src int) (int, error) {
	n := 0
	cur := src

	for {
		label, next, terminator, err := nextLabel(data, end, cur)
		if err != nil {
			nulTerminate(dst, n)
			return 0, err
		}
		if terminator {
			if n == 0 {
				n += copyByte(dst, n, '.')
			}
			nulTerminate(dst, n)
			return n, nil
		}

		n += copyBytes(dst, n, label)
		n += copyByte(dst, n, '.')
		cur = next
	}
}

// ExpandString is a convenience wrapper around Expand that returns a Go
// string and uses a stack-local scratch buffer, avoiding a heap allocation
// for the intermediate byte form.
func ExpandString(data []byte, end, src int) (string, error) {
	var buf [MaxName + 1]byte
	n, err := Expand(buf[:], data, end, src)
	if err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}

func copyBytes(dst []byte, at int, src []byte) int {
	if at < len(dst) {
		copy(dst[at:], src)
	}
	return len(src)
}

func copyByte(dst []byte, at int, b byte) int {
	if at < len(dst) {
		dst[at] = b
	}
	return 1
}

func nulTerminate(dst []byte, n int) {
	if len(dst) == 0 {
		return
	}
	at := n
	if at >= len(dst) {
		at = len(dst) - 1
	}
	dst[at] = 0
}

// splitLabels splits a presentation name into its labels, trimming a single
// trailing anchoring dot. It does not allocate a slice of strings; it
// validates lengths as it goes.
func splitLabels(name string) ([]string, error) {
	name = strings.TrimSuffix(name, ".")
	if name == "" {
		return nil, nil
	}
	labels := strings.Split(name, ".")
	for _, l := range labels {
		if len(l) == 0 || len(l) > MaxLabel {
			return nil, ErrTooLong
		}
	}
	return labels, nil
}

// writeUncompressed writes name's labels into dst as (len,bytes) pairs
// terminated by a zero label, with no compression. It is the first pass of
// Compress.
func writeUncompressed(dst []byte, name string) (int, error) {
	labels, err := splitLabels(name)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, l := range labels {
		if n+1+len(l) > len(dst) {
			return 0, ErrTooLong
		}
		dst[n] = byte(len(l))
		copy(dst[n+1:], l)
		n += 1 + len(l)
	}
	if n+1 > len(dst) {
		return 0, ErrTooLong
	}
	dst[n] = 0
	n++

	if n > MaxName {
		return 0, ErrTooLong
	}
	return n, nil
}

// suffixesEqual walks two label chains in lock-step, following pointers
// transparently via nextLabel, and reports whether they are the same
// sequence of labels (ASCII case-insensitive) ending simultaneously at a
// terminator. matchEnd, if a match is found, is the absolute offset at which
// b's chain began (the would-be pointer target).
func suffixesEqual(a []byte, aEnd, aOff int, b []byte, bEnd, bOff int) bool {
	ax, bx := aOff, bOff

	for {
		alabel, anext, aterm, aerr := nextLabel(a, aEnd, ax)
		blabel, bnext, bterm, berr := nextLabel(b, bEnd, bx)
		if aerr != nil || berr != nil {
			return false
		}
		if aterm != bterm {
			return false
		}
		if aterm && bterm {
			return true
		}
		if !asciiEqualFold(alabel, blabel) {
			return false
		}
		ax, bx = anext, bnext
	}
}

func asciiEqualFold(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// Anchor ensures name ends with a trailing dot, appending one if missing.
func Anchor(name string) string {
	if name == "" {
		return "."
	}
	if strings.HasSuffix(name, ".") {
		return name
	}
	return name + "."
}

// Cleave returns the suffix of name after its first internal dot:
// "a.b.c." -> "b.c.", "a." -> "", "." -> "". Used to strip a local hostname
// down to its parent domain for a default search list.
func Cleave(name string) string {
	if name == "" {
		return ""
	}
	// Skip a single leading dot so cleaving "." yields "" rather than
	// panicking on an out-of-range search.
	search := name
	if search[0] == '.' {
		search = search[1:]
	}
	idx := strings.IndexByte(search, '.')
	if idx < 0 {
		return ""
	}
	rest := search[idx+1:]
	return rest
}
