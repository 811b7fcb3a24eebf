// Package marc8 is a deliberately minimal stand-in for a MARC-8 codepage
// decoder. Full MARC-8 (ANSEL plus the escape-driven alternate graphic
// sets) is out of scope for this module — spec.md treats the codepage
// tables as an external collaborator exposing a single bytes-to-string
// operation, and this package is the drop-in satisfying that contract so
// the decoder can be hot-swapped for a complete implementation later.
package marc8

// escape is the MARC-8 ESC character that introduces a graphic-set
// switch. This decoder does not interpret the switched set; it treats
// escape sequences as zero-width so ASCII payloads round-trip exactly and
// non-ASCII payloads degrade gracefully instead of corrupting the byte
// stream.
const escape = 0x1b

// Decode converts a MARC-8 encoded byte slice to a Go string. Bytes below
// 0x80 pass through unchanged (MARC-8's basic Latin range matches ASCII).
// Escape sequences (ESC, intermediate bytes, final byte) are consumed and
// dropped rather than applied, since no alternate-graphic-set table is
// wired in here. Bytes at or above 0x80 are passed through as single
// Latin-1-style runes; a full decoder would map them through the ANSEL
// table instead.
func Decode(data []byte) (string, error) {
	out := make([]rune, 0, len(data))
	for i := 0; i < len(data); i++ {
		b := data[i]
		if b == escape {
			i += escapeSeqLen(data[i+1:])
			continue
		}
		out = append(out, rune(b))
	}
	return string(out), nil
}

// escapeSeqLen returns how many bytes after the ESC byte make up the rest
// of the escape sequence, per the MARC-8 technique/intermediate/final byte
// layout: 0x28/0x2C (G0) and 0x29/0x2D (G1) introduce a single-byte set
// switch followed by one final byte; 0x24 introduces a multi-byte set
// switch, optionally followed by a second intermediate (0x29/0x2C/0x2D),
// then a final byte. Any other byte is the final byte of a two-byte
// sequence.
func escapeSeqLen(rest []byte) int {
	if len(rest) == 0 {
		return 0
	}
	switch rest[0] {
	case 0x28, 0x29, 0x2C, 0x2D:
		if len(rest) > 1 {
			return 2
		}
		return 1
	case 0x24: // multi-byte (e.g. EACC) switches carry an extra intermediate byte
		if len(rest) > 2 && (rest[1] == 0x29 || rest[1] == 0x2C || rest[1] == 0x2D) {
			return 3
		}
		if len(rest) > 1 {
			return 2
		}
		return 1
	default:
		return 1
	}
}
