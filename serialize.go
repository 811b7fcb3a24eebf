package marc

import (
	"fmt"
	"strings"
)

// Serialize re-encodes the Record as MARC-21 bytes: a fresh directory and
// data buffer are assembled from the current field order, lengths and
// offsets are computed from the assembled buffer (the same shape as the
// chun79 Z39.50 gateway's BuildMARC helper in the retrieval pack), and the
// leader's length/base-address positions are rewritten to match. This is
// the operation spec.md §6 calls "serialize-to-MARC (for round-trip)".
func (r *Record) Serialize() ([]byte, error) {
	var data strings.Builder
	var dir strings.Builder

	for _, f := range r.fields {
		start := data.Len()
		switch field := f.(type) {
		case *ControlField:
			data.WriteString(field.Data)
		case *DataField:
			data.WriteByte(field.Indicator1)
			data.WriteByte(field.Indicator2)
			for _, sf := range field.Subfields {
				data.WriteByte(SubfieldDelimiter)
				data.WriteByte(sf.Code)
				data.WriteString(sf.Data)
			}
		default:
			return nil, fmt.Errorf("marc: unknown field type for tag %s", f.Tag())
		}
		// The directory's field length counts the field's content only, not
		// its trailing field terminator.
		length := data.Len() - start
		data.WriteByte(FieldTerminator)
		if length > 9999 || start > 99999 {
			return nil, fmt.Errorf("marc: field %s too large to serialize", f.Tag())
		}
		fmt.Fprintf(&dir, "%s%04d%05d", f.Tag(), length, start)
	}
	dir.WriteByte(FieldTerminator)

	baseAddress := LeaderLength + dir.Len()
	totalLen := baseAddress + data.Len() + 1 // +1 for the record terminator

	leader := r.Leader
	if len(leader) != LeaderLength {
		leader = fmt.Sprintf("%-24s", leader)[:LeaderLength]
	}
	newLeader := fmt.Sprintf("%05d%s%05d%s", totalLen, leader[5:12], baseAddress, leader[17:])

	var out strings.Builder
	out.WriteString(newLeader)
	out.WriteString(dir.String())
	out.WriteString(data.String())
	out.WriteByte(RecordTerminator)

	return []byte(out.String()), nil
}

// MarcEqual reports whether a and b serialize to byte-identical MARC-21,
// the round-trip equality the spec defines for Record (spec.md §3, §8).
func MarcEqual(a, b *Record) bool {
	ab, aerr := a.Serialize()
	bb, berr := b.Serialize()
	if aerr != nil || berr != nil {
		return false
	}
	return string(ab) == string(bb)
}
