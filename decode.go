package marc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/marclib/marc21/marc8"
)

const utf8BOM = "\xef\xbb\xbf"

// DecodeBytes inspects leader byte 9 (the character coding scheme) to pick
// an encoding and produces a Record from raw MARC-21 bytes. A blank byte 9
// selects the MARC-8 codepage decoder unless forceUTF8 is set, in which
// case (and for any non-blank byte 9) the buffer is decoded as UTF-8 after
// stripping a leading byte-order mark if present.
func DecodeBytes(data []byte, forceUTF8 bool) (*Record, error) {
	if len(data) < LeaderLength {
		return nil, errors.Wrapf(ErrInvalidLeader, "record shorter than leader (%d bytes)", len(data))
	}

	var s string
	if data[9] == ' ' && !forceUTF8 {
		decoded, err := marc8.Decode(data)
		if err != nil {
			return nil, errors.Wrap(err, "marc8 decode")
		}
		s = decoded
	} else {
		s = strings.TrimPrefix(string(data), utf8BOM)
	}
	return DecodeString(s)
}

// DecodeString parses an already-decoded record string into a Record.
// InvalidLeader, InvalidTag, and DirectoryMismatch are fatal: the record
// cannot be partially returned from this entry point. Every other
// anomaly is recorded as a warning on the returned Record.
func DecodeString(s string) (*Record, error) {
	if _, err := validateLeader(s); err != nil {
		return nil, err
	}

	rec := NewRecord(s[:LeaderLength])

	body := s[LeaderLength:]
	if !strings.HasSuffix(body, string(rune(RecordTerminator))) {
		rec.Warnings = append(rec.Warnings, "Record does not end with a Record Terminator (hex 1D).")
	} else {
		body = body[:len(body)-1]
	}

	parts := strings.Split(body, string(rune(FieldTerminator)))
	// Every field (including the last) ends with its own field terminator,
	// so splitting the body on it always leaves one spurious empty
	// trailing element; drop it rather than counting it as a payload.
	if n := len(parts); n > 0 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	if len(parts) == 0 {
		return rec, nil
	}

	directory := parts[0]
	payloads := parts[1:]

	// validateLeader already confirmed the directory (the text strictly
	// before baseAddress) ends at a field terminator; recompute its
	// intended length defensively in case base address and the FT-split
	// directory piece disagree by trailing junk.
	if extra := len(directory) % 12; extra != 0 {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf("Directory contains %d extra character(s). Removing extra characters", extra))
		directory = directory[:len(directory)-extra]
	}

	entryCount := len(directory) / 12
	if entryCount != len(payloads) {
		return nil, errors.Wrapf(ErrDirectoryMismatch, "directory has %d entries but %d field payloads were found", entryCount, len(payloads))
	}

	for i := 0; i < entryCount; i++ {
		entry := directory[i*12 : i*12+12]
		tagStr := entry[0:3]
		tagVal, convErr := strconv.Atoi(tagStr)
		if convErr != nil {
			return nil, errors.Wrapf(ErrInvalidTag, "directory entry %d has non-numeric tag %q", i, tagStr)
		}

		payload := strings.TrimSuffix(payloads[i], string(rune(FieldTerminator)))

		if tagVal < 10 {
			rec.Add(&ControlField{FieldTag: tagStr, Data: payload})
			continue
		}

		field, warnings := parseDataField(tagStr, payload)
		rec.Warnings = append(rec.Warnings, warnings...)
		rec.Add(field)
	}

	return rec, nil
}

// parseDataField splits a data field payload on the subfield delimiter
// and builds a DataField plus any warnings about malformed indicators or
// subfields. It never fails: anomalies become warnings per spec.md §4.3.
func parseDataField(tag, payload string) (*DataField, []string) {
	var warnings []string
	segs := strings.Split(payload, string(rune(SubfieldDelimiter)))

	indSeg := segs[0]
	indRunes := []rune(indSeg)
	ind1, ind2 := byte(' '), byte(' ')
	if len(indRunes) != 2 {
		warnings = append(warnings, fmt.Sprintf("invalid indicators %q, forcing to blank blank", indSeg))
	} else {
		ind1 = coerceIndicator(indRunes[0], &warnings, 1)
		ind2 = coerceIndicator(indRunes[1], &warnings, 2)
	}

	field := &DataField{FieldTag: tag, Indicator1: ind1, Indicator2: ind2}

	for j, seg := range segs[1:] {
		if len(seg) == 0 {
			warnings = append(warnings, fmt.Sprintf("subfield #%d has zero length", j+1))
			continue
		}
		runes := []rune(seg)
		code := byte(runes[0])
		data := string(runes[1:])
		field.Subfields = append(field.Subfields, Subfield{Code: code, Data: data})
	}

	if len(field.Subfields) == 0 {
		warnings = append(warnings, "no subfields")
	}

	return field, warnings
}

// coerceIndicator lowercases r and, if it is not a blank space or a
// lower-case letter/digit, records a warning and returns a blank.
func coerceIndicator(r rune, warnings *[]string, position int) byte {
	lower := r
	if lower >= 'A' && lower <= 'Z' {
		lower = lower - 'A' + 'a'
	}
	if lower == ' ' {
		return ' '
	}
	if lower > 0x7f || !isLowerAlnum(lower) {
		*warnings = append(*warnings, fmt.Sprintf("invalid indicator %d %q, forcing to blank", position, r))
		return ' '
	}
	return byte(lower)
}

func isLowerAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z')
}
