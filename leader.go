package marc

import (
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// validateLeader runs the four structural checks of spec.md §4.2 against
// the first LeaderLength characters of s (already decoded to a Go string).
// On success it returns the base address (the byte offset, within s, of
// the first variable field payload). s is the *whole* decoded record, not
// just the leader, because check 1 needs the full decoded length.
func validateLeader(s string) (baseAddress int, err error) {
	if len(s) < LeaderLength {
		return 0, errors.Wrapf(ErrInvalidLeader, "record shorter than leader (%d bytes)", len(s))
	}
	leader := s[:LeaderLength]

	reportedLen, convErr := strconv.Atoi(leader[0:5])
	if convErr != nil {
		return 0, errors.Wrapf(ErrInvalidLeader, "record length %q is not numeric", leader[0:5])
	}

	// The leader's reported length is a physical byte count from the
	// original wire encoding. At this point the buffer may already be a
	// decoded (UTF-8) Go string, so its byte length and rune count can
	// both differ from the original count. Accept any reported length
	// that falls between the decoded rune count and the decoded byte
	// count inclusive: that is exactly the range a grapheme-vs-code-unit
	// or single-byte-to-multi-byte expansion can explain. Anything
	// outside that band is not explainable by multi-byte inflation.
	charLen := utf8.RuneCountInString(s)
	byteLen := len(s)
	if reportedLen < charLen || reportedLen > byteLen {
		return 0, errors.Wrapf(ErrInvalidLeader, "reported length %d outside decoded bounds [%d,%d]", reportedLen, charLen, byteLen)
	}

	baseAddress, convErr = strconv.Atoi(leader[12:17])
	if convErr != nil {
		return 0, errors.Wrapf(ErrInvalidLeader, "base address %q is not numeric", leader[12:17])
	}
	if baseAddress <= 0 || baseAddress >= reportedLen {
		return 0, errors.Wrapf(ErrInvalidLeader, "base address %d not within record", baseAddress)
	}
	if baseAddress > len(s) || s[baseAddress-1] != FieldTerminator {
		return 0, errors.Wrap(ErrInvalidLeader, "directory does not end at base address with a field terminator")
	}

	if leader[20:24] != "4500" {
		return 0, errors.Wrapf(ErrInvalidLeader, "leader does not end in \"4500\" (got %q)", leader[20:24])
	}

	return baseAddress, nil
}
