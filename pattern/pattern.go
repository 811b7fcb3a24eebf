// Package pattern compiles the compact Traject-style query language from
// spec.md §4.5 into an immutable Plan, and runs a Plan against any number
// of marc.Record values.
package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// AlternateFieldMode controls how linked 880 (alternate-script) fields
// participate in a data-field pattern's match.
type AlternateFieldMode int

const (
	// Include visits the named tag's own fields, then any 880 fields
	// linked to it via $6 — the default.
	Include AlternateFieldMode = iota
	// DontInclude visits only the named tag's own fields.
	DontInclude
	// Only visits only the 880 fields linked to the named tag.
	Only
)

// Options configures how a Plan is run. The zero value matches the
// defaults in spec.md §4.5.2: AllowDuplicates false, everything else off.
type Options struct {
	First           bool
	TrimPunctuation bool
	Default         *string
	AllowDuplicates bool
	Separator       *string
	AlternateField  AlternateFieldMode
}

type sliceKind int

const (
	sliceNone sliceKind = iota
	sliceSingle
	sliceRange
)

type codeSpec struct {
	code byte
	join bool
}

type patternKind int

const (
	kindControl patternKind = iota
	kindData
)

// patternSpec is one compiled segment of a query (spec.md's "pattern").
type patternSpec struct {
	kind patternKind
	tag  string

	// control-field slice
	slice      sliceKind
	rangeStart int
	rangeEnd   int

	// data-field indicators and subfield codes
	indicatorsSet bool
	ind1, ind2    byte
	codes         []codeSpec

	raw string // original pattern text, for error messages
}

// Plan is an ordered, immutable list of compiled patterns plus the
// options they run with. A Plan may be shared across goroutines for
// read-only extraction once compiled.
type Plan struct {
	patterns []patternSpec
	opts     Options
}

// ErrInvalidPattern is the sentinel compile-time failure. Wrap with
// errors.Is to test for it; *PatternError carries the offending
// substring and a human-readable reason.
var ErrInvalidPattern = fmt.Errorf("marc: invalid pattern")

// PatternError is returned by Compile for any grammar violation.
type PatternError struct {
	Pattern string
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("marc: invalid pattern %q: %s", e.Pattern, e.Reason)
}

func (e *PatternError) Unwrap() error { return ErrInvalidPattern }

func invalid(pattern, reason string, args ...interface{}) error {
	return &PatternError{Pattern: pattern, Reason: fmt.Sprintf(reason, args...)}
}

// Compile parses query (one or more patterns separated by ':'; empty
// patterns between colons are dropped) into an immutable Plan.
func Compile(query string, opts Options) (*Plan, error) {
	var specs []patternSpec
	for _, raw := range strings.Split(query, ":") {
		if raw == "" {
			continue
		}
		spec, err := compileOne(raw)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return &Plan{patterns: specs, opts: opts}, nil
}

func compileOne(pattern string) (patternSpec, error) {
	if len(pattern) < 3 {
		return patternSpec{}, invalid(pattern, "pattern must be at least 3 characters")
	}
	tagStr := pattern[:3]
	for _, c := range tagStr {
		if c < '0' || c > '9' {
			return patternSpec{}, invalid(pattern, "tag %q is not numeric", tagStr)
		}
	}
	tagVal, _ := strconv.Atoi(tagStr)
	rest := pattern[3:]

	switch {
	case strings.HasPrefix(rest, "["):
		if tagVal >= 10 {
			return patternSpec{}, invalid(pattern, "control-field pattern with tag >= 10")
		}
		return compileControl(pattern, tagStr, rest)
	case rest == "":
		if tagVal < 10 {
			return patternSpec{kind: kindControl, tag: tagStr, slice: sliceNone, raw: pattern}, nil
		}
		return patternSpec{kind: kindData, tag: tagStr, codes: []codeSpec{{code: '*'}}, raw: pattern}, nil
	default:
		if tagVal < 10 {
			return patternSpec{}, invalid(pattern, "data-field pattern with tag < 10")
		}
		return compileData(pattern, tagStr, rest)
	}
}

func compileControl(pattern, tag, rest string) (patternSpec, error) {
	if !strings.HasSuffix(rest, "]") {
		return patternSpec{}, invalid(pattern, "range brackets unmatched")
	}
	inner := rest[1 : len(rest)-1]
	spec := patternSpec{kind: kindControl, tag: tag, raw: pattern}

	if dash := strings.Index(inner, "-"); dash >= 0 {
		startStr, endStr := inner[:dash], inner[dash+1:]
		start, err1 := strconv.Atoi(startStr)
		end, err2 := strconv.Atoi(endStr)
		if err1 != nil || err2 != nil || start < 0 || end < 0 {
			return patternSpec{}, invalid(pattern, "range %q is not numeric", inner)
		}
		spec.slice = sliceRange
		spec.rangeStart = start
		spec.rangeEnd = end
	} else {
		idx, err := strconv.Atoi(inner)
		if err != nil || idx < 0 {
			return patternSpec{}, invalid(pattern, "index %q is not numeric", inner)
		}
		spec.slice = sliceSingle
		spec.rangeStart = idx
	}
	return spec, nil
}

func compileData(pattern, tag, rest string) (patternSpec, error) {
	spec := patternSpec{kind: kindData, tag: tag, raw: pattern}

	if strings.HasPrefix(rest, "|") {
		end := strings.Index(rest[1:], "|")
		if end < 0 {
			return patternSpec{}, invalid(pattern, "indicators not wrapped in |...|")
		}
		indStr := rest[1 : 1+end]
		if len(indStr) != 2 {
			return patternSpec{}, invalid(pattern, "indicators must be exactly two characters, got %q", indStr)
		}
		ind1, err1 := compileIndicator(indStr[0])
		ind2, err2 := compileIndicator(indStr[1])
		if err1 != nil || err2 != nil {
			return patternSpec{}, invalid(pattern, "indicator %q is not blank, lower-case alphanumeric, or '*'", indStr)
		}
		spec.indicatorsSet = true
		spec.ind1, spec.ind2 = ind1, ind2
		rest = rest[1+end+1:]
	}

	counts := map[byte]int{}
	var order []byte
	for _, r := range rest {
		c := byte(r)
		if c != '*' && !isLowerAlnum(c) {
			return patternSpec{}, invalid(pattern, "unrecognized subfield code character %q", r)
		}
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}
	if len(order) == 0 {
		spec.codes = []codeSpec{{code: '*'}}
	} else {
		for _, c := range order {
			spec.codes = append(spec.codes, codeSpec{code: c, join: counts[c] > 1})
		}
	}
	return spec, nil
}

func compileIndicator(c byte) (byte, error) {
	if c == '*' || c == ' ' || isLowerAlnum(c) {
		return c, nil
	}
	return 0, fmt.Errorf("invalid indicator character")
}

func isLowerAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z')
}
