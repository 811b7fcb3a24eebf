package pattern

import (
	"strings"

	marc "github.com/marclib/marc21"
)

// Extract runs the compiled plan against rec and returns the requested
// values, applying options in the order described by spec.md §4.5.3:
// per-subplan execution, then Default and global dedup over the whole
// result.
func (p *Plan) Extract(rec *marc.Record) []string {
	var result []string
	for _, sp := range p.patterns {
		var subOut []string
		if sp.kind == kindControl {
			subOut = p.extractControl(rec, sp)
		} else {
			subOut = p.extractData(rec, sp)
		}
		result = append(result, subOut...)
		if p.opts.First && len(result) > 0 {
			return finalizeFirst(result[0])
		}
	}
	return p.finalize(result)
}

func (p *Plan) extractControl(rec *marc.Record, sp patternSpec) []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range rec.GetByTag(sp.tag) {
		cf, ok := f.(*marc.ControlField)
		if !ok {
			continue
		}
		val := sliceValue(cf.Data, sp)
		if !p.opts.AllowDuplicates {
			if seen[val] {
				continue
			}
			seen[val] = true
		}
		if p.opts.TrimPunctuation {
			val = TrimPunctuation(val)
		}
		out = append(out, val)
		if p.opts.First {
			return out
		}
	}
	return out
}

func (p *Plan) extractData(rec *marc.Record, sp patternSpec) []string {
	var out []string
	for _, f := range visitDataFields(rec, sp, p.opts.AlternateField) {
		df, ok := f.(*marc.DataField)
		if !ok {
			continue
		}
		if sp.indicatorsSet && !(indicatorMatches(df.Indicator1, sp.ind1) && indicatorMatches(df.Indicator2, sp.ind2)) {
			continue
		}

		fieldOut := p.extractFieldSubfields(df, sp)
		if len(fieldOut) == 0 {
			continue
		}
		if p.opts.Separator != nil {
			fieldOut = []string{strings.Join(fieldOut, *p.opts.Separator)}
		}
		out = append(out, fieldOut...)
		if p.opts.First {
			return out
		}
	}
	return out
}

func (p *Plan) extractFieldSubfields(df *marc.DataField, sp patternSpec) []string {
	var fieldOut []string
	seen := map[string]bool{}
	for _, cs := range sp.codes {
		var joined []string
		for _, sf := range df.SubfieldsByCode(cs.code) {
			val := sf.Data
			if !p.opts.AllowDuplicates {
				if seen[val] {
					continue
				}
				seen[val] = true
			}
			if p.opts.TrimPunctuation {
				val = TrimPunctuation(val)
			}
			joined = append(joined, val)
		}
		if len(joined) == 0 {
			continue
		}
		if cs.join {
			fieldOut = append(fieldOut, strings.Join(joined, " "))
		} else {
			fieldOut = append(fieldOut, joined...)
		}
	}
	return fieldOut
}

// visitDataFields determines which 010-999 fields a data-field subplan
// visits, per spec.md §4.5.3's alternate_field rules. The mode is an
// extraction-time option (Options.AlternateField), not part of the
// compiled pattern, since the same compiled Plan may be run under
// different alternate-field policies.
func visitDataFields(rec *marc.Record, sp patternSpec, mode AlternateFieldMode) []marc.Field {
	switch mode {
	case DontInclude:
		return rec.GetByTag(sp.tag)
	case Only:
		return linked880(rec, sp.tag)
	default:
		out := append([]marc.Field{}, rec.GetByTag(sp.tag)...)
		return append(out, linked880(rec, sp.tag)...)
	}
}

// linked880 returns the 880 fields whose $6 begins with tag, per spec.md
// §4.5.4: only the tag portion of "TTT-NN" is used for pairing, never the
// occurrence counter.
func linked880(rec *marc.Record, tag string) []marc.Field {
	var out []marc.Field
	for _, f := range rec.GetByTag("880") {
		df, ok := f.(*marc.DataField)
		if !ok {
			continue
		}
		sf, found := df.FirstSubfield('6')
		if !found || len(sf.Data) < 3 || sf.Data[:3] != tag {
			continue
		}
		out = append(out, df)
	}
	return out
}

func indicatorMatches(actual, spec byte) bool {
	return spec == '*' || actual == spec
}

func sliceValue(data string, sp patternSpec) string {
	r := []rune(data)
	switch sp.slice {
	case sliceNone:
		return data
	case sliceSingle:
		if sp.rangeStart < 0 || sp.rangeStart >= len(r) {
			return ""
		}
		return string(r[sp.rangeStart])
	case sliceRange:
		start, end := sp.rangeStart, sp.rangeEnd
		if start < 0 {
			start = 0
		}
		if end >= len(r) {
			end = len(r) - 1
		}
		if start > end || start >= len(r) {
			return ""
		}
		return string(r[start : end+1])
	default:
		return data
	}
}

func finalizeFirst(val string) []string { return []string{val} }

func (p *Plan) finalize(vals []string) []string {
	if len(vals) == 0 {
		if p.opts.Default != nil {
			return []string{*p.opts.Default}
		}
		return nil
	}
	if !p.opts.AllowDuplicates {
		return dedupe(vals)
	}
	return vals
}

func dedupe(vals []string) []string {
	seen := make(map[string]bool, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// trimCutset is ASCII whitespace plus the common leading/trailing
// punctuation MARC cataloging uses to end a subfield (spec.md §4.5.5).
// Internal punctuation is never touched.
const trimCutset = " \t\n\v\f\r.,;:/\\=+"

// TrimPunctuation trims leading and trailing ASCII whitespace and the
// cataloging punctuation characters in trimCutset.
func TrimPunctuation(s string) string {
	return strings.Trim(s, trimCutset)
}
