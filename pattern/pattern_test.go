package pattern

import (
	"strings"
	"testing"

	marc "github.com/marclib/marc21"
)

func TestCompile_GrammarErrors(t *testing.T) {
	cases := []struct {
		pattern string
		want    string
	}{
		{"a", "must be at least 3 characters"},
		{"abc", "is not numeric"},
		{"005a", "data-field pattern with tag < 10"},
		{"270[0-1]", "control-field pattern with tag >= 10"},
		{"005[0-3", "range brackets unmatched"},
		{"270|1", "indicators not wrapped in |...|"},
		{"270|1X|a", "indicator"},
		{"270|12|$", "unrecognized subfield code character"},
	}
	for _, c := range cases {
		_, err := Compile(c.pattern, Options{})
		if err == nil {
			t.Errorf("pattern %q: expected error", c.pattern)
			continue
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Errorf("pattern %q: error %q does not contain %q", c.pattern, err.Error(), c.want)
		}
	}
}

func TestCompile_WholeValueAndWildcard(t *testing.T) {
	plan, err := Compile("005", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.patterns) != 1 || plan.patterns[0].kind != kindControl || plan.patterns[0].slice != sliceNone {
		t.Fatalf("unexpected control plan: %+v", plan.patterns)
	}

	plan, err = Compile("270", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.patterns) != 1 || plan.patterns[0].kind != kindData || len(plan.patterns[0].codes) != 1 || plan.patterns[0].codes[0].code != '*' {
		t.Fatalf("unexpected data plan: %+v", plan.patterns)
	}
}

func newControlRecord(tag, data string) *marc.Record {
	rec := marc.NewRecord("leader")
	rec.Add(&marc.ControlField{FieldTag: tag, Data: data})
	return rec
}

func TestExtract_ControlFieldSlice(t *testing.T) {
	rec := newControlRecord("005", "19940223151047.0")

	plan, err := Compile("005[0-7]", Options{})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	got := plan.Extract(rec)
	if len(got) != 1 || got[0] != "19940223" {
		t.Fatalf("005[0-7] = %v, want [19940223]", got)
	}

	plan, err = Compile("005[5]", Options{})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	got = plan.Extract(rec)
	if len(got) != 1 || got[0] != "2" {
		t.Fatalf("005[5] = %v, want [2]", got)
	}

	plan, err = Compile("005", Options{})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	got = plan.Extract(rec)
	if len(got) != 1 || got[0] != "19940223151047.0" {
		t.Fatalf("005 = %v, want whole value", got)
	}
}

func new270Record() *marc.Record {
	rec := marc.NewRecord("leader")
	rec.Add(&marc.DataField{
		FieldTag:   "270",
		Indicator1: '1',
		Indicator2: ' ',
		Subfields: []marc.Subfield{
			{Code: 'a', Data: "ECU Libraries"},
			{Code: 'a', Data: "1000 E 5th St."},
			{Code: 'b', Data: "Greenville"},
			{Code: 'c', Data: "NC"},
		},
	})
	return rec
}

func TestExtract_DataFieldIndicatorsAndSubfields(t *testing.T) {
	rec := new270Record()

	plan, err := Compile("270|1*|b", Options{})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	got := plan.Extract(rec)
	if len(got) != 1 || got[0] != "Greenville" {
		t.Fatalf("270|1*|b = %v, want [Greenville]", got)
	}

	plan, err = Compile("270|2*|b", Options{})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	got = plan.Extract(rec)
	if len(got) != 0 {
		t.Fatalf("270|2*|b = %v, want none", got)
	}

	plan, err = Compile("270a", Options{})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	got = plan.Extract(rec)
	if len(got) != 2 || got[0] != "ECU Libraries" || got[1] != "1000 E 5th St." {
		t.Fatalf("270a = %v, want [ECU Libraries 1000 E 5th St.]", got)
	}

	plan, err = Compile("270aa", Options{})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	got = plan.Extract(rec)
	if len(got) != 1 || got[0] != "ECU Libraries 1000 E 5th St." {
		t.Fatalf("270aa = %v, want joined single value", got)
	}

	plan, err = Compile("270", Options{})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	got = plan.Extract(rec)
	if len(got) != 4 {
		t.Fatalf("270 = %v, want all 4 subfields", got)
	}
}

func newLinked880Record() *marc.Record {
	rec := marc.NewRecord("leader")
	rec.Add(&marc.DataField{
		FieldTag:   "245",
		Indicator1: '1', Indicator2: '0',
		Subfields: []marc.Subfield{
			{Code: '6', Data: "880-01"},
			{Code: 'a', Data: "Romanized title"},
		},
	})
	rec.Add(&marc.DataField{
		FieldTag:   "880",
		Indicator1: '1', Indicator2: '0',
		Subfields: []marc.Subfield{
			{Code: '6', Data: "245-01"},
			{Code: 'a', Data: "Original script title"},
		},
	})
	return rec
}

func TestExtract_AlternateFieldModes(t *testing.T) {
	rec := newLinked880Record()

	plan, err := Compile("245a", Options{AlternateField: Include})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	got := plan.Extract(rec)
	if len(got) != 2 || got[0] != "Romanized title" || got[1] != "Original script title" {
		t.Fatalf("Include = %v", got)
	}

	plan, err = Compile("245a", Options{AlternateField: DontInclude})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	got = plan.Extract(rec)
	if len(got) != 1 || got[0] != "Romanized title" {
		t.Fatalf("DontInclude = %v", got)
	}

	plan, err = Compile("245a", Options{AlternateField: Only})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	got = plan.Extract(rec)
	if len(got) != 1 || got[0] != "Original script title" {
		t.Fatalf("Only = %v", got)
	}
}

func TestExtract_FirstOption(t *testing.T) {
	rec := marc.NewRecord("leader")
	rec.Add(&marc.DataField{FieldTag: "650", Subfields: []marc.Subfield{{Code: 'a', Data: "Cats"}}})
	rec.Add(&marc.DataField{FieldTag: "650", Subfields: []marc.Subfield{{Code: 'a', Data: "Dogs"}}})

	plan, err := Compile("650a", Options{First: true})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	got := plan.Extract(rec)
	if len(got) != 1 || got[0] != "Cats" {
		t.Fatalf("First = %v, want [Cats]", got)
	}
}

func TestExtract_DefaultWhenAbsent(t *testing.T) {
	rec := marc.NewRecord("leader")
	def := "unknown"

	plan, err := Compile("650a", Options{Default: &def})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	got := plan.Extract(rec)
	if len(got) != 1 || got[0] != "unknown" {
		t.Fatalf("Default = %v, want [unknown]", got)
	}
}

func TestExtract_AllowDuplicates(t *testing.T) {
	rec := marc.NewRecord("leader")
	rec.Add(&marc.DataField{FieldTag: "650", Subfields: []marc.Subfield{{Code: 'a', Data: "Cats"}}})
	rec.Add(&marc.DataField{FieldTag: "650", Subfields: []marc.Subfield{{Code: 'a', Data: "Cats"}}})

	plan, err := Compile("650a", Options{})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	got := plan.Extract(rec)
	if len(got) != 1 {
		t.Fatalf("default dedup = %v, want 1 value", got)
	}

	plan, err = Compile("650a", Options{AllowDuplicates: true})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	got = plan.Extract(rec)
	if len(got) != 2 {
		t.Fatalf("AllowDuplicates = %v, want 2 values", got)
	}
}

func TestExtract_Separator(t *testing.T) {
	rec := marc.NewRecord("leader")
	rec.Add(&marc.DataField{
		FieldTag: "650",
		Subfields: []marc.Subfield{
			{Code: 'a', Data: "Cats"},
			{Code: 'x', Data: "Behavior"},
		},
	})
	sep := " -- "

	plan, err := Compile("650ax", Options{Separator: &sep})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	got := plan.Extract(rec)
	if len(got) != 1 || got[0] != "Cats -- Behavior" {
		t.Fatalf("Separator = %v, want [Cats -- Behavior]", got)
	}
}

func TestTrimPunctuation(t *testing.T) {
	if got := TrimPunctuation(" Hello, World. "); got != "Hello, World" {
		t.Errorf("TrimPunctuation = %q", got)
	}
	if got := TrimPunctuation("Value,"); got != "Value" {
		t.Errorf("TrimPunctuation = %q", got)
	}
}

func TestExtract_TrimPunctuationOption(t *testing.T) {
	rec := marc.NewRecord("leader")
	rec.Add(&marc.DataField{FieldTag: "650", Subfields: []marc.Subfield{{Code: 'a', Data: "Cats. "}}})

	plan, err := Compile("650a", Options{TrimPunctuation: true})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	got := plan.Extract(rec)
	if len(got) != 1 || got[0] != "Cats" {
		t.Fatalf("TrimPunctuation option = %v, want [Cats]", got)
	}
}
