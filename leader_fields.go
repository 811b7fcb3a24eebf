package marc

// Leader positions not validated structurally by the leader validator
// (spec.md §4.2) but consulted by other components or useful to callers.
// These are read-only views over Record.Leader, grounded on the teacher's
// own Leader struct (Status/Type/BibLevel/Control/EncodingLevel/Form/
// Multipart) — kept as accessor methods instead of a duplicated struct so
// there is exactly one source of truth for the leader bytes.
const (
	leaderPosStatus        = 5
	leaderPosType          = 6
	leaderPosBibLevel      = 7
	leaderPosControlType   = 8
	leaderPosEncoding      = 9
	leaderPosEncodingLevel = 17
	leaderPosForm          = 18
	leaderPosMultipart     = 19
)

func (r *Record) leaderByte(pos int) byte {
	if len(r.Leader) <= pos {
		return ' '
	}
	return r.Leader[pos]
}

// Status returns leader byte 5 (record status).
func (r *Record) Status() byte { return r.leaderByte(leaderPosStatus) }

// Type returns leader byte 6 (type of record).
func (r *Record) Type() byte { return r.leaderByte(leaderPosType) }

// BibLevel returns leader byte 7 (bibliographic level).
func (r *Record) BibLevel() byte { return r.leaderByte(leaderPosBibLevel) }

// ControlType returns leader byte 8 (type of control).
func (r *Record) ControlType() byte { return r.leaderByte(leaderPosControlType) }

// CharacterEncoding returns leader byte 9 (character coding scheme): a
// blank means MARC-8, anything else commonly means UTF-8.
func (r *Record) CharacterEncoding() byte { return r.leaderByte(leaderPosEncoding) }

// EncodingLevel returns leader byte 17.
func (r *Record) EncodingLevel() byte { return r.leaderByte(leaderPosEncodingLevel) }

// DescriptiveForm returns leader byte 18 (descriptive cataloging form).
func (r *Record) DescriptiveForm() byte { return r.leaderByte(leaderPosForm) }

// MultipartLevel returns leader byte 19.
func (r *Record) MultipartLevel() byte { return r.leaderByte(leaderPosMultipart) }

// ContentType maps Type() to a human-readable content category, the
// mapping the unm-art-mario marc.go file in the retrieval pack applies to
// LDR/06. It is a convenience read, not a validation gate: the spec's
// Non-goals exclude schema validation beyond structural invariants.
func (r *Record) ContentType() string {
	switch r.Type() {
	case 'c', 'd':
		return "Musical score"
	case 'e', 'f':
		return "Cartographic material"
	case 'g':
		return "Moving image"
	case 'i', 'j':
		return "Sound recording"
	case 'k':
		return "Still image"
	case 'm':
		return "Computer file"
	case 'o':
		return "Kit"
	case 'p':
		return "Mixed materials"
	case 'r':
		return "Object"
	default:
		return "Text"
	}
}
