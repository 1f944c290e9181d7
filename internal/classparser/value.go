package classparser

// Kind discriminates the payload of a Value.
type Kind int

const (
	KindUndefined Kind = iota
	KindString
	KindNumber
	KindPath
	KindArray
	KindBoolean
)

// String returns the lower-case name of the kind, matching the wire form
// used in reports.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindPath:
		return "path"
	case KindArray:
		return "array"
	case KindBoolean:
		return "boolean"
	default:
		return "undefined"
	}
}

// Value is a parsed property value: a tagged union over string, number,
// boolean and (possibly nested) array payloads. Raw always holds the original
// textual form exactly as written, whatever the kind.
type Value struct {
	Raw  string
	Kind Kind

	Str   string  // KindString, KindPath
	Num   float64 // KindNumber
	Bool  bool    // KindBoolean
	Items []Value // KindArray
}

// Equal reports whether two values have the same kind and payload. Raw is
// deliberately ignored so that reparsed values compare equal to the original.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindString, KindPath:
		return v.Str == o.Str
	case KindNumber:
		return v.Num == o.Num
	case KindBoolean:
		return v.Bool == o.Bool
	case KindArray:
		if len(v.Items) != len(o.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
