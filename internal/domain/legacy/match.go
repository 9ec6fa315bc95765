package legacy

// MatchValue is one lookup_in_keys entry. Exactly one of the term slots or
// the range slots is expected; Term and Min/Max resolve them in a fixed order.
type MatchValue struct {
	Value       *string  `json:"value,omitempty"`
	StringValue *string  `json:"string_value,omitempty"`
	IntValue    *int64   `json:"int_value,omitempty"`
	DoubleValue *float64 `json:"double_value,omitempty"`
	BoolValue   *bool    `json:"bool_value,omitempty"`

	MinInt    *int64   `json:"min_int,omitempty"`
	MaxInt    *int64   `json:"max_int,omitempty"`
	MinDate   *int64   `json:"min_date,omitempty"`
	MaxDate   *int64   `json:"max_date,omitempty"`
	MinDouble *float64 `json:"min_double,omitempty"`
	MaxDouble *float64 `json:"max_double,omitempty"`
}

// TermKind tags the variant held by a TermValue.
type TermKind int

// Term variants.
const (
	TermString TermKind = iota + 1
	TermInt
	TermDouble
	TermBool
)

// TermValue is an exact-match value: a string, int, double or bool.
type TermValue struct {
	kind TermKind
	s    string
	i    int64
	f    float64
	b    bool
}

// Value returns the held value for serialization.
func (t TermValue) Value() any {
	switch t.kind {
	case TermString:
		return t.s
	case TermInt:
		return t.i
	case TermDouble:
		return t.f
	case TermBool:
		return t.b
	default:
		return nil
	}
}

// BoundKind tags the variant held by a RangeBound.
type BoundKind int

// Bound variants.
const (
	BoundInt BoundKind = iota + 1
	BoundDate
	BoundDouble
)

// RangeBound is one end of a range: an int, an epoch-ms date or a double.
type RangeBound struct {
	kind BoundKind
	i    int64
	f    float64
}

// Value returns the held value for serialization.
func (r RangeBound) Value() any {
	switch r.kind {
	case BoundInt, BoundDate:
		return r.i
	case BoundDouble:
		return r.f
	default:
		return nil
	}
}

// Term resolves the exact-match slot: value, string_value, int_value,
// double_value, bool_value, first present wins. Empty strings count as absent.
func (m MatchValue) Term() (TermValue, bool) {
	switch {
	case m.Value != nil && *m.Value != "":
		return TermValue{kind: TermString, s: *m.Value}, true
	case m.StringValue != nil && *m.StringValue != "":
		return TermValue{kind: TermString, s: *m.StringValue}, true
	case m.IntValue != nil:
		return TermValue{kind: TermInt, i: *m.IntValue}, true
	case m.DoubleValue != nil:
		return TermValue{kind: TermDouble, f: *m.DoubleValue}, true
	case m.BoolValue != nil:
		return TermValue{kind: TermBool, b: *m.BoolValue}, true
	default:
		return TermValue{}, false
	}
}

// Min resolves the lower bound: min_int, min_date, min_double.
func (m MatchValue) Min() (RangeBound, bool) {
	return resolveBound(m.MinInt, m.MinDate, m.MinDouble)
}

// Max resolves the upper bound: max_int, max_date, max_double.
func (m MatchValue) Max() (RangeBound, bool) {
	return resolveBound(m.MaxInt, m.MaxDate, m.MaxDouble)
}

func resolveBound(i, date *int64, f *float64) (RangeBound, bool) {
	switch {
	case i != nil:
		return RangeBound{kind: BoundInt, i: *i}, true
	case date != nil:
		return RangeBound{kind: BoundDate, i: *date}, true
	case f != nil:
		return RangeBound{kind: BoundDouble, f: *f}, true
	default:
		return RangeBound{}, false
	}
}
