package table

import (
	"math"
	"strconv"
)

// Kind identifies what a Value holds.
type Kind int

const (
	KindMissing Kind = iota
	KindNumber
	KindString
)

// Value is a single cell. The zero Value is the missing marker.
type Value struct {
	kind  Kind
	num   float64
	str   string
	i     int64
	exact bool
}

// maxExactInt bounds the integers every float64 represents exactly.
const maxExactInt = 1 << 53

// Missing returns the missing-value marker.
func Missing() Value {
	return Value{}
}

// Number wraps a float64. NaN is kept as a number but reports IsMissing.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Int wraps an integer read from the data. It is a number whose Float is
// the nearest float64, but equality and String use the exact integer.
func Int(n int64) Value {
	return Value{kind: KindNumber, num: float64(n), i: n, exact: true}
}

// String wraps a string cell.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Kind returns the kind of value held.
func (v Value) Kind() Kind {
	return v.kind
}

// IsMissing reports whether v is the missing marker or a NaN number.
func (v Value) IsMissing() bool {
	switch v.kind {
	case KindMissing:
		return true
	case KindNumber:
		return math.IsNaN(v.num)
	default:
		return false
	}
}

// Float returns the numeric value and true if v is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return math.NaN(), false
	}
	return v.num, true
}

// Int returns the exact integer and true if v was built with Int.
func (v Value) Int() (int64, bool) {
	if v.kind != KindNumber || !v.exact {
		return 0, false
	}
	return v.i, true
}

// wide reports whether v is an integer float64 cannot hold exactly.
func (v Value) wide() bool {
	return v.exact && (v.i > maxExactInt || v.i < -maxExactInt)
}

// Text returns the string value and true if v is a string.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Equal reports whether two values are identical for duplicate detection.
// Missing markers and NaN numbers are all equal to each other.
func (v Value) Equal(o Value) bool {
	if v.IsMissing() || o.IsMissing() {
		return v.IsMissing() && o.IsMissing()
	}
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindNumber {
		if v.wide() || o.wide() {
			return v.wide() && o.wide() && v.i == o.i
		}
		return v.num == o.num
	}
	return v.str == o.str
}

// String renders the value for display. Missing values render as "NaN".
func (v Value) String() string {
	if v.IsMissing() {
		return "NaN"
	}
	if v.kind == KindString {
		return v.str
	}
	if v.exact {
		return strconv.FormatInt(v.i, 10)
	}
	return FormatFloat(v.num)
}

// FormatFloat formats f with the shortest representation that round-trips.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// appendKey writes a collision-free encoding of v used for row hashing.
func (v Value) appendKey(b []byte) []byte {
	if v.IsMissing() {
		return append(b, 'm', ';')
	}
	if v.wide() {
		b = append(b, 'i')
		b = strconv.AppendInt(b, v.i, 10)
		return append(b, ';')
	}
	if v.kind == KindNumber {
		f := v.num
		if f == 0 {
			f = 0 // fold -0 into 0
		}
		b = append(b, 'n')
		b = strconv.AppendUint(b, math.Float64bits(f), 16)
		return append(b, ';')
	}
	b = append(b, 's')
	b = strconv.AppendInt(b, int64(len(v.str)), 10)
	b = append(b, ':')
	b = append(b, v.str...)
	return append(b, ';')
}
