package formfill

type valueKind int

const (
	valueAbsent valueKind = iota
	valueText
	valueInteger
	valueDecimal
	valueFlag
)

// Value is a record attribute read through a mapping accessor. The zero
// Value is absent.
type Value struct {
	kind    valueKind
	text    string
	integer int64
	decimal float64
	flag    bool
}

// Absent returns the value of an attribute that is not yet known.
func Absent() Value { return Value{} }

// TextValue wraps a present string, which may be empty.
func TextValue(s string) Value { return Value{kind: valueText, text: s} }

// IntegerValue wraps a present integer.
func IntegerValue(n int64) Value { return Value{kind: valueInteger, integer: n} }

// DecimalValue wraps a present decimal.
func DecimalValue(f float64) Value { return Value{kind: valueDecimal, decimal: f} }

// FlagValue wraps a present boolean.
func FlagValue(b bool) Value { return Value{kind: valueFlag, flag: b} }

// StringOf returns the value behind p, or Absent when p is nil.
func StringOf(p *string) Value {
	if p == nil {
		return Absent()
	}
	return TextValue(*p)
}

// IntOf returns the value behind p, or Absent when p is nil.
func IntOf(p *int) Value {
	if p == nil {
		return Absent()
	}
	return IntegerValue(int64(*p))
}

// FloatOf returns the value behind p, or Absent when p is nil.
func FloatOf(p *float64) Value {
	if p == nil {
		return Absent()
	}
	return DecimalValue(*p)
}

// BoolOf returns the value behind p, or Absent when p is nil.
func BoolOf(p *bool) Value {
	if p == nil {
		return Absent()
	}
	return FlagValue(*p)
}

// Present reports whether the attribute was supplied at all.
func (v Value) Present() bool { return v.kind != valueAbsent }

// truthy reports whether the value asks for a mark.
func (v Value) truthy() bool {
	switch v.kind {
	case valueFlag:
		return v.flag
	case valueInteger:
		return v.integer != 0
	case valueDecimal:
		return v.decimal != 0
	case valueText:
		return v.text != ""
	}
	return false
}
