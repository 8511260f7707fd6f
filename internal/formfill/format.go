package formfill

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Format selects how an attribute is rendered into a widget.
type Format int

const (
	FormatText Format = iota
	FormatInteger
	FormatDecimal
	FormatDate
	FormatMark
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatInteger:
		return "integer"
	case FormatDecimal:
		return "decimal"
	case FormatDate:
		return "date"
	case FormatMark:
		return "mark"
	}
	return "unknown"
}

// MarshalText renders the format by name in JSON reports.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// DefaultDateLayout renders calendar dates the way a US-locale short date
// reads (1/29/2024).
const DefaultDateLayout = "1/2/2006"

// DefaultMark is written into text widgets standing in for check boxes.
const DefaultMark = "X"

// Date-only inputs are calendar dates and are never shifted between zones.
var dateOnlyLayouts = []string{
	"2006-01-02",
	"1/2/2006",
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Formatter converts record values into widget text. It holds no mutable
// state and is safe for concurrent use.
type Formatter struct {
	// DateLayout is the Go reference layout used to render dates.
	DateLayout string
	// Location is the zone timestamps are converted into before rendering.
	Location *time.Location
	// RawDateFallback renders unparseable dates as the raw input instead of
	// the empty string.
	RawDateFallback bool
	// Mark is the literal written into a text widget bound to a true flag.
	Mark string
}

// DefaultFormatter renders dates as 1/2/2006 in UTC and marks with "X".
func DefaultFormatter() Formatter {
	return Formatter{
		DateLayout: DefaultDateLayout,
		Location:   time.UTC,
		Mark:       DefaultMark,
	}
}

func (f Formatter) layout() string {
	if f.DateLayout == "" {
		return DefaultDateLayout
	}
	return f.DateLayout
}

func (f Formatter) location() *time.Location {
	if f.Location == nil {
		return time.UTC
	}
	return f.Location
}

func (f Formatter) mark() string {
	if f.Mark == "" {
		return DefaultMark
	}
	return f.Mark
}

// Date renders raw as a calendar date. Empty input yields "" and ok=true.
// Unparseable input yields "" and ok=false, or the raw input when
// RawDateFallback is set.
func (f Formatter) Date(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", true
	}
	for _, l := range dateOnlyLayouts {
		if t, err := time.Parse(l, raw); err == nil {
			return t.Format(f.layout()), true
		}
	}
	loc := f.location()
	for _, l := range timestampLayouts {
		if t, err := time.ParseInLocation(l, raw, loc); err == nil {
			return t.In(loc).Format(f.layout()), true
		}
	}
	if f.RawDateFallback {
		return raw, true
	}
	return "", false
}

// Integer renders n in base 10.
func (f Formatter) Integer(n int64) string {
	return strconv.FormatInt(n, 10)
}

// Decimal renders x in its shortest round-tripping form (3.5, 120, 0.25).
func (f Formatter) Decimal(x float64) (string, bool) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "", false
	}
	return strconv.FormatFloat(x, 'f', -1, 64), true
}

// Format renders v for the given format. The returned string is empty when
// nothing should be written; ok is false when v was present but could not be
// rendered.
func (f Formatter) Format(format Format, v Value) (s string, ok bool) {
	if !v.Present() {
		return "", true
	}
	switch format {
	case FormatMark:
		if v.truthy() {
			return f.mark(), true
		}
		return "", true
	case FormatDate:
		if v.kind == valueText {
			return f.Date(v.text)
		}
	}
	return f.natural(v)
}

// natural renders v in its own textual form regardless of the bound format.
func (f Formatter) natural(v Value) (string, bool) {
	switch v.kind {
	case valueText:
		return v.text, true
	case valueInteger:
		return f.Integer(v.integer), true
	case valueDecimal:
		return f.Decimal(v.decimal)
	case valueFlag:
		if v.flag {
			return f.mark(), true
		}
		return "", true
	}
	return "", true
}
