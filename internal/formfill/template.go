// Package formfill maps structured clinical records onto the named widgets of
// a fillable document template. It defines the template contract consumed by
// the mapping driver, the static mapping tables, the value formatter, and the
// Generate pipeline that turns a record plus template bytes into a filled
// document and a list of per-field warnings.
package formfill

import (
	"fmt"
	"strings"
)

// Kind is the discovered type of a widget inside an opened template.
type Kind int

const (
	// KindText is a free text-entry widget.
	KindText Kind = iota + 1
	// KindMark is a boolean-mark widget (check box).
	KindMark
	// KindOther covers widgets the engine never writes (choice lists,
	// radio groups, signatures).
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindMark:
		return "mark"
	case KindOther:
		return "other"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText renders the kind by name in JSON listings.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "text":
		*k = KindText
	case "mark":
		*k = KindMark
	case "other":
		*k = KindOther
	default:
		return fmt.Errorf("formfill: unknown widget kind %q", string(b))
	}
	return nil
}

// Widget is a named, typed slot inside an opened template. It doubles as the
// handle passed back to the template when writing.
type Widget struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Form is the write surface of an opened template. Lookup is by exact name.
type Form interface {
	Widget(name string) (Widget, bool)
	SetText(w Widget, value string) error
	Check(w Widget) error
}

// Template is an opened, editable form-bearing document. A Template is owned
// by a single generation call and is not safe for concurrent use.
type Template interface {
	Form
	// Widgets lists every widget discovered in the template, in document order.
	Widgets() []Widget
	// Finalize encodes the template, including all writes, to bytes.
	Finalize() ([]byte, error)
}

// Opener turns raw template bytes into a Template.
type Opener interface {
	Open(data []byte) (Template, error)
}
