package formfill

import (
	"errors"
	"fmt"
)

// Fatal errors. Any of these aborts generation and no bytes are returned.
var (
	ErrTemplateFetchFailed = errors.New("template fetch failed")
	ErrTemplateUnreadable  = errors.New("template unreadable")
	ErrSerializationFailed = errors.New("serialization failed")
)

// Reason classifies a recoverable, per-field condition.
type Reason string

const (
	// ReasonNotFound means no widget carries the mapped field name.
	ReasonNotFound Reason = "NotFound"
	// ReasonKindMismatch means the widget exists but no write strategy
	// accepts its kind.
	ReasonKindMismatch Reason = "KindMismatch"
	// ReasonInvalidValue means the attribute was present but could not be
	// formatted (for example an unparseable date).
	ReasonInvalidValue Reason = "InvalidValue"
	// ReasonWriteFailed means the template rejected the write.
	ReasonWriteFailed Reason = "WriteFailed"
)

// Warning is a recoverable condition for a single field. Warnings are
// collected and returned alongside the output; they never abort generation.
type Warning struct {
	Field  string `json:"field"`
	Reason Reason `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

func (w Warning) String() string {
	if w.Detail == "" {
		return fmt.Sprintf("%s: %s", w.Field, w.Reason)
	}
	return fmt.Sprintf("%s: %s (%s)", w.Field, w.Reason, w.Detail)
}
