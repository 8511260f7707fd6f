package formfill

import (
	"github.com/rs/zerolog"
)

// Options configures a fill pass.
type Options struct {
	Formatter Formatter
	Logger    zerolog.Logger
}

// DefaultOptions uses DefaultFormatter and discards log output.
func DefaultOptions() Options {
	return Options{Formatter: DefaultFormatter(), Logger: zerolog.Nop()}
}

// Write records one widget the driver filled.
type Write struct {
	Field string `json:"field"`
	Kind  Kind   `json:"kind"`
	Value string `json:"value,omitempty"`
}

// Report is the outcome of a fill pass.
type Report struct {
	Written  []Write   `json:"written"`
	Warnings []Warning `json:"warnings"`
}

func (r *Report) warn(field string, reason Reason, detail string) {
	r.Warnings = append(r.Warnings, Warning{Field: field, Reason: reason, Detail: detail})
}

// Fill walks table in order and writes every present attribute of rec into
// form. It never fails: a field that cannot be written becomes a Warning and
// the remaining fields are unaffected. rec is only read.
func Fill[R any](form Form, table Table[R], rec R, opts Options) Report {
	rep := Report{Written: []Write{}, Warnings: []Warning{}}
	log := opts.Logger.With().Str("table", table.Name).Logger()
	for _, rule := range table.Rules {
		rule.bind(rec, func(b binding) {
			apply(form, b, opts.Formatter, log, &rep)
		})
	}
	return rep
}

func apply(form Form, b binding, f Formatter, log zerolog.Logger, rep *Report) {
	if !b.value.Present() {
		return
	}

	text, ok := f.Format(b.format, b.value)
	if !ok {
		rep.warn(b.field, ReasonInvalidValue, "cannot format as "+b.format.String())
		log.Debug().Str("field", b.field).Msg("value not formattable")
	}
	if text == "" {
		return
	}

	res := Resolve(form, b.field)
	w, reason, detail := write(form, res, attemptsFor(b.format), text)
	if reason != "" {
		rep.warn(b.field, reason, detail)
		log.Debug().Str("field", b.field).Str("reason", string(reason)).Msg("field skipped")
		return
	}

	written := Write{Field: b.field, Kind: w.Kind, Value: text}
	if w.Kind == KindMark {
		written.Value = ""
	}
	rep.Written = append(rep.Written, written)
	log.Debug().Str("field", b.field).Stringer("kind", w.Kind).Msg("field written")
}
