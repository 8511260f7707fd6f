package formfill

import "sort"

// Accepts reports whether a field of the given format can be written into a
// widget of kind k under the fallback policy the driver applies.
func Accepts(format Format, k Kind) bool {
	for _, a := range attemptsFor(format) {
		if a.kind == k {
			return true
		}
	}
	return false
}

// Mismatch is a mapped field whose widget exists with a kind the driver
// cannot write.
type Mismatch struct {
	Field  string `json:"field"`
	Format Format `json:"format"`
	Kind   Kind   `json:"kind"`
}

// AuditReport compares a mapping table against a template's widget set.
type AuditReport struct {
	// Missing lists mapped fields the template has no widget for.
	Missing []string `json:"missing"`
	// Unmapped lists template widgets no table entry writes, sorted.
	Unmapped []string `json:"unmapped"`
	// Mismatched lists mapped fields whose widget kind cannot be written.
	Mismatched []Mismatch `json:"mismatched"`
	// Matched counts mapped fields that resolve to a writable widget.
	Matched int `json:"matched"`
}

// Clean reports whether every mapped field resolves to a writable widget.
func (r AuditReport) Clean() bool {
	return len(r.Missing) == 0 && len(r.Mismatched) == 0
}

// Audit checks every field in specs against tpl without writing anything.
func Audit(tpl Template, specs []FieldSpec) AuditReport {
	rep := AuditReport{Missing: []string{}, Unmapped: []string{}, Mismatched: []Mismatch{}}
	mapped := make(map[string]bool, len(specs))
	for _, s := range specs {
		mapped[s.Field] = true
		w, ok := tpl.Widget(s.Field)
		switch {
		case !ok:
			rep.Missing = append(rep.Missing, s.Field)
		case !Accepts(s.Format, w.Kind):
			rep.Mismatched = append(rep.Mismatched, Mismatch{Field: s.Field, Format: s.Format, Kind: w.Kind})
		default:
			rep.Matched++
		}
	}
	for _, w := range tpl.Widgets() {
		if !mapped[w.Name] {
			rep.Unmapped = append(rep.Unmapped, w.Name)
		}
	}
	sort.Strings(rep.Unmapped)
	return rep
}

// FieldMap fills every text widget with its own name and checks every mark
// widget, producing a template that documents its own layout.
func FieldMap(tpl Template) Report {
	rep := Report{Written: []Write{}, Warnings: []Warning{}}
	for _, w := range tpl.Widgets() {
		var err error
		switch w.Kind {
		case KindText:
			err = tpl.SetText(w, w.Name)
		case KindMark:
			err = tpl.Check(w)
		default:
			continue
		}
		if err != nil {
			rep.warn(w.Name, ReasonWriteFailed, err.Error())
			continue
		}
		written := Write{Field: w.Name, Kind: w.Kind}
		if w.Kind == KindText {
			written.Value = w.Name
		}
		rep.Written = append(rep.Written, written)
	}
	return rep
}
