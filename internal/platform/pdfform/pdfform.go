// Package pdfform implements formfill.Template for AcroForm PDF documents
// using pdfcpu. Widgets are discovered from pdfcpu's form export; writes are
// buffered and applied in a single fill when the template is finalized.
package pdfform

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/primitives"

	"github.com/ehr/formfill/internal/formfill"
)

var (
	ErrLocked     = errors.New("pdfform: field is read-only")
	ErrNoSuchName = errors.New("pdfform: no such field")
	ErrDateFormat = errors.New("pdfform: value does not match the date field format")
)

var disableConfigDir sync.Once

// Opener opens PDF templates. It is safe for concurrent use.
type Opener struct{}

var _ formfill.Opener = Opener{}

// NewOpener returns an Opener that never touches pdfcpu's on-disk
// configuration directory.
func NewOpener() Opener {
	disableConfigDir.Do(api.DisableConfigDir)
	return Opener{}
}

// configuration returns a fresh pdfcpu configuration. pdfcpu mutates the
// configuration it is handed, so one is never shared between calls.
func configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Open reads the form inventory of data. Anything pdfcpu cannot parse, and
// any PDF without an interactive form, is reported as formfill.ErrTemplateUnreadable.
func (Opener) Open(data []byte) (formfill.Template, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", formfill.ErrTemplateUnreadable)
	}
	var export bytes.Buffer
	if err := api.ExportFormJSON(bytes.NewReader(data), &export, "template.pdf", configuration()); err != nil {
		return nil, fmt.Errorf("%w: %w", formfill.ErrTemplateUnreadable, err)
	}
	return newTemplate(data, export.Bytes())
}

func newTemplate(data, export []byte) (*Template, error) {
	header, fields, err := parseExport(export)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", formfill.ErrTemplateUnreadable, err)
	}
	t := &Template{
		data:   data,
		header: header,
		fields: fields,
		byName: make(map[string]int, len(fields)),
		writes: make(map[string]pending),
		fill:   fillPDF,
	}
	for i, f := range fields {
		if _, dup := t.byName[f.name]; !dup {
			t.byName[f.name] = i
		}
	}
	return t, nil
}

// Template is an opened PDF form. It is owned by one generation call.
type Template struct {
	data   []byte
	header json.RawMessage
	fields []field
	byName map[string]int
	writes map[string]pending

	fill func(data, fillJSON []byte) ([]byte, error)
}

var _ formfill.Template = (*Template)(nil)

func (t *Template) lookup(name string) (field, bool) {
	i, ok := t.byName[name]
	if !ok {
		return field{}, false
	}
	return t.fields[i], true
}

// Widget implements formfill.Form.
func (t *Template) Widget(name string) (formfill.Widget, bool) {
	f, ok := t.lookup(name)
	if !ok {
		return formfill.Widget{}, false
	}
	return formfill.Widget{Name: f.name, Kind: f.kind()}, true
}

func (t *Template) writable(w formfill.Widget, want formfill.Kind) error {
	f, ok := t.lookup(w.Name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoSuchName, w.Name)
	}
	if f.kind() != want {
		return fmt.Errorf("pdfform: field %q is %s", w.Name, f.kind())
	}
	if f.locked {
		return fmt.Errorf("%w: %q", ErrLocked, w.Name)
	}
	return nil
}

// SetText implements formfill.Form.
func (t *Template) SetText(w formfill.Widget, value string) error {
	if err := t.writable(w, formfill.KindText); err != nil {
		return err
	}
	if f, _ := t.lookup(w.Name); f.typ == typeDate {
		if err := checkDate(f, value); err != nil {
			return err
		}
	}
	t.writes[w.Name] = pending{text: value}
	return nil
}

// Check implements formfill.Form.
func (t *Template) Check(w formfill.Widget) error {
	if err := t.writable(w, formfill.KindMark); err != nil {
		return err
	}
	t.writes[w.Name] = pending{checked: true}
	return nil
}

// Widgets implements formfill.Template. Names shared by several widgets are
// listed once.
func (t *Template) Widgets() []formfill.Widget {
	out := make([]formfill.Widget, 0, len(t.byName))
	for i, f := range t.fields {
		if t.byName[f.name] != i {
			continue
		}
		out = append(out, formfill.Widget{Name: f.name, Kind: f.kind()})
	}
	return out
}

// Finalize applies all buffered writes. A template nothing was written to
// is returned as an unchanged copy of its input.
func (t *Template) Finalize() ([]byte, error) {
	if len(t.writes) == 0 {
		return bytes.Clone(t.data), nil
	}
	fillJSON, err := buildFill(t.header, t.fields, t.writes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", formfill.ErrSerializationFailed, err)
	}
	out, err := t.fill(t.data, fillJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", formfill.ErrSerializationFailed, err)
	}
	return stamp(out, fingerprint(t.data, t.fields, t.writes)), nil
}

// checkDate rejects a value pdfcpu would not accept for the field's own date
// format. Empty values and formats pdfcpu does not know are let through.
func checkDate(f field, value string) error {
	if value == "" || f.format == "" {
		return nil
	}
	df, err := primitives.DateFormatForFmtExt(f.format)
	if err != nil {
		return nil
	}
	if _, err := time.Parse(df.Int, value); err != nil {
		return fmt.Errorf("%w: %q wants %s, got %q", ErrDateFormat, f.name, f.format, value)
	}
	return nil
}

func fillPDF(data, fillJSON []byte) ([]byte, error) {
	conf := configuration()
	// Plain trailer and info objects so stamp can pin them.
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false

	var out bytes.Buffer
	if err := api.FillForm(bytes.NewReader(data), bytes.NewReader(fillJSON), &out, conf); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
