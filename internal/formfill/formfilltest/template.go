// Package formfilltest provides an in-memory formfill.Template for tests.
//
// Templates are encoded as plain text so tests can hand the pipeline real
// "template bytes":
//
//	FORMFILLTEST
//	last_name=text
//	risk_code_a=mark
//	remarks=text:preset value
package formfilltest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ehr/formfill/internal/formfill"
)

const header = "FORMFILLTEST"

// Template is an in-memory formfill.Template that records every lookup.
type Template struct {
	order   []string
	kinds   map[string]formfill.Kind
	text    map[string]string
	checked map[string]bool

	// Lookups lists every name passed to Widget, in call order.
	Lookups []string
	// Reject makes writes to the named widgets fail.
	Reject map[string]bool
	// FinalizeErr, when set, is returned by Finalize.
	FinalizeErr error
}

var _ formfill.Template = (*Template)(nil)

// New builds a Template holding the given widgets with empty values.
func New(widgets ...formfill.Widget) *Template {
	t := &Template{
		kinds:   make(map[string]formfill.Kind),
		text:    make(map[string]string),
		checked: make(map[string]bool),
		Reject:  make(map[string]bool),
	}
	for _, w := range widgets {
		t.add(w.Name, w.Kind)
	}
	return t
}

func (t *Template) add(name string, kind formfill.Kind) {
	if _, ok := t.kinds[name]; !ok {
		t.order = append(t.order, name)
	}
	t.kinds[name] = kind
}

// Text returns a widget constructor shorthand.
func Text(name string) formfill.Widget { return formfill.Widget{Name: name, Kind: formfill.KindText} }

// Mark returns a widget constructor shorthand.
func Mark(name string) formfill.Widget { return formfill.Widget{Name: name, Kind: formfill.KindMark} }

// Widget implements formfill.Form.
func (t *Template) Widget(name string) (formfill.Widget, bool) {
	t.Lookups = append(t.Lookups, name)
	k, ok := t.kinds[name]
	if !ok {
		return formfill.Widget{}, false
	}
	return formfill.Widget{Name: name, Kind: k}, true
}

// SetText implements formfill.Form.
func (t *Template) SetText(w formfill.Widget, value string) error {
	if err := t.writable(w, formfill.KindText); err != nil {
		return err
	}
	t.text[w.Name] = value
	return nil
}

// Check implements formfill.Form.
func (t *Template) Check(w formfill.Widget) error {
	if err := t.writable(w, formfill.KindMark); err != nil {
		return err
	}
	t.checked[w.Name] = true
	return nil
}

func (t *Template) writable(w formfill.Widget, want formfill.Kind) error {
	k, ok := t.kinds[w.Name]
	if !ok {
		return fmt.Errorf("no widget %q", w.Name)
	}
	if k != want {
		return fmt.Errorf("widget %q is %s", w.Name, k)
	}
	if t.Reject[w.Name] {
		return errors.New("widget is read-only")
	}
	return nil
}

// Widgets implements formfill.Template.
func (t *Template) Widgets() []formfill.Widget {
	out := make([]formfill.Widget, 0, len(t.order))
	for _, n := range t.order {
		out = append(out, formfill.Widget{Name: n, Kind: t.kinds[n]})
	}
	return out
}

// TextOf returns the current text of a widget.
func (t *Template) TextOf(name string) string { return t.text[name] }

// Checked reports whether a mark widget is checked.
func (t *Template) Checked(name string) bool { return t.checked[name] }

// Looked reports whether name was ever passed to Widget.
func (t *Template) Looked(name string) bool {
	for _, n := range t.Lookups {
		if n == name {
			return true
		}
	}
	return false
}

// Finalize encodes the template in the same text format Open reads.
func (t *Template) Finalize() ([]byte, error) {
	if t.FinalizeErr != nil {
		return nil, t.FinalizeErr
	}
	var buf bytes.Buffer
	buf.WriteString(header + "\n")
	for _, n := range t.order {
		k := t.kinds[n]
		switch k {
		case formfill.KindMark:
			if t.checked[n] {
				fmt.Fprintf(&buf, "%s=%s:on\n", n, k)
			} else {
				fmt.Fprintf(&buf, "%s=%s\n", n, k)
			}
		default:
			if v := t.text[n]; v != "" {
				fmt.Fprintf(&buf, "%s=%s:%s\n", n, k, v)
			} else {
				fmt.Fprintf(&buf, "%s=%s\n", n, k)
			}
		}
	}
	return buf.Bytes(), nil
}

// Encode renders widgets as template bytes for Opener.
func Encode(widgets ...formfill.Widget) []byte {
	t := New(widgets...)
	out, _ := t.Finalize()
	return out
}

// Opener decodes the text template format. The most recently opened
// Template is kept in Last for assertions.
type Opener struct {
	Last *Template
}

var _ formfill.Opener = (*Opener)(nil)

// Open implements formfill.Opener.
func (o *Opener) Open(data []byte) (formfill.Template, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	if !sc.Scan() || strings.TrimSpace(sc.Text()) != header {
		return nil, errors.New("formfilltest: missing header")
	}
	t := New()
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		name, rest, ok := strings.Cut(line, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("formfilltest: bad line %q", line)
		}
		kindName, value, _ := strings.Cut(rest, ":")
		var k formfill.Kind
		if err := k.UnmarshalText([]byte(kindName)); err != nil {
			return nil, err
		}
		t.add(name, k)
		switch {
		case k == formfill.KindMark && value == "on":
			t.checked[name] = true
		case value != "":
			t.text[name] = value
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	o.Last = t
	return t, nil
}
