package pdfform

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ehr/formfill/internal/formfill"
)

// The types below mirror the JSON document pdfcpu exports for a form and
// accepts back when filling one. Only the attributes this package reads or
// writes are declared; pdfcpu ignores unknown fields on fill.

type formGroup struct {
	Header json.RawMessage `json:"header,omitempty"`
	Forms  []form          `json:"forms"`
}

type form struct {
	TextFields  []textField  `json:"textfield,omitempty"`
	DateFields  []dateField  `json:"datefield,omitempty"`
	CheckBoxes  []checkBox   `json:"checkbox,omitempty"`
	RadioGroups []namedField `json:"radiobuttongroup,omitempty"`
	ComboBoxes  []namedField `json:"combobox,omitempty"`
	ListBoxes   []namedField `json:"listbox,omitempty"`
}

type textField struct {
	Pages     []int  `json:"pages"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	Default   string `json:"default,omitempty"`
	Value     string `json:"value"`
	Multiline bool   `json:"multiline"`
	Locked    bool   `json:"locked"`
}

type dateField struct {
	Pages   []int  `json:"pages"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Format  string `json:"format"`
	Default string `json:"default,omitempty"`
	Value   string `json:"value"`
	Locked  bool   `json:"locked"`
}

type checkBox struct {
	Pages   []int  `json:"pages"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Default bool   `json:"default"`
	Value   bool   `json:"value"`
	Locked  bool   `json:"locked"`
}

// namedField captures the identity of widgets the engine never writes.
type namedField struct {
	Pages []int  `json:"pages"`
	ID    string `json:"id"`
	Name  string `json:"name"`
}

type fieldType int

const (
	typeText fieldType = iota
	typeDate
	typeCheckBox
	typeOther
)

// field is one discovered widget together with what is needed to write it
// back through pdfcpu.
type field struct {
	typ    fieldType
	pages  []int
	id     string
	name   string
	format string
	locked bool
	seq    int
}

func (f field) kind() formfill.Kind {
	switch f.typ {
	case typeText, typeDate:
		return formfill.KindText
	case typeCheckBox:
		return formfill.KindMark
	}
	return formfill.KindOther
}

func (f field) firstPage() int {
	if len(f.pages) == 0 {
		return 0
	}
	return f.pages[0]
}

// parseExport decodes a pdfcpu form export into fields ordered by page and
// then by export order. The header is returned verbatim.
func parseExport(b []byte) (json.RawMessage, []field, error) {
	var g formGroup
	if err := json.Unmarshal(b, &g); err != nil {
		return nil, nil, fmt.Errorf("decode form export: %w", err)
	}

	var out []field
	add := func(f field) {
		f.seq = len(out)
		out = append(out, f)
	}
	for _, fm := range g.Forms {
		for _, t := range fm.TextFields {
			add(field{typ: typeText, pages: t.Pages, id: t.ID, name: t.Name, locked: t.Locked})
		}
		for _, d := range fm.DateFields {
			add(field{typ: typeDate, pages: d.Pages, id: d.ID, name: d.Name, format: d.Format, locked: d.Locked})
		}
		for _, c := range fm.CheckBoxes {
			add(field{typ: typeCheckBox, pages: c.Pages, id: c.ID, name: c.Name, locked: c.Locked})
		}
		for _, group := range [][]namedField{fm.RadioGroups, fm.ComboBoxes, fm.ListBoxes} {
			for _, n := range group {
				add(field{typ: typeOther, pages: n.Pages, id: n.ID, name: n.Name})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].firstPage() != out[j].firstPage() {
			return out[i].firstPage() < out[j].firstPage()
		}
		return out[i].seq < out[j].seq
	})
	return g.Header, out, nil
}

// pending is a value waiting to be written by Finalize.
type pending struct {
	text    string
	checked bool
}

// buildFill encodes only the written fields as a pdfcpu fill document.
func buildFill(header json.RawMessage, fields []field, writes map[string]pending) ([]byte, error) {
	var fm form
	for _, f := range fields {
		p, ok := writes[f.name]
		if !ok {
			continue
		}
		switch f.typ {
		case typeText:
			fm.TextFields = append(fm.TextFields, textField{Pages: f.pages, ID: f.id, Name: f.name, Value: p.text})
		case typeDate:
			fm.DateFields = append(fm.DateFields, dateField{Pages: f.pages, ID: f.id, Name: f.name, Format: f.format, Value: p.text})
		case typeCheckBox:
			fm.CheckBoxes = append(fm.CheckBoxes, checkBox{Pages: f.pages, ID: f.id, Name: f.name, Value: p.checked})
		}
	}
	return json.Marshal(formGroup{Header: header, Forms: []form{fm}})
}
