package pdfform

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/ehr/formfill/internal/formfill"
)

// acroForm builds a one-page PDF with a text field and a check box.
func acroForm() []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R /AcroForm 4 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /Helv 5 0 R >> >> /Annots [6 0 R 7 0 R] >>",
		"<< /Fields [6 0 R 7 0 R] /DA (/Helv 0 Tf 0 g) /DR << /Font << /Helv 5 0 R >> >> >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (last_name) /Rect [50 700 250 720] /P 3 0 R /F 4 /DA (/Helv 12 Tf 0 g) >>",
		"<< /Type /Annot /Subtype /Widget /FT /Btn /T (risk_code_a) /Rect [50 650 62 662] /P 3 0 R /F 4 /V /Off /AS /Off /MK << >> /AP << /N << /Yes 8 0 R /Off 9 0 R >> >> >>",
		"<< /Type /XObject /Subtype /Form /BBox [0 0 12 12] /Length 0 >>\nstream\n\nendstream",
		"<< /Type /XObject /Subtype /Form /BBox [0 0 12 12] /Length 0 >>\nstream\n\nendstream",
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.7\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}

type intakeRecord struct {
	LastName *string
	Risk     *bool
}

func intakeTable() formfill.Table[intakeRecord] {
	return formfill.Table[intakeRecord]{Name: "intake", Rules: []formfill.Rule[intakeRecord]{
		formfill.Text("last_name", func(r intakeRecord) *string { return r.LastName }),
		formfill.Mark("risk_code_a", func(r intakeRecord) *bool { return r.Risk }),
	}}
}

func TestGenerate_RealPDFIsDeterministic(t *testing.T) {
	last, risk := "Dela Cruz", true
	rec := intakeRecord{LastName: &last, Risk: &risk}
	data := acroForm()

	a, err := formfill.Generate(data, NewOpener(), intakeTable(), rec, formfill.DefaultOptions())
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	b, err := formfill.Generate(data, NewOpener(), intakeTable(), rec, formfill.DefaultOptions())
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if len(a.Warnings) != 0 || len(a.Written) != 2 {
		t.Errorf("written = %v, warnings = %v", a.Written, a.Warnings)
	}
	if !bytes.Equal(a.Content, b.Content) {
		t.Fatalf("outputs differ (%d vs %d bytes)", len(a.Content), len(b.Content))
	}
	if bytes.Equal(a.Content, data) {
		t.Error("output equals the unfilled template")
	}

	tpl, err := NewOpener().Open(a.Content)
	if err != nil {
		t.Fatalf("reopen output: %v", err)
	}
	if _, ok := tpl.Widget("last_name"); !ok {
		t.Error("last_name missing from filled output")
	}
}

func TestGenerate_RealPDFDiffersByRecord(t *testing.T) {
	data := acroForm()
	first, second := "Dela Cruz", "Reyes"

	a, err := formfill.Generate(data, NewOpener(), intakeTable(), intakeRecord{LastName: &first}, formfill.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := formfill.Generate(data, NewOpener(), intakeTable(), intakeRecord{LastName: &second}, formfill.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a.Content, b.Content) {
		t.Error("different records produced identical output")
	}
}

func TestStamp(t *testing.T) {
	digest := []byte{0xab, 0xcd}
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fresh identifier pair",
			in:   "trailer\n<</ID[<0123456789> <0123456789>]/Size 9>>",
			want: "trailer\n<</ID[<abcdabcdab> <abcdabcdab>]/Size 9>>",
		},
		{
			name: "source identifier kept",
			in:   "/ID [ <11111111> <22222222> ]",
			want: "/ID [ <11111111> <abcdabcd> ]",
		},
		{
			name: "info dates",
			in:   "<</CreationDate(D:20241019093000+08'00')/ModDate (D:20241019093001-05'30')/Producer(pdfcpu v0.9.1)>>",
			want: "<</CreationDate(D:19700101000000+00'00')/ModDate (D:19700101000000+00'00')/Producer(pdfcpu v0.9.1)>>",
		},
		{
			name: "nothing to pin",
			in:   "%PDF-1.7 body",
			want: "%PDF-1.7 body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stamp([]byte(tt.in), digest)
			if string(got) != tt.want {
				t.Errorf("stamp() = %q, want %q", got, tt.want)
			}
			if len(got) != len(tt.in) {
				t.Errorf("length changed from %d to %d", len(tt.in), len(got))
			}
		})
	}
}

func TestFingerprint_DependsOnWrites(t *testing.T) {
	fields := []field{{typ: typeText, id: "6", name: "last_name"}, {typ: typeCheckBox, id: "7", name: "risk_code_a"}}
	data := []byte("%PDF")

	a := fingerprint(data, fields, map[string]pending{"last_name": {text: "Reyes"}})
	b := fingerprint(data, fields, map[string]pending{"last_name": {text: "Reyes"}})
	c := fingerprint(data, fields, map[string]pending{"last_name": {text: "Reyes"}, "risk_code_a": {checked: true}})
	if !bytes.Equal(a, b) {
		t.Error("same writes produced different digests")
	}
	if bytes.Equal(a, c) {
		t.Error("different writes produced the same digest")
	}
}
