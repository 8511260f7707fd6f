package formfill_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/ehr/formfill/internal/formfill"
	"github.com/ehr/formfill/internal/formfill/formfilltest"
)

type row struct {
	Year *int
	Wt   *float64
}

type rec struct {
	Last      *string
	Given     *string
	Age       *int
	LMP       *string
	PhilHlth  *bool
	RiskA     *bool
	Rows      []row
	Remarks   *string
	Breastfed *bool
}

func ptr[T any](v T) *T { return &v }

func recTable() formfill.Table[rec] {
	return formfill.Table[rec]{
		Name: "test",
		Rules: []formfill.Rule[rec]{
			formfill.Text("last_name", func(r rec) *string { return r.Last }),
			formfill.Text("given_name", func(r rec) *string { return r.Given }),
			formfill.Integer("age", func(r rec) *int { return r.Age }),
			formfill.Date("lmp_date", func(r rec) *string { return r.LMP }),
			formfill.Mark("philhealth_yes", func(r rec) *bool { return r.PhilHlth }),
			formfill.Mark("risk_code_a", func(r rec) *bool { return r.RiskA }),
			formfill.Repeat("history", 2, func(r rec) []row { return r.Rows },
				formfill.Integer("hist_r{i}_year", func(x row) *int { return x.Year }),
				formfill.Decimal("hist_r{i}_wt", func(x row) *float64 { return x.Wt }),
			),
			formfill.Text("remarks", func(r rec) *string { return r.Remarks }),
			formfill.Mark("bf_yes", func(r rec) *bool { return r.Breastfed }),
		},
	}
}

func fullTemplate() *formfilltest.Template {
	return formfilltest.New(
		formfilltest.Text("last_name"),
		formfilltest.Text("given_name"),
		formfilltest.Text("age"),
		formfilltest.Text("lmp_date"),
		formfilltest.Mark("philhealth_yes"),
		formfilltest.Text("risk_code_a"),
		formfilltest.Text("hist_r1_year"),
		formfilltest.Text("hist_r1_wt"),
		formfilltest.Text("hist_r2_year"),
		formfilltest.Text("hist_r2_wt"),
		formfilltest.Text("remarks"),
		formfilltest.Mark("bf_yes"),
	)
}

func TestFill_WritesPresentValues(t *testing.T) {
	tpl := fullTemplate()
	r := rec{
		Last:     ptr("Dela Cruz"),
		Given:    ptr("Maria"),
		Age:      ptr(28),
		LMP:      ptr("2024-01-29"),
		PhilHlth: ptr(true),
		RiskA:    ptr(true),
		Rows:     []row{{Year: ptr(2019), Wt: ptr(3.2)}},
	}

	rep := formfill.Fill(tpl, recTable(), r, formfill.DefaultOptions())

	if len(rep.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", rep.Warnings)
	}
	want := map[string]string{
		"last_name":    "Dela Cruz",
		"given_name":   "Maria",
		"age":          "28",
		"lmp_date":     "1/29/2024",
		"risk_code_a":  "X",
		"hist_r1_year": "2019",
		"hist_r1_wt":   "3.2",
	}
	for field, v := range want {
		if got := tpl.TextOf(field); got != v {
			t.Errorf("%s = %q, want %q", field, got, v)
		}
	}
	if !tpl.Checked("philhealth_yes") {
		t.Error("philhealth_yes not checked")
	}

	wantWritten := []formfill.Write{
		{Field: "last_name", Kind: formfill.KindText, Value: "Dela Cruz"},
		{Field: "given_name", Kind: formfill.KindText, Value: "Maria"},
		{Field: "age", Kind: formfill.KindText, Value: "28"},
		{Field: "lmp_date", Kind: formfill.KindText, Value: "1/29/2024"},
		{Field: "philhealth_yes", Kind: formfill.KindMark},
		{Field: "risk_code_a", Kind: formfill.KindText, Value: "X"},
		{Field: "hist_r1_year", Kind: formfill.KindText, Value: "2019"},
		{Field: "hist_r1_wt", Kind: formfill.KindText, Value: "3.2"},
	}
	if diff := cmp.Diff(wantWritten, rep.Written); diff != "" {
		t.Errorf("Written mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_AbsentValuesLeaveWidgetsUntouched(t *testing.T) {
	opener := &formfilltest.Opener{}
	data := []byte("FORMFILLTEST\nlast_name=text:preset\nremarks=text:keep me\nbf_yes=mark\n")
	tpl, err := opener.Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	rep := formfill.Fill(tpl, recTable(), rec{}, formfill.DefaultOptions())

	if len(rep.Written) != 0 || len(rep.Warnings) != 0 {
		t.Fatalf("expected no writes or warnings, got %+v", rep)
	}
	if got := opener.Last.TextOf("remarks"); got != "keep me" {
		t.Errorf("remarks = %q, want untouched default", got)
	}
	if got := opener.Last.TextOf("last_name"); got != "preset" {
		t.Errorf("last_name = %q, want untouched default", got)
	}
	if len(opener.Last.Lookups) != 0 {
		t.Errorf("absent values should not be resolved, looked up %v", opener.Last.Lookups)
	}
}

func TestFill_EmptyStringIsSkipped(t *testing.T) {
	tpl := fullTemplate()
	rep := formfill.Fill(tpl, recTable(), rec{Remarks: ptr("")}, formfill.DefaultOptions())
	if len(rep.Written) != 0 {
		t.Errorf("Written = %v, want none", rep.Written)
	}
	if tpl.Looked("remarks") {
		t.Error("empty value should not be resolved")
	}
}

func TestFill_FalseMarkIsNeverWritten(t *testing.T) {
	tpl := fullTemplate()
	rep := formfill.Fill(tpl, recTable(), rec{PhilHlth: ptr(false), Breastfed: ptr(false)}, formfill.DefaultOptions())
	if len(rep.Written) != 0 || len(rep.Warnings) != 0 {
		t.Fatalf("got %+v, want empty report", rep)
	}
	if tpl.Checked("philhealth_yes") || tpl.Checked("bf_yes") {
		t.Error("false flags must not check boxes")
	}
}

func TestFill_RowsBeyondCapacityAreDropped(t *testing.T) {
	tpl := fullTemplate()
	r := rec{Rows: []row{
		{Year: ptr(2015)}, {Year: ptr(2017)}, {Year: ptr(2019)}, {Year: ptr(2021)},
	}}

	rep := formfill.Fill(tpl, recTable(), r, formfill.DefaultOptions())

	if len(rep.Warnings) != 0 {
		t.Errorf("capacity overflow must be silent, got %v", rep.Warnings)
	}
	if got := tpl.TextOf("hist_r2_year"); got != "2017" {
		t.Errorf("hist_r2_year = %q, want 2017", got)
	}
	for _, name := range []string{"hist_r3_year", "hist_r4_year"} {
		if tpl.Looked(name) {
			t.Errorf("%s looked up beyond capacity", name)
		}
	}
}

func TestFill_MissingWidgetsBecomeWarnings(t *testing.T) {
	tpl := formfilltest.New(formfilltest.Text("given_name"))
	r := rec{Last: ptr("Dela Cruz"), Given: ptr("Maria"), RiskA: ptr(true)}

	rep := formfill.Fill(tpl, recTable(), r, formfill.DefaultOptions())

	want := []formfill.Warning{
		{Field: "last_name", Reason: formfill.ReasonNotFound},
		{Field: "risk_code_a", Reason: formfill.ReasonNotFound},
	}
	if diff := cmp.Diff(want, rep.Warnings); diff != "" {
		t.Errorf("Warnings mismatch (-want +got):\n%s", diff)
	}
	if got := tpl.TextOf("given_name"); got != "Maria" {
		t.Errorf("given_name = %q, want Maria", got)
	}
}

func TestFill_KindMismatch(t *testing.T) {
	tpl := formfilltest.New(
		formfilltest.Mark("last_name"),
		formfill.Widget{Name: "risk_code_a", Kind: formfill.KindOther},
	)
	r := rec{Last: ptr("Dela Cruz"), RiskA: ptr(true)}

	rep := formfill.Fill(tpl, recTable(), r, formfill.DefaultOptions())

	want := []formfill.Warning{
		{Field: "last_name", Reason: formfill.ReasonKindMismatch, Detail: "widget is mark"},
		{Field: "risk_code_a", Reason: formfill.ReasonKindMismatch, Detail: "widget is other"},
	}
	if diff := cmp.Diff(want, rep.Warnings); diff != "" {
		t.Errorf("Warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_InvalidDateWarnsAndContinues(t *testing.T) {
	tpl := fullTemplate()
	r := rec{LMP: ptr("last spring"), Given: ptr("Maria")}

	rep := formfill.Fill(tpl, recTable(), r, formfill.DefaultOptions())

	if len(rep.Warnings) != 1 || rep.Warnings[0].Field != "lmp_date" || rep.Warnings[0].Reason != formfill.ReasonInvalidValue {
		t.Fatalf("Warnings = %v, want one InvalidValue for lmp_date", rep.Warnings)
	}
	if got := tpl.TextOf("lmp_date"); got != "" {
		t.Errorf("lmp_date = %q, want empty", got)
	}
	if got := tpl.TextOf("given_name"); got != "Maria" {
		t.Errorf("given_name = %q, want Maria", got)
	}
}

func TestFill_RawDateFallback(t *testing.T) {
	tpl := fullTemplate()
	opts := formfill.DefaultOptions()
	opts.Formatter.RawDateFallback = true

	rep := formfill.Fill(tpl, recTable(), rec{LMP: ptr("last spring")}, opts)

	if len(rep.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", rep.Warnings)
	}
	if got := tpl.TextOf("lmp_date"); got != "last spring" {
		t.Errorf("lmp_date = %q, want raw input", got)
	}
}

func TestFill_WriteFailureIsIsolated(t *testing.T) {
	tpl := fullTemplate()
	tpl.Reject["last_name"] = true
	r := rec{Last: ptr("Dela Cruz"), Given: ptr("Maria")}

	rep := formfill.Fill(tpl, recTable(), r, formfill.DefaultOptions())

	if len(rep.Warnings) != 1 || rep.Warnings[0].Reason != formfill.ReasonWriteFailed {
		t.Fatalf("Warnings = %v, want one WriteFailed", rep.Warnings)
	}
	if got := tpl.TextOf("given_name"); got != "Maria" {
		t.Errorf("given_name = %q, want Maria", got)
	}
}

func TestFill_DoesNotMutateRecord(t *testing.T) {
	r := rec{Last: ptr("Dela Cruz"), Rows: []row{{Year: ptr(2019)}, {Year: ptr(2020)}, {Year: ptr(2021)}}}
	formfill.Fill(fullTemplate(), recTable(), r, formfill.DefaultOptions())
	if *r.Last != "Dela Cruz" || len(r.Rows) != 3 {
		t.Errorf("record mutated: %+v", r)
	}
}

func TestFill_LogsSkippedFields(t *testing.T) {
	var buf bytes.Buffer
	opts := formfill.DefaultOptions()
	opts.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)

	formfill.Fill(formfilltest.New(), recTable(), rec{Last: ptr("Dela Cruz")}, opts)

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte(`"field":"last_name"`)) || !bytes.Contains([]byte(out), []byte(`"reason":"NotFound"`)) {
		t.Errorf("log output missing skipped field: %s", out)
	}
}
