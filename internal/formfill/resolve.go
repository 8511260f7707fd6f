package formfill

// Resolution is the outcome of looking up a field name in a template.
type Resolution struct {
	Widget Widget
	Found  bool
}

// Resolve looks up name by exact string match. A miss is an ordinary result,
// not an error.
func Resolve(form Form, name string) Resolution {
	w, ok := form.Widget(name)
	if !ok {
		return Resolution{Widget: Widget{Name: name}}
	}
	return Resolution{Widget: w, Found: true}
}

// attempt pairs the widget kind a strategy accepts with the write it performs.
type attempt struct {
	kind  Kind
	write func(form Form, w Widget, text string) error
}

func writeText(form Form, w Widget, text string) error { return form.SetText(w, text) }

func writeCheck(form Form, w Widget, _ string) error { return form.Check(w) }

// Text targets accept only text widgets. Mark targets try the check box
// first and fall back to the mark character in a text widget of the same
// name.
var (
	textAttempts = []attempt{{kind: KindText, write: writeText}}
	markAttempts = []attempt{{kind: KindMark, write: writeCheck}, {kind: KindText, write: writeText}}
)

func attemptsFor(f Format) []attempt {
	if f == FormatMark {
		return markAttempts
	}
	return textAttempts
}

// write runs the attempts in order against the resolved widget. It returns
// the widget written, or the reason every attempt failed.
func write(form Form, res Resolution, attempts []attempt, text string) (Widget, Reason, string) {
	if !res.Found {
		return Widget{}, ReasonNotFound, ""
	}
	reason, detail := ReasonKindMismatch, "widget is "+res.Widget.Kind.String()
	for _, a := range attempts {
		if res.Widget.Kind != a.kind {
			continue
		}
		if err := a.write(form, res.Widget, text); err != nil {
			reason, detail = ReasonWriteFailed, err.Error()
			continue
		}
		return res.Widget, "", ""
	}
	return Widget{}, reason, detail
}
