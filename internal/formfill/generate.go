package formfill

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Result is a successfully generated document.
type Result struct {
	Content  []byte
	Written  []Write
	Warnings []Warning
}

// Generate opens data as a template, fills it from rec using table, and
// serializes the result. Only template-open and serialization failures are
// returned as errors; every per-field problem is reported in
// Result.Warnings. No bytes are returned alongside an error.
func Generate[R any](data []byte, opener Opener, table Table[R], rec R, opts Options) (*Result, error) {
	tpl, err := Open(opener, data)
	if err != nil {
		return nil, err
	}

	rep := Fill(tpl, table, rec, opts)

	out, err := Finalize(tpl)
	if err != nil {
		return nil, err
	}

	return &Result{Content: out, Written: rep.Written, Warnings: rep.Warnings}, nil
}

// Open wraps opener.Open so every failure matches ErrTemplateUnreadable.
func Open(opener Opener, data []byte) (Template, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty template", ErrTemplateUnreadable)
	}
	tpl, err := opener.Open(data)
	if err != nil {
		if errors.Is(err, ErrTemplateUnreadable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrTemplateUnreadable, err)
	}
	return tpl, nil
}

// Finalize wraps tpl.Finalize so every failure matches ErrSerializationFailed.
func Finalize(tpl Template) ([]byte, error) {
	out, err := tpl.Finalize()
	if err != nil {
		if errors.Is(err, ErrSerializationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrSerializationFailed)
	}
	return out, nil
}

var nonAlnumRun = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// SanitizeFilenamePart collapses every run of non-alphanumeric characters
// into a single underscore and trims underscores at both ends.
func SanitizeFilenamePart(s string) string {
	return strings.Trim(nonAlnumRun.ReplaceAllString(s, "_"), "_")
}

// SuggestedFilename joins prefix, the sanitized identity parts and suffix
// with underscores and appends ".pdf". Empty parts are skipped.
func SuggestedFilename(prefix, suffix string, parts ...string) string {
	segs := []string{prefix}
	for _, p := range parts {
		if s := SanitizeFilenamePart(p); s != "" {
			segs = append(segs, s)
		}
	}
	if suffix != "" {
		segs = append(segs, suffix)
	}
	return strings.Join(segs, "_") + ".pdf"
}

// ContentDisposition builds an attachment header for filename. Names that are
// not plain printable ASCII get an ASCII fallback in filename and the UTF-8
// original in filename* (RFC 5987).
func ContentDisposition(filename string) string {
	fallback := asciiFilename(filename)
	if fallback == filename {
		return fmt.Sprintf(`attachment; filename="%s"`, filename)
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback, encodeExtValue(filename))
}

func asciiFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// encodeExtValue percent-encodes everything outside the attr-char set.
func encodeExtValue(s string) string {
	const hexDigits = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			strings.IndexByte("!#$&+-.^_`|~", c) >= 0:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0x0f])
		}
	}
	return b.String()
}
