package pdfform

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

// pdfcpu derives the second file identifier and the info dictionary dates
// from the wall clock on every write. stamp overwrites them in place so the
// same template and writes always serialize to the same bytes. Replacements
// keep the original lengths, leaving the cross-reference offsets valid.

var (
	fileIDPattern   = regexp.MustCompile(`/ID\s*\[\s*<([0-9A-Fa-f]+)>\s*<([0-9A-Fa-f]+)>\s*\]`)
	infoDatePattern = regexp.MustCompile(`/(?:CreationDate|ModDate)\s*\((D:\d{14}[+\-Z]\d{2}'\d{2}')\)`)
)

// pinnedDate is written into CreationDate and ModDate.
const pinnedDate = "D:19700101000000+00'00'"

// fingerprint digests the template and the buffered writes in field order.
func fingerprint(data []byte, fields []field, writes map[string]pending) []byte {
	h := sha256.New()
	h.Write(data)
	for _, f := range fields {
		p, ok := writes[f.name]
		if !ok {
			continue
		}
		h.Write([]byte(f.id))
		h.Write([]byte{0})
		h.Write([]byte(f.name))
		h.Write([]byte{0})
		h.Write([]byte(p.text))
		if p.checked {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}
	return h.Sum(nil)
}

func stamp(pdf, digest []byte) []byte {
	pdf = fileIDPattern.ReplaceAllFunc(pdf, func(m []byte) []byte {
		sub := fileIDPattern.FindSubmatchIndex(m)
		out := bytes.Clone(m)
		first, second := m[sub[2]:sub[3]], m[sub[4]:sub[5]]
		// pdfcpu writes the same fresh value twice when the source had no ID.
		if bytes.Equal(first, second) {
			copy(out[sub[2]:sub[3]], hexOfLen(digest, len(first)))
		}
		copy(out[sub[4]:sub[5]], hexOfLen(digest, len(second)))
		return out
	})
	return infoDatePattern.ReplaceAllFunc(pdf, func(m []byte) []byte {
		sub := infoDatePattern.FindSubmatchIndex(m)
		out := bytes.Clone(m)
		if sub[3]-sub[2] == len(pinnedDate) {
			copy(out[sub[2]:sub[3]], pinnedDate)
		}
		return out
	})
}

func hexOfLen(digest []byte, n int) []byte {
	src := []byte(hex.EncodeToString(digest))
	out := make([]byte, n)
	for i := range out {
		out[i] = src[i%len(src)]
	}
	return out
}
