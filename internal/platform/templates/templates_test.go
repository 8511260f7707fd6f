package templates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ehr/formfill/internal/formfill"
	"github.com/ehr/formfill/internal/platform/blobstore"
)

const pdf = "%PDF-1.7\nform\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFileSource_Fetch(t *testing.T) {
	dir := t.TempDir()
	abs := writeFile(t, dir, "template1.pdf", pdf)
	src := FileSource{Dir: dir}

	for _, loc := range []string{"template1.pdf", abs} {
		data, err := src.Fetch(context.Background(), loc)
		if err != nil {
			t.Fatalf("Fetch(%s): %v", loc, err)
		}
		if string(data) != pdf {
			t.Errorf("Fetch(%s) = %q", loc, data)
		}
	}
}

func TestFileSource_Failures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "big.pdf", strings.Repeat("x", 64))

	tests := []struct {
		name string
		src  FileSource
		loc  string
	}{
		{"missing", FileSource{Dir: dir}, "nope.pdf"},
		{"directory", FileSource{Dir: dir}, "."},
		{"too large", FileSource{Dir: dir, MaxBytes: 16}, "big.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.src.Fetch(context.Background(), tt.loc); !errors.Is(err, formfill.ErrTemplateFetchFailed) {
				t.Errorf("err = %v, want ErrTemplateFetchFailed", err)
			}
		})
	}
}

func TestHTTPSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/template.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte(pdf))
		case "/slow.pdf":
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(pdf))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(HTTPConfig{Timeout: 50 * time.Millisecond})

	data, err := src.Fetch(context.Background(), srv.URL+"/template.pdf")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != pdf {
		t.Errorf("body = %q", data)
	}

	for _, path := range []string{"/missing.pdf", "/slow.pdf"} {
		if _, err := src.Fetch(context.Background(), srv.URL+path); !errors.Is(err, formfill.ErrTemplateFetchFailed) {
			t.Errorf("Fetch(%s) err = %v, want ErrTemplateFetchFailed", path, err)
		}
	}
}

func TestHTTPSource_NoRetriesByDefault(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := NewHTTPSource(HTTPConfig{})
	if _, err := src.Fetch(context.Background(), srv.URL); !errors.Is(err, formfill.ErrTemplateFetchFailed) {
		t.Fatalf("err = %v", err)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
}

func TestHTTPSource_SizeCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	src := NewHTTPSource(HTTPConfig{MaxBytes: 10})
	if _, err := src.Fetch(context.Background(), srv.URL); !errors.Is(err, formfill.ErrTemplateFetchFailed) {
		t.Errorf("err = %v, want ErrTemplateFetchFailed", err)
	}
}

func TestHTTPSource_SizeCapStreamed(t *testing.T) {
	chunk := []byte(strings.Repeat("x", 4096))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		// No Content-Length: the limit has to hold while reading.
		for i := 0; i < 16*1024; i++ {
			if _, err := w.Write(chunk); err != nil || r.Context().Err() != nil {
				return
			}
			flusher.Flush()
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(HTTPConfig{MaxBytes: 1024})
	_, err := src.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, formfill.ErrTemplateFetchFailed) {
		t.Fatalf("err = %v, want ErrTemplateFetchFailed", err)
	}
	if !strings.Contains(err.Error(), "exceeds limit of 1024 bytes") {
		t.Errorf("err = %v", err)
	}
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"https://cdn.example.org/template.pdf": true,
		"HTTP://host/t.pdf":                    true,
		"/srv/templates/template.pdf":          false,
		"template.pdf":                         false,
	}
	for in, want := range tests {
		if got := IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRouter_StoreWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "template.pdf", "%PDF-disk")
	store := blobstore.NewMemoryStore(0)
	if _, err := store.Put(context.Background(), blobstore.TemplateInfo{DocType: "patient-record"}, strings.NewReader("%PDF-uploaded")); err != nil {
		t.Fatal(err)
	}

	r := &Router{
		Store:     store,
		Locations: map[string]string{"patient-record": "template.pdf", "labor-record": "template.pdf"},
		Files:     FileSource{Dir: dir},
	}

	data, err := r.Load(context.Background(), "patient-record")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != "%PDF-uploaded" {
		t.Errorf("patient-record = %q, want uploaded template", data)
	}

	data, err = r.Load(context.Background(), "labor-record")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != "%PDF-disk" {
		t.Errorf("labor-record = %q, want disk template", data)
	}
}

func TestRouter_Failures(t *testing.T) {
	r := &Router{
		Locations: map[string]string{"labor-record": "missing.pdf", "birth-plan": "https://example.invalid/t.pdf"},
		Files:     FileSource{Dir: t.TempDir()},
	}
	for _, docType := range []string{"newborn-record", "labor-record", "birth-plan"} {
		if _, err := r.Load(context.Background(), docType); !errors.Is(err, formfill.ErrTemplateFetchFailed) {
			t.Errorf("Load(%s) err = %v, want ErrTemplateFetchFailed", docType, err)
		}
	}
}

func TestRouter_FetchViaHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(pdf))
	}))
	defer srv.Close()

	r := &Router{
		Locations: map[string]string{"birth-plan": srv.URL + "/template2.pdf"},
		HTTP:      NewHTTPSource(HTTPConfig{Timeout: time.Second}),
	}
	data, err := r.Load(context.Background(), "birth-plan")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(data) != pdf {
		t.Errorf("body = %q", data)
	}
}
