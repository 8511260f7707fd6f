package db

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/ehr/formfill/migrations"
)

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"001_form_template.sql":  {Data: []byte("CREATE TABLE form_template (id TEXT);")},
		"002_document_audit.sql": {Data: []byte("CREATE TABLE document_audit (id BIGSERIAL);")},
	}

	migrator := NewMigrator(nil, fsys)
	got, err := migrator.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(got))
	}
	if got[0].Version != 1 || got[0].Name != "001_form_template.sql" {
		t.Errorf("unexpected first migration %+v", got[0])
	}
	if got[0].SQL != "CREATE TABLE form_template (id TEXT);" {
		t.Errorf("unexpected SQL content: %s", got[0].SQL)
	}
	if got[1].Version != 2 {
		t.Errorf("expected version 2, got %d", got[1].Version)
	}
}

func TestLoadMigrations_SortOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"010_tables.sql": {Data: []byte("SELECT 10;")},
		"002_second.sql": {Data: []byte("SELECT 2;")},
		"001_first.sql":  {Data: []byte("SELECT 1;")},
		"005_middle.sql": {Data: []byte("SELECT 5;")},
	}

	got, err := NewMigrator(nil, fsys).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}

	want := []int{1, 2, 5, 10}
	if len(got) != len(want) {
		t.Fatalf("expected %d migrations, got %d", len(want), len(got))
	}
	for i, v := range want {
		if got[i].Version != v {
			t.Errorf("migration[%d]: expected version %d, got %d", i, v, got[i].Version)
		}
	}
}

func TestLoadMigrations_SkipsInvalidNames(t *testing.T) {
	fsys := fstest.MapFS{
		"001_valid.sql":      {Data: []byte("SELECT 1;")},
		"readme.sql":         {Data: []byte("-- no version prefix")},
		"notes.txt":          {Data: []byte("not a sql file")},
		"abc_invalid.sql":    {Data: []byte("-- non-numeric prefix")},
		"002_also_valid.sql": {Data: []byte("SELECT 2;")},
		"003_dir/inner.sql":  {Data: []byte("SELECT 3;")},
	}

	got, err := NewMigrator(nil, fsys).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 valid migrations, got %d", len(got))
	}
	if got[0].Version != 1 || got[1].Version != 2 {
		t.Errorf("unexpected versions %d, %d", got[0].Version, got[1].Version)
	}
}

func TestLoadMigrations_Embedded(t *testing.T) {
	got, err := NewMigrator(nil, migrations.FS).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(got) < 2 {
		t.Fatalf("expected embedded migrations, got %d", len(got))
	}
	if got[0].Name != "001_form_template.sql" {
		t.Errorf("first migration = %s", got[0].Name)
	}
	for i, mig := range got {
		if mig.Version != i+1 {
			t.Errorf("migration %s has version %d, want %d", mig.Name, mig.Version, i+1)
		}
	}
}

func TestPendingAndStatuses(t *testing.T) {
	all := []Migration{
		{Version: 1, Name: "001_form_template.sql"},
		{Version: 2, Name: "002_document_audit.sql"},
		{Version: 3, Name: "003_next.sql"},
	}
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	applied := map[int]time.Time{1: at}

	todo := pending(all, applied)
	if len(todo) != 2 || todo[0].Version != 2 || todo[1].Version != 3 {
		t.Errorf("unexpected pending set %+v", todo)
	}

	st := statuses(all, applied)
	if len(st) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(st))
	}
	if !st[0].Applied || st[0].AppliedAt == nil || !st[0].AppliedAt.Equal(at) {
		t.Errorf("expected migration 001 applied at %v, got %+v", at, st[0])
	}
	for _, s := range st[1:] {
		if s.Applied || s.AppliedAt != nil {
			t.Errorf("expected %s to be pending", s.Name)
		}
	}
}

func TestLoadMigrations_EmptyFS(t *testing.T) {
	got, err := NewMigrator(nil, fstest.MapFS{}).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 migrations, got %d", len(got))
	}
}
