package inifile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		f, err := Parse(strings.NewReader(""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.HasSection("anything") {
			t.Error("empty file should have no sections")
		}
	})

	t.Run("single section with one key", func(t *testing.T) {
		f, err := Parse(strings.NewReader("[db]\nurl = postgres://localhost/db\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := f.Get("db", "url"); got != "postgres://localhost/db" {
			t.Errorf("got %q, want %q", got, "postgres://localhost/db")
		}
	})

	t.Run("multiple sections", func(t *testing.T) {
		f, err := Parse(strings.NewReader("[db]\nurl = x\n[migrations]\ndir = m\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := f.Get("db", "url"); got != "x" {
			t.Errorf("db.url: got %q, want %q", got, "x")
		}
		if got := f.Get("migrations", "dir"); got != "m" {
			t.Errorf("migrations.dir: got %q, want %q", got, "m")
		}
	})

	t.Run("comments and blank lines", func(t *testing.T) {
		ini := "# leading comment\n\n[section]\n; inline style\nkey = value\n"
		f, err := Parse(strings.NewReader(ini))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := f.Get("section", "key"); got != "value" {
			t.Errorf("got %q, want %q", got, "value")
		}
	})

	t.Run("case-insensitive sections and keys", func(t *testing.T) {
		f, err := Parse(strings.NewReader("[DB]\nURL = postgres://x\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := f.Get("db", "url"); got != "postgres://x" {
			t.Errorf("got %q, want %q", got, "postgres://x")
		}
	})

	t.Run("value case preserved", func(t *testing.T) {
		f, err := Parse(strings.NewReader("[snapshot]\nprefix = MyPrefix\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := f.Get("snapshot", "prefix"); got != "MyPrefix" {
			t.Errorf("got %q, want %q", got, "MyPrefix")
		}
	})

	t.Run("last assignment wins", func(t *testing.T) {
		f, err := Parse(strings.NewReader("[db]\nurl = first\nurl = second\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := f.Get("db", "url"); got != "second" {
			t.Errorf("got %q, want %q", got, "second")
		}
	})

	t.Run("value containing equals sign", func(t *testing.T) {
		f, err := Parse(strings.NewReader("[db]\nurl = postgres://h/db?sslmode=disable\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := f.Get("db", "url"); got != "postgres://h/db?sslmode=disable" {
			t.Errorf("got %q, want %q", got, "postgres://h/db?sslmode=disable")
		}
	})

	t.Run("missing section or key reads empty", func(t *testing.T) {
		f, err := Parse(strings.NewReader("[db]\nurl = x\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := f.Get("nope", "url"); got != "" {
			t.Errorf("missing section: got %q, want empty", got)
		}
		if got := f.Get("db", "nope"); got != "" {
			t.Errorf("missing key: got %q, want empty", got)
		}
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		ini  string
		want string
	}{
		{"key before section", "url = x\n", "before any [section]"},
		{"unterminated header", "[db\nurl = x\n", "unterminated section header"},
		{"empty section name", "[]\n", "empty section name"},
		{"line without equals", "[db]\njust some words\n", "expected key = value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.ini))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
			if !strings.Contains(err.Error(), "line ") {
				t.Errorf("error %q should carry a line number", err)
			}
		})
	}
}

func TestHasSection(t *testing.T) {
	f, err := Parse(strings.NewReader("[db]\nurl = x\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.HasSection("DB") {
		t.Error("HasSection should match case-insensitively")
	}
	if f.HasSection("snapshot") {
		t.Error("HasSection should be false for absent sections")
	}
}

func TestParseFile(t *testing.T) {
	t.Run("reads from disk", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "stepsql.ini")
		content := "[project]\nname = demo\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		f, err := ParseFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := f.Get("project", "name"); got != "demo" {
			t.Errorf("got %q, want %q", got, "demo")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := ParseFile(filepath.Join(t.TempDir(), "absent.ini")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
