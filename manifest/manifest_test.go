package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return dir
}

func TestLoadFull(t *testing.T) {
	dir := writeManifest(t, `
[program]
name = "my-bench"
goal = 1000
trace = true

[store]
path = "programs.db"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Program.Name != "my-bench" {
		t.Errorf("Name = %q, want %q", m.Program.Name, "my-bench")
	}
	if m.Program.Goal != 1000 {
		t.Errorf("Goal = %d, want 1000", m.Program.Goal)
	}
	if !m.Program.Trace {
		t.Error("Trace should be true")
	}
	if m.Dir != dir {
		t.Errorf("Dir = %q, want %q", m.Dir, dir)
	}
	if want := filepath.Join(dir, "programs.db"); m.StorePath() != want {
		t.Errorf("StorePath = %q, want %q", m.StorePath(), want)
	}
}

func TestLoadMissingUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Program.Name != "countdown-sum" {
		t.Errorf("default Name = %q, want %q", m.Program.Name, "countdown-sum")
	}
	if m.Program.Goal != 100_000_000 {
		t.Errorf("default Goal = %d, want 100000000", m.Program.Goal)
	}
	if m.StorePath() != "" {
		t.Errorf("default StorePath = %q, want disabled", m.StorePath())
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	dir := writeManifest(t, `
[program]
goal = 50
`)
	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Program.Goal != 50 {
		t.Errorf("Goal = %d, want 50", m.Program.Goal)
	}
	if m.Program.Name != "countdown-sum" {
		t.Errorf("Name = %q, want the default to survive a partial file", m.Program.Name)
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := writeManifest(t, `[program`)
	if _, err := Load(dir); err == nil {
		t.Error("Load should reject unparseable TOML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Manifest)
		wantErr bool
	}{
		{"defaults are valid", func(m *Manifest) {}, false},
		{"empty name", func(m *Manifest) { m.Program.Name = "" }, true},
		{"zero goal", func(m *Manifest) { m.Program.Goal = 0 }, true},
		{"goal of one", func(m *Manifest) { m.Program.Goal = 1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Default()
			tt.mutate(m)
			err := m.Validate()
			if tt.wantErr && err == nil {
				t.Error("Validate should have failed")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate failed: %v", err)
			}
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := writeManifest(t, `
[program]
name = "x"
goal = 0
`)
	if _, err := Load(dir); err == nil {
		t.Error("Load should reject goal = 0")
	}
}

func TestStorePathAbsolute(t *testing.T) {
	m := Default()
	m.Dir = "/somewhere/else"
	m.Store.Path = "/var/lib/stencil/programs.db"
	if got := m.StorePath(); got != "/var/lib/stencil/programs.db" {
		t.Errorf("StorePath = %q, want the absolute path unchanged", got)
	}
}
