package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/chazu/stencil/pkg/bytecode"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "programs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	p := bytecode.CountdownSum(5)

	if err := s.Save("countdown-sum", p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := s.Load("countdown-sum")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(got.Code) != len(p.Code) {
		t.Fatalf("Code length = %d, want %d", len(got.Code), len(p.Code))
	}
	for i := range p.Code {
		if got.Code[i] != p.Code[i] {
			t.Errorf("Code[%d] = %d, want %d", i, got.Code[i], p.Code[i])
		}
	}
	if len(got.Strings) != len(p.Strings) {
		t.Fatalf("Strings length = %d, want %d", len(got.Strings), len(p.Strings))
	}
	for i := range p.Strings {
		if got.Strings[i] != p.Strings[i] {
			t.Errorf("Strings[%d] = %q, want %q", i, got.Strings[i], p.Strings[i])
		}
	}
}

func TestLoadMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Load("nope")
	if !errors.Is(err, ErrProgramNotFound) {
		t.Errorf("error = %v, want ErrProgramNotFound", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := openTestStore(t)
	if err := s.Save("p", bytecode.CountdownSum(1)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	replacement := bytecode.CountdownSum(9)
	if err := s.Save("p", replacement); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := s.Load("p")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	// Index 5 holds the goal immediate of the fixture.
	if got.Code[5] != 9 {
		t.Errorf("Code[5] = %d, want the replacement goal 9", got.Code[5])
	}
}

func TestNamesSorted(t *testing.T) {
	s := openTestStore(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Save(name, bytecode.CountdownSum(1)); err != nil {
			t.Fatalf("Save %q failed: %v", name, err)
		}
	}

	names, err := s.Names()
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("Names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names = %v, want %v", names, want)
			break
		}
	}
}

func TestNamesEmpty(t *testing.T) {
	s := openTestStore(t)
	names, err := s.Names()
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("fresh store lists %v", names)
	}
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "programs.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Save("kept", bytecode.CountdownSum(3)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	if _, err := s.Load("kept"); err != nil {
		t.Errorf("Load after reopen failed: %v", err)
	}
}
