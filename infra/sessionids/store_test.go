package sessionids

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fixgw/domain/session"
)

func tupleFor(comp string) session.Key {
	return session.Key{LocalCompID: "GATEWAY", RemoteCompID: comp}
}

func TestOnLogonAllocatesMonotonically(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	a, err := s.OnLogon(tupleFor("A"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.OnLogon(tupleFor("B"))
	if err != nil {
		t.Fatal(err)
	}
	if a != 1 || b != 2 {
		t.Fatalf("expected ids 1,2 got %d,%d", a, b)
	}
}

func TestOnLogonIsStableForKnownTuple(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	first, err := s.OnLogon(tupleFor("A"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := s.OnLogon(tupleFor("A"))
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("repeat logon returned %d, want %d", again, first)
		}
	}
}

func TestOnLogonSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := s.OnLogon(tupleFor("A"))
	b, _ := s.OnLogon(tupleFor("B"))
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	againA, err := s2.OnLogon(tupleFor("A"))
	if err != nil {
		t.Fatal(err)
	}
	if againA != a {
		t.Fatalf("tuple A resolved to %d after restart, want %d", againA, a)
	}
	// A brand-new tuple must not reuse an id issued before the restart.
	c, err := s2.OnLogon(tupleFor("C"))
	if err != nil {
		t.Fatal(err)
	}
	if c <= b {
		t.Fatalf("new tuple got id %d, not beyond %d", c, b)
	}
}

func TestResetClearsMappingAndCounter(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.OnLogon(tupleFor("A"))
	s.OnLogon(tupleFor("B"))

	if err := s.Reset(""); err != nil {
		t.Fatalf("reset: %v", err)
	}
	n, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("expected empty mapping after reset, got %d entries", n)
	}
	id, err := s.OnLogon(tupleFor("A"))
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Fatalf("allocation did not restart after reset, got %d", id)
	}
}

func TestResetWritesFaithfulBackup(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.OnLogon(tupleFor("A"))
	s.OnLogon(tupleFor("B"))

	var before bytes.Buffer
	if err := s.Export(&before); err != nil {
		t.Fatal(err)
	}

	backup := filepath.Join(dir, "backup.bin")
	if err := s.Reset(backup); err != nil {
		t.Fatalf("reset with backup: %v", err)
	}

	got, err := os.ReadFile(backup)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, before.Bytes()) {
		t.Fatal("backup does not match the pre-reset store contents")
	}
}

func TestResetBackupFailureLeavesStoreUntouched(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.OnLogon(tupleFor("A"))

	// Backup path inside a directory that does not exist.
	bad := filepath.Join(t.TempDir(), "missing", "backup.bin")
	if err := s.Reset(bad); err == nil {
		t.Fatal("expected backup I/O error")
	}

	n, err := s.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("failed reset must not mutate the store, have %d entries", n)
	}
	id, err := s.OnLogon(tupleFor("A"))
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Fatalf("tuple lost its id after failed reset: %d", id)
	}
}

func TestLookupDoesNotAllocate(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, found, err := s.Lookup(tupleFor("A")); err != nil || found {
		t.Fatalf("lookup of unknown tuple: found=%v err=%v", found, err)
	}
	id, _ := s.OnLogon(tupleFor("A"))
	got, found, err := s.Lookup(tupleFor("A"))
	if err != nil || !found || got != id {
		t.Fatalf("lookup after logon: id=%d found=%v err=%v", got, found, err)
	}
}
