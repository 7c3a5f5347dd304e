package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etkinlik-toplayici/etkinlik/internal/listing"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew_CreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if s.Path() != filepath.Join(dir, DBFile) {
		t.Errorf("Path() = %q", s.Path())
	}
	if _, err := os.Stat(s.Path()); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := map[string]string{
		"~/.local/share/etkinlik": filepath.Join(home, ".local/share/etkinlik"),
		"~":                       home,
		"/var/lib/etkinlik":       "/var/lib/etkinlik",
		"relative/dir":            "relative/dir",
	}
	for in, want := range tests {
		got, err := ExpandHome(in)
		if err != nil {
			t.Fatalf("ExpandHome(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ExpandHome(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadSnapshot_Missing(t *testing.T) {
	s := newTestStorage(t)

	snap, err := s.LoadSnapshot(context.Background(), "bubilet/izmir/konser")
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snap.Scope != "bubilet/izmir/konser" || len(snap.Entries) != 0 || !snap.UpdatedAt.IsZero() {
		t.Errorf("want empty snapshot, got %+v", snap)
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	first := time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 11, 15, 10, 30, 0, 0, time.UTC)

	snap := listing.NewSnapshot("biletinial/izmir/tiyatro")
	snap.UpdatedAt = updated
	snap.RunID = "run-1"
	snap.Entries["a"] = &listing.Entry{Date: "28.11.2024", FirstSeen: first}
	snap.Entries["b"] = &listing.Entry{Date: "01.12.2024 - 03.12.2024"}

	if err := s.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	got, err := s.LoadSnapshot(ctx, snap.Scope)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if !got.UpdatedAt.Equal(updated) || got.RunID != "run-1" {
		t.Errorf("header = %v/%q", got.UpdatedAt, got.RunID)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(got.Entries))
	}
	if e := got.Entries["a"]; e.Date != "28.11.2024" || !e.FirstSeen.Equal(first) {
		t.Errorf("entry a = %+v", e)
	}
	if e := got.Entries["b"]; !e.FirstSeen.Equal(updated) {
		t.Errorf("entry b FirstSeen = %v, want UpdatedAt for a zero value", e.FirstSeen)
	}
}

func TestSaveSnapshot_Replaces(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	snap := listing.NewSnapshot("microfon/highschool")
	snap.Entries["old"] = &listing.Entry{Date: "x"}
	if err := s.SaveSnapshot(ctx, snap); err != nil {
		t.Fatal(err)
	}

	next := listing.NewSnapshot("microfon/highschool")
	next.Entries["new"] = &listing.Entry{Date: "y"}
	if err := s.SaveSnapshot(ctx, next); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadSnapshot(ctx, "microfon/highschool")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.Entries["old"]; ok || len(got.Entries) != 1 {
		t.Errorf("entries = %v, want only 'new'", got.Entries)
	}
}

func TestSaveSnapshot_EmptyScope(t *testing.T) {
	s := newTestStorage(t)
	if err := s.SaveSnapshot(context.Background(), listing.NewSnapshot("")); err == nil {
		t.Fatal("expected error for empty scope")
	}
}

func TestScopes(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for _, scope := range []string{"bubilet/izmir/konser", "biletinial/ankara/sinema", "microfon/university"} {
		snap := listing.NewSnapshot(scope)
		if strings.HasPrefix(scope, "bubilet") {
			snap.Entries["1"] = &listing.Entry{Date: "a"}
			snap.Entries["2"] = &listing.Entry{Date: "b"}
		}
		if err := s.SaveSnapshot(ctx, snap); err != nil {
			t.Fatal(err)
		}
	}

	scopes, err := s.Scopes(ctx)
	if err != nil {
		t.Fatalf("Scopes: %v", err)
	}
	if len(scopes) != 3 {
		t.Fatalf("len(scopes) = %d, want 3", len(scopes))
	}

	wantOrder := []string{"biletinial/ankara/sinema", "bubilet/izmir/konser", "microfon/university"}
	wantEntries := []int{0, 2, 0}
	for i, info := range scopes {
		if info.Scope != wantOrder[i] || info.Entries != wantEntries[i] {
			t.Errorf("scopes[%d] = %+v, want %s with %d entries", i, info, wantOrder[i], wantEntries[i])
		}
		if info.UpdatedAt.IsZero() {
			t.Errorf("scopes[%d].UpdatedAt is zero", i)
		}
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	snap := listing.NewSnapshot("bubilet/eskisehir/tiyatro")
	snap.Entries["id"] = &listing.Entry{Date: "28.11.2024"}
	if err := s.SaveSnapshot(ctx, snap); err != nil {
		t.Fatal(err)
	}
	s.Close()

	reopened, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, err := reopened.LoadSnapshot(ctx, snap.Scope)
	if err != nil {
		t.Fatal(err)
	}
	if got.Entries["id"] == nil || got.Entries["id"].Date != "28.11.2024" {
		t.Errorf("entries after reopen = %v", got.Entries)
	}
}

func TestScope(t *testing.T) {
	if got := Scope("bubilet", "izmir", "konser"); got != "bubilet/izmir/konser" {
		t.Errorf("Scope() = %q", got)
	}
}
