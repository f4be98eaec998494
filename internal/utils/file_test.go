package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.png")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) {
		t.Error("Expected existing file to be found")
	}
	if !FileReadable(file) {
		t.Error("Expected existing file to be readable")
	}
	if FileExists(dir) {
		t.Error("A directory is not a file")
	}
	if FileExists(filepath.Join(dir, "b.png")) {
		t.Error("Expected missing file to be reported")
	}
}

func TestMissingFiles(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "bg.jpeg")
	if err := os.WriteFile(present, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	gone1 := filepath.Join(dir, "s1.png")
	gone2 := filepath.Join(dir, "s2.png")

	got := MissingFiles(present, gone1, gone2, gone1, "")
	want := []string{gone1, gone2, ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MissingFiles mismatch (-want +got):\n%s", diff)
	}

	if missing := MissingFiles(present); len(missing) != 0 {
		t.Errorf("Expected no missing files, got %v", missing)
	}
}

func TestMissingFilesUnreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	dir := t.TempDir()
	locked := filepath.Join(dir, "locked.png")
	if err := os.WriteFile(locked, []byte("x"), 0000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0644) })

	if !FileExists(locked) {
		t.Fatal("Expected the locked file to exist")
	}
	if FileReadable(locked) {
		t.Error("Expected the locked file to be unreadable")
	}
	if diff := cmp.Diff([]string{locked}, MissingFiles(locked)); diff != "" {
		t.Errorf("MissingFiles mismatch (-want +got):\n%s", diff)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("Expected directory %s to exist", dir)
	}
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir on existing directory failed: %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	for _, mode := range []string{"development", "release"} {
		logger, err := NewLogger(mode)
		if err != nil {
			t.Fatalf("NewLogger(%q) failed: %v", mode, err)
		}
		if logger == nil {
			t.Fatalf("NewLogger(%q) returned nil", mode)
		}
	}
}
