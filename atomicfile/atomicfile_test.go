package atomicfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCloseCommits(t *testing.T) {
	var (
		dir  = t.TempDir()
		path = filepath.Join(dir, "out.xml")
	)
	f, err := New(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := f.WriteString("<a/>"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("target visible before close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "<a/>" {
		t.Errorf("got %q, want %q", b, "<a/>")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d entries, want only the target", len(entries))
	}
}

func TestAbortKeepsTarget(t *testing.T) {
	var (
		dir  = t.TempDir()
		path = filepath.Join(dir, "out.xml")
	)
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := New(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	f.WriteString("new")
	if err := f.Abort(); err != nil {
		t.Fatalf("abort: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "old" {
		t.Errorf("got %q, want %q", b, "old")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %d entries", len(entries))
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.txt")
	if err := WriteFile(path, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	if b, _ := os.ReadFile(path); string(b) != "hello" {
		t.Errorf("got %q", b)
	}
}
