package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSizeLimitedWriterRollsOver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.log")
	writer, err := newSizeLimitedWriter(path, 1)
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}
	defer writer.Close()

	chunk := make([]byte, 512*1024)
	for i := 0; i < 3; i++ {
		if _, err := writer.Write(chunk); err != nil {
			t.Fatalf("write chunk %d: %v", i, err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat log: %v", err)
	}
	if info.Size() != int64(len(chunk)) {
		t.Fatalf("expected active log of %d bytes, got %d", len(chunk), info.Size())
	}
	backup, err := os.Stat(path + ".1")
	if err != nil {
		t.Fatalf("stat rolled log: %v", err)
	}
	if backup.Size() != 2*int64(len(chunk)) {
		t.Fatalf("expected rolled log of %d bytes, got %d", 2*len(chunk), backup.Size())
	}
}

func TestSizeLimitedWriterReopensAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.log")
	writer, err := newSizeLimitedWriter(path, 1)
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}
	if _, err := writer.Write([]byte("first\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := writer.Write([]byte("second\n")); err != nil {
		t.Fatalf("write after close: %v", err)
	}
	_ = writer.Close()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(b) != "first\nsecond\n" {
		t.Fatalf("unexpected log content %q", b)
	}
}
