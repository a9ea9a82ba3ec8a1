package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jeongseonghan/acoustic-modem/internal/modem"
)

func TestSendReceiveFileRoundTrip(t *testing.T) {
	plan := modem.DefaultChannelPlan()
	sig := &memSignal{}

	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "note.txt")
	contents := []byte("acoustic modems are fun")
	if err := os.WriteFile(srcPath, contents, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	sender, err := NewSender(plan, testSampleRate, sig)
	if err != nil {
		t.Fatalf("NewSender: %v", err)
	}
	if err := sender.SendCalibration(); err != nil {
		t.Fatalf("SendCalibration: %v", err)
	}

	var progressCalls int
	if err := sender.SendFile(srcPath, func(done, total int64, status string) {
		progressCalls++
	}); err != nil {
		t.Fatalf("SendFile: %v", err)
	}
	if progressCalls == 0 {
		t.Error("expected at least one progress callback")
	}

	receiver, err := NewReceiver(plan, testSampleRate, sig)
	if err != nil {
		t.Fatalf("NewReceiver: %v", err)
	}

	outDir := t.TempDir()
	result, err := receiver.ReceiveFile(outDir, 1<<20, nil)
	if err != nil {
		t.Fatalf("ReceiveFile: %v", err)
	}

	if result.Name != "note.txt" {
		t.Errorf("Name = %q, want %q", result.Name, "note.txt")
	}
	if result.Size != int64(len(contents)) {
		t.Errorf("Size = %d, want %d", result.Size, len(contents))
	}

	got, err := os.ReadFile(filepath.Join(outDir, "note.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(contents) {
		t.Errorf("written file contents = %q, want %q", got, contents)
	}
}
