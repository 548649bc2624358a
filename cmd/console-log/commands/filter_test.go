package commands

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/LuDuda/settings-fuzz/pkg/log"
)

func readEvents(t *testing.T, path string) []log.Event {
	t.Helper()
	reader, err := log.NewReader(path)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer reader.Close()

	var events []log.Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		events = append(events, event)
	}
	return events
}

func TestFilterBySession(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := append(runEvents("session-1", base), runEvents("session-2", base.Add(time.Minute))...)
	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.clog")

	count, err := RunFilter(path, FilterOptions{Output: outPath, SessionID: "session-2"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 6 {
		t.Errorf("expected 6 events, got %d", count)
	}

	for _, e := range readEvents(t, outPath) {
		if e.SessionID != "session-2" {
			t.Errorf("expected session-2, got %s", e.SessionID)
		}
	}
}

func TestFilterByTimeRange(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: base, Category: log.CategoryPhase, Phase: &log.PhaseEvent{Phase: log.PhaseStart}},
		{Timestamp: base.Add(time.Hour), Category: log.CategoryPhase, Phase: &log.PhaseEvent{Phase: log.PhaseList}},
		{Timestamp: base.Add(2 * time.Hour), Category: log.CategoryPhase, Phase: &log.PhaseEvent{Phase: log.PhaseDone}},
	}
	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.clog")

	count, err := RunFilter(path, FilterOptions{
		Output:    outPath,
		TimeStart: "2026-01-28T10:30:00Z",
		TimeEnd:   "2026-01-28T11:30:00Z",
	})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 event, got %d", count)
	}

	got := readEvents(t, outPath)
	if len(got) != 1 || got[0].Phase.Phase != log.PhaseList {
		t.Errorf("expected the LIST phase event, got %+v", got)
	}
}

func TestFilterByDirectionAndCategory(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, runEvents("session-1", base))
	outPath := filepath.Join(t.TempDir(), "filtered.clog")

	count, err := RunFilter(path, FilterOptions{Output: outPath, Direction: "out", Category: "command"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 command, got %d", count)
	}
}

func TestFilterInvalidOptions(t *testing.T) {
	path := createTestLogFile(t, nil)
	outPath := filepath.Join(t.TempDir(), "filtered.clog")

	tests := []FilterOptions{
		{Output: outPath, TimeStart: "yesterday"},
		{Output: outPath, TimeEnd: "2026-13-01"},
		{Output: outPath, Direction: "up"},
		{Output: outPath, Category: "frame"},
	}
	for _, opts := range tests {
		if _, err := RunFilter(path, opts); err == nil {
			t.Errorf("expected error for %+v", opts)
		}
	}
}
