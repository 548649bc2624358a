package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/LuDuda/settings-fuzz/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.clog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

// runEvents returns the events of one short, completed harness run.
func runEvents(session string, base time.Time) []log.Event {
	at := func(ms int) time.Time { return base.Add(time.Duration(ms) * time.Millisecond) }
	return []log.Event{
		{Timestamp: at(0), SessionID: session, Port: "/dev/ttyACM0", Category: log.CategoryPhase,
			Phase: &log.PhaseEvent{Phase: log.PhaseStart}},
		{Timestamp: at(1), SessionID: session, Port: "/dev/ttyACM0", Category: log.CategoryPhase,
			Phase: &log.PhaseEvent{Phase: log.PhaseWriteCycle, Iteration: 0}},
		{Timestamp: at(150), SessionID: session, Port: "/dev/ttyACM0", Direction: log.DirectionOut, Category: log.CategoryCommand,
			Command: &log.CommandEvent{Kind: log.CommandWrite, Text: "settings write mt/123456 0042"}},
		{Timestamp: at(300), SessionID: session, Port: "/dev/ttyACM0", Direction: log.DirectionIn, Category: log.CategoryLine,
			Line: &log.LineEvent{Text: "uart:~$ settings write mt/123456 0042"}},
		{Timestamp: at(310), SessionID: session, Port: "/dev/ttyACM0", Direction: log.DirectionIn, Category: log.CategoryLine,
			Line: &log.LineEvent{Text: "garbled", Raw: []byte{'g', 0xff, 'a'}, Invalid: true}},
		{Timestamp: at(500), SessionID: session, Port: "/dev/ttyACM0", Category: log.CategoryPhase,
			Phase: &log.PhaseEvent{Phase: log.PhaseDone}},
	}
}
