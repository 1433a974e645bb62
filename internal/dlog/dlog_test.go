package dlog

import (
	"strings"
	"sync"
	"testing"
)

type recordingSink struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingSink) Output(severity, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, severity+"|"+message)
}

func (r *recordingSink) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}

func reset() {
	mu.Lock()
	defer mu.Unlock()
	mode = Mode{}
	sink = nil
	ring = nil
}

func TestBufferedBeforeSinkThenFlushed(t *testing.T) {
	reset()
	defer reset()

	Info("buffered before sink exists")
	s := &recordingSink{}
	Start(s, Mode{})

	lines := s.all()
	if len(lines) != 1 || !strings.Contains(lines[0], "buffered before sink exists") {
		t.Fatalf("expected buffered record to flush on Start, got %v", lines)
	}
}

func TestQuietSuppressesInfoNotError(t *testing.T) {
	reset()
	defer reset()

	s := &recordingSink{}
	Start(s, Mode{Quiet: true})

	Info("should be suppressed")
	Error("should pass through")

	lines := s.all()
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "ERROR|") {
		t.Fatalf("expected only the error line, got %v", lines)
	}
}

func TestDebugGatedByMode(t *testing.T) {
	reset()
	defer reset()

	s := &recordingSink{}
	Start(s, Mode{})
	Debug("hidden")
	if len(s.all()) != 0 {
		t.Fatal("expected Debug to be suppressed without Mode.Debug")
	}

	reset()
	Start(s, Mode{Debug: true})
	Debug("visible")
	if len(s.all()) != 1 {
		t.Fatal("expected Debug to pass through with Mode.Debug")
	}
}

func TestFatalExitCallsExiterWithNonZero(t *testing.T) {
	reset()
	defer reset()
	defer func() { exiter = func(int) {} }()

	var code int
	exiter = func(c int) { code = c }

	s := &recordingSink{}
	Start(s, Mode{})
	FatalExit("boom")

	if code == 0 {
		t.Fatal("expected FatalExit to request a non-zero exit code")
	}
}
