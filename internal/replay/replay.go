// Package replay implements the Uninitialized/Running/Exit state
// machine that turns a captured log file into something an IDE can
// step through like a running program (spec.md §3-4.2). It is
// grounded on original_source/src/app_state.rs's AppState/App: the
// Rust enum-dispatch-on-state becomes a Go struct with an explicit
// State field and the same command table, Breakpoint type, and
// increment/get_log_match logic, translated into Go idiom (pointers
// for Option<T>, a []dap.Message return value in place of the
// original's direct DapServer writes).
package replay

import (
	"strings"

	"github.com/google/go-dap"

	"github.com/mimecast/retread/internal/config"
	"github.com/mimecast/retread/internal/corpus"
	"github.com/mimecast/retread/internal/matcher"
	"github.com/mimecast/retread/internal/protocol"
)

// State is the three-value session lifecycle of spec.md §3.
type State int

const (
	Uninitialized State = iota
	Running
	Exit
)

// Breakpoint is compared by string equality against either a source
// file path or the log file path (spec.md §3).
type Breakpoint struct {
	Path string
	Line int
}

// Replay is the whole state machine: settings, the log file split
// into lines, the current cursor, registered breakpoints, and the
// Matcher backing every line-to-source lookup. nextSeq is injected
// rather than owned, since sequence numbering belongs to whatever
// Transport ultimately writes the message (spec.md §5's single
// writer mutex) and the replay loop must not need one of its own.
type Replay struct {
	nextSeq func() int

	state State

	settings *config.Settings
	matcher  *matcher.Matcher
	logLines []string

	logIndex    int
	running     bool
	reverse     bool
	breakpoints map[Breakpoint]struct{}
}

// New constructs a Replay in the Uninitialized state. nextSeq must
// return a fresh, monotonically increasing sequence number on every
// call (typically transport.Transport.NextSeq).
func New(nextSeq func() int) *Replay {
	return &Replay{
		nextSeq:     nextSeq,
		state:       Uninitialized,
		breakpoints: make(map[Breakpoint]struct{}),
	}
}

// State reports the current lifecycle state, mainly for the session
// loop to know when to stop polling the transport.
func (r *Replay) State() State {
	return r.state
}

// Shutdown releases the Matcher's worker pool, if one was ever built.
// Safe to call on an Uninitialized Replay that never reached launch.
func (r *Replay) Shutdown() {
	if r.matcher != nil {
		r.matcher.Stop()
	}
}

// launch parses additionalData, builds the corpus and Matcher, and
// enters Running at log_index 0. Grounded on app_state.rs's
// UninitializedState::launch.
func (r *Replay) launch(raw []byte) error {
	settings, err := config.FromLaunchArgs(raw)
	if err != nil {
		return err
	}

	files := corpus.Build(settings.Include, settings.Exclude)
	lines := splitLogLines(settings.LogFile)

	r.settings = settings
	r.matcher = matcher.New(settings.LogPattern, files)
	r.logLines = lines
	r.logIndex = 0
	r.running = false
	r.reverse = false
	r.breakpoints = make(map[Breakpoint]struct{})
	r.state = Running
	return nil
}

func splitLogLines(contents string) []string {
	lines := strings.Split(contents, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// hasCurrentLine reports whether the cursor addresses an actual log
// line. False only for a log file with zero lines after launch
// (spec.md §3's invariant bounds log_index only "whenever
// session=Running" with a non-empty log; a zero-line log is the edge
// case that invariant leaves unstated).
func (r *Replay) hasCurrentLine() bool {
	return r.logIndex >= 0 && r.logIndex < len(r.logLines)
}

// currentLine is the raw captured log line at the cursor, or "" if the
// log file has no lines at all. Grounded on app_state.rs's
// RunningState::init, which guards its own nth(log_index) lookup with
// an if-let rather than unwrapping — a zero-line log_file is valid
// input (an empty capture), not a programmer error.
func (r *Replay) currentLine() string {
	if !r.hasCurrentLine() {
		return ""
	}
	return r.logLines[r.logIndex]
}

// currentMessage is the value Variables and Stopped.description use:
// the parsed message field, or the raw line if log_pattern no longer
// matches it (an unparsable current line is a ParseError surfaced
// only to requests that ask for it directly, never silently dropped
// from what the IDE displays).
func (r *Replay) currentMessage() string {
	search, err := matcher.ParseLine(r.settings.LogPattern, r.currentLine())
	if err != nil {
		return r.currentLine()
	}
	return search.Message
}

// currentMatch is the best corpus location for the cursor's line,
// memoized by the Matcher.
func (r *Replay) currentMatch() (*matcher.LogMatch, error) {
	return r.matcher.Best(r.currentLine())
}

// currentSearch is the parsed LogLineSearch for the cursor's line,
// used by StackTrace to decide the inner frame's name (func-qualified
// or file-basename-qualified).
func (r *Replay) currentSearch() (matcher.LogLineSearch, error) {
	return matcher.ParseLine(r.settings.LogPattern, r.currentLine())
}

// advance applies the increment rule (spec.md §4.2). It returns a
// Stopped{reason=entry} event when the cursor has nowhere left to go
// and running was true, nil otherwise.
func (r *Replay) advance() *dap.StoppedEvent {
	switch {
	case r.reverse && r.logIndex > 0:
		r.logIndex--
		return nil
	case !r.reverse && r.logIndex+1 < len(r.logLines):
		r.logIndex++
		return nil
	case r.running:
		r.running = false
		return r.stoppedEvent("entry")
	default:
		return nil
	}
}

// Tick runs one continue-tick iteration (spec.md §4.2's "Continue
// tick"): while running, advance and re-score the new line, skipping
// any line whose parse fails or whose best score is zero, until
// either a registered breakpoint fires or the log end is reached.
// Returns the event to emit, or nil if nothing happened this tick
// (not Running, or not currently running).
func (r *Replay) Tick() []dap.Message {
	if r.state != Running || !r.running {
		return nil
	}

	for r.running {
		if evt := r.advance(); evt != nil {
			return []dap.Message{evt}
		}

		match, err := r.currentMatch()
		if err != nil || match == nil || match.Score == 0 {
			continue
		}

		if r.breakpointHit(match) {
			r.running = false
			return []dap.Message{r.stoppedEvent("breakpoint")}
		}
	}
	return nil
}

func (r *Replay) breakpointHit(match *matcher.LogMatch) bool {
	for bp := range r.breakpoints {
		if bp.Line == match.Line && bp.Path == match.File {
			return true
		}
		if bp.Line == r.logIndex+1 && bp.Path == r.settings.LogFileName {
			return true
		}
	}
	return false
}

func (r *Replay) stoppedEvent(reason string) *dap.StoppedEvent {
	return &dap.StoppedEvent{
		Event: dap.Event{
			ProtocolMessage: dap.ProtocolMessage{Seq: r.nextSeq(), Type: "event"},
			Event:           "stopped",
		},
		Body: dap.StoppedEventBody{
			Reason:            reason,
			Description:       r.currentMessage(),
			ThreadId:          protocol.ThreadID,
			PreserveFocusHint: false,
			AllThreadsStopped: false,
		},
	}
}

