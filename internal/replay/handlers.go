package replay

import (
	"fmt"
	"path/filepath"

	"github.com/google/go-dap"

	"github.com/mimecast/retread/internal/dlog"
	"github.com/mimecast/retread/internal/matcher"
	"github.com/mimecast/retread/internal/protocol"
)

// Handle dispatches one inbound DAP message to the matching command
// handler and returns every message that must be written in response
// (a response, plus zero or more events it triggers). An unhandled
// command is logged and produces no reply at all, matching the DAP
// spec's allowance for adapters to silently ignore unknown commands
// (spec.md §7 UnhandledCommand).
func (r *Replay) Handle(msg dap.Message) []dap.Message {
	switch req := msg.(type) {
	case *dap.InitializeRequest:
		return r.handleInitialize(req)
	case *dap.LaunchRequest:
		return r.handleLaunch(req)
	case *dap.ContinueRequest:
		return r.handleContinue(req)
	case *dap.ReverseContinueRequest:
		return r.handleReverseContinue(req)
	case *dap.NextRequest:
		return r.handleStep(req.Request, false)
	case *dap.StepInRequest:
		return r.handleStep(req.Request, false)
	case *dap.StepOutRequest:
		return r.handleStep(req.Request, false)
	case *dap.StepBackRequest:
		return r.handleStep(req.Request, true)
	case *dap.PauseRequest:
		return r.handlePause(req)
	case *dap.SetBreakpointsRequest:
		return r.handleSetBreakpoints(req)
	case *dap.SetExceptionBreakpointsRequest:
		return r.handleSetExceptionBreakpoints(req)
	case *dap.StackTraceRequest:
		return r.handleStackTrace(req)
	case *dap.ThreadsRequest:
		return r.handleThreads(req)
	case *dap.ScopesRequest:
		return r.handleScopes(req)
	case *dap.VariablesRequest:
		return r.handleVariables(req)
	case *dap.DisconnectRequest:
		return r.handleDisconnect(req)
	default:
		dlog.Warn("ignoring unhandled DAP command", fmt.Sprintf("%T", msg))
		return nil
	}
}

func (r *Replay) ack(req dap.Request) dap.Response {
	return dap.Response{
		ProtocolMessage: dap.ProtocolMessage{Seq: r.nextSeq(), Type: "response"},
		RequestSeq:      req.Seq,
		Success:         true,
		Command:         req.Command,
	}
}

func (r *Replay) errorAck(req dap.Request, message string) dap.Response {
	resp := r.ack(req)
	resp.Success = false
	resp.Message = message
	return resp
}

func (r *Replay) handleInitialize(req *dap.InitializeRequest) []dap.Message {
	return []dap.Message{&dap.InitializeResponse{
		Response: r.ack(req.Request),
		Body: dap.Capabilities{
			SupportsStepBack:       true,
			SupportsRestartRequest: false,
		},
	}}
}

// handleLaunch parses additionalData and, on success, transitions to
// Running and emits Initialized + Stopped{entry} immediately after
// the Launch response (spec.md §4.2's Launch row). The Stopped{entry}
// event is only emitted when the log file actually has a first line
// to stop at; a zero-line log_file still launches successfully, it
// just has nowhere to stop yet, matching app_state.rs's
// RunningState::init guard.
func (r *Replay) handleLaunch(req *dap.LaunchRequest) []dap.Message {
	if err := r.launch(req.Arguments); err != nil {
		return []dap.Message{&dap.LaunchResponse{Response: r.errorAck(req.Request, err.Error())}}
	}

	msgs := []dap.Message{
		&dap.LaunchResponse{Response: r.ack(req.Request)},
		&dap.InitializedEvent{Event: dap.Event{
			ProtocolMessage: dap.ProtocolMessage{Seq: r.nextSeq(), Type: "event"},
			Event:           "initialized",
		}},
	}
	if r.hasCurrentLine() {
		msgs = append(msgs, r.stoppedEvent("entry"))
	}
	return msgs
}

func (r *Replay) handleContinue(req *dap.ContinueRequest) []dap.Message {
	r.reverse = false
	r.running = true
	return []dap.Message{&dap.ContinueResponse{
		Response: r.ack(req.Request),
		Body:     dap.ContinueResponseBody{AllThreadsContinued: true},
	}}
}

func (r *Replay) handleReverseContinue(req *dap.ReverseContinueRequest) []dap.Message {
	r.reverse = true
	r.running = true
	return []dap.Message{&dap.ReverseContinueResponse{Response: r.ack(req.Request)}}
}

// handleStep advances exactly one line (unconditionally, unlike the
// Continue tick's skip-while-zero-score loop) and always reports a
// Step stop, per spec.md §4.2's Next/StepIn/StepOut/StepBack row.
// running stays false across the call to advance, so its
// end-of-log entry-stop branch never fires here: at a log boundary
// the cursor simply stays put and Step is still reported, matching
// original_source/src/app_state.rs's stop(Step) running before
// increment_log_index, not after.
func (r *Replay) handleStep(req dap.Request, reverse bool) []dap.Message {
	r.reverse = reverse
	r.running = false
	r.advance()
	evt := r.stoppedEvent("step")

	resp := stepResponseFor(req, r.ack(req))
	return []dap.Message{resp, evt}
}

func stepResponseFor(req dap.Request, ack dap.Response) dap.Message {
	switch req.Command {
	case "next":
		return &dap.NextResponse{Response: ack}
	case "stepIn":
		return &dap.StepInResponse{Response: ack}
	case "stepOut":
		return &dap.StepOutResponse{Response: ack}
	default:
		return &dap.StepBackResponse{Response: ack}
	}
}

func (r *Replay) handlePause(req *dap.PauseRequest) []dap.Message {
	r.running = false
	return []dap.Message{
		&dap.PauseResponse{Response: r.ack(req.Request)},
		r.stoppedEvent("pause"),
	}
}

// handleSetBreakpoints replaces every breakpoint registered against
// req.Arguments.Source.Path atomically (spec.md §3 invariant).
func (r *Replay) handleSetBreakpoints(req *dap.SetBreakpointsRequest) []dap.Message {
	path := req.Arguments.Source.Path

	for bp := range r.breakpoints {
		if bp.Path == path {
			delete(r.breakpoints, bp)
		}
	}

	verified := make([]dap.Breakpoint, 0, len(req.Arguments.Breakpoints))
	for _, line := range req.Arguments.Breakpoints {
		r.breakpoints[Breakpoint{Path: path, Line: line.Line}] = struct{}{}
		verified = append(verified, dap.Breakpoint{Verified: true, Line: line.Line, Source: &dap.Source{Path: path}})
	}

	return []dap.Message{&dap.SetBreakpointsResponse{
		Response: r.ack(req.Request),
		Body:     dap.SetBreakpointsResponseBody{Breakpoints: verified},
	}}
}

func (r *Replay) handleSetExceptionBreakpoints(req *dap.SetExceptionBreakpointsRequest) []dap.Message {
	return []dap.Message{&dap.SetExceptionBreakpointsResponse{Response: r.ack(req.Request)}}
}

// handleStackTrace builds the two-frame stack of spec.md §4.2. A
// ParseError on the current line is surfaced as an error response
// rather than skipped, since this is a direct user-initiated request.
func (r *Replay) handleStackTrace(req *dap.StackTraceRequest) []dap.Message {
	match, err := r.currentMatch()
	if err != nil {
		return []dap.Message{&dap.StackTraceResponse{Response: r.errorAck(req.Request, err.Error())}}
	}
	if match == nil {
		return []dap.Message{&dap.StackTraceResponse{Response: r.errorAck(req.Request, "no matching source line found")}}
	}
	search, err := r.currentSearch()
	if err != nil {
		return []dap.Message{&dap.StackTraceResponse{Response: r.errorAck(req.Request, err.Error())}}
	}

	inner := dap.StackFrame{
		Id:     0,
		Name:   innerFrameName(search, match),
		Source: &dap.Source{Path: match.File, Name: filepath.Base(match.File)},
		Line:   match.Line,
	}
	outer := dap.StackFrame{
		Id:     1,
		Name:   filepath.Base(r.settings.LogFileName),
		Source: &dap.Source{Path: r.settings.LogFileName, Name: filepath.Base(r.settings.LogFileName)},
		Line:   r.logIndex + 1,
	}

	return []dap.Message{&dap.StackTraceResponse{
		Response: r.ack(req.Request),
		Body: dap.StackTraceResponseBody{
			StackFrames: []dap.StackFrame{inner, outer},
			TotalFrames: 1,
		},
	}}
}

// innerFrameName is "func:line" when log_pattern captured a func
// group for the current line, else "basename(file):line" (spec.md
// §4.2's Frame 0 rule).
func innerFrameName(search matcher.LogLineSearch, match *matcher.LogMatch) string {
	if search.Func != nil {
		return fmt.Sprintf("%s:%d", *search.Func, match.Line)
	}
	return fmt.Sprintf("%s:%d", filepath.Base(match.File), match.Line)
}

func (r *Replay) handleThreads(req *dap.ThreadsRequest) []dap.Message {
	return []dap.Message{&dap.ThreadsResponse{
		Response: r.ack(req.Request),
		Body:     dap.ThreadsResponseBody{Threads: []dap.Thread{{Id: protocol.ThreadID, Name: protocol.ThreadName}}},
	}}
}

func (r *Replay) handleScopes(req *dap.ScopesRequest) []dap.Message {
	var scopes []dap.Scope
	if req.Arguments.FrameId == 0 {
		scopes = []dap.Scope{{Name: "Locals", VariablesReference: protocol.LocalsVariablesReference}}
	}
	return []dap.Message{&dap.ScopesResponse{
		Response: r.ack(req.Request),
		Body:     dap.ScopesResponseBody{Scopes: scopes},
	}}
}

func (r *Replay) handleVariables(req *dap.VariablesRequest) []dap.Message {
	return []dap.Message{&dap.VariablesResponse{
		Response: r.ack(req.Request),
		Body: dap.VariablesResponseBody{Variables: []dap.Variable{
			{Name: "Variable name", Value: r.currentMessage()},
		}},
	}}
}

func (r *Replay) handleDisconnect(req *dap.DisconnectRequest) []dap.Message {
	r.state = Exit
	r.Shutdown()
	return []dap.Message{&dap.DisconnectResponse{Response: r.ack(req.Request)}}
}
