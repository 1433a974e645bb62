// Package session glues the Transport and Replay state machine into
// the cooperative foreground loop spec.md §5 describes: drain at most
// one inbound DAP message per iteration, let Replay tick forward when
// running, write whatever messages come back. Grounded on
// original_source/src/app_state.rs's App::app_loop / AppState::run,
// which is the same busy-poll-no-sleep shape — dap_server::read()
// never blocks either, so the Rust original spins exactly like this.
package session

import (
	"github.com/google/go-dap"

	"github.com/mimecast/retread/internal/dlog"
	"github.com/mimecast/retread/internal/replay"
	"github.com/mimecast/retread/internal/transport"
)

// Session owns nothing beyond a Transport and a Replay; both are
// already fully constructed by the caller (cmd/retread/main.go).
type Session struct {
	transport *transport.Transport
	replay    *replay.Replay
}

// New builds a Session over an already-started Transport and a fresh
// Replay.
func New(t *transport.Transport, r *replay.Replay) *Session {
	return &Session{transport: t, replay: r}
}

// Run drains one inbound message per iteration (if any), dispatches it
// to Replay, writes every message Replay produces, then gives Replay a
// chance to advance on its own when running. It returns once Replay
// reaches Exit or the Transport's background reader has gone away with
// nothing left to do.
func (s *Session) Run() error {
	for {
		if s.replay.State() == replay.Exit {
			return nil
		}

		msg, gotMsg := s.transport.TryRead()
		if gotMsg {
			if err := s.writeAll(s.replay.Handle(msg)); err != nil {
				return err
			}
			if s.replay.State() == replay.Exit {
				return nil
			}
		}

		if err := s.writeAll(s.replay.Tick()); err != nil {
			return err
		}

		if !gotMsg && !s.transportAlive() {
			return s.transport.Err()
		}
	}
}

func (s *Session) writeAll(messages []dap.Message) error {
	for _, m := range messages {
		if err := s.transport.Write(m); err != nil {
			dlog.Error("failed to write DAP message:", err)
			return err
		}
	}
	return nil
}

// transportAlive reports whether the background reader might still
// produce a message: once it has exited and its queue is drained,
// TryRead permanently returns (nil, false), and an Uninitialized or
// idle Running session with no more input has nothing further to do.
func (s *Session) transportAlive() bool {
	return s.transport.Alive()
}
