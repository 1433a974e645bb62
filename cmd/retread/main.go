// Package main provides the retread debug adapter binary.
//
// retread speaks the Debug Adapter Protocol over Content-Length framed
// stdio (spec.md §6): no flags, no environment variables, no persisted
// state. It starts the transport's background reader, registers the
// diagnostic log sink, and runs the replay session loop until the IDE
// disconnects or the transport fails.
package main

import (
	"os"

	"github.com/mimecast/retread/internal/dlog"
	"github.com/mimecast/retread/internal/replay"
	"github.com/mimecast/retread/internal/session"
	"github.com/mimecast/retread/internal/transport"
	"github.com/mimecast/retread/internal/version"
)

func main() {
	t := transport.New(os.Stdin, os.Stdout)
	dlog.Start(t, dlog.Mode{})
	dlog.Info("starting", version.String())

	t.Start()

	r := replay.New(t.NextSeq)
	sess := session.New(t, r)

	// Shut down explicitly: os.Exit below would skip a deferred call.
	err := sess.Run()
	r.Shutdown()
	if err != nil {
		dlog.FatalExit("session loop terminated:", err)
	}
	os.Exit(0)
}
