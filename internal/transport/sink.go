package transport

import "github.com/google/go-dap"

// Output implements dlog.Sink: every record at info level or above is
// forwarded as a DAP Output event, category console, formatted
// "[LEVEL] message\n" (spec.md §4.3). Grounded on
// original_source/src/dap_logger.rs's DAPLogger, which does the same
// formatting before handing the line to dap_server::write().
func (t *Transport) Output(severity, message string) {
	event := &dap.OutputEvent{
		Event: dap.Event{
			ProtocolMessage: dap.ProtocolMessage{Seq: t.NextSeq(), Type: "event"},
			Event:           "output",
		},
		Body: dap.OutputEventBody{
			Category: "console",
			Output:   "[" + severity + "] " + message + "\n",
		},
	}
	// A write failure here has nowhere left to report to: the
	// diagnostic sink is itself the reporting channel.
	_ = t.Write(event)
}
