// Package protocol defines identity and fixed-value constants for
// retread's Debug Adapter Protocol session. The wire format itself
// (Content-Length framing, request/response/event structs) is provided
// by github.com/google/go-dap; this package only names the values
// retread itself is responsible for.
package protocol

const (
	// AdapterID identifies retread in the startup diagnostic line
	// (version.String). Unlike dtail's ProtocolCompat,
	// this is not a compatibility gate — the IDE speaks standard DAP
	// regardless of adapter identity.
	AdapterID string = "retread"

	// ThreadID is the single synthetic thread id exposed for the whole
	// session (spec.md §1 Non-goals: multi-threaded replay out of scope).
	ThreadID int = 0

	// ThreadName is the display name of the synthetic thread.
	ThreadName string = "main"

	// LocalsVariablesReference is the fixed variablesReference handed
	// back by Scopes for frame 0's Locals scope, per spec.md §4.2.
	LocalsVariablesReference int = 133
)
