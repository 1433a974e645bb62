// Package version provides the adapter identity string used in the
// startup diagnostic log line.
package version

import (
	"fmt"

	"github.com/mimecast/retread/internal/protocol"
)

const (
	// Name of the adapter.
	Name string = "retread"
	// Version of the adapter.
	Version string = "0.1.0"
)

// String returns a plain text representation of the adapter version,
// suitable for the startup diagnostic log line.
func String() string {
	return fmt.Sprintf("%s %s (adapterID=%s)", Name, Version, protocol.AdapterID)
}
