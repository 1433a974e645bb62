// Package dlog is the process-wide diagnostic logger. It mirrors dtail's
// internal/io/logger in shape (package-level Info/Warn/Error/Debug/Trace
// functions gated by a Mode, joining their arguments with "|")
// but, per spec.md §4.3, forwards every record at info level or above to
// a single registered Sink instead of a stdout/file ring buffer. The
// Transport is the Sink: every diagnostic becomes a DAP Output event.
package dlog

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mimecast/retread/internal/constants"
)

const (
	infoStr  = "INFO"
	warnStr  = "WARN"
	errorStr = "ERROR"
	fatalStr = "FATAL"
	debugStr = "DEBUG"
	traceStr = "TRACE"
)

// Sink receives formatted diagnostic lines. Satisfied by
// internal/transport.Transport.
type Sink interface {
	Output(severity, message string)
}

// Mode controls which severities are actually emitted.
type Mode struct {
	// Debug enables Debug-level records.
	Debug bool
	// Trace enables Trace-level records (implies Debug).
	Trace bool
	// Quiet suppresses everything below Error.
	Quiet bool
	// Nothing suppresses all logging, including Error and Fatal.
	Nothing bool
}

var (
	mu     sync.Mutex
	mode   Mode
	sink   Sink
	ring   []record
	exiter = os.Exit
)

type record struct {
	severity string
	message  string
}

// Start registers the sink that will receive every subsequent record,
// and flushes any records buffered before the sink existed (up to
// constants.OutboundLogRingSize, oldest dropped first).
func Start(s Sink, m Mode) {
	mu.Lock()
	mode = m
	sink = s
	pending := ring
	ring = nil
	mu.Unlock()

	for _, r := range pending {
		s.Output(r.severity, r.message)
	}
}

// Info logs at info level.
func Info(args ...interface{}) string {
	return log(infoStr, args)
}

// Warn logs at warn level.
func Warn(args ...interface{}) string {
	return log(warnStr, args)
}

// Error logs at error level.
func Error(args ...interface{}) string {
	return log(errorStr, args)
}

// Debug logs at debug level, a no-op unless Mode.Debug is set.
func Debug(args ...interface{}) string {
	mu.Lock()
	enabled := mode.Debug || mode.Trace
	mu.Unlock()
	if !enabled {
		return ""
	}
	return log(debugStr, args)
}

// Trace logs at trace level, a no-op unless Mode.Trace is set.
func Trace(args ...interface{}) string {
	mu.Lock()
	enabled := mode.Trace
	mu.Unlock()
	if !enabled {
		return ""
	}
	return log(traceStr, args)
}

// FatalExit logs at fatal level and terminates the process with a
// non-zero exit code, per spec.md §6 (non-zero on unrecoverable failure).
func FatalExit(args ...interface{}) {
	log(fatalStr, args)
	exiter(3)
}

func log(severity string, args []interface{}) string {
	mu.Lock()
	m := mode
	mu.Unlock()

	if m.Nothing {
		return ""
	}
	if m.Quiet && severity != errorStr && severity != fatalStr {
		return ""
	}

	message := join(args)
	emit(severity, message)
	return message
}

func join(args []interface{}) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			parts = append(parts, v)
		case error:
			parts = append(parts, v.Error())
		default:
			parts = append(parts, fmt.Sprintf("%v", v))
		}
	}
	return strings.Join(parts, "|")
}

func emit(severity, message string) {
	mu.Lock()
	s := sink
	if s == nil {
		if len(ring) >= constants.OutboundLogRingSize {
			ring = ring[1:]
		}
		ring = append(ring, record{severity, message})
		mu.Unlock()
		return
	}
	mu.Unlock()
	s.Output(severity, message)
}
