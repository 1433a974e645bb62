// Package matcher implements the LogLineSearch parse step and the
// token-LCS scoring described in spec.md §4. It is grounded on
// original_source/src/log_search.rs's LogLineSearch::new and
// token_lcs, reworked into idiomatic Go: Option<T> becomes a nil
// pointer, and the Rust Result<_, String> failure becomes a wrapped
// retreaderrors.ErrParse sentinel.
package matcher

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mimecast/retread/internal/retreaderrors"
)

// LogLineSearch is what a single captured log line reduces to once
// log_pattern has been applied: the message to search for, plus
// whatever optional hints (file, func, line) the pattern captured.
type LogLineSearch struct {
	Message string
	File    *string
	Func    *string
	Line    *int
}

// Sentinel parse failures, all wrapping retreaderrors.ErrParse so
// callers can still test with errors.Is(err, retreaderrors.ErrParse)
// while distinguishing the specific cause when useful.
var (
	ErrUnparsableLine = fmt.Errorf("%w: line does not match log_pattern", retreaderrors.ErrParse)
	ErrMissingMessage = fmt.Errorf("%w: log_pattern matched but message capture group did not participate", retreaderrors.ErrParse)
	ErrBadLineNumber  = fmt.Errorf("%w: line capture group is not a positive integer", retreaderrors.ErrParse)
)

// ParseLine applies pattern to line and extracts the named capture
// groups message (required), file, func and line (all optional).
// Absent optional groups become nil, never the empty string, so
// downstream matching can tell "not captured" from "captured empty".
func ParseLine(pattern *regexp.Regexp, line string) (LogLineSearch, error) {
	idx := pattern.FindStringSubmatchIndex(line)
	if idx == nil {
		return LogLineSearch{}, fmt.Errorf("%w: %q", ErrUnparsableLine, line)
	}

	names := pattern.SubexpNames()
	group := func(name string) (string, bool) {
		for i, n := range names {
			if n != name {
				continue
			}
			start, end := idx[2*i], idx[2*i+1]
			if start < 0 {
				return "", false
			}
			return line[start:end], true
		}
		return "", false
	}

	message, ok := group("message")
	if !ok {
		return LogLineSearch{}, fmt.Errorf("%w: %q", ErrMissingMessage, line)
	}

	search := LogLineSearch{Message: strings.TrimSpace(message)}

	if file, ok := group("file"); ok {
		trimmed := strings.TrimSpace(file)
		search.File = &trimmed
	}
	if fn, ok := group("func"); ok {
		trimmed := strings.TrimSpace(fn)
		search.Func = &trimmed
	}
	if lineStr, ok := group("line"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(lineStr))
		if err != nil || n <= 0 {
			return LogLineSearch{}, fmt.Errorf("%w: %q", ErrBadLineNumber, lineStr)
		}
		search.Line = &n
	}

	return search, nil
}
