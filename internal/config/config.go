// Package config turns a DAP Launch request's additionalData payload
// into the immutable Settings a session runs with for its whole
// lifetime (spec.md §3 LogSearchSettings, §6 additionalData).
//
// Modeled on dtail's internal/config: a single parse step
// (FromLaunchArgs, the analogue of initializer.parseConfig) that
// either returns a fully valid Settings or a wrapped retreaderrors.ErrConfig
// naming the offending field.
package config

import (
	"encoding/json"
	"os"
	"regexp"

	"github.com/mimecast/retread/internal/retreaderrors"
)

// RequiredCaptureGroup is the one named capture group log_pattern must
// define; spec.md §3/§4.1 requires "message", all others optional.
const RequiredCaptureGroup = "message"

// Settings is the immutable configuration a session launches with.
// Once built it is never mutated; it may be shared freely across the
// Replay state machine and the Matcher's parallel fan-out.
type Settings struct {
	// LogFileName is the path as given at launch, display-only.
	LogFileName string
	// LogFile is the full textual content of the log, loaded once.
	LogFile string
	// LogPattern is the compiled regex applied to each log line.
	LogPattern *regexp.Regexp
	// Include is the list of glob patterns selecting source files.
	Include []string
	// Exclude is the list of glob patterns removing source files.
	Exclude []string
}

// launchRequestArguments mirrors the top level of a Launch request's
// arguments: the fields spec.md §6 describes live under the nested
// additionalData key, not at the top level (the original's
// UninitializedState::load_settings is likewise called with
// &arguments.additional_data, never arguments itself).
type launchRequestArguments struct {
	AdditionalData launchArgs `json:"additionalData"`
}

// launchArgs mirrors the Launch additionalData object of spec.md §6.
type launchArgs struct {
	LogFile    string        `json:"log_file"`
	LogPattern string        `json:"log_pattern"`
	Include    stringOrSlice `json:"include"`
	Exclude    stringOrSlice `json:"exclude"`
}

// stringOrSlice accepts either a single glob string or an array of
// globs, per spec.md §9's "Open question — include/exclude shape":
// the array form is canonical, a bare string is a one-element array.
type stringOrSlice []string

func (s *stringOrSlice) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*s = nil
			return nil
		}
		*s = stringOrSlice{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// FromLaunchArgs parses raw (the Launch request's Arguments payload)
// into Settings, reads the log file, and compiles log_pattern. Any
// failure is a retreaderrors.ErrConfig naming the offending field, and
// the session must remain Uninitialized (spec.md §6).
func FromLaunchArgs(raw json.RawMessage) (*Settings, error) {
	var outer launchRequestArguments
	if err := json.Unmarshal(raw, &outer); err != nil {
		return nil, retreaderrors.Wrap(retreaderrors.ErrConfig, "arguments is not a valid object: "+err.Error())
	}
	args := outer.AdditionalData

	if args.LogFile == "" {
		return nil, retreaderrors.Wrap(retreaderrors.ErrConfig, "missing required field log_file")
	}
	if args.LogPattern == "" {
		return nil, retreaderrors.Wrap(retreaderrors.ErrConfig, "missing required field log_pattern")
	}

	contents, err := os.ReadFile(args.LogFile)
	if err != nil {
		return nil, retreaderrors.Wrapf(retreaderrors.ErrConfig, "reading log_file %q: %v", args.LogFile, err)
	}

	pattern, err := regexp.Compile(args.LogPattern)
	if err != nil {
		return nil, retreaderrors.Wrapf(retreaderrors.ErrConfig, "compiling log_pattern %q: %v", args.LogPattern, err)
	}
	if !hasCaptureGroup(pattern, RequiredCaptureGroup) {
		return nil, retreaderrors.Wrapf(retreaderrors.ErrConfig,
			"log_pattern must define a named capture group %q", RequiredCaptureGroup)
	}

	return &Settings{
		LogFileName: args.LogFile,
		LogFile:     string(contents),
		LogPattern:  pattern,
		Include:     args.Include,
		Exclude:     args.Exclude,
	}, nil
}

func hasCaptureGroup(pattern *regexp.Regexp, name string) bool {
	for _, n := range pattern.SubexpNames() {
		if n == name {
			return true
		}
	}
	return false
}
