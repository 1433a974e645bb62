package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeTempLog(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "session.log")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp log: %v", err)
	}
	return path
}

// launchArguments wraps additionalData the way a real Launch request's
// arguments object does (spec.md §6): FromLaunchArgs is handed the
// whole arguments payload, not additionalData directly.
func launchArguments(additionalData map[string]interface{}) json.RawMessage {
	raw, _ := json.Marshal(map[string]interface{}{"additionalData": additionalData})
	return raw
}

func TestFromLaunchArgsAllFields(t *testing.T) {
	logPath := writeTempLog(t, "[kernel/sched.c:42] scheduled task 7\n")

	raw := launchArguments(map[string]interface{}{
		"log_file":    logPath,
		"log_pattern": `\[(?P<file>[^:]+):(?P<line>\d+)\] (?P<message>.*)$`,
		"include":     []string{"kernel/**/*.c"},
		"exclude":     []string{"kernel/vendor/**"},
	})

	settings, err := FromLaunchArgs(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.LogFileName != logPath {
		t.Errorf("LogFileName = %q, want %q", settings.LogFileName, logPath)
	}
	if len(settings.Include) != 1 || settings.Include[0] != "kernel/**/*.c" {
		t.Errorf("Include = %v", settings.Include)
	}
	if len(settings.Exclude) != 1 {
		t.Errorf("Exclude = %v", settings.Exclude)
	}
}

func TestFromLaunchArgsIncludeAsSingleString(t *testing.T) {
	logPath := writeTempLog(t, "hello\n")
	raw := launchArguments(map[string]interface{}{
		"log_file":    logPath,
		"log_pattern": `(?P<message>.*)`,
		"include":     "**/*.go",
	})

	settings, err := FromLaunchArgs(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(settings.Include) != 1 || settings.Include[0] != "**/*.go" {
		t.Errorf("Include = %v, want single-element slice", settings.Include)
	}
}

func TestFromLaunchArgsMissingLogFile(t *testing.T) {
	raw := launchArguments(map[string]interface{}{
		"log_pattern": `(?P<message>.*)`,
	})
	if _, err := FromLaunchArgs(raw); err == nil {
		t.Fatal("expected error for missing log_file")
	}
}

func TestFromLaunchArgsUnreadableLogFile(t *testing.T) {
	raw := launchArguments(map[string]interface{}{
		"log_file":    "/does/not/exist.log",
		"log_pattern": `(?P<message>.*)`,
	})
	if _, err := FromLaunchArgs(raw); err == nil {
		t.Fatal("expected error for unreadable log_file")
	}
}

func TestFromLaunchArgsMissingMessageGroup(t *testing.T) {
	logPath := writeTempLog(t, "hello\n")
	raw := launchArguments(map[string]interface{}{
		"log_file":    logPath,
		"log_pattern": `(?P<file>.*)`,
	})
	if _, err := FromLaunchArgs(raw); err == nil {
		t.Fatal("expected error when log_pattern lacks a message capture group")
	}
}

func TestFromLaunchArgsBadRegex(t *testing.T) {
	logPath := writeTempLog(t, "hello\n")
	raw := launchArguments(map[string]interface{}{
		"log_file":    logPath,
		"log_pattern": `(?P<message>.*`,
	})
	if _, err := FromLaunchArgs(raw); err == nil {
		t.Fatal("expected error for invalid regex")
	}
}
