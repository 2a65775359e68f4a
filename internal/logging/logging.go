// Package logging sets up slog-based structured logging with fan-out to
// console, a session log file, and optionally OpenTelemetry.
package logging

import (
	"fmt"
	"path/filepath"
	"time"
)

// LogFilePath builds a session log file path using OS-appropriate separators.
func LogFilePath(logsDir, processName string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", processName, sessionStart.Format("20060102_150405")),
	)
}
