package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// SetupLogger points the default logger at the settings' level and file.
// The returned closer releases the file.
func SetupLogger(s *Settings) (io.Closer, error) {
	level, err := log.ParseLevel(s.LogLevel)
	if nil != err {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	log.SetLevel(level)
	log.SetReportTimestamp(true)

	if s.LogFile == "" {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(s.LogFile), 0o755); nil != err {
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}
	f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if nil != err {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}
	log.SetOutput(f)
	return f, nil
}
