// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dutchex/dutchex"
	"github.com/jrick/logrotate/rotator"
)

const maxLogRolls = 8

// logWriter implements an io.Writer that outputs to both standard output and
// a rotating log file.
type logWriter struct {
	*rotator.Rotator
}

// Write writes the data in p to standard out and the log rotator.
func (w logWriter) Write(p []byte) (n int, err error) {
	os.Stdout.Write(p)
	return w.Rotator.Write(p)
}

// InitLogging initializes the log rotator to write to logPath, creating roll
// files in the same directory, and returns a LoggerMaker for subsystem
// loggers along with a close function for application shutdown. InitLogging
// must be called before any subsystem loggers are used.
func InitLogging(logPath, lvl string, utc bool) (*dutchex.LoggerMaker, func(), error) {
	err := os.MkdirAll(filepath.Dir(logPath), 0700)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	logRotator, err := rotator.New(logPath, 32*1024, false, maxLogRolls)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create file rotator: %w", err)
	}
	lm, err := dutchex.NewLoggerMaker(logWriter{logRotator}, lvl, utc)
	if err != nil {
		logRotator.Close()
		return nil, nil, fmt.Errorf("failed to create logger maker: %w", err)
	}
	return lm, func() { logRotator.Close() }, nil
}
