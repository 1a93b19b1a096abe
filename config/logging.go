package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// LogWriter carries application and SQL logs. Both the API server and the
// sweep binary write here; until InitLogging runs it is stdout only.
var LogWriter io.Writer = os.Stdout

// LogFilePath returns the on-disk log file location.
func LogFilePath() string {
	return filepath.Join("logs", "journal-api.log")
}

// InitLogging opens the log file and tees the standard logger to it. A
// missing or unwritable file degrades to stdout-only logging rather than
// blocking startup.
func InitLogging() (*os.File, io.Writer) {
	logDir := filepath.Dir(LogFilePath())
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create logs directory: %v", err)
	}

	logFile, err := os.OpenFile(LogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: Failed to open log file: %v", err)
		LogWriter = os.Stdout
		log.SetOutput(LogWriter)
		return nil, LogWriter
	}

	LogWriter = io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(LogWriter)
	return logFile, LogWriter
}
