package main

import (
	"log"
	"os"
	"strings"

	"aggfiles/cmd"
	"aggfiles/pkg/logging"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	err := cmd.Execute()
	logger := logging.Logger

	if err != nil {
		logger.Error("agg-files execution failed", zap.Error(err))
		syncLogger(logger)
		os.Exit(1)
	}
	syncLogger(logger)
}

// syncLogger flushes the logger. Sync on a pipe or character device fails
// with "invalid argument", so only terminals and regular files are synced.
func syncLogger(logger *zap.Logger) {
	if !term.IsTerminal(int(os.Stderr.Fd())) && !isRegularFile(os.Stderr) {
		return
	}
	if syncErr := logger.Sync(); syncErr != nil {
		lowerErr := strings.ToLower(syncErr.Error())
		if !strings.Contains(lowerErr, "invalid argument") && !strings.Contains(lowerErr, "inappropriate ioctl") {
			log.Printf("Logger sync failed: %v", syncErr)
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false // Assume not a regular file if we can't get the file info
	}
	return fileInfo.Mode().IsRegular()
}
