package config

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

const logFileName = "governance-api.log"

// LogWriter receives application, gin and gorm output.
var LogWriter io.Writer = os.Stdout

var logDir = "logs"

// LogFilePath is where InitLogging mirrors stdout.
func LogFilePath() string {
	return filepath.Join(logDir, logFileName)
}

// InitLogging tees the standard logger into dir/governance-api.log. When the file
// cannot be opened the service keeps logging to stdout only.
func InitLogging(dir string) io.Closer {
	if dir != "" {
		logDir = dir
	}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.Printf("Warning: Failed to create log directory %s: %v", logDir, err)
		return nil
	}
	logFile, err := os.OpenFile(LogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: Failed to open log file: %v", err)
		return nil
	}

	LogWriter = io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(LogWriter)
	return logFile
}

// TailLog returns at most the last n lines of the log file; n <= 0 returns all of it.
func TailLog(n int) ([]byte, error) {
	f, err := os.Open(LogFilePath())
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	if n <= 0 {
		return io.ReadAll(f)
	}

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	var out []byte
	for _, line := range ring {
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out, nil
}
