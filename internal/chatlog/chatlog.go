// Package chatlog appends every answered exchange to a flat text file.
//
// Each entry is two labelled lines and a blank separator:
//
//	User: <input>
//	Assistant: <response>
//
// The file is never rotated, truncated or rewritten.
package chatlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Entry is one user input and the assistant's answer to it.
type Entry struct {
	UserInput         string
	AssistantResponse string
}

// Format renders e in the on-disk layout.
func (e Entry) Format() string {
	return fmt.Sprintf("User: %s\nAssistant: %s\n\n", e.UserInput, e.AssistantResponse)
}

// Logger records chat entries.
// Implementations must be safe for concurrent use.
type Logger interface {
	Append(e Entry) error
}

// FileLogger appends entries to a file. Writers are serialised and each
// entry goes out in a single write on an O_APPEND descriptor, so concurrent
// requests never interleave partial entries.
type FileLogger struct {
	path string
	mu   sync.Mutex
}

// NewFileLogger ensures the log's directory and file exist.
func NewFileLogger(path string) (*FileLogger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to ensure chat log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to init chat log: %w", err)
	}
	_ = f.Close()
	return &FileLogger{path: path}, nil
}

// Path returns the file the logger appends to.
func (l *FileLogger) Path() string { return l.path }

// Append writes e to the end of the log.
func (l *FileLogger) Append(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open append: %w", err)
	}
	if _, err := f.WriteString(e.Format()); err != nil {
		_ = f.Close()
		return fmt.Errorf("write append: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close append: %w", err)
	}
	return nil
}
