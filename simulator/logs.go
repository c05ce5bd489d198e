package simulator

import (
	"strings"
	"sync"
)

// logBuffer keeps the last lines written to it for the log panel
type logBuffer struct {
	mu      sync.Mutex
	max     int
	lines   []string
	partial string
	version int
}

func newLogBuffer(max int) *logBuffer {
	return &logBuffer{max: max}
}

func (l *logBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	text := l.partial + string(p)
	parts := strings.Split(text, "\n")
	l.partial = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		l.lines = append(l.lines, line)
	}
	if len(l.lines) > l.max {
		l.lines = l.lines[len(l.lines)-l.max:]
	}
	l.version++
	return len(p), nil
}

// Text returns the kept lines and a version that changes on every write
func (l *logBuffer) Text() (string, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n"), l.version
}
