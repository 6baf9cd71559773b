package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Falls back to false for
// plain io.Writer values such as *bytes.Buffer.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// Spinner shows that a blocking association query is in flight.
// It writes to stderr so stdout stays clean for piped or JSON output, and it
// is silent when the writer is not a terminal.
type Spinner struct {
	message   string
	chars     []string
	interval  time.Duration
	writer    io.Writer
	mu        sync.Mutex
	running   bool
	done      chan struct{}
	stopped   chan struct{}
	startTime time.Time
}

// NewSpinner creates a spinner with a message.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message:  message,
		chars:    []string{"|", "/", "-", "\\"},
		interval: 100 * time.Millisecond,
		writer:   os.Stderr,
	}
}

// SetWriter sets the output writer (useful for testing).
func (s *Spinner) SetWriter(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer = w
}

// Start begins the animation. It is a no-op on a non-TTY writer or when the
// spinner is already running.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running || !writerIsTTY(s.writer) {
		return
	}

	s.running = true
	s.startTime = time.Now()
	s.done = make(chan struct{})
	s.stopped = make(chan struct{})

	go s.loop(s.done, s.stopped)
}

func (s *Spinner) loop(done, stopped chan struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	idx := 0
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			elapsed := int(time.Since(s.startTime).Seconds())
			fmt.Fprintf(s.writer, "\r%s  %s (%ds elapsed)", s.chars[idx], s.message, elapsed)
			s.mu.Unlock()
			idx = (idx + 1) % len(s.chars)
		case <-done:
			return
		}
	}
}

// Running reports whether the animation goroutine is active.
func (s *Spinner) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stop ends the animation and clears the line. Safe to call more than once.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	stopped := s.stopped
	s.mu.Unlock()

	<-stopped

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", len(s.message)+24))
}
