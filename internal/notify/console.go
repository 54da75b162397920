package notify

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Console renders notifications as an animated terminal spinner that resolves
// to a green check or red cross. One spinner runs per notification id; updates
// for an unknown or finalized id start a fresh one.
type Console struct {
	out io.Writer

	mu     sync.Mutex
	active map[string]*consoleSpinner
}

// NewConsole creates a Console writing to stderr.
func NewConsole() *Console {
	return &Console{out: os.Stderr, active: make(map[string]*consoleSpinner)}
}

// NewConsoleWriter creates a Console writing to w.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w, active: make(map[string]*consoleSpinner)}
}

func (c *Console) Loading(id, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.active[id]; ok {
		s.update(message)
		return
	}
	s := newConsoleSpinner(c.out)
	c.active[id] = s
	s.start(message)
}

func (c *Console) Success(id, message string) {
	c.finalize(id, color.New(color.FgGreen).Sprint("✓"), message)
}

func (c *Console) Error(id, message string) {
	c.finalize(id, color.New(color.FgRed).Sprint("✗"), message)
}

func (c *Console) finalize(id, mark, message string) {
	c.mu.Lock()
	s, ok := c.active[id]
	delete(c.active, id)
	c.mu.Unlock()

	if ok {
		s.stop()
	}
	fmt.Fprintf(c.out, "%s %s\n", mark, message)
}

type consoleSpinner struct {
	out      io.Writer
	frameIdx int
	message  string
	stopCh   chan struct{}
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

func newConsoleSpinner(out io.Writer) *consoleSpinner {
	return &consoleSpinner{out: out}
}

func (s *consoleSpinner) start(message string) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.message = message
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.render()

	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		defer close(s.done)

		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.render()
			}
		}
	}()
}

func (s *consoleSpinner) update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
	s.render()
}

func (s *consoleSpinner) stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	<-s.done
	fmt.Fprintf(s.out, "\r%80s\r", "") // Clear line
}

func (s *consoleSpinner) render() {
	s.mu.Lock()
	msg := s.message
	idx := s.frameIdx
	s.frameIdx = (s.frameIdx + 1) % len(spinnerFrames)
	s.mu.Unlock()

	fmt.Fprintf(s.out, "\r%s %s          ", spinnerFrames[idx], msg)
}
