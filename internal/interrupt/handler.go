package interrupt

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Behavior is what the caller should do at the next chapter boundary.
type Behavior int

const (
	// Continue means no interrupt was received.
	Continue Behavior = iota
	// StopAfterChapter means finish the chapter in progress, then stop.
	StopAfterChapter
	// Abort means the run context has been canceled.
	Abort
)

// String returns the string representation of the Behavior.
func (b Behavior) String() string {
	switch b {
	case Continue:
		return "Continue"
	case StopAfterChapter:
		return "StopAfterChapter"
	case Abort:
		return "Abort"
	default:
		return fmt.Sprintf("Behavior(%d)", b)
	}
}

// ExitInterrupt is the exit code for interrupt (130 = 128 + SIGINT).
const ExitInterrupt = 130

// interruptWindow is the time window for a second Ctrl+C to trigger abort.
const interruptWindow = 2 * time.Second

// Messages displayed to the user.
const (
	stopMessage  = "\nStopping after the current chapter. Press Ctrl+C again within 2s to abort."
	abortMessage = "\nAborted."
)

// Handler manages graceful interrupt handling with double Ctrl+C detection.
// First Ctrl+C asks the run to stop at the next chapter boundary.
// Second Ctrl+C within the window cancels the run context.
type Handler struct {
	mu             sync.Mutex
	firstInterrupt time.Time
	interrupted    bool
	aborted        bool
	stopped        bool
	cancelFunc     context.CancelFunc
	done           chan struct{} // Signals listen goroutine to exit

	// Injected dependencies (for testing)
	nowFunc func() time.Time
	stderr  io.Writer
}

// Options holds injectable dependencies for testing.
type Options struct {
	SigCh   <-chan os.Signal
	NowFunc func() time.Time
	// Stderr is the writer for user-facing messages.
	// Must be safe for concurrent writes from multiple goroutines.
	// Defaults to os.Stderr which is safe at the OS level.
	Stderr io.Writer
}

// NewHandler creates a handler that listens for SIGINT/SIGTERM.
// Returns the handler and a context that is canceled on abort.
func NewHandler(parent context.Context, stderr io.Writer) (*Handler, context.Context) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return newHandler(parent, Options{SigCh: sigCh, Stderr: stderr})
}

// NewHandlerWithOptions creates a handler with injectable dependencies.
// Used by tests to inject mock signal channels and clocks.
func NewHandlerWithOptions(parent context.Context, opts Options) (*Handler, context.Context) {
	return newHandler(parent, opts)
}

func newHandler(parent context.Context, opts Options) (*Handler, context.Context) {
	ctx, cancel := context.WithCancel(parent)

	nowFunc := opts.NowFunc
	if nowFunc == nil {
		nowFunc = time.Now
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	h := &Handler{
		cancelFunc: cancel,
		done:       make(chan struct{}),
		nowFunc:    nowFunc,
		stderr:     stderr,
	}

	if opts.SigCh != nil {
		go h.listen(opts.SigCh)
	}

	return h, ctx
}

// listen handles incoming signals.
func (h *Handler) listen(sigCh <-chan os.Signal) {
	for {
		select {
		case <-h.done:
			return
		case _, ok := <-sigCh:
			if !ok {
				return
			}
			if h.handleSignal() {
				return
			}
		}
	}
}

// handleSignal records one signal and reports whether listening should end.
func (h *Handler) handleSignal() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped || h.aborted {
		return true
	}
	now := h.nowFunc()

	// A late second Ctrl+C restarts the window instead of aborting.
	if !h.interrupted || now.Sub(h.firstInterrupt) > interruptWindow {
		h.interrupted = true
		h.firstInterrupt = now
		fmt.Fprintln(h.stderr, stopMessage)
		return false
	}

	h.aborted = true
	h.cancelFunc()
	fmt.Fprintln(h.stderr, abortMessage)
	return true
}

// WasInterrupted returns true if at least one interrupt was received.
func (h *Handler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}

// Decision returns what the caller should do at the current chapter boundary.
func (h *Handler) Decision() Behavior {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch {
	case h.aborted:
		return Abort
	case h.interrupted:
		return StopAfterChapter
	default:
		return Continue
	}
}

// Stop cleans up the handler and releases the context. Safe to call twice.
func (h *Handler) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	signal.Reset(syscall.SIGINT, syscall.SIGTERM)
	close(h.done)
	h.cancelFunc()
}
