package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultLogFile is the diagnostic log written next to the working directory.
const DefaultLogFile = "translation_errors.log"

// openLog opens path for appending and returns a DEBUG-level text logger
// writing to it. The caller must call the returned close function.
func openLog(path string) (*slog.Logger, func() error, error) {
	// #nosec G302 G304 -- user-chosen log file with standard permissions
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return log, f.Close, nil
}

// writeFileAtomic writes content to path through a temp file in the same
// directory and a rename, replacing any existing file. A failed write
// leaves the previous file untouched.
func writeFileAtomic(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	tmpName := tmp.Name()

	writeErr := func() error {
		defer func() { _ = tmp.Close() }()
		if _, err := tmp.WriteString(content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return tmp.Sync()
	}()
	if writeErr == nil {
		writeErr = os.Chmod(tmpName, 0644) // #nosec G302 -- translated text is not secret
	}
	if writeErr == nil {
		writeErr = os.Rename(tmpName, path)
	}

	if writeErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, writeErr)
	}
	return nil
}

// prompter asks yes/no style questions on stdin. Reading runs in a
// goroutine so a canceled context unblocks the caller.
type prompter struct {
	out   io.Writer
	in    io.Reader
	once  sync.Once
	stop  sync.Once
	lines chan string
	done  chan struct{}
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, out: out, lines: make(chan string), done: make(chan struct{})}
}

func (p *prompter) start() {
	go func() {
		defer close(p.lines)
		sc := bufio.NewScanner(p.in)
		for sc.Scan() {
			select {
			case p.lines <- sc.Text():
			case <-p.done:
				return
			}
		}
	}()
}

// close releases the reader goroutine once no more questions will be asked.
func (p *prompter) close() {
	p.stop.Do(func() { close(p.done) })
}

// ask prints question and returns the answer lowercased and trimmed.
// io.EOF is returned when stdin is closed.
func (p *prompter) ask(ctx context.Context, question string) (string, error) {
	fmt.Fprint(p.out, question)
	p.once.Do(p.start)

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			fmt.Fprintln(p.out)
			return "", io.EOF
		}
		return strings.ToLower(strings.TrimSpace(line)), nil
	}
}

// isQuit reports whether answer declines to continue.
func isQuit(answer string) bool {
	switch answer {
	case "n", "no", "q", "quit":
		return true
	}
	return false
}
