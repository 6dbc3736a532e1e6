package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-classic-translate/internal/config"
	"github.com/alnah/go-classic-translate/internal/interrupt"
	"github.com/alnah/go-classic-translate/internal/prompt"
	"github.com/alnah/go-classic-translate/internal/segment"
	"github.com/alnah/go-classic-translate/internal/token"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	configLoader *mockConfigLoader
	translator   *mockTranslatorFactory
	stdout       *syncBuffer
	stderr       *syncBuffer
}

func newTestMocks() *testMocks {
	return &testMocks{
		configLoader: &mockConfigLoader{},
		translator:   &mockTranslatorFactory{},
		stdout:       &syncBuffer{},
		stderr:       &syncBuffer{},
	}
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnvOptions configures a test environment.
type testEnvOptions struct {
	stdin  io.Reader
	getenv func(string) string
	now    func() time.Time
	mocks  *testMocks
}

// testEnvOption configures testEnv.
type testEnvOption func(*testEnvOptions)

func withTestStdin(s string) testEnvOption {
	return func(o *testEnvOptions) { o.stdin = strings.NewReader(s) }
}

func withTestGetenv(fn func(string) string) testEnvOption {
	return func(o *testEnvOptions) { o.getenv = fn }
}

func withTestConfig(cfg config.Config) testEnvOption {
	return func(o *testEnvOptions) {
		o.mocks.configLoader.LoadFunc = func() (config.Config, error) { return cfg, nil }
	}
}

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env and the mocks for assertions.
func testEnv(opts ...testEnvOption) (*Env, *testMocks) {
	options := &testEnvOptions{
		stdin:  strings.NewReader(""),
		getenv: defaultTestEnv,
		now:    fixedTime(time.Date(2026, 1, 26, 14, 30, 52, 0, time.UTC)),
		mocks:  newTestMocks(),
	}

	for _, opt := range opts {
		opt(options)
	}

	env := &Env{
		Stderr:            options.mocks.stderr,
		Stdout:            options.mocks.stdout,
		Stdin:             options.stdin,
		Getenv:            options.getenv,
		Now:               options.now,
		ConfigLoader:      options.mocks.configLoader,
		TranslatorFactory: options.mocks.translator,
		Interrupts:        noSignals,
	}

	return env, options.mocks
}

// noSignals installs an interrupt handler that never receives a signal.
func noSignals(ctx context.Context, stderr io.Writer) (*interrupt.Handler, context.Context) {
	return interrupt.NewHandlerWithOptions(ctx, interrupt.Options{Stderr: stderr})
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// fixedTime returns a function that always returns the given time.
func fixedTime(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// defaultTestEnv returns API keys for every provider.
func defaultTestEnv(key string) string {
	switch key {
	case EnvOpenAIAPIKey:
		return "test-openai-key"
	case EnvDeepSeekAPIKey:
		return "test-deepseek-key"
	case EnvAnthropicAPIKey:
		return "test-anthropic-key"
	case EnvGeminiAPIKey:
		return "test-gemini-key"
	default:
		return ""
	}
}

// writeInput creates a document in a temp directory and returns its path.
func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create input file: %v", err)
	}
	return path
}

// readOutput returns the content of a written chapter file.
func readOutput(t *testing.T, dir string, ordinal int) string {
	t.Helper()
	data, err := os.ReadFile(config.ChapterPath(dir, ordinal))
	if err != nil {
		t.Fatalf("read chapter %d: %v", ordinal, err)
	}
	return string(data)
}

// testSegmentFlags returns segmentation flags using character counting so
// tests never depend on tokenizer data.
func testSegmentFlags() *segmentFlags {
	return &segmentFlags{
		maxTokens:     segment.DefaultMaxTokens,
		subChunkSize:  segment.DefaultSubChunkSize,
		overlapTokens: segment.DefaultOverlapTokens,
		tokenizer:     token.StrategyChars,
		encoding:      token.DefaultEncoding,
	}
}

// testTranslateOptions returns options for a fast, unattended run.
func testTranslateOptions(t *testing.T, input string) translateOptions {
	t.Helper()
	dir := t.TempDir()
	return translateOptions{
		inputPath:    input,
		outputDir:    filepath.Join(dir, "out"),
		provider:     OpenAIProvider,
		source:       "lzh",
		target:       "en",
		style:        prompt.FaithfulStyle,
		temperature:  0,
		topP:         1,
		autoContinue: true,
		logFile:      filepath.Join(dir, "translate.log"),
		maxRetries:   0,
		segments:     testSegmentFlags(),
	}
}

// twoChapters is a small document with two 第…回 headings.
// The mock translator upper-cases, so Latin bodies make output visible.
const twoChapters = "第一回 the stone\n\nfirst story.\n\n第二回 the city\n\nsecond story."
