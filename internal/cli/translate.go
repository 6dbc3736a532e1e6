package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/go-classic-translate/internal/chapter"
	"github.com/alnah/go-classic-translate/internal/config"
	"github.com/alnah/go-classic-translate/internal/document"
	"github.com/alnah/go-classic-translate/internal/format"
	"github.com/alnah/go-classic-translate/internal/interrupt"
	"github.com/alnah/go-classic-translate/internal/lang"
	"github.com/alnah/go-classic-translate/internal/pace"
	"github.com/alnah/go-classic-translate/internal/prompt"
	"github.com/alnah/go-classic-translate/internal/translate"
)

// Defaults for the translate command.
const (
	defaultOutputDir    = "translations"
	defaultSegmentDelay = time.Second
	defaultChapterDelay = 2 * time.Second
	snippetLength       = 300
)

// translateOptions holds validated options for the translate command.
type translateOptions struct {
	inputPath       string
	outputDir       string
	provider        Provider
	providerSet     bool // provider came from the flag
	model           string
	source          string
	target          string
	style           prompt.Style
	temperature     float64
	topP            float64
	autoContinue    bool
	segmentDelay    time.Duration
	chapterDelay    time.Duration
	logFile         string
	maxOutputTokens int
	maxRetries      int
	segments        *segmentFlags
}

// translateFlags holds raw flag values before parsing.
type translateFlags struct {
	outputDir       string
	provider        string
	model           string
	source          string
	target          string
	style           string
	temperature     float64
	topP            float64
	autoContinue    bool
	segmentDelay    time.Duration
	chapterDelay    time.Duration
	logFile         string
	maxOutputTokens int
	maxRetries      int
}

// TranslateCmd creates the translate command.
// The env parameter provides injectable dependencies for testing.
func TranslateCmd(env *Env) *cobra.Command {
	var f translateFlags

	cmd := &cobra.Command{
		Use:   "translate <input-file>",
		Short: "Translate a document chapter by chapter",
		Long: `Translate a long document chapter by chapter through a language model.

The document is split into chapters at headings (第…回 by default), each
chapter into segments that fit the token budget, and every segment is
translated in order. Each chapter is written to Chapter_<n>.txt in the
output directory as soon as it is complete.

Supported inputs: ` + supportedFormatsList() + `

Providers and their API keys:
  openai     OPENAI_API_KEY     (default model ` + translate.DefaultOpenAIModel + `)
  deepseek   DEEPSEEK_API_KEY   (default model ` + translate.DefaultDeepSeekModel + `)
  anthropic  ANTHROPIC_API_KEY  (default model ` + translate.DefaultAnthropicModel + `)
  gemini     GEMINI_API_KEY     (default model ` + translate.DefaultGeminiModel + `)

Unless --auto-continue is set, the first translated segment is shown for
confirmation and the run pauses after each chapter.

Press Ctrl+C once to stop after the current chapter, twice to abort.`,
		Example: `  classic-translate translate honglou.txt
  classic-translate translate honglou.txt -o out --auto-continue
  classic-translate translate sanguo.md --provider anthropic --style literary
  classic-translate translate odyssey.txt --from grc --to fr --heading-pattern '(?m)^BOOK [IVX]+$'`,
		Args: cobra.ExactArgs(1),
	}

	seg := addSegmentFlags(cmd.Flags())

	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "Directory for Chapter_<n>.txt files (default: config output-dir or ./"+defaultOutputDir+")")
	cmd.Flags().StringVar(&f.provider, "provider", ProviderOpenAI, "Translation provider: openai, deepseek, anthropic, gemini")
	cmd.Flags().StringVar(&f.model, "model", "", "Model name (default depends on provider)")
	cmd.Flags().StringVar(&f.source, "from", lang.DefaultSource, "Source language code")
	cmd.Flags().StringVar(&f.target, "to", lang.DefaultTarget, "Target language code")
	cmd.Flags().StringVar(&f.style, "style", prompt.Faithful, "Instruction style: faithful, literary, annotated")
	cmd.Flags().Float64Var(&f.temperature, "temperature", translate.DefaultTemperature, "Sampling temperature (0-2)")
	cmd.Flags().Float64Var(&f.topP, "top-p", translate.DefaultTopP, "Nucleus sampling probability mass (0-1]; below 1 it replaces temperature for anthropic")
	cmd.Flags().BoolVarP(&f.autoContinue, "auto-continue", "y", false, "Do not ask for confirmation between chapters")
	cmd.Flags().DurationVar(&f.segmentDelay, "segment-delay", defaultSegmentDelay, "Minimum spacing between segment requests")
	cmd.Flags().DurationVar(&f.chapterDelay, "chapter-delay", defaultChapterDelay, "Minimum spacing between chapter starts; no extra wait when a chapter takes longer")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "Append-only diagnostic log (default: config log-file or "+DefaultLogFile+")")
	cmd.Flags().IntVar(&f.maxOutputTokens, "max-output-tokens", 0, "Cap on tokens generated per segment (0 = provider default)")
	cmd.Flags().IntVar(&f.maxRetries, "max-retries", 3, "Retries for rate limits and transient failures")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts, err := parseTranslateOptions(args[0], f, seg)
		if err != nil {
			return err
		}
		opts.providerSet = cmd.Flags().Changed("provider")
		return runTranslate(cmd.Context(), env, opts)
	}

	return cmd
}

// parseTranslateOptions validates and parses CLI inputs into translateOptions.
// All parsing happens at the CLI boundary.
func parseTranslateOptions(inputPath string, f translateFlags, seg *segmentFlags) (translateOptions, error) {
	provider, err := ParseProvider(f.provider)
	if err != nil {
		return translateOptions{}, err
	}

	style, err := prompt.ParseStyle(f.style)
	if err != nil {
		return translateOptions{}, err
	}

	if err := lang.Validate(f.source); err != nil {
		return translateOptions{}, fmt.Errorf("--from: %w", err)
	}
	if err := lang.Validate(f.target); err != nil {
		return translateOptions{}, fmt.Errorf("--to: %w", err)
	}

	switch {
	case f.temperature < 0 || f.temperature > 2:
		return translateOptions{}, fmt.Errorf("--temperature %v outside [0, 2]: %w", f.temperature, ErrInvalidFlag)
	case f.topP <= 0 || f.topP > 1:
		return translateOptions{}, fmt.Errorf("--top-p %v outside (0, 1]: %w", f.topP, ErrInvalidFlag)
	case f.segmentDelay < 0 || f.chapterDelay < 0:
		return translateOptions{}, fmt.Errorf("delays cannot be negative: %w", ErrInvalidFlag)
	case f.maxOutputTokens < 0 || f.maxOutputTokens > 1<<20:
		return translateOptions{}, fmt.Errorf("--max-output-tokens %d out of range: %w", f.maxOutputTokens, ErrInvalidFlag)
	case f.maxRetries < 0:
		return translateOptions{}, fmt.Errorf("--max-retries cannot be negative: %w", ErrInvalidFlag)
	}

	return translateOptions{
		inputPath:       inputPath,
		outputDir:       f.outputDir,
		provider:        provider,
		model:           f.model,
		source:          lang.Normalize(f.source),
		target:          lang.Normalize(f.target),
		style:           style,
		temperature:     f.temperature,
		topP:            f.topP,
		autoContinue:    f.autoContinue,
		segmentDelay:    f.segmentDelay,
		chapterDelay:    f.chapterDelay,
		logFile:         f.logFile,
		maxOutputTokens: f.maxOutputTokens,
		maxRetries:      f.maxRetries,
		segments:        seg,
	}, nil
}

// applyConfig fills options left at their defaults from the config file.
// Precedence: flag > config file > environment > default.
func applyConfig(opts translateOptions, cfg config.Config) (translateOptions, error) {
	if !opts.providerSet && cfg.Provider != "" {
		p, err := ParseProvider(cfg.Provider)
		if err != nil {
			return opts, fmt.Errorf("config %s: %w", config.KeyProvider, err)
		}
		opts.provider = p
	}
	// A configured model belongs to the configured provider.
	if opts.model == "" && cfg.Model != "" && (!opts.providerSet || cfg.Provider == opts.provider.String()) {
		opts.model = cfg.Model
	}
	if opts.model == "" {
		opts.model = opts.provider.DefaultModel()
	}
	if opts.outputDir == "" {
		opts.outputDir = cfg.OutputDir
	}
	if opts.outputDir == "" {
		opts.outputDir = defaultOutputDir
	}
	opts.outputDir = config.ExpandPath(opts.outputDir)
	if opts.logFile == "" {
		opts.logFile = cfg.LogFile
	}
	if opts.logFile == "" {
		opts.logFile = DefaultLogFile
	}
	opts.logFile = config.ExpandPath(opts.logFile)
	return opts, nil
}

// runTranslate executes the translate command with validated options.
func runTranslate(ctx context.Context, env *Env, opts translateOptions) error {
	// === VALIDATION (fail-fast) ===

	if _, err := os.Stat(opts.inputPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, opts.inputPath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}
	if _, err := document.ForFile(opts.inputPath); err != nil {
		return err
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}
	opts, err = applyConfig(opts, cfg)
	if err != nil {
		return err
	}

	apiKey, err := opts.provider.apiKey(env.Getenv)
	if err != nil {
		return err
	}

	// === SETUP ===

	log, closeLog, err := openLog(opts.logFile)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	splitter, segmenter, err := opts.segments.build(log)
	if err != nil {
		return err
	}

	if err := config.EnsureOutputDir(opts.outputDir); err != nil {
		return fmt.Errorf("invalid output-dir: %w", err)
	}

	translator, err := env.TranslatorFactory.NewTranslator(ctx, opts.provider, apiKey,
		translate.WithModel(opts.model),
		translate.WithMaxOutputTokens(opts.maxOutputTokens),
		translate.WithMaxRetries(opts.maxRetries),
		translate.WithLogger(log),
	)
	if err != nil {
		return err
	}

	// === READ INPUT ===

	fmt.Fprintf(env.Stderr, "Reading %s...\n", opts.inputPath)
	text, err := document.Load(opts.inputPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Stderr, "Read %s of text.\n", format.Size(int64(len(text))))
	log.Info("document loaded", "path", opts.inputPath, "bytes", len(text), "estimator", segmenter.Estimator().Name())

	fmt.Fprintln(env.Stderr, "Splitting text into chapters...")
	chapters := splitter.Split(text)
	if len(chapters) == 0 {
		return fmt.Errorf("%w in %s", ErrNoChapters, opts.inputPath)
	}
	fmt.Fprintf(env.Stderr, "Detected %s.\n", describeChapters(chapters))
	log.Debug("chapters detected", "count", len(chapters))

	handler, ctx := env.Interrupts(ctx, env.Stderr)
	defer handler.Stop()

	run := &translationRun{
		env:          env,
		opts:         opts,
		log:          log,
		prompt:       newPrompter(env.Stdin, env.Stderr),
		interrupts:   handler,
		chapterPacer: pace.New(opts.chapterDelay),
		total:        countHeaded(chapters),
	}
	defer run.prompt.close()
	run.chapters = translate.NewChapterTranslator(translator, segmenter,
		opts.style.Instruction(opts.source, opts.target),
		translate.WithPacer(pace.New(opts.segmentDelay)),
		translate.WithSampling(opts.temperature, opts.topP),
		translate.WithSegmentHook(func(d translate.SegmentDone) error {
			return run.onSegment(ctx, d)
		}),
		translate.WithChapterLogger(log),
	)

	fmt.Fprintf(env.Stderr, "Translating %s → %s with %s (style %s, one request every %s).\n",
		lang.DisplayName(opts.source), lang.DisplayName(opts.target), translator.Name(),
		opts.style, format.DurationHuman(opts.segmentDelay))

	return run.execute(ctx, chapters)
}

// translationRun carries the state of one translate invocation.
type translationRun struct {
	env          *Env
	opts         translateOptions
	log          *slog.Logger
	prompt       *prompter
	interrupts   *interrupt.Handler
	chapters     *translate.ChapterTranslator
	chapterPacer *pace.Pacer
	total        int  // headed chapters
	verified     bool // first segment confirmed
}

// execute translates chapters in order, stopping at the first failure.
func (r *translationRun) execute(ctx context.Context, chapters []chapter.Chapter) error {
	start := r.env.Now()
	written := 0

	for i, ch := range chapters {
		fmt.Fprintf(r.env.Stderr, "\nTranslating %s...\n", r.label(ch))
		r.log.Debug("translating chapter", "chapter", ch.Ordinal, "heading", ch.Heading)

		translated, err := r.chapters.Translate(ctx, ch)
		if err != nil {
			return r.chapterFailed(ch, err)
		}

		out := config.ChapterPath(r.opts.outputDir, ch.Ordinal)
		if err := writeFileAtomic(out, translated); err != nil {
			return r.chapterFailed(ch, err)
		}
		written++
		fmt.Fprintf(r.env.Stderr, "Chapter %d translation saved to %s\n", ch.Ordinal, out)
		r.log.Info("chapter saved", "chapter", ch.Ordinal, "path", out, "chars", len([]rune(translated)))

		if i == len(chapters)-1 {
			break
		}

		if err := r.checkInterrupt(ctx, ch); err != nil {
			return err
		}

		if err := r.chapterPacer.Wait(ctx); err != nil {
			return err
		}

		if !r.opts.autoContinue {
			if err := r.confirm(ctx, fmt.Sprintf("Press Enter to continue with %s, or q to quit: ", r.label(chapters[i+1]))); err != nil {
				if errors.Is(err, ErrStopped) {
					fmt.Fprintf(r.env.Stderr, "Stopped after Chapter %d.\n", ch.Ordinal)
					return nil
				}
				return err
			}
			// Ctrl+C pressed while the prompt was waiting.
			if err := r.checkInterrupt(ctx, ch); err != nil {
				return err
			}
		}
	}

	fmt.Fprintf(r.env.Stderr, "\nTranslation process completed: %s written to %s in %s.\n",
		format.Plural(written, "chapter"), r.opts.outputDir, format.Duration(r.env.Now().Sub(start)))
	r.log.Info("translation completed", "chapters", written)
	return nil
}

// checkInterrupt turns a pending Ctrl+C into an error once ch is saved.
func (r *translationRun) checkInterrupt(ctx context.Context, ch chapter.Chapter) error {
	switch r.interrupts.Decision() {
	case interrupt.StopAfterChapter:
		fmt.Fprintf(r.env.Stderr, "Stopped after Chapter %d.\n", ch.Ordinal)
		return fmt.Errorf("after chapter %d: %w", ch.Ordinal, ErrInterrupted)
	case interrupt.Abort:
		return ctx.Err()
	}
	return nil
}

// onSegment prints a snippet of each translated segment and asks for
// confirmation after the very first one.
func (r *translationRun) onSegment(ctx context.Context, d translate.SegmentDone) error {
	fmt.Fprintf(r.env.Stderr, "  Segment %d/%d translated in %s:\n%s\n  ---\n",
		d.Index, d.Total, format.Duration(d.Elapsed), format.Snippet(d.Translation, snippetLength))

	if r.verified || r.opts.autoContinue {
		return nil
	}
	r.verified = true
	return r.confirm(ctx, "Does the first segment look correct? Continue? [Y/n] ")
}

// confirm asks question and returns ErrStopped when the user declines.
func (r *translationRun) confirm(ctx context.Context, question string) error {
	answer, err := r.prompt.ask(ctx, question)
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(r.env.Stderr, "No input available; rerun with --auto-continue for unattended runs.")
		return ErrStopped
	}
	if err != nil {
		return err
	}
	if isQuit(answer) {
		return ErrStopped
	}
	return nil
}

// chapterFailed reports a chapter error and returns the error to surface.
func (r *translationRun) chapterFailed(ch chapter.Chapter, err error) error {
	if errors.Is(err, ErrStopped) {
		fmt.Fprintf(r.env.Stderr, "Stopped before writing Chapter %d.\n", ch.Ordinal)
		return nil
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintf(r.env.Stderr, "Interrupted during Chapter %d.\n", ch.Ordinal)
		r.log.Warn("chapter interrupted", "chapter", ch.Ordinal)
		return err
	}
	r.log.Error("error translating chapter", "chapter", ch.Ordinal, "error", err)
	fmt.Fprintf(r.env.Stderr, "Error on Chapter %d: %v. Stopping at this point.\n", ch.Ordinal, err)
	return fmt.Errorf("chapter %d: %w", ch.Ordinal, err)
}

// label names a chapter in progress messages.
func (r *translationRun) label(ch chapter.Chapter) string {
	if ch.IsFrontMatter() {
		return "front matter"
	}
	return fmt.Sprintf("Chapter %d/%d", ch.Ordinal, r.total)
}

// countHeaded returns the number of chapters that are not front matter.
func countHeaded(chapters []chapter.Chapter) int {
	n := 0
	for _, ch := range chapters {
		if !ch.IsFrontMatter() {
			n++
		}
	}
	return n
}

// describeChapters summarizes the split for the user.
func describeChapters(chapters []chapter.Chapter) string {
	n := countHeaded(chapters)
	if n < len(chapters) {
		return format.Plural(n, "chapter") + " plus front matter"
	}
	return format.Plural(n, "chapter")
}

// supportedFormatsList returns the accepted input extensions for help text.
func supportedFormatsList() string {
	return strings.Join(document.SupportedExtensions(), ", ")
}
