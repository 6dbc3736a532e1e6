package cli

import (
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/alnah/go-classic-translate/internal/chapter"
	"github.com/alnah/go-classic-translate/internal/segment"
	"github.com/alnah/go-classic-translate/internal/token"
)

// segmentFlags holds the chapter and segmentation settings shared by the
// translate and plan commands.
type segmentFlags struct {
	maxTokens      int
	subChunkSize   int
	overlapTokens  int
	tokenizer      string
	encoding       string
	headingPattern string
}

// addSegmentFlags registers the segmentation flags on fs.
func addSegmentFlags(fs *pflag.FlagSet) *segmentFlags {
	f := &segmentFlags{}
	fs.IntVar(&f.maxTokens, "max-tokens", segment.DefaultMaxTokens, "Maximum estimated tokens per translated segment")
	fs.IntVar(&f.subChunkSize, "sub-chunk-size", segment.DefaultSubChunkSize, "Target size when splitting an oversized paragraph")
	fs.IntVar(&f.overlapTokens, "overlap-tokens", segment.DefaultOverlapTokens, "Characters of context repeated between sub-chunks (0 disables)")
	fs.StringVar(&f.tokenizer, "tokenizer", token.StrategyAuto, "Token estimator: auto, tiktoken, chars")
	fs.StringVar(&f.encoding, "encoding", token.DefaultEncoding, "Tiktoken encoding: cl100k_base, o200k_base")
	fs.StringVar(&f.headingPattern, "heading-pattern", "", "Regular expression matching chapter headings (default 第…回)")
	return f
}

// config returns the segmentation budgets from the flags.
func (f *segmentFlags) config() segment.Config {
	return segment.Config{
		MaxTokens:     f.maxTokens,
		SubChunkSize:  f.subChunkSize,
		OverlapTokens: f.overlapTokens,
	}
}

// build validates the flags and creates the splitter and segmenter.
// The estimator is selected once here and shared by both.
func (f *segmentFlags) build(log *slog.Logger) (*chapter.Splitter, *segment.Segmenter, error) {
	cfg := f.config()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	heading, err := chapter.CompileHeading(f.headingPattern)
	if err != nil {
		return nil, nil, err
	}

	est, err := token.Select(f.tokenizer, f.encoding, log)
	if err != nil {
		return nil, nil, err
	}

	seg, err := segment.New(cfg, est, segment.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}

	splitter := chapter.NewSplitter(chapter.WithHeading(heading), chapter.WithLogger(log))
	return splitter, seg, nil
}
