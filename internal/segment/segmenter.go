// Package segment cuts chapter text into segments that fit a token budget.
//
// Splitting prefers semantic boundaries, falling back one level at a time:
// paragraph, then sentence (with a short overlap carried between
// sub-chunks), then whitespace-delimited words. Segments are always
// returned in document order.
package segment

import (
	"io"
	"log/slog"
	"strings"

	"github.com/alnah/go-classic-translate/internal/token"
)

// paragraphSeparator delimits paragraphs in chapter text and joins them
// inside a segment.
const paragraphSeparator = "\n\n"

// Segmenter splits chapters into budget-respecting segments.
// A Segmenter is immutable and safe for concurrent use as long as its
// Estimator is.
type Segmenter struct {
	cfg Config
	est token.Estimator
	log *slog.Logger
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithLogger sets the logger receiving debug traces of each split decision.
func WithLogger(l *slog.Logger) Option {
	return func(s *Segmenter) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Segmenter. Returns ErrInvalidConfig if cfg does not validate.
func New(cfg Config, est token.Estimator, opts ...Option) (*Segmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if est == nil {
		est = token.CharEstimator{}
	}
	s := &Segmenter{
		cfg: cfg,
		est: est,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the budgets the Segmenter was built with.
func (s *Segmenter) Config() Config {
	return s.cfg
}

// Estimator returns the estimator used to measure text.
func (s *Segmenter) Estimator() token.Estimator {
	return s.est
}

// Segment splits one chapter into ordered segments.
//
// A chapter within MaxTokens is returned whole, unchanged. Otherwise
// paragraphs are packed greedily into segments; a paragraph that alone
// exceeds MaxTokens is cut by SplitParagraph, and any sub-chunk still over
// budget is cut by ForceSplit. Blank text yields no segments.
func (s *Segmenter) Segment(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	total := s.est.Count(text)
	s.log.Debug("segment chapter", "tokens", total, "max_tokens", s.cfg.MaxTokens)
	if total <= s.cfg.MaxTokens {
		return []string{text}
	}

	var segments []string
	var current string

	flush := func() {
		if current == "" {
			return
		}
		segments = append(segments, current)
		s.log.Debug("segment appended", "index", len(segments), "tokens", s.est.Count(current))
		current = ""
	}

	for i, para := range SplitParagraphs(text) {
		cost := s.est.Count(para)
		s.log.Debug("paragraph", "index", i+1, "tokens", cost)

		if cost > s.cfg.MaxTokens {
			flush()
			for _, sub := range s.SplitParagraph(para) {
				if s.est.Count(sub) <= s.cfg.MaxTokens {
					segments = append(segments, sub)
					continue
				}
				segments = append(segments, s.ForceSplit(sub, s.cfg.MaxTokens)...)
			}
			continue
		}

		candidate := para
		if current != "" {
			candidate = current + paragraphSeparator + para
		}
		if s.est.Count(candidate) > s.cfg.MaxTokens {
			flush()
			current = para
			continue
		}
		current = candidate
	}
	flush()

	s.log.Debug("chapter segmented", "segments", len(segments))
	return segments
}

// SplitParagraph cuts an oversized paragraph into sentence-bounded
// sub-chunks targeting SubChunkSize.
//
// When a sentence would push the current sub-chunk over budget, the
// sub-chunk is emitted and the next one starts with an overlap prefix: the
// trailing whole words of the emitted sub-chunk, up to OverlapTokens
// characters. A single sentence larger than SubChunkSize becomes its own
// (oversized) sub-chunk. Never returns an empty sub-chunk.
func (s *Segmenter) SplitParagraph(paragraph string) []string {
	var chunks []string
	var current string

	for _, sentence := range SplitSentences(paragraph) {
		candidate := sentence
		if current != "" {
			candidate = current + " " + sentence
		}

		if s.est.Count(candidate) <= s.cfg.SubChunkSize {
			current = candidate
			continue
		}

		if current != "" {
			chunks = append(chunks, current)
			s.log.Debug("sub-chunk appended", "index", len(chunks), "tokens", s.est.Count(current))
		}
		current = sentence
		if s.cfg.OverlapTokens > 0 && len(chunks) > 0 {
			if prefix := overlapPrefix(chunks[len(chunks)-1], s.cfg.OverlapTokens); prefix != "" {
				current = prefix + " " + sentence
			}
		}
	}

	if current != "" {
		chunks = append(chunks, current)
		s.log.Debug("final sub-chunk appended", "index", len(chunks), "tokens", s.est.Count(current))
	}
	return chunks
}

// ForceSplit cuts text at whitespace so that no piece costs more than
// maxCost. Words are never broken: a word that alone exceeds maxCost is
// emitted as its own oversized piece.
//
// Piece cost is accumulated word by word (the first word, then each
// following word with its joining space). For the character estimator this
// is exactly the cost of the joined piece.
func (s *Segmenter) ForceSplit(text string, maxCost int) []string {
	var pieces []string
	var words []string
	cost := 0

	emit := func() {
		piece := strings.Join(words, " ")
		pieces = append(pieces, piece)
		if cost > maxCost {
			s.log.Warn("forced piece exceeds budget", "tokens", cost, "max_tokens", maxCost)
		} else {
			s.log.Debug("forced piece appended", "index", len(pieces), "tokens", cost)
		}
	}

	for _, w := range strings.Fields(text) {
		if len(words) == 0 {
			words = append(words, w)
			cost = s.est.Count(w)
			continue
		}
		wordCost := s.est.Count(" " + w)
		if cost+wordCost > maxCost {
			emit()
			words = []string{w}
			cost = s.est.Count(w)
			continue
		}
		words = append(words, w)
		cost += wordCost
	}
	if len(words) > 0 {
		emit()
	}
	return pieces
}
