package translate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/alnah/go-classic-translate/internal/chapter"
	"github.com/alnah/go-classic-translate/internal/pace"
)

// segmentSeparator joins translated segments into a chapter.
const segmentSeparator = "\n\n"

// Segmenter splits chapter text into token-bounded segments.
// *segment.Segmenter implements it.
type Segmenter interface {
	Segment(text string) []string
}

// SegmentDone describes a translated segment.
type SegmentDone struct {
	Chapter     int // chapter ordinal
	Index       int // 1-based segment index within the chapter
	Total       int // segments in the chapter
	Source      string
	Translation string
	Elapsed     time.Duration
}

// SegmentHook is called after each segment is translated.
// Returning an error aborts the chapter with that error.
type SegmentHook func(SegmentDone) error

// ChapterTranslator translates chapters segment by segment, strictly in
// document order.
type ChapterTranslator struct {
	translator  Translator
	segmenter   Segmenter
	pacer       *pace.Pacer
	instruction string
	temperature float64
	topP        float64
	onSegment   SegmentHook
	log         *slog.Logger
}

// ChapterOption configures a ChapterTranslator.
type ChapterOption func(*ChapterTranslator)

// WithPacer spaces out translation requests. Wait is called after every
// segment.
func WithPacer(p *pace.Pacer) ChapterOption {
	return func(c *ChapterTranslator) {
		c.pacer = p
	}
}

// WithSampling sets temperature and top_p for every request.
func WithSampling(temperature, topP float64) ChapterOption {
	return func(c *ChapterTranslator) {
		c.temperature = temperature
		c.topP = topP
	}
}

// WithSegmentHook registers a callback run after each translated segment.
func WithSegmentHook(fn SegmentHook) ChapterOption {
	return func(c *ChapterTranslator) {
		c.onSegment = fn
	}
}

// WithChapterLogger sets the logger for per-segment diagnostics.
func WithChapterLogger(l *slog.Logger) ChapterOption {
	return func(c *ChapterTranslator) {
		if l != nil {
			c.log = l
		}
	}
}

// NewChapterTranslator creates a ChapterTranslator sending instruction with
// every segment.
func NewChapterTranslator(t Translator, s Segmenter, instruction string, opts ...ChapterOption) *ChapterTranslator {
	c := &ChapterTranslator{
		translator:  t,
		segmenter:   s,
		instruction: instruction,
		temperature: DefaultTemperature,
		topP:        DefaultTopP,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate segments ch and translates each segment in order, joining the
// results with a blank line. The first failing segment aborts the chapter;
// no partial translation is returned.
func (c *ChapterTranslator) Translate(ctx context.Context, ch chapter.Chapter) (string, error) {
	segments := c.segmenter.Segment(ch.Text)
	total := len(segments)
	c.log.Debug("chapter segmented", "chapter", ch.Ordinal, "segments", total)

	translated := make([]string, 0, total)
	for i, seg := range segments {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		c.log.Debug("translating segment",
			"chapter", ch.Ordinal, "segment", i+1, "total", total,
			"head", head(seg, 200))

		start := time.Now()
		out, err := c.translator.Translate(ctx, Request{
			Instruction: c.instruction,
			Text:        seg,
			Temperature: c.temperature,
			TopP:        c.topP,
		})
		if err != nil {
			return "", fmt.Errorf("segment %d/%d: %w", i+1, total, err)
		}
		translated = append(translated, out)

		if c.onSegment != nil {
			if err := c.onSegment(SegmentDone{
				Chapter:     ch.Ordinal,
				Index:       i + 1,
				Total:       total,
				Source:      seg,
				Translation: out,
				Elapsed:     time.Since(start),
			}); err != nil {
				return "", err
			}
		}

		if err := c.pacer.Wait(ctx); err != nil {
			return "", err
		}
	}

	return strings.Join(translated, segmentSeparator), nil
}

// head returns at most n leading runes of s.
func head(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
