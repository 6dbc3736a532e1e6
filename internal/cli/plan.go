package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-classic-translate/internal/chapter"
	"github.com/alnah/go-classic-translate/internal/document"
	"github.com/alnah/go-classic-translate/internal/format"
	"github.com/alnah/go-classic-translate/internal/segment"
)

// headingPreviewLength bounds the heading column of the plan table.
const headingPreviewLength = 24

// chapterPlan summarizes how one chapter will be sent.
type chapterPlan struct {
	Ordinal  int
	Heading  string
	Cost     int // estimated cost of the whole chapter
	Segments int
	MaxCost  int // largest segment cost
	Oversize int // segments above MaxTokens (oversized atomic words)
}

// PlanCmd creates the plan command (dry run of chapter and segment splitting).
// The env parameter provides injectable dependencies for testing.
func PlanCmd(env *Env) *cobra.Command {
	var parallel int

	cmd := &cobra.Command{
		Use:   "plan <input-file>",
		Short: "Show how a document will be split, without translating",
		Long: `Split a document into chapters and segments and print a summary.

No API key is needed and nothing is sent to a provider. Use it to tune
--max-tokens, --sub-chunk-size and --heading-pattern before a long run.`,
		Example: `  classic-translate plan honglou.txt
  classic-translate plan honglou.txt --max-tokens 3000 --tokenizer chars`,
		Args: cobra.ExactArgs(1),
	}

	seg := addSegmentFlags(cmd.Flags())
	cmd.Flags().IntVarP(&parallel, "parallel", "p", runtime.GOMAXPROCS(0), "Chapters segmented concurrently")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runPlan(cmd.Context(), env, args[0], seg, clampParallel(parallel))
	}

	return cmd
}

// clampParallel keeps the worker count within [1, 64].
func clampParallel(n int) int {
	return max(1, min(n, 64))
}

// runPlan loads the document, segments every chapter and prints the plan.
func runPlan(ctx context.Context, env *Env, inputPath string, flags *segmentFlags, parallel int) error {
	splitter, segmenter, err := flags.build(nil)
	if err != nil {
		return err
	}

	text, err := document.Load(inputPath)
	if err != nil {
		return err
	}

	chapters := splitter.Split(text)
	if len(chapters) == 0 {
		return fmt.Errorf("%w in %s", ErrNoChapters, inputPath)
	}

	plans, err := planChapters(ctx, segmenter, chapters, parallel)
	if err != nil {
		return err
	}

	return printPlan(env.Stdout, segmenter, chapters, plans)
}

// planChapters segments chapters concurrently. Results keep chapter order.
func planChapters(ctx context.Context, s *segment.Segmenter, chapters []chapter.Chapter, parallel int) ([]chapterPlan, error) {
	plans := make([]chapterPlan, len(chapters))
	est := s.Estimator()
	limit := s.Config().MaxTokens

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, ch := range chapters {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := chapterPlan{
				Ordinal: ch.Ordinal,
				Heading: ch.Heading,
				Cost:    est.Count(ch.Text),
			}
			for _, seg := range s.Segment(ch.Text) {
				cost := est.Count(seg)
				p.Segments++
				p.MaxCost = max(p.MaxCost, cost)
				if cost > limit {
					p.Oversize++
				}
			}
			plans[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}

// printPlan writes the plan table and totals to w.
func printPlan(w io.Writer, s *segment.Segmenter, chapters []chapter.Chapter, plans []chapterPlan) error {
	cfg := s.Config()
	fmt.Fprintf(w, "Estimator: %s\n", s.Estimator().Name())
	fmt.Fprintf(w, "Budgets: max %d, sub-chunk %d, overlap %d\n", cfg.MaxTokens, cfg.SubChunkSize, cfg.OverlapTokens)
	fmt.Fprintf(w, "Detected %s.\n\n", describeChapters(chapters))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Chapter\tHeading\tCost\tSegments\tMax segment\t")

	var segments, oversize int
	for _, p := range plans {
		segments += p.Segments
		oversize += p.Oversize
		heading := p.Heading
		if p.Ordinal == 0 {
			heading = "(front matter)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t\n",
			p.Ordinal, format.Snippet(heading, headingPreviewLength), p.Cost, p.Segments, p.MaxCost)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}

	fmt.Fprintf(w, "\nTotal: %s across %s.\n", format.Plural(segments, "segment"), format.Plural(len(plans), "chapter"))
	if oversize > 0 {
		fmt.Fprintf(w, "Warning: %s exceed the max-tokens budget (unsplittable words).\n", format.Plural(oversize, "segment"))
	}
	return nil
}
