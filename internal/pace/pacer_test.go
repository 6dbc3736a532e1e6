package pace_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alnah/go-classic-translate/internal/pace"
)

func TestPacer_Disabled(t *testing.T) {
	t.Parallel()

	for _, interval := range []time.Duration{0, -time.Second} {
		p := pace.New(interval)
		if p.Interval() != 0 {
			t.Errorf("New(%v).Interval() = %v, want 0", interval, p.Interval())
		}

		start := time.Now()
		for range 100 {
			if err := p.Wait(context.Background()); err != nil {
				t.Fatalf("Wait() error = %v", err)
			}
		}
		if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
			t.Errorf("disabled pacer blocked for %v", elapsed)
		}
	}
}

func TestPacer_SpacesEvents(t *testing.T) {
	t.Parallel()

	const interval = 40 * time.Millisecond
	p := pace.New(interval)
	if p.Interval() != interval {
		t.Errorf("Interval() = %v, want %v", p.Interval(), interval)
	}

	start := time.Now()
	for range 3 {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	// First event is immediate, the next two wait one interval each.
	if elapsed := time.Since(start); elapsed < 2*interval-5*time.Millisecond {
		t.Errorf("3 events took %v, want at least %v", elapsed, 2*interval)
	}
}

func TestPacer_ContextCanceled(t *testing.T) {
	t.Parallel()

	p := pace.New(time.Hour)
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
}

func TestPacer_NilNeverBlocks(t *testing.T) {
	t.Parallel()

	var p *pace.Pacer
	if err := p.Wait(context.Background()); err != nil {
		t.Errorf("nil Pacer Wait() error = %v", err)
	}
}
