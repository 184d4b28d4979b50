package harness

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// Feeder replays scripted inputs into a client's stdin with fixed
// inter-step pacing. There is no acknowledgment protocol with the client,
// so pacing is the only synchronization primitive available.
type Feeder struct {
	StepDelay time.Duration
	Log       log.Logger
	Echo      func(value string) // control-message sink, may be nil
}

// Feed writes each input followed by a line terminator, then waits
// StepDelay before the next. A write failure (broken pipe, client exited
// early) stops feeding immediately and is surfaced without retry;
// remaining inputs are simply not sent. Context cancellation aborts
// between steps.
func (f *Feeder) Feed(ctx context.Context, stdin io.Writer, inputs []string) error {
	for i, value := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := io.WriteString(stdin, value+"\n"); err != nil {
			return fmt.Errorf("writing input %d/%d: %w", i+1, len(inputs), err)
		}
		if f.Echo != nil {
			f.Echo(value)
		}
		if f.Log != nil {
			f.Log.Debug("Sent input", "stage", i+1, "value", value)
		}
		if err := sleepCtx(ctx, f.StepDelay); err != nil {
			return err
		}
	}
	return nil
}

// sleepCtx waits for d or until the context is done, whichever is first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
