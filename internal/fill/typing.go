package fill

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
)

// DefaultTypingDelay is the post-injection pause modeling human cadence.
const DefaultTypingDelay = 50 * time.Millisecond

// Typer injects text into a control, defeating controlled-input frameworks
// that ignore a raw value write. Injection is best-effort: it never fails the
// caller, it only logs.
type Typer struct {
	logger *zap.Logger
	delay  time.Duration

	// sleep is injectable so tests can run with zero delay.
	sleep func(ctx context.Context, d time.Duration)
}

// NewTyper creates a typing simulator with the given cadence delay. A
// negative delay selects the default.
func NewTyper(logger *zap.Logger, delay time.Duration) *Typer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if delay < 0 {
		delay = DefaultTypingDelay
	}
	return &Typer{
		logger: logger.Named("typer"),
		delay:  delay,
		sleep: func(ctx context.Context, d time.Duration) {
			if d <= 0 {
				return
			}
			timer := time.NewTimer(d)
			defer timer.Stop()
			// The pause is a suspension point but not a cancellation point:
			// the caller always waits it out.
			<-timer.C
		},
	}
}

// Type writes text into the control behind selector using a two-path
// strategy:
//
// Path A asks the host environment for a native text-insertion on the
// focused control. When that succeeds the page's own input tracking fires
// naturally and nothing else is needed.
//
// Path B, used only when Path A reports failure, writes through the
// control's underlying native property setter (bypassing framework-level
// property overrides) and then dispatches bubbling input and change events
// so both framework listeners and plain page scripts observe the value.
//
// Either way the control is blurred afterwards, committing validation in
// many frameworks, and a short fixed delay passes before returning. The
// returned error is non-nil only when neither path managed to write.
func (t *Typer) Type(ctx context.Context, page schemas.Page, selector, text string) error {
	writeErr := page.InsertText(ctx, selector, text)
	if writeErr != nil {
		t.logger.Debug("Native insertion refused, falling back to property write",
			zap.String("selector", selector), zap.Error(writeErr))
		writeErr = t.fallbackWrite(ctx, page, selector, text)
	}
	if writeErr != nil {
		t.logger.Warn("Text injection failed", zap.String("selector", selector), zap.Error(writeErr))
		return writeErr
	}

	if err := page.Blur(ctx, selector); err != nil {
		t.logger.Debug("Blur failed", zap.String("selector", selector), zap.Error(err))
	}
	t.sleep(ctx, t.delay)
	return nil
}

func (t *Typer) fallbackWrite(ctx context.Context, page schemas.Page, selector, text string) error {
	if err := page.SetValue(ctx, selector, text); err != nil {
		return err
	}
	for _, event := range []string{"input", "change"} {
		if err := page.DispatchEvent(ctx, selector, event); err != nil {
			t.logger.Debug("Event dispatch failed",
				zap.String("selector", selector), zap.String("event", event), zap.Error(err))
		}
	}
	return nil
}
