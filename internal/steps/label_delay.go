package steps

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/similigh/shortcut-sync/internal/core/pipeline"
)

// LabelDelay waits label-delay before the label flow continues, giving a
// concurrent "opened" run time to create the story.
type LabelDelay struct {
	wait func(ctx context.Context, d time.Duration) error
	log  *zap.SugaredLogger
}

// NewLabelDelay creates a new label delay step.
func NewLabelDelay(deps *pipeline.Dependencies) *LabelDelay {
	return &LabelDelay{
		wait: sleep,
		log:  stepLogger(deps, "label_delay"),
	}
}

// Name returns the step name.
func (s *LabelDelay) Name() string {
	return "label_delay"
}

// Run sleeps unless the delay is zero.
func (s *LabelDelay) Run(ctx *pipeline.Context) error {
	d := ctx.Config.LabelDelay
	if d <= 0 {
		return nil
	}
	s.log.Infof("Waiting %s before handling label", d)
	return s.wait(ctx.Ctx, d)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
