// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

package commands

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/similigh/shortcut-sync/internal/core/pipeline"
	"github.com/similigh/shortcut-sync/internal/tui"
)

// statusReportingStep wraps a step to send status updates to the TUI.
type statusReportingStep struct {
	inner   pipeline.Step
	updates chan<- tui.StepMsg
}

func (s *statusReportingStep) Name() string {
	return s.inner.Name()
}

func (s *statusReportingStep) Run(ctx *pipeline.Context) error {
	s.updates <- tui.StepMsg{Step: s.Name(), Status: tui.StatusStarted}

	warnings := len(ctx.Result.Warnings)
	err := s.inner.Run(ctx)
	switch {
	case errors.Is(err, pipeline.ErrSkipPipeline):
		s.updates <- tui.StepMsg{Step: s.Name(), Status: tui.StatusSkipped, Detail: ctx.Result.SkipReason}
	case err != nil:
		s.updates <- tui.StepMsg{Step: s.Name(), Status: tui.StatusError, Detail: err.Error()}
	default:
		msg := tui.StepMsg{Step: s.Name(), Status: tui.StatusSuccess}
		if n := len(ctx.Result.Warnings); n > warnings {
			msg.Detail = ctx.Result.Warnings[n-1]
		}
		s.updates <- msg
	}
	return err
}

// withStatus wraps every step of p. updates must hold two messages per
// step so a closed TUI never blocks the run.
func withStatus(p *pipeline.Pipeline, updates chan<- tui.StepMsg) *pipeline.Pipeline {
	var wrapped []pipeline.Step
	for _, step := range p.Steps() {
		wrapped = append(wrapped, &statusReportingStep{inner: step, updates: updates})
	}
	return pipeline.New(wrapped...)
}

func stepNames(p *pipeline.Pipeline) []string {
	names := make([]string, 0, len(p.Steps()))
	for _, s := range p.Steps() {
		names = append(names, s.Name())
	}
	return names
}

// runWithTUI runs the pipeline in the background while the TUI renders
// progress. The final frame shows the story outcome.
func runWithTUI(p *pipeline.Pipeline, pCtx *pipeline.Context, title string, out io.Writer) error {
	names := stepNames(p)
	updates := make(chan tui.StepMsg, 2*len(names))
	errCh := make(chan error, 1)

	go func() {
		defer close(updates)
		errCh <- withStatus(p, updates).Run(pCtx)
	}()

	prog := tea.NewProgram(tui.NewModel(title, names, updates, pCtx.Result), tea.WithOutput(out))
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return <-errCh
}
