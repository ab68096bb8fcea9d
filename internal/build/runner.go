package build

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/glitchidea/sitebuilder/internal/logfields"
)

// RunStages executes stages in order, recording timing and stopping on the
// first fatal or canceled stage. Successful and warning stages advance the
// lifecycle; an abort leaves it for the caller to mark Aborted.
func RunStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := NewCanceledStageError(st.Name, ctx.Err())
			bs.Report.StageErrorKinds[st.Name] = se.Kind
			bs.Report.AddIssue(IssueCanceled, st.Name, SeverityError, se.Error(), se)
			bs.Report.RecordStageResult(st.Name, StageResultCanceled, bs.Recorder)
			bs.Observer.OnStageComplete(st.Name, 0, StageResultCanceled)
			return se
		default:
		}

		bs.Observer.OnStageStart(st.Name)
		slog.Debug("Stage started", logfields.Stage(string(st.Name)))

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		bs.Report.StageDurations[string(st.Name)] = dur

		out := ClassifyStageResult(st.Name, err)
		if out.Error != nil {
			bs.Report.StageErrorKinds[st.Name] = out.Error.Kind
			bs.Report.AddIssue(out.IssueCode, out.Stage, out.Severity, out.Error.Error(), out.Error)
		}
		bs.Report.RecordStageResult(st.Name, out.Result, bs.Recorder)
		bs.Observer.OnStageComplete(st.Name, dur, out.Result)

		if out.Abort {
			slog.Error("Stage failed",
				logfields.Stage(string(st.Name)),
				logfields.Elapsed(dur),
				logfields.Error(out.Error))
			return out.Error
		}
		if out.Result == StageResultWarning {
			slog.Warn("Stage completed with warnings",
				logfields.Stage(string(st.Name)),
				logfields.Error(out.Error))
		}
		slog.Debug("Stage completed", logfields.Stage(string(st.Name)), logfields.Elapsed(dur))

		if to, ok := stageReaches[st.Name]; ok {
			if err := bs.Lifecycle.Advance(to); err != nil {
				se := NewFatalStageError(st.Name, fmt.Errorf("pipeline order: %w", err))
				bs.Report.AddIssue(IssueGenericStageError, st.Name, SeverityError, se.Error(), se)
				return se
			}
		}
	}
	return nil
}
