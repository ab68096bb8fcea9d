package build

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

func TestLifecycle_ForwardPath(t *testing.T) {
	l := NewLifecycle()
	for _, s := range []State{
		StateAssetsCopied, StateContentLoaded, StateFragmentsRendered,
		StateLayoutComposed, StatePathsRewritten, StateWritten, StateDone,
	} {
		require.NoError(t, l.Advance(s))
	}
	assert.Equal(t, StateDone, l.State())
	assert.Len(t, l.Path(), 8)

	l.Abort()
	assert.Equal(t, StateDone, l.State(), "terminal state must not change")
}

func TestLifecycle_RejectsSkips(t *testing.T) {
	l := NewLifecycle()
	assert.Error(t, l.Advance(StateContentLoaded))
	assert.Error(t, l.Advance(StateDone))
	require.NoError(t, l.Advance(StateAssetsCopied))
	assert.Error(t, l.Advance(StateInit))
}

func TestLifecycle_AbortFromAnyNonTerminal(t *testing.T) {
	l := NewLifecycle()
	require.NoError(t, l.Advance(StateAssetsCopied))
	l.Abort()
	assert.Equal(t, StateAborted, l.State())
	assert.Error(t, l.Advance(StateContentLoaded))
	assert.False(t, CanTransition(StateAborted, StateAborted))
	assert.True(t, CanTransition(StateWritten, StateAborted))
}

func TestClassifyStageResult(t *testing.T) {
	ok := ClassifyStageResult(StageLoadContent, nil)
	assert.Equal(t, StageResultSuccess, ok.Result)
	assert.False(t, ok.Abort)

	warn := ClassifyStageResult(StageVerifyAssets, NewWarnStageError(StageVerifyAssets, errors.New("missing")))
	assert.Equal(t, StageResultWarning, warn.Result)
	assert.Equal(t, IssueBrokenAssetRef, warn.IssueCode)
	assert.False(t, warn.Abort)

	tmpl := ClassifyStageResult(StageComposeLayout,
		NewFatalStageError(StageComposeLayout, ferrors.TemplateError("bad layout").Build()))
	assert.Equal(t, IssueTemplateMalformed, tmpl.IssueCode)
	assert.True(t, tmpl.Abort)

	raw := ClassifyStageResult(StageWriteOutput, ferrors.FileSystemError("disk full").Build())
	assert.Equal(t, StageResultFatal, raw.Result)
	assert.Equal(t, IssueOutputWriteFailure, raw.IssueCode)

	canceled := ClassifyStageResult(StageCopyAssets, NewCanceledStageError(StageCopyAssets, context.Canceled))
	assert.Equal(t, StageResultCanceled, canceled.Result)
	assert.Equal(t, IssueCanceled, canceled.IssueCode)
}

func TestRunStages_StopsOnFatal(t *testing.T) {
	bs := &BuildState{
		Report:    NewBuildReport("t", "root-domain"),
		Lifecycle: NewLifecycle(),
		Observer:  NoopObserver{},
	}
	var ran []StageName
	stages := NewPipeline().
		Add(StageCopyAssets, func(context.Context, *BuildState) error {
			ran = append(ran, StageCopyAssets)
			return nil
		}).
		Add(StageLoadContent, func(context.Context, *BuildState) error {
			ran = append(ran, StageLoadContent)
			return NewFatalStageError(StageLoadContent, ferrors.ContentError("broken").Build())
		}).
		Add(StageRenderFragments, func(context.Context, *BuildState) error {
			ran = append(ran, StageRenderFragments)
			return nil
		}).
		Build()

	err := RunStages(context.Background(), bs, stages)
	require.Error(t, err)
	assert.Equal(t, []StageName{StageCopyAssets, StageLoadContent}, ran)
	assert.Equal(t, StateAssetsCopied, bs.Lifecycle.State())
	assert.Equal(t, 1, bs.Report.StageCounts[StageLoadContent].Fatal)
	bs.Report.DeriveOutcome()
	assert.Equal(t, OutcomeFailed, bs.Report.Outcome)
}

func TestPipeline_AddIf(t *testing.T) {
	assert.Len(t, DefaultPipeline(true), 8)
	assert.Len(t, DefaultPipeline(false), 7)
}
