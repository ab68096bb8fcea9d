package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/glitchidea/sitebuilder/internal/assemble"
	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
	"github.com/glitchidea/sitebuilder/internal/logfields"
	"github.com/glitchidea/sitebuilder/internal/metrics"
	"github.com/glitchidea/sitebuilder/internal/render"
	"github.com/glitchidea/sitebuilder/internal/target"
)

// Options is everything one build needs. It is a plain value so the same
// pipeline serves every target profile.
type Options struct {
	ContentDir  string
	TemplateDir string
	AssetDir    string
	OutputDir   string

	Profile target.Profile
	Site    render.Site

	AssetExclude []string
	// ExtraFiles are optional root files (robots.txt, sitemap.xml, ...) copied into the output root.
	ExtraFiles []string

	StrictSchema  bool
	VerifyAssets  bool
	PersistReport bool

	// BuildID identifies the build in logs, reports and events. Generated when empty.
	BuildID string
}

// Validate rejects options that would make the build destroy its own inputs.
func (o Options) Validate() error {
	if strings.TrimSpace(o.OutputDir) == "" {
		return ferrors.ConfigError("output directory must be set").Build()
	}
	if o.Profile.Name == "" {
		return ferrors.ConfigError("target profile must be set").Build()
	}
	out, err := filepath.Abs(o.OutputDir)
	if err != nil {
		return ferrors.ConfigError("resolve output directory").WithCause(err).Build()
	}
	for name, dir := range map[string]string{"content": o.ContentDir, "templates": o.TemplateDir, "assets": o.AssetDir} {
		if dir == "" {
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return ferrors.ConfigError("resolve input directory").WithCause(err).WithContext("input", name).Build()
		}
		if within(abs, out) || within(out, abs) {
			return ferrors.ConfigError(fmt.Sprintf("%s directory %s overlaps the output directory %s", name, dir, o.OutputDir)).
				WithContext("input", name).
				Build()
		}
	}
	if err := assemble.ValidatePatterns(o.AssetExclude); err != nil {
		return ferrors.ConfigError("invalid asset exclude pattern").WithCause(err).Build()
	}
	return nil
}

// within reports whether path is base or lies below it.
func within(path, base string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// BuildService is the entry point every caller (CLI, server, preview) builds through.
type BuildService interface {
	Run(ctx context.Context, opts Options) (*BuildResult, error)
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	BuildStatusSuccess   BuildStatus = "success"
	BuildStatusFailed    BuildStatus = "failed"
	BuildStatusCancelled BuildStatus = "cancelled"
)

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	Status     BuildStatus
	Report     *BuildReport
	OutputPath string
	Duration   time.Duration
	StartTime  time.Time
	EndTime    time.Time
}

// DefaultBuildService runs DefaultPipeline with an optional recorder and observers.
type DefaultBuildService struct {
	recorder  metrics.Recorder
	observers []BuildObserver
}

// NewBuildService creates a service with metrics disabled and no observers.
func NewBuildService() *DefaultBuildService {
	return &DefaultBuildService{recorder: metrics.NoopRecorder{}}
}

// WithRecorder sets the metrics recorder.
func (s *DefaultBuildService) WithRecorder(r metrics.Recorder) *DefaultBuildService {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
	return s
}

// WithObserver adds an observer notified of stage and build completion.
func (s *DefaultBuildService) WithObserver(o BuildObserver) *DefaultBuildService {
	if o != nil {
		s.observers = append(s.observers, o)
	}
	return s
}

// Run executes one complete build. On success the output directory holds the
// new site; on failure the staging directory is removed and the previous
// output is untouched. The returned result is non-nil whenever the pipeline ran.
func (s *DefaultBuildService) Run(ctx context.Context, opts Options) (*BuildResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.BuildID == "" {
		opts.BuildID = uuid.NewString()
	}

	report := NewBuildReport(opts.BuildID, string(opts.Profile.Name))
	observer := MultiObserver(append([]BuildObserver{RecorderObserver{Recorder: s.recorder}}, s.observers...))
	bs := &BuildState{
		Options:   opts,
		Report:    report,
		Lifecycle: NewLifecycle(),
		Recorder:  s.recorder,
		Observer:  observer,
		Output:    assemble.New(opts.OutputDir),
	}
	result := &BuildResult{StartTime: report.Start, OutputPath: opts.OutputDir, Report: report}

	log := slog.With(logfields.BuildID(opts.BuildID), logfields.Target(string(opts.Profile.Name)))
	log.Info("Build started", logfields.Path(opts.OutputDir))

	err := RunStages(ctx, bs, DefaultPipeline(opts.VerifyAssets))
	if err == nil {
		if ferr := bs.Output.Finalize(); ferr != nil {
			report.AddIssue(IssueOutputWriteFailure, StageWriteOutput, SeverityError, ferr.Error(), ferr)
			err = ferr
		} else if aerr := bs.Lifecycle.Advance(StateDone); aerr != nil {
			err = ferrors.InternalError("finish build").WithCause(aerr).Build()
			report.AddIssue(IssueGenericStageError, StageWriteOutput, SeverityError, err.Error(), err)
		}
	}
	if err != nil {
		bs.Output.Abort()
		bs.Lifecycle.Abort()
	}

	report.FinalState = bs.Lifecycle.State()
	report.Finish()
	report.DeriveOutcome()
	result.EndTime = report.End
	result.Duration = report.End.Sub(report.Start)

	switch {
	case err == nil:
		result.Status = BuildStatusSuccess
		if opts.PersistReport {
			if perr := report.Persist(opts.OutputDir); perr != nil {
				log.Warn("Failed to persist build report", logfields.Error(perr))
			}
		}
		log.Info("Build completed", slog.String("summary", report.Summary()))
	case report.Outcome == OutcomeCanceled || errors.Is(err, context.Canceled):
		result.Status = BuildStatusCancelled
		log.Warn("Build canceled", logfields.Error(err))
	default:
		result.Status = BuildStatusFailed
		log.Error("Build failed", logfields.Error(err))
	}
	observer.OnBuildComplete(report)
	return result, err
}
