package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glitchidea/sitebuilder/internal/metrics"
	"github.com/glitchidea/sitebuilder/internal/version"
)

// Report file names written by Persist.
const (
	ReportJSONFile = "build-report.json"
	ReportTextFile = "build-report.txt"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// ReportIssueCode enumerates machine-parseable issue identifiers.
// These codes are a stable contract and should only be appended.
type ReportIssueCode string

const (
	IssueContentMissing     ReportIssueCode = "CONTENT_MISSING"
	IssueContentMalformed   ReportIssueCode = "CONTENT_MALFORMED"
	IssueContentSchema      ReportIssueCode = "CONTENT_SCHEMA"
	IssueTemplateMalformed  ReportIssueCode = "TEMPLATE_MALFORMED"
	IssueAssetSourceMissing ReportIssueCode = "ASSET_SOURCE_MISSING"
	IssueOutputWriteFailure ReportIssueCode = "OUTPUT_WRITE_FAILURE"
	IssueBrokenAssetRef     ReportIssueCode = "BROKEN_ASSET_REFERENCE"
	IssueCanceled           ReportIssueCode = "BUILD_CANCELED"
	IssueGenericStageError  ReportIssueCode = "GENERIC_STAGE_ERROR"
)

// IssueSeverity represents normalized severity levels.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ReportIssue is a structured taxonomy entry describing a discrete problem encountered.
type ReportIssue struct {
	Code     ReportIssueCode `json:"code"`
	Stage    StageName       `json:"stage"`
	Severity IssueSeverity   `json:"severity"`
	Message  string          `json:"message"`
}

// StageCount aggregates counts of outcomes for a stage.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// BuildReport captures what happened during one build.
type BuildReport struct {
	SchemaVersion   int
	BuildID         string
	Target          string
	Start           time.Time
	End             time.Time
	Errors          []error // fatal errors causing build abortion (at most one)
	Warnings        []error // recoverable issues
	StageDurations  map[string]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount
	Outcome         BuildOutcome
	Issues          []ReportIssue
	// FinalState is the lifecycle state the build ended in (done or aborted).
	FinalState State

	DocumentsLoaded    []string
	DocumentsDefaulted []string
	// FragmentSources records, per fragment plus "layout", whether a file or the embedded default was used.
	FragmentSources map[string]string
	AssetFiles      int
	ContentFiles    int
	PathsRewritten  bool
	Markers         []string
	ExtraFiles      []string
	BrokenAssets    []string
	Version         string
}

// NewBuildReport constructs an empty report for a build of target.
func NewBuildReport(buildID, target string) *BuildReport {
	return &BuildReport{
		SchemaVersion:   1,
		BuildID:         buildID,
		Target:          target,
		Start:           time.Now(),
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
		FragmentSources: make(map[string]string),
		FinalState:      StateInit,
		Version:         version.Version,
	}
}

// AddIssue appends a structured issue and mirrors severity into Errors/Warnings.
func (r *BuildReport) AddIssue(code ReportIssueCode, stage StageName, severity IssueSeverity, msg string, err error) {
	r.Issues = append(r.Issues, ReportIssue{Code: code, Stage: stage, Severity: severity, Message: msg})
	if err == nil {
		return
	}
	switch severity {
	case SeverityError:
		r.Errors = append(r.Errors, err)
	case SeverityWarning:
		r.Warnings = append(r.Warnings, err)
	}
}

// Warn records a recoverable condition handled inside a stage.
func (r *BuildReport) Warn(code ReportIssueCode, stage StageName, msg string) {
	r.AddIssue(code, stage, SeverityWarning, msg, errors.New(msg))
}

// HasIssue reports whether an issue with code was recorded.
func (r *BuildReport) HasIssue(code ReportIssueCode) bool {
	for _, is := range r.Issues {
		if is.Code == code {
			return true
		}
	}
	return false
}

// Finish sets the end time of the report.
func (r *BuildReport) Finish() { r.End = time.Now() }

// RecordStageResult updates counters and emits metrics.
func (r *BuildReport) RecordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	if r.StageCounts == nil {
		r.StageCounts = make(map[StageName]StageCount)
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	sc := r.StageCounts[stage]
	switch res {
	case StageResultSuccess:
		sc.Success++
		recorder.IncStageResult(string(stage), metrics.ResultSuccess)
	case StageResultWarning:
		sc.Warning++
		recorder.IncStageResult(string(stage), metrics.ResultWarning)
	case StageResultFatal:
		sc.Fatal++
		recorder.IncStageResult(string(stage), metrics.ResultFatal)
	case StageResultCanceled:
		sc.Canceled++
		recorder.IncStageResult(string(stage), metrics.ResultCanceled)
	}
	r.StageCounts[stage] = sc
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("target=%s duration=%s errors=%d warnings=%d stages=%d assets=%d content=%d rewritten=%t state=%s outcome=%s",
		r.Target, dur.Truncate(time.Millisecond), len(r.Errors), len(r.Warnings), len(r.StageDurations),
		r.AssetFiles, r.ContentFiles, r.PathsRewritten, r.FinalState, r.Outcome)
}

// DeriveOutcome sets Outcome from the recorded errors and warnings.
func (r *BuildReport) DeriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Persist writes build-report.json and build-report.txt into root, each via a temp file and rename.
func (r *BuildReport) Persist(root string) error {
	if r.End.IsZero() {
		r.Finish()
		r.DeriveOutcome()
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.SanitizedCopy(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := writeAtomic(filepath.Join(root, ReportJSONFile), jb); err != nil {
		return fmt.Errorf("write report json: %w", err)
	}
	if err := writeAtomic(filepath.Join(root, ReportTextFile), []byte(r.Summary()+"\n")); err != nil {
		return fmt.Errorf("write report summary: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// SanitizedCopy returns a JSON-friendly view with errors converted to strings.
func (r *BuildReport) SanitizedCopy() *BuildReportSerializable {
	stageCounts := make(map[string]StageCount, len(r.StageCounts))
	for k, v := range r.StageCounts {
		stageCounts[string(k)] = v
	}
	sek := make(map[string]string, len(r.StageErrorKinds))
	for k, v := range r.StageErrorKinds {
		sek[string(k)] = string(v)
	}
	durations := make(map[string]int64, len(r.StageDurations))
	for k, v := range r.StageDurations {
		durations[k] = v.Milliseconds()
	}
	issues := r.Issues
	if issues == nil {
		issues = []ReportIssue{}
	}
	s := &BuildReportSerializable{
		SchemaVersion:      r.SchemaVersion,
		BuildID:            r.BuildID,
		Target:             r.Target,
		Start:              r.Start,
		End:                r.End,
		Errors:             make([]string, len(r.Errors)),
		Warnings:           make([]string, len(r.Warnings)),
		StageDurationsMS:   durations,
		StageErrorKinds:    sek,
		StageCounts:        stageCounts,
		Outcome:            string(r.Outcome),
		FinalState:         string(r.FinalState),
		Issues:             issues,
		DocumentsLoaded:    r.DocumentsLoaded,
		DocumentsDefaulted: r.DocumentsDefaulted,
		FragmentSources:    r.FragmentSources,
		AssetFiles:         r.AssetFiles,
		ContentFiles:       r.ContentFiles,
		PathsRewritten:     r.PathsRewritten,
		Markers:            r.Markers,
		ExtraFiles:         r.ExtraFiles,
		BrokenAssets:       r.BrokenAssets,
		Version:            r.Version,
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	return s
}

// BuildReportSerializable mirrors BuildReport with string errors for JSON output.
type BuildReportSerializable struct {
	SchemaVersion      int                   `json:"schema_version"`
	BuildID            string                `json:"build_id"`
	Target             string                `json:"target"`
	Start              time.Time             `json:"start"`
	End                time.Time             `json:"end"`
	Errors             []string              `json:"errors"`
	Warnings           []string              `json:"warnings"`
	StageDurationsMS   map[string]int64      `json:"stage_durations_ms"`
	StageErrorKinds    map[string]string     `json:"stage_error_kinds"`
	StageCounts        map[string]StageCount `json:"stage_counts"`
	Outcome            string                `json:"outcome"`
	FinalState         string                `json:"final_state"`
	Issues             []ReportIssue         `json:"issues"`
	DocumentsLoaded    []string              `json:"documents_loaded,omitempty"`
	DocumentsDefaulted []string              `json:"documents_defaulted,omitempty"`
	FragmentSources    map[string]string     `json:"fragment_sources,omitempty"`
	AssetFiles         int                   `json:"asset_files"`
	ContentFiles       int                   `json:"content_files"`
	PathsRewritten     bool                  `json:"paths_rewritten"`
	Markers            []string              `json:"markers,omitempty"`
	ExtraFiles         []string              `json:"extra_files,omitempty"`
	BrokenAssets       []string              `json:"broken_assets,omitempty"`
	Version            string                `json:"version,omitempty"`
}
