package build

import (
	"errors"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

// StageOutcome is the normalized result of one stage execution.
type StageOutcome struct {
	Stage     StageName
	Error     *StageError
	Result    StageResult
	IssueCode ReportIssueCode
	Severity  IssueSeverity
	Abort     bool
}

func resultFromStageErrorKind(k StageErrorKind) StageResult {
	switch k {
	case StageErrorWarning:
		return StageResultWarning
	case StageErrorCanceled:
		return StageResultCanceled
	default:
		return StageResultFatal
	}
}

func severityFromStageErrorKind(k StageErrorKind) IssueSeverity {
	if k == StageErrorWarning {
		return SeverityWarning
	}
	return SeverityError
}

// ClassifyStageResult converts a raw error from a stage into a StageOutcome.
// Errors that are not StageErrors are treated as fatal.
func ClassifyStageResult(stage StageName, err error) StageOutcome {
	if err == nil {
		return StageOutcome{Stage: stage, Result: StageResultSuccess}
	}
	var se *StageError
	if !errors.As(err, &se) {
		se = NewFatalStageError(stage, err)
	}
	if se.Kind == StageErrorCanceled {
		return StageOutcome{
			Stage:     stage,
			Error:     se,
			Result:    StageResultCanceled,
			IssueCode: IssueCanceled,
			Severity:  SeverityError,
			Abort:     true,
		}
	}
	return StageOutcome{
		Stage:     stage,
		Error:     se,
		Result:    resultFromStageErrorKind(se.Kind),
		IssueCode: classifyIssueCode(se),
		Severity:  severityFromStageErrorKind(se.Kind),
		Abort:     se.Kind == StageErrorFatal,
	}
}

// classifyIssueCode maps warnings by stage and fatal errors by their error category.
func classifyIssueCode(se *StageError) ReportIssueCode {
	if se.Kind == StageErrorWarning {
		switch se.Stage {
		case StageLoadContent:
			return IssueContentSchema
		case StageVerifyAssets:
			return IssueBrokenAssetRef
		default:
			return IssueGenericStageError
		}
	}
	switch ferrors.GetCategory(se.Err) {
	case ferrors.CategoryContent:
		return IssueContentMalformed
	case ferrors.CategoryTemplate:
		return IssueTemplateMalformed
	case ferrors.CategoryFileSystem:
		return IssueOutputWriteFailure
	default:
		return IssueGenericStageError
	}
}
