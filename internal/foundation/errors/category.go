package errors

// ErrorCategory routes an error to an exit code, an HTTP status and a log level.
type ErrorCategory string

// Input the user controls: the config file, CLI flags, request bodies.
const (
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"
)

// Site sources the author has to fix before a build can pass.
const (
	CategoryContent  ErrorCategory = "content"
	CategoryTemplate ErrorCategory = "template"
)

// Build pipeline, output tree and publish branch.
const (
	CategoryBuild      ErrorCategory = "build"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryGit        ErrorCategory = "git"
)

// Outside systems (SMTP, mail worker, NATS, git remotes) and the process itself.
const (
	CategoryNetwork  ErrorCategory = "network"
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity is how far an error reaches.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // aborts the command or build
	SeverityError   ErrorSeverity = "error"   // fails one operation
	SeverityWarning ErrorSeverity = "warning" // degraded result, keeps going
	SeverityInfo    ErrorSeverity = "info"
)

// RetryStrategy tells callers whether running the operation again can help.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryBackoff    RetryStrategy = "backoff"
	RetryUserAction RetryStrategy = "user"
)
