package publish

import (
	"strings"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

// classifyGitError turns a go-git failure into a ClassifiedError tagged with op.
func classifyGitError(err error, op, remote string) error {
	if err == nil {
		return nil
	}
	if _, ok := ferrors.AsClassified(err); ok {
		return err
	}
	l := strings.ToLower(err.Error())
	var b *ferrors.ErrorBuilder
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "authorization") || strings.Contains(l, "invalid credentials"):
		b = ferrors.ConfigError("git remote rejected the credentials").UserAction()
	case strings.Contains(l, "repository not found") || strings.Contains(l, "does not exist"):
		b = ferrors.NotFoundError("git remote not found")
	case strings.Contains(l, "connection") || strings.Contains(l, "timeout") || strings.Contains(l, "no route to host"):
		b = ferrors.NetworkError("git remote unreachable").Retryable()
	case strings.Contains(l, "non-fast-forward"):
		b = ferrors.GitError("publish branch has diverged from the remote").UserAction()
	default:
		b = ferrors.GitError("git operation failed")
	}
	return b.WithCause(err).
		WithContext("op", op).
		WithContext("url", remote).
		Build()
}
