package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
	"github.com/glitchidea/sitebuilder/internal/logfields"
)

const (
	DefaultBranch      = "gh-pages"
	DefaultAuthorName  = "sitebuilder"
	DefaultAuthorEmail = "sitebuilder@localhost"
	remoteName         = "origin"
)

// Options configures one publish.
type Options struct {
	OutputDir string
	RemoteURL string
	Branch    string
	Token     string

	AuthorName  string
	AuthorEmail string
	Message     string

	// WorkDir holds the temporary checkout. Defaults to a new temp dir, removed afterwards.
	WorkDir string
}

// Result describes what was published.
type Result struct {
	Branch    string
	Commit    string
	Parent    string
	Files     int
	Unchanged bool
}

func (o *Options) applyDefaults() {
	if o.Branch == "" {
		o.Branch = DefaultBranch
	}
	if o.AuthorName == "" {
		o.AuthorName = DefaultAuthorName
	}
	if o.AuthorEmail == "" {
		o.AuthorEmail = DefaultAuthorEmail
	}
	if o.Message == "" {
		o.Message = "Publish site " + time.Now().UTC().Format(time.RFC3339)
	}
}

// Publish replaces the content of the remote branch with OutputDir in a single
// commit on top of the branch's current tip, then pushes it. The branch is
// created when the remote does not have it. An output identical to the tip
// is not committed.
func Publish(ctx context.Context, opts Options) (*Result, error) {
	opts.applyDefaults()
	if opts.RemoteURL == "" {
		return nil, ferrors.ConfigError("publish remote URL is not configured").
			WithContext("field", "publish.remote_url").Build()
	}
	if st, err := os.Stat(opts.OutputDir); err != nil || !st.IsDir() {
		return nil, ferrors.NotFoundError("build output not found; run a build first").
			WithContext("path", opts.OutputDir).Build()
	}

	workDir := opts.WorkDir
	if workDir == "" {
		tmp, err := os.MkdirTemp("", "sitebuilder-publish-*")
		if err != nil {
			return nil, ferrors.FileSystemError("failed to create publish workspace").WithCause(err).Build()
		}
		defer func() { _ = os.RemoveAll(tmp) }()
		workDir = tmp
	}

	log := slog.With(logfields.URL(opts.RemoteURL), logfields.Branch(opts.Branch))
	auth := authFor(opts.RemoteURL, opts.Token)

	repo, err := git.PlainInit(workDir, false)
	if err != nil {
		return nil, classifyGitError(err, "init", opts.RemoteURL)
	}
	if _, err := repo.CreateRemote(&ggitcfg.RemoteConfig{Name: remoteName, URLs: []string{opts.RemoteURL}}); err != nil {
		return nil, classifyGitError(err, "remote", opts.RemoteURL)
	}
	branchRef := plumbing.NewBranchReferenceName(opts.Branch)
	if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, branchRef)); err != nil {
		return nil, classifyGitError(err, "head", opts.RemoteURL)
	}

	tip, err := fetchTip(ctx, repo, opts.Branch, auth)
	if err != nil {
		return nil, classifyGitError(err, "fetch", opts.RemoteURL)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, classifyGitError(err, "worktree", opts.RemoteURL)
	}
	res := &Result{Branch: opts.Branch}
	if !tip.IsZero() {
		res.Parent = tip.String()
		if err := repo.Storer.SetReference(plumbing.NewHashReference(branchRef, tip)); err != nil {
			return nil, classifyGitError(err, "branch", opts.RemoteURL)
		}
		if err := wt.Reset(&git.ResetOptions{Commit: tip, Mode: git.MixedReset}); err != nil {
			return nil, classifyGitError(err, "reset", opts.RemoteURL)
		}
	}

	files, err := copyTree(opts.OutputDir, workDir)
	if err != nil {
		return nil, err
	}
	res.Files = len(files)
	if err := stage(repo, wt, files); err != nil {
		return nil, classifyGitError(err, "add", opts.RemoteURL)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, classifyGitError(err, "status", opts.RemoteURL)
	}
	if status.IsClean() && !tip.IsZero() {
		log.Info("Published branch already up to date", logfields.Commit(tip.String()))
		res.Commit = tip.String()
		res.Unchanged = true
		return res, nil
	}

	hash, err := wt.Commit(opts.Message, &git.CommitOptions{
		Author:            &object.Signature{Name: opts.AuthorName, Email: opts.AuthorEmail, When: time.Now()},
		AllowEmptyCommits: tip.IsZero(),
	})
	if err != nil {
		return nil, classifyGitError(err, "commit", opts.RemoteURL)
	}
	res.Commit = hash.String()

	spec := ggitcfg.RefSpec(fmt.Sprintf("%s:%s", branchRef, branchRef))
	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []ggitcfg.RefSpec{spec},
		Auth:       auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil, classifyGitError(err, "push", opts.RemoteURL)
	}
	log.Info("Site published", logfields.Commit(res.Commit), logfields.Count(res.Files))
	return res, nil
}

// fetchTip returns the remote branch tip, or the zero hash when the remote
// is empty or lacks the branch.
func fetchTip(ctx context.Context, repo *git.Repository, branch string, auth transport.AuthMethod) (plumbing.Hash, error) {
	remoteRef := plumbing.NewRemoteReferenceName(remoteName, branch)
	spec := ggitcfg.RefSpec(fmt.Sprintf("+%s:%s", plumbing.NewBranchReferenceName(branch), remoteRef))
	err := repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remoteName,
		RefSpecs:   []ggitcfg.RefSpec{spec},
		Auth:       auth,
	})
	switch {
	case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate):
	case errors.Is(err, transport.ErrEmptyRemoteRepository), errors.Is(err, git.NoMatchingRefSpecError{}):
		return plumbing.ZeroHash, nil
	default:
		return plumbing.ZeroHash, err
	}
	ref, err := repo.Reference(remoteRef, true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return plumbing.ZeroHash, nil
		}
		return plumbing.ZeroHash, err
	}
	return ref.Hash(), nil
}

// stage makes the index match files exactly: entries not in files are removed.
func stage(repo *git.Repository, wt *git.Worktree, files []string) error {
	keep := make(map[string]struct{}, len(files))
	for _, f := range files {
		keep[f] = struct{}{}
	}
	idx, err := repo.Storer.Index()
	if err != nil {
		return err
	}
	var stale []string
	for _, e := range idx.Entries {
		if _, ok := keep[e.Name]; !ok {
			stale = append(stale, e.Name)
		}
	}
	for _, name := range stale {
		if _, err := wt.Remove(name); err != nil {
			return err
		}
	}
	for _, f := range files {
		if err := wt.AddWithOptions(&git.AddOptions{Path: f, SkipStatus: true}); err != nil {
			return err
		}
	}
	return nil
}

// copyTree copies every regular file under src into dst and returns their
// slash-separated relative paths.
func copyTree(src, dst string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" && rel != "." {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		target := filepath.Join(dst, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return err
		}
		if err := copyFile(p, target); err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, ferrors.FileSystemError("failed to copy build output for publishing").
			WithCause(err).WithContext("path", src).Build()
	}
	return files, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- walking the build output
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	out, err := os.Create(dst) // #nosec G304 -- inside the publish workspace
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
