package publish

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/client"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

// TestMain serves local paths in-process so the tests do not need a git binary.
func TestMain(m *testing.M) {
	client.InstallProtocol("file", server.DefaultServer)
	os.Exit(m.Run())
}

func writeOutput(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.RemoveAll(dir))
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
}

func branchFiles(t *testing.T, bare, branch string) (map[string]string, *object.Commit) {
	t.Helper()
	repo, err := git.PlainOpen(bare)
	require.NoError(t, err)
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	require.NoError(t, err)
	commit, err := repo.CommitObject(ref.Hash())
	require.NoError(t, err)
	tree, err := commit.Tree()
	require.NoError(t, err)
	out := map[string]string{}
	require.NoError(t, tree.Files().ForEach(func(f *object.File) error {
		body, err := f.Contents()
		if err != nil {
			return err
		}
		out[f.Name] = body
		return nil
	}))
	return out, commit
}

func TestPublish_CreatesBranchThenUpdates(t *testing.T) {
	root := t.TempDir()
	bare := filepath.Join(root, "remote.git")
	_, err := git.PlainInit(bare, true)
	require.NoError(t, err)
	out := filepath.Join(root, "dist")

	writeOutput(t, out, map[string]string{
		"index.html":        "<html>v1</html>",
		"css/main.css":      "body{}",
		"api/projects.json": `{"projects":[]}`,
		".nojekyll":         "",
	})
	res, err := Publish(context.Background(), Options{
		OutputDir:   out,
		RemoteURL:   bare,
		AuthorName:  "Site Bot",
		AuthorEmail: "bot@example.com",
		Message:     "first",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultBranch, res.Branch)
	assert.Equal(t, 4, res.Files)
	assert.Empty(t, res.Parent)
	assert.False(t, res.Unchanged)

	files, commit := branchFiles(t, bare, DefaultBranch)
	assert.Equal(t, "<html>v1</html>", files["index.html"])
	assert.Contains(t, files, "css/main.css")
	assert.Contains(t, files, ".nojekyll")
	assert.Equal(t, "Site Bot", commit.Author.Name)
	assert.Equal(t, "first", commit.Message)
	assert.Equal(t, res.Commit, commit.Hash.String())

	writeOutput(t, out, map[string]string{
		"index.html": "<html>v2</html>",
		".nojekyll":  "",
	})
	res2, err := Publish(context.Background(), Options{OutputDir: out, RemoteURL: bare, Message: "second"})
	require.NoError(t, err)
	assert.Equal(t, res.Commit, res2.Parent)

	files, commit = branchFiles(t, bare, DefaultBranch)
	assert.Equal(t, "<html>v2</html>", files["index.html"])
	assert.NotContains(t, files, "css/main.css", "files gone from the output are removed from the branch")
	require.Len(t, commit.ParentHashes, 1)
	assert.Equal(t, res.Commit, commit.ParentHashes[0].String())
}

func TestPublish_UnchangedOutputDoesNotCommit(t *testing.T) {
	root := t.TempDir()
	bare := filepath.Join(root, "remote.git")
	_, err := git.PlainInit(bare, true)
	require.NoError(t, err)
	out := filepath.Join(root, "dist")
	writeOutput(t, out, map[string]string{"index.html": "same"})

	first, err := Publish(context.Background(), Options{OutputDir: out, RemoteURL: bare, Branch: "site"})
	require.NoError(t, err)
	second, err := Publish(context.Background(), Options{OutputDir: out, RemoteURL: bare, Branch: "site"})
	require.NoError(t, err)
	assert.True(t, second.Unchanged)
	assert.Equal(t, first.Commit, second.Commit)
}

func TestPublish_Errors(t *testing.T) {
	_, err := Publish(context.Background(), Options{OutputDir: t.TempDir()})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))

	_, err = Publish(context.Background(), Options{OutputDir: filepath.Join(t.TempDir(), "nope"), RemoteURL: "/tmp/x"})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestAuthFor(t *testing.T) {
	assert.Nil(t, authFor("https://github.com/me/site.git", ""))
	assert.Nil(t, authFor("/srv/git/site.git", "secret"))

	a := authFor("https://github.com/me/site.git", "secret")
	basic, ok := a.(*http.BasicAuth)
	require.True(t, ok)
	assert.Equal(t, tokenUser, basic.Username)
	assert.Equal(t, "secret", basic.Password)
}

func TestClassifyGitError(t *testing.T) {
	err := classifyGitError(assert.AnError, "push", "u")
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryGit))

	err = classifyGitError(git.ErrNonFastForwardUpdate, "push", "u")
	c, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, "publish branch has diverged from the remote", c.Message())
	op, _ := c.Context().GetString("op")
	assert.Equal(t, "push", op)
}
