package linkverify

import (
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

// Missing is an asset reference whose target does not exist under the output root.
type Missing struct {
	AssetRef
	// Resolved is the slash-separated path the reference points to, relative to root.
	Resolved string
}

// MissingAssets scans the HTML in r, resolves each asset reference against root
// (root-absolute refs) or root/relDir (relative refs) and returns the ones that
// do not name an existing file. References escaping root count as missing.
func MissingAssets(r io.Reader, root, relDir string) ([]Missing, error) {
	refs, err := ExtractAssetRefs(r)
	if err != nil {
		return nil, err
	}
	var missing []Missing
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if seen[ref.Ref] {
			continue
		}
		seen[ref.Ref] = true

		resolved, ok := resolve(ref.Ref, relDir)
		if ok {
			info, statErr := os.Stat(filepath.Join(root, filepath.FromSlash(resolved)))
			if statErr == nil && !info.IsDir() {
				continue
			}
			if statErr != nil && !os.IsNotExist(statErr) {
				return nil, errors.WrapError(statErr, errors.CategoryFileSystem, "stat referenced asset").
					WithContext("path", resolved).
					Build()
			}
		}
		missing = append(missing, Missing{AssetRef: ref, Resolved: resolved})
	}
	return missing, nil
}

// resolve maps ref to a root-relative slash path. ok is false when the path escapes root.
func resolve(ref, relDir string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref, false
	}
	p := u.Path
	if strings.HasPrefix(p, "/") {
		p = path.Clean(strings.TrimPrefix(p, "/"))
	} else {
		p = path.Clean(path.Join(filepath.ToSlash(relDir), p))
	}
	if p == ".." || strings.HasPrefix(p, "../") {
		return p, false
	}
	return p, true
}
