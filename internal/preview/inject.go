package preview

import (
	"bytes"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/glitchidea/sitebuilder/internal/logfields"
)

var scriptTag = []byte(`<script src="/livereload.js"></script>`)

// InjectScript adds the reload script before </body> in every HTML file under dir.
// Files already carrying it, or without a closing body tag, are left alone.
// Returns the number of files changed.
func InjectScript(dir string) (int, error) {
	changed := 0
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".html") {
			return nil
		}
		b, err := os.ReadFile(p) // #nosec G304 -- path comes from walking the output dir
		if err != nil {
			return err
		}
		if bytes.Contains(b, []byte("/livereload.js")) {
			return nil
		}
		idx := strings.LastIndex(strings.ToLower(string(b)), "</body>")
		if idx == -1 {
			return nil
		}
		var out bytes.Buffer
		out.Grow(len(b) + len(scriptTag) + 1)
		out.Write(b[:idx])
		out.Write(scriptTag)
		out.WriteByte('\n')
		out.Write(b[idx:])
		// #nosec G306 -- public site output
		if err := os.WriteFile(p, out.Bytes(), 0o644); err != nil {
			return err
		}
		changed++
		slog.Debug("Injected livereload script", logfields.File(p))
		return nil
	})
	return changed, err
}
