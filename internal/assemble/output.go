package assemble

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/glitchidea/sitebuilder/internal/content"
	"github.com/glitchidea/sitebuilder/internal/logfields"
	"github.com/glitchidea/sitebuilder/internal/target"
)

// AssetDirs are created empty when the asset source is missing.
var AssetDirs = []string{"css", "js", "images", "fonts"}

// AssetResult describes the outcome of CopyAssets.
type AssetResult struct {
	Files int
	// SourceMissing is true when the source tree did not exist and the
	// expected asset directories were created empty instead.
	SourceMissing bool
}

// CopyAssets copies the static asset tree into the output root.
func (a *Assembler) CopyAssets(src string, exclude []string) (AssetResult, error) {
	root, err := a.resolve(".")
	if err != nil {
		return AssetResult{}, err
	}
	ok, err := exists(src)
	if err != nil {
		return AssetResult{}, writeFailure("stat asset source", src, err)
	}
	if !ok {
		slog.Warn("Asset source missing, creating empty asset directories", logfields.Path(src))
		for _, d := range AssetDirs {
			if err := mkdir(filepath.Join(root, d)); err != nil {
				return AssetResult{}, writeFailure("create asset directory", d, err)
			}
		}
		return AssetResult{SourceMissing: true}, nil
	}
	n, err := CopyDir(src, root, exclude)
	if err != nil {
		return AssetResult{}, writeFailure("copy assets", src, err)
	}
	slog.Debug("Copied assets", logfields.Path(src), logfields.Count(n))
	return AssetResult{Files: n}, nil
}

// WriteContent writes each document under relDir ("api" or "." per target layout).
// Present documents are written byte-for-byte from their loaded raw bytes;
// missing ones get their empty default so client-side fetches still succeed.
// Other files in srcDir, if it exists, are copied alongside.
func (a *Assembler) WriteContent(srcDir, relDir string, docs []content.Document, exclude []string) (int, error) {
	dst, err := a.resolve(relDir)
	if err != nil {
		return 0, err
	}
	if err := mkdir(dst); err != nil {
		return 0, writeFailure("create content directory", dst, err)
	}
	known := make([]string, 0, len(docs))
	for _, d := range docs {
		known = append(known, d.Name.FileName())
	}
	n := 0
	if ok, _ := exists(srcDir); ok {
		copied, err := CopyDir(srcDir, dst, append(append([]string{}, exclude...), known...))
		if err != nil {
			return 0, writeFailure("copy content directory", srcDir, err)
		}
		n += copied
	}
	for _, d := range docs {
		if err := writeFile(filepath.Join(dst, d.Name.FileName()), d.Bytes()); err != nil {
			return 0, writeFailure("write content document", d.Name.FileName(), err)
		}
		n++
	}
	return n, nil
}

// WriteFile writes data to the output-relative path rel.
func (a *Assembler) WriteFile(rel string, data []byte) error {
	p, err := a.resolve(rel)
	if err != nil {
		return err
	}
	if err := writeFile(p, data); err != nil {
		return writeFailure("write output file", rel, err)
	}
	return nil
}

// WriteMarkers writes the target's marker files into the output root.
func (a *Assembler) WriteMarkers(markers []target.MarkerFile) error {
	for _, m := range markers {
		if err := a.WriteFile(m.Name, []byte(m.Content)); err != nil {
			return err
		}
	}
	return nil
}

// CopyExtraFiles copies optional root-level files (robots.txt, sitemap.xml, ...)
// into the output root under their base name. Missing files are skipped.
// It returns the base names that were copied.
func (a *Assembler) CopyExtraFiles(paths []string) ([]string, error) {
	var copied []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			slog.Debug("Extra file not present, skipping", logfields.Path(p))
			continue
		}
		name := filepath.Base(p)
		dst, err := a.resolve(name)
		if err != nil {
			return copied, err
		}
		if err := copyFile(p, dst); err != nil {
			return copied, writeFailure("copy extra file", p, err)
		}
		copied = append(copied, name)
	}
	return copied, nil
}

// Exists reports whether rel exists inside the staging root.
func (a *Assembler) Exists(rel string) bool {
	p, err := a.resolve(rel)
	if err != nil {
		return false
	}
	ok, _ := exists(p)
	return ok
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, fileMode); err != nil {
		return err
	}
	return os.Chmod(path, fileMode)
}
