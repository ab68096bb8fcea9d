package assemble

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
	"github.com/glitchidea/sitebuilder/internal/logfields"
)

// Assembler owns the staging directory for one build of outputDir.
type Assembler struct {
	outputDir string
	stageDir  string
}

// New returns an assembler for outputDir. Nothing touches the disk until Begin.
func New(outputDir string) *Assembler {
	return &Assembler{outputDir: filepath.Clean(outputDir)}
}

// OutputDir is the final output location.
func (a *Assembler) OutputDir() string { return a.outputDir }

// StagePath is the sibling staging location used while building.
func (a *Assembler) StagePath() string { return a.outputDir + "_stage" }

// Root is the directory files are currently written to: the staging
// directory between Begin and Finalize/Abort, empty otherwise.
func (a *Assembler) Root() string { return a.stageDir }

// Begin creates a fresh staging directory, discarding any leftover from an earlier aborted run.
func (a *Assembler) Begin() error {
	stage := a.StagePath()
	if err := os.RemoveAll(stage); err != nil {
		return writeFailure("remove stale staging directory", stage, err)
	}
	if err := os.MkdirAll(filepath.Dir(a.outputDir), dirMode); err != nil {
		return writeFailure("create output parent directory", filepath.Dir(a.outputDir), err)
	}
	if err := os.Mkdir(stage, dirMode); err != nil {
		return writeFailure("create staging directory", stage, err)
	}
	a.stageDir = stage
	slog.Debug("Initialized staging directory", "staging", stage, "final", a.outputDir)
	return nil
}

// Finalize promotes the staging directory to the output location:
//  1. remove a leftover <output>.prev
//  2. rename the current output to <output>.prev
//  3. rename staging to output
//  4. remove <output>.prev
func (a *Assembler) Finalize() error {
	if a.stageDir == "" {
		return ferrors.InternalError("no staging directory initialized").Build()
	}
	if _, err := os.Stat(a.stageDir); err != nil {
		return writeFailure("staging directory missing at finalize", a.stageDir, err)
	}
	prev := a.outputDir + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return writeFailure("remove previous backup", prev, err)
	}
	if _, err := os.Stat(a.outputDir); err == nil {
		if err := os.Rename(a.outputDir, prev); err != nil {
			return writeFailure("back up existing output", a.outputDir, err)
		}
	}
	if err := os.Rename(a.stageDir, a.outputDir); err != nil {
		// Put the old output back so the site keeps serving.
		if _, statErr := os.Stat(prev); statErr == nil {
			_ = os.Rename(prev, a.outputDir)
		}
		return writeFailure("promote staging directory", a.outputDir, err)
	}
	a.stageDir = ""
	if err := os.RemoveAll(prev); err != nil {
		slog.Warn("Failed to remove previous backup", logfields.Path(prev), logfields.Error(err))
	}
	slog.Info("Promoted staging directory", logfields.Path(a.outputDir))
	return nil
}

// Abort removes the staging directory after a failed build. Safe to call more than once.
func (a *Assembler) Abort() {
	if a.stageDir == "" {
		return
	}
	dir := a.stageDir
	a.stageDir = ""
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("Failed to remove staging directory after abort", "staging", dir, logfields.Error(err))
		return
	}
	slog.Debug("Removed staging directory after abort", "staging", dir)
}

// resolve joins rel onto the staging root, rejecting paths that escape it.
func (a *Assembler) resolve(rel string) (string, error) {
	if a.stageDir == "" {
		return "", ferrors.InternalError("write outside of an active build").Build()
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ferrors.ValidationError(fmt.Sprintf("output path %q escapes the output directory", rel)).Build()
	}
	return filepath.Join(a.stageDir, clean), nil
}

func writeFailure(msg, path string, err error) error {
	return ferrors.FileSystemError(msg).
		WithCause(err).
		WithContext("path", path).
		Build()
}
