package build

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/glitchidea/sitebuilder/internal/content"
	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
	"github.com/glitchidea/sitebuilder/internal/layout"
	"github.com/glitchidea/sitebuilder/internal/linkverify"
	"github.com/glitchidea/sitebuilder/internal/logfields"
	"github.com/glitchidea/sitebuilder/internal/render"
	"github.com/glitchidea/sitebuilder/internal/rewrite"
)

// IndexFile is the entry point written to the output root.
const IndexFile = "index.html"

func stagePrepareOutput(_ context.Context, bs *BuildState) error {
	if err := bs.Output.Begin(); err != nil {
		return NewFatalStageError(StagePrepareOutput, err)
	}
	return nil
}

func stageCopyAssets(_ context.Context, bs *BuildState) error {
	res, err := bs.Output.CopyAssets(bs.Options.AssetDir, bs.Options.AssetExclude)
	if err != nil {
		return NewFatalStageError(StageCopyAssets, err)
	}
	bs.Report.AssetFiles = res.Files
	if res.SourceMissing {
		bs.Report.Warn(IssueAssetSourceMissing, StageCopyAssets,
			fmt.Sprintf("asset source %s not found; created empty asset directories", bs.Options.AssetDir))
	}
	return nil
}

func stageLoadContent(_ context.Context, bs *BuildState) error {
	store, err := content.LoadAll(bs.Options.ContentDir)
	if err != nil {
		return NewFatalStageError(StageLoadContent, err)
	}
	bs.Store = store
	for _, d := range store.Documents() {
		if d.Present {
			bs.Report.DocumentsLoaded = append(bs.Report.DocumentsLoaded, string(d.Name))
			continue
		}
		bs.Report.DocumentsDefaulted = append(bs.Report.DocumentsDefaulted, string(d.Name))
		bs.Report.Warn(IssueContentMissing, StageLoadContent,
			fmt.Sprintf("content document %s missing; using empty default", d.Name))
	}
	if err := content.Validate(store); err != nil {
		if bs.Options.StrictSchema {
			return NewFatalStageError(StageLoadContent, contentSchemaError(err))
		}
		return NewWarnStageError(StageLoadContent, err)
	}
	return nil
}

func stageRenderFragments(_ context.Context, bs *BuildState) error {
	r, err := render.New(bs.Options.TemplateDir)
	if err != nil {
		return NewFatalStageError(StageRenderFragments, err)
	}
	bs.Renderer = r
	for name, src := range r.Sources() {
		bs.Report.FragmentSources[name] = string(src)
	}
	ctx := bs.RenderContext()
	bs.Fragments = make(map[render.Fragment]string, len(render.AllFragments()))
	for _, f := range render.AllFragments() {
		html, err := r.Render(f, ctx)
		if err != nil {
			return NewFatalStageError(StageRenderFragments, err)
		}
		bs.Fragments[f] = html
		slog.Debug("Rendered fragment", logfields.Fragment(string(f)), logfields.Count(len(html)))
	}
	var body strings.Builder
	for _, f := range render.BodyOrder() {
		body.WriteString(bs.Fragments[f])
	}
	bs.Body = body.String()
	return nil
}

func stageComposeLayout(_ context.Context, bs *BuildState) error {
	site := bs.Options.Site
	page, err := layout.Compose(bs.Renderer.Layout(),
		layout.Parts{
			Header: bs.Fragments[render.Header],
			Footer: bs.Fragments[render.Footer],
			Body:   bs.Body,
		},
		layout.Meta{Title: site.Title, Description: site.Description, Keywords: site.Keywords})
	if err != nil {
		return NewFatalStageError(StageComposeLayout, err)
	}
	bs.Page = page
	return nil
}

func stageRewritePaths(_ context.Context, bs *BuildState) error {
	enabled := bs.Options.Profile.RewritePaths
	bs.Page = rewrite.Rewrite(bs.Page, enabled)
	bs.Report.PathsRewritten = enabled
	return nil
}

func stageWriteOutput(_ context.Context, bs *BuildState) error {
	p := bs.Options.Profile
	n, err := bs.Output.WriteContent(bs.Options.ContentDir, p.ContentDir(), bs.Store.Documents(), bs.Options.AssetExclude)
	if err != nil {
		return NewFatalStageError(StageWriteOutput, err)
	}
	bs.Report.ContentFiles = n
	if err := bs.Output.WriteFile(IndexFile, []byte(bs.Page)); err != nil {
		return NewFatalStageError(StageWriteOutput, err)
	}
	if err := bs.Output.WriteMarkers(p.Markers); err != nil {
		return NewFatalStageError(StageWriteOutput, err)
	}
	for _, m := range p.Markers {
		bs.Report.Markers = append(bs.Report.Markers, m.Name)
	}
	extras, err := bs.Output.CopyExtraFiles(bs.Options.ExtraFiles)
	if err != nil {
		return NewFatalStageError(StageWriteOutput, err)
	}
	bs.Report.ExtraFiles = extras
	return nil
}

func stageVerifyAssets(_ context.Context, bs *BuildState) error {
	missing, err := linkverify.MissingAssets(strings.NewReader(bs.Page), bs.Output.Root(), ".")
	if err != nil {
		return NewWarnStageError(StageVerifyAssets, err)
	}
	if len(missing) == 0 {
		return nil
	}
	for _, m := range missing {
		bs.Report.BrokenAssets = append(bs.Report.BrokenAssets, m.Ref)
		slog.Warn("Page references a missing asset",
			logfields.Path(filepath.ToSlash(m.Ref)),
			logfields.File(IndexFile))
	}
	return NewWarnStageError(StageVerifyAssets, fmt.Errorf("%d asset reference(s) missing from output", len(missing)))
}

func contentSchemaError(err error) error {
	return ferrors.ContentError("content documents violate their schema").
		WithCause(err).
		Build()
}
