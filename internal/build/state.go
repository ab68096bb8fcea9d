package build

import (
	"github.com/glitchidea/sitebuilder/internal/assemble"
	"github.com/glitchidea/sitebuilder/internal/content"
	"github.com/glitchidea/sitebuilder/internal/metrics"
	"github.com/glitchidea/sitebuilder/internal/render"
)

// BuildState is the shared working set of one build. Each stage reads what
// earlier stages produced and adds its own results.
type BuildState struct {
	Options   Options
	Report    *BuildReport
	Lifecycle *Lifecycle
	Recorder  metrics.Recorder
	Observer  BuildObserver
	Output    *assemble.Assembler

	// Filled by load_content.
	Store *content.Store
	// Filled by render_fragments.
	Renderer  *render.Renderer
	Fragments map[render.Fragment]string
	Body      string
	// Page is the composed HTML after compose_layout, rewritten in place by rewrite_paths.
	Page string
}

// RenderContext returns the context fragments are rendered against.
func (bs *BuildState) RenderContext() render.Context {
	return render.NewContext(bs.Store, bs.Options.Site)
}
