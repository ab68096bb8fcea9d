// Package build runs the site build pipeline.
//
// A build is an ordered list of stages sharing one BuildState. The runner
// executes them in order, records timings and issues in a BuildReport, and
// stops at the first fatal or canceled stage. Stage success advances the
// build through its lifecycle:
//
//	Init → AssetsCopied → ContentLoaded → FragmentsRendered → LayoutComposed
//	     → PathsRewritten → Written → Done
//
// Any fatal error moves the build to Aborted; the staging directory is removed
// and the previous output is left untouched.
package build
