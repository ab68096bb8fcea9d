// Package preview serves a site while watching its sources, rebuilding on change
// and reloading connected browsers.
package preview
