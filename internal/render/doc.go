// Package render turns the loaded content into HTML fragments.
//
// Each fragment is an html/template resolved from the project's template
// directory, falling back to the embedded default set. Rendering is pure: the
// same Context and fragment always yield the same HTML.
package render
