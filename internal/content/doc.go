// Package content loads the site's JSON content documents.
//
// The set of documents is fixed (projects, services, blog, social, work). A
// missing document degrades to an empty collection; a document that is present
// but not valid JSON aborts the build. Raw bytes of every present document are
// kept so the published copy under api/ is byte-identical to the source.
package content
