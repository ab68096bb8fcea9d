// Package errors classifies sitebuilder failures.
//
// Every error that reaches a user carries an ErrorCategory (config, content,
// template, filesystem, network and so on), a severity and a retry hint. The
// CLI adapter turns the category into an exit code; the HTTP adapter turns it
// into a status code and a JSON body for the site API.
package errors
