// Package publish commits a build output to a git branch and pushes it,
// the way GitHub Pages style hosts expect a deployment branch.
package publish
