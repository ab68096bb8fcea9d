// Package assemble writes the build output tree.
//
// Every build writes into a sibling staging directory (<output>_stage) and
// only replaces the live output once all files are in place, so a failed
// build leaves the previous output untouched.
package assemble
