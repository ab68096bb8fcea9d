// Package target defines the deployment target profiles the site can be built for.
//
// A Profile is a plain value: the build pipeline reads its fields and never
// dispatches on the target name beyond selecting the profile.
package target

import (
	"fmt"
	"slices"
	"strings"

	"github.com/glitchidea/sitebuilder/internal/content"
)

// Name identifies a deployment target.
type Name string

const (
	// RootDomain serves the site from the domain root (Cloudflare Pages style).
	RootDomain Name = "root-domain"
	// GenericStatic produces a relocatable export that works from any directory.
	GenericStatic Name = "generic-static"
	// SubPath serves the site below a path prefix (GitHub Pages project sites).
	SubPath Name = "sub-path"
)

// ContentLayout controls where content documents land in the output tree.
type ContentLayout string

const (
	// LayoutNested copies content documents into an api/ subdirectory.
	LayoutNested ContentLayout = "nested"
	// LayoutFlat copies content documents into the output root.
	LayoutFlat ContentLayout = "flat"
)

// APIDir is the output subdirectory used by LayoutNested.
const APIDir = "api"

// reservedOutputNames are output-root entries the build writes itself.
var reservedOutputNames = []string{
	"index.html", APIDir, "css", "js", "images", "fonts",
	"build-report.json", "build-report.txt",
}

// reservedMarkerName reports whether a marker named name would overwrite
// build output. Content document names are reserved under every layout so a
// profile stays valid when its layout is switched.
func reservedMarkerName(name string) bool {
	for _, r := range reservedOutputNames {
		if strings.EqualFold(name, r) {
			return true
		}
	}
	for _, n := range content.All() {
		if strings.EqualFold(name, n.FileName()) {
			return true
		}
	}
	return false
}

// MarkerFile is a file the hosting platform expects in the output root.
type MarkerFile struct {
	Name    string
	Content string
}

// Profile describes how a build is shaped for one deployment target.
type Profile struct {
	Name          Name
	RewritePaths  bool
	Markers       []MarkerFile
	ContentLayout ContentLayout
}

// ContentDir returns the output-relative directory for content documents.
func (p Profile) ContentDir() string {
	if p.ContentLayout == LayoutFlat {
		return "."
	}
	return APIDir
}

// Names lists all known targets in a stable order.
func Names() []Name {
	return []Name{RootDomain, GenericStatic, SubPath}
}

// Parse resolves a target name, accepting the deployment platform aliases used
// by the per-target build commands.
func Parse(s string) (Name, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RootDomain), "cloudflare", "cloudflare-pages":
		return RootDomain, nil
	case string(GenericStatic), "static":
		return GenericStatic, nil
	case string(SubPath), "github", "github-pages":
		return SubPath, nil
	}
	return "", fmt.Errorf("unknown target %q (valid: %s)", s, joinNames())
}

// Default returns the built-in profile for a target.
func Default(n Name) (Profile, error) {
	switch n {
	case RootDomain:
		return Profile{Name: RootDomain, RewritePaths: false, ContentLayout: LayoutNested}, nil
	case GenericStatic:
		return Profile{Name: GenericStatic, RewritePaths: true, ContentLayout: LayoutNested}, nil
	case SubPath:
		return Profile{
			Name:          SubPath,
			RewritePaths:  true,
			ContentLayout: LayoutNested,
			// GitHub Pages runs Jekyll unless this file exists.
			Markers: []MarkerFile{{Name: ".nojekyll"}},
		}, nil
	}
	return Profile{}, fmt.Errorf("unknown target %q (valid: %s)", n, joinNames())
}

// Override carries per-target adjustments from configuration. Zero values keep the default.
type Override struct {
	ContentLayout ContentLayout
	RewritePaths  *bool
	Markers       []MarkerFile
}

// Resolve returns the built-in profile for n with the override applied.
// Override markers are appended; a marker with the same name as a built-in one replaces it.
func Resolve(n Name, o Override) (Profile, error) {
	p, err := Default(n)
	if err != nil {
		return Profile{}, err
	}
	switch o.ContentLayout {
	case "":
	case LayoutNested, LayoutFlat:
		p.ContentLayout = o.ContentLayout
	default:
		return Profile{}, fmt.Errorf("target %s: unknown content layout %q", n, o.ContentLayout)
	}
	if o.RewritePaths != nil {
		p.RewritePaths = *o.RewritePaths
	}
	markers := slices.Clone(p.Markers)
	for _, m := range o.Markers {
		if m.Name == "" || m.Name == "." || m.Name == ".." || strings.ContainsAny(m.Name, `/\`) {
			return Profile{}, fmt.Errorf("target %s: invalid marker file name %q", n, m.Name)
		}
		if reservedMarkerName(m.Name) {
			return Profile{}, fmt.Errorf("target %s: marker file %q would overwrite build output", n, m.Name)
		}
		idx := slices.IndexFunc(markers, func(x MarkerFile) bool { return x.Name == m.Name })
		if idx >= 0 {
			markers[idx] = m
			continue
		}
		markers = append(markers, m)
	}
	p.Markers = markers
	return p, nil
}

func joinNames() string {
	names := Names()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return strings.Join(out, ", ")
}
