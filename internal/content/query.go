package content

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// ProjectCategories are the categories accepted by the per-category project listing.
var ProjectCategories = []string{"linux", "mobile", "saas", "security"}

// ValidProjectCategory reports whether cat is one of ProjectCategories.
func ValidProjectCategory(cat string) bool {
	return slices.Contains(ProjectCategories, cat)
}

// FeaturedPost returns the first post marked featured, falling back to the first post.
func (s *Store) FeaturedPost() (BlogPost, bool) {
	for _, p := range s.Posts {
		if p.Featured {
			return p, true
		}
	}
	if len(s.Posts) == 0 {
		return BlogPost{}, false
	}
	return s.Posts[0], true
}

// FooterProjects returns at most n projects in document order.
func (s *Store) FooterProjects(n int) []Project {
	if n < 0 {
		n = 0
	}
	return slices.Clone(s.Projects[:min(n, len(s.Projects))])
}

// ProjectsByCategory returns projects whose category matches cat, ignoring case.
func (s *Store) ProjectsByCategory(cat string) []Project {
	out := []Project{}
	for _, p := range s.Projects {
		if strings.EqualFold(p.Category, cat) {
			out = append(out, p)
		}
	}
	return out
}

// WorkByCategory returns work entries whose category equals cat exactly.
func (s *Store) WorkByCategory(cat string) []WorkExperience {
	out := []WorkExperience{}
	for _, w := range s.Work {
		if w.Category == cat {
			out = append(out, w)
		}
	}
	return out
}

// WorkSortedByStart returns a copy of the work entries ordered newest first by the
// leading year of Period ("2021 - 2023"). Entries without a parsable year sort last;
// ties keep document order. The store itself is not reordered.
func (s *Store) WorkSortedByStart() []WorkExperience {
	out := slices.Clone(s.Work)
	if out == nil {
		out = []WorkExperience{}
	}
	slices.SortStableFunc(out, func(a, b WorkExperience) int {
		return startYear(b.Period) - startYear(a.Period)
	})
	return out
}

// startYear parses the leading integer of a period such as "2021 - Present".
func startYear(period string) int {
	start, _, _ := strings.Cut(strings.TrimSpace(period), " - ")
	end := strings.IndexFunc(start, func(r rune) bool { return !unicode.IsDigit(r) })
	if end >= 0 {
		start = start[:end]
	}
	y, err := strconv.Atoi(start)
	if err != nil {
		return -1
	}
	return y
}
