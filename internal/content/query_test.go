package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeaturedPost(t *testing.T) {
	s := &Store{Posts: []BlogPost{{Title: "first"}, {Title: "star", Featured: true}, {Title: "late", Featured: true}}}
	p, ok := s.FeaturedPost()
	assert.True(t, ok)
	assert.Equal(t, "star", p.Title)

	s = &Store{Posts: []BlogPost{{Title: "first"}, {Title: "second"}}}
	p, ok = s.FeaturedPost()
	assert.True(t, ok)
	assert.Equal(t, "first", p.Title)

	_, ok = (&Store{}).FeaturedPost()
	assert.False(t, ok)
}

func TestFooterProjects(t *testing.T) {
	s := &Store{Projects: []Project{{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"}}}
	got := s.FooterProjects(3)
	assert.Equal(t, []string{"a", "b", "c"}, projectTitles(got))
	assert.Len(t, s.FooterProjects(10), 4)
	assert.Empty(t, s.FooterProjects(-1))
}

func TestProjectsByCategory(t *testing.T) {
	s := &Store{Projects: []Project{{Title: "a", Category: "Linux"}, {Title: "b", Category: "saas"}, {Title: "c", Category: "linux"}}}
	assert.Equal(t, []string{"a", "c"}, projectTitles(s.ProjectsByCategory("linux")))
	assert.NotNil(t, s.ProjectsByCategory("mobile"))
	assert.True(t, ValidProjectCategory("security"))
	assert.False(t, ValidProjectCategory("games"))
}

func TestWorkSortedByStart(t *testing.T) {
	s := &Store{Work: []WorkExperience{
		{Title: "old", Period: "2015 - 2017"},
		{Title: "unknown", Period: "ongoing"},
		{Title: "new", Period: "2022 - Present"},
		{Title: "mid-a", Period: "2019 - 2021"},
		{Title: "mid-b", Period: "2019 - 2020"},
	}}
	got := s.WorkSortedByStart()
	titles := make([]string, len(got))
	for i, w := range got {
		titles[i] = w.Title
	}
	assert.Equal(t, []string{"new", "mid-a", "mid-b", "old", "unknown"}, titles)
	assert.Equal(t, "old", s.Work[0].Title, "store order must be untouched")
}

func TestWorkByCategory(t *testing.T) {
	s := &Store{Work: []WorkExperience{{Title: "a", Category: "freelance"}, {Title: "b", Category: "fulltime"}}}
	got := s.WorkByCategory("freelance")
	assert.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Title)
}

func projectTitles(ps []Project) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Title
	}
	return out
}
