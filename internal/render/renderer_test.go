package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glitchidea/sitebuilder/internal/content"
	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

func sampleContext() Context {
	store := &content.Store{
		Projects: []content.Project{
			{Title: "A", Category: "security", DemoURL: "https://a.example.com", GithubURL: "https://github.com/x/a"},
			{Title: "B", Technologies: []string{"go", "sqlite"}},
			{Title: "C", Image: "/images/projects/c.png"},
		},
		Services: []content.Service{{Title: "Pentest", Features: []string{"web", "network"}}},
		Posts:    []content.BlogPost{{Title: "Hello", URL: "https://blog.example.com/hello", Tags: []string{"intro"}}},
		Social:   []content.SocialLink{{Name: "GitHub", URL: "https://github.com/x"}},
		Work:     []content.WorkExperience{{Title: "Consultant", Description: "Led **audits**", Period: "2021 - 2023"}},
	}
	return NewContext(store, Site{Title: "Glitch", Description: "Security work"})
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestRender_ProjectsPreserveOrder(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)

	html, err := r.Render(Projects, sampleContext())
	require.NoError(t, err)

	var titles []string
	parse(t, html).Find(".project-card .card-title").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, s.Text())
	})
	assert.Equal(t, []string{"A", "B", "C"}, titles)

	ia, ib, ic := strings.Index(html, ">A<"), strings.Index(html, ">B<"), strings.Index(html, ">C<")
	assert.True(t, ia < ib && ib < ic, "A must precede B which must precede C")
}

func TestRender_MissingOptionalFieldsOmitAffordance(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)

	html, err := r.Render(Projects, sampleContext())
	require.NoError(t, err)
	doc := parse(t, html)

	cards := doc.Find(".project-card")
	require.Equal(t, 3, cards.Length())
	assert.Equal(t, 1, cards.Eq(0).Find("a.demo").Length())
	assert.Equal(t, 0, cards.Eq(1).Find("a.demo").Length(), "no demo url means no demo link")
	assert.Equal(t, 0, cards.Eq(1).Find(".card-footer").Length())
	assert.Equal(t, 0, cards.Eq(0).Find("img").Length())
	assert.Equal(t, "/images/projects/c.png", cards.Eq(2).Find("img").AttrOr("src", ""))
	assert.Equal(t, "Security", strings.TrimSpace(cards.Eq(0).Find(".project-category").Text()))
}

func TestRender_ProjectIDAttribute(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)

	store := &content.Store{Projects: []content.Project{{ID: "1", Title: "A"}, {Title: "B"}}}
	html, err := r.Render(Projects, NewContext(store, Site{}))
	require.NoError(t, err)

	cards := parse(t, html).Find(".project-card")
	require.Equal(t, 2, cards.Length())
	assert.Equal(t, "1", cards.Eq(0).AttrOr("data-project-id", ""))
	_, ok := cards.Eq(1).Attr("data-project-id")
	assert.False(t, ok)
}

func TestRender_EmptyStoreRendersEveryFragment(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)

	ctx := NewContext(nil, Site{Title: "Empty"})
	for _, f := range AllFragments() {
		html, err := r.Render(f, ctx)
		require.NoError(t, err, f)
		assert.NotEmpty(t, strings.TrimSpace(html), f)
	}
}

func TestRender_Deterministic(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)
	ctx := sampleContext()

	first, err := r.RenderBody(ctx)
	require.NoError(t, err)
	second, err := r.RenderBody(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderBody_CanonicalOrder(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)

	body, err := r.RenderBody(sampleContext())
	require.NoError(t, err)

	var ids []string
	parse(t, body).Find("section").Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, s.AttrOr("id", ""))
	})
	assert.Equal(t, []string{"hero", "about", "services", "projects", "blog", "contact"}, ids)
}

func TestRender_MarkdownFunc(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)

	html, err := r.Render(About, sampleContext())
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>audits</strong>")
}

func TestNew_FileOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "components"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "components", "hero.html"),
		[]byte(`<section id="hero">{{ .Site.Title | lower }}</section>`), 0o600))

	r, err := New(dir)
	require.NoError(t, err)

	html, err := r.Render(Hero, sampleContext())
	require.NoError(t, err)
	assert.Equal(t, `<section id="hero">glitch</section>`, html)

	src := r.Sources()
	assert.Equal(t, SourceFile, src["hero"])
	assert.Equal(t, SourceEmbedded, src["projects"])
	assert.Equal(t, SourceEmbedded, src["layout"])
	assert.Contains(t, r.Layout(), "<!-- slot:body -->")
}

func TestNew_ParseErrorIsTemplateError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "partials"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "partials", "footer.html"), []byte(`{{ range .Content.Projects }}`), 0o600))

	_, err := New(dir)
	require.Error(t, err)
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryTemplate, ce.Category())
	frag, _ := ce.Context().GetString("fragment")
	assert.Equal(t, "footer", frag)
}

func TestRender_UnknownFragment(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)
	_, err = r.Render(Fragment("sidebar"), sampleContext())
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryTemplate))
}

func TestWriteDefaults_DoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, LayoutFile), []byte("mine"), 0o600))

	written, err := WriteDefaults(dir)
	require.NoError(t, err)
	assert.NotContains(t, written, LayoutFile)
	assert.Contains(t, written, "components/projects.html")

	b, err := os.ReadFile(filepath.Join(dir, LayoutFile))
	require.NoError(t, err)
	assert.Equal(t, "mine", string(b))
}

func TestFragmentRelPath(t *testing.T) {
	assert.Equal(t, "partials/header.html", Header.RelPath())
	assert.Equal(t, "components/blog.html", Blog.RelPath())
	assert.Len(t, AllFragments(), 8)
	assert.False(t, Fragment("layout").Valid())
}
