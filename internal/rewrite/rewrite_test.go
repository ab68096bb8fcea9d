package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewrite_Scope(t *testing.T) {
	in := `<link href="/css/a.css"><link href="https://cdn.example.com/b.css"><a href="mailto:x@y.com">m</a>`
	want := `<link href="./css/a.css"><link href="https://cdn.example.com/b.css"><a href="mailto:x@y.com">m</a>`
	assert.Equal(t, want, Rewrite(in, true))
}

func TestRewrite_Disabled(t *testing.T) {
	in := `<script src="/js/main.js"></script>`
	assert.Equal(t, in, Rewrite(in, false))
}

func TestRewrite_AllAssetClasses(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`<link rel="stylesheet" href="/css/style.css">`, `<link rel="stylesheet" href="./css/style.css">`},
		{`<script src="/js/main.js"></script>`, `<script src="./js/main.js"></script>`},
		{`<img src='/images/me.png'>`, `<img src='./images/me.png'>`},
		{`<link rel="preload" href="/fonts/x.woff2">`, `<link rel="preload" href="./fonts/x.woff2">`},
		{`<div style="background:url(/images/bg.jpg)">`, `<div style="background:url(./images/bg.jpg)">`},
		{`@font-face{src:url("/fonts/a.woff")}`, `@font-face{src:url("./fonts/a.woff")}`},
		{`<IMG SRC="/images/x.png">`, `<IMG SRC="./images/x.png">`},
		{`<a href = "/css/x.css">`, `<a href = "./css/x.css">`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rewrite(tt.in, true), tt.in)
	}
}

func TestRewrite_LeavesOtherPathsAlone(t *testing.T) {
	for _, in := range []string{
		`<a href="/about">`,
		`<a href="/api/projects.json">`,
		`<script src="//cdn.example.com/js/lib.js"></script>`,
		`<a href="https://example.com/css/x.css">`,
		`<a href="/cssx/a.css">`,
		`<p>see /css/a.css in text</p>`,
		`<a href="#/images/">`,
	} {
		assert.Equal(t, in, Rewrite(in, true), in)
	}
}

func TestRewrite_Idempotent(t *testing.T) {
	in := `<link href="/css/a.css"><script src="/js/b.js"></script><img src="/images/c.png"><i style="background:url('/fonts/d')"></i>`
	once := Rewrite(in, true)
	assert.Equal(t, once, Rewrite(once, true))
}

func TestRewrite_OrderIndependent(t *testing.T) {
	a := `<script src="/js/b.js"></script><link href="/css/a.css">`
	b := `<link href="/css/a.css"><script src="/js/b.js"></script>`
	assert.Equal(t, `<script src="./js/b.js"></script>`, Rewrite(a, true)[:len(`<script src="./js/b.js"></script>`)])
	assert.Equal(t, `<link href="./css/a.css">`, Rewrite(b, true)[:len(`<link href="./css/a.css">`)])
}

func TestRewriteFor_NestedPages(t *testing.T) {
	assert.Equal(t, `<link href="../css/a.css">`, RewriteFor(`<link href="/css/a.css">`, "blog"))
	assert.Equal(t, `<img src="../../images/a.png">`, RewriteFor(`<img src="/images/a.png">`, "blog/2024/"))
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "./", Prefix("."))
	assert.Equal(t, "./", Prefix(""))
	assert.Equal(t, "../", Prefix("a"))
	assert.Equal(t, "../../", Prefix(`a\b`))
}
