package views

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"

	"github.com/lingloft/lingsite/nav"
	"github.com/lingloft/lingsite/seo"
	"github.com/lingloft/lingsite/site"
)

func render(t *testing.T, c templ.Component) (*goquery.Document, string) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err, "html must parse")
	return doc, buf.String()
}

func defaultSite(t *testing.T) *site.Site {
	t.Helper()
	s, err := site.Default()
	require.NoError(t, err)
	return s
}

func TestHeadRendersAllTags(t *testing.T) {
	s := defaultSite(t)
	m, err := seo.Resolve(s.Registry, "关于我", s.Identity)
	require.NoError(t, err)

	doc, _ := render(t, Head(m))

	require.Equal(t, "关于我们", doc.Find("title").Text())
	content := func(sel string) string {
		v, _ := doc.Find(sel).Attr("content")
		return v
	}
	require.Equal(t, "了解灵阁团队 - 我们是谁，我们做什么", content(`meta[name="description"]`))
	require.Equal(t, "关于我们", content(`meta[property="og:title"]`))
	require.Equal(t, "zh_CN", content(`meta[property="og:locale"]`))
	require.Equal(t, "https://ling.hujiarong.site/logo.svg", content(`meta[property="og:image"]`))
	require.Equal(t, "512", content(`meta[property="og:image:width"]`))
	require.Equal(t, "summary_large_image", content(`meta[name="twitter:card"]`))
	require.Equal(t, "@lingloft", content(`meta[name="twitter:site"]`))

	href, _ := doc.Find(`link[rel="canonical"]`).Attr("href")
	require.Equal(t, "https://ling.hujiarong.site", href)

	var ld map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc.Find(`script[type="application/ld+json"]`).Text()), &ld))
	require.Len(t, ld["@graph"], 4)
}

func TestHeadAlwaysEmitsSocialTags(t *testing.T) {
	s, err := site.Load(strings.NewReader(`
identity:
  name: Team
  description: Site wide description
  url: https://example.org
default_page: home
pages:
  - id: home
`))
	require.NoError(t, err)
	m, err := seo.Resolve(s.Registry, "home", s.Identity)
	require.NoError(t, err)

	doc, _ := render(t, Head(m))
	for _, sel := range []string{
		`meta[property="og:image"]`,
		`meta[property="og:image:alt"]`,
		`meta[name="twitter:site"]`,
		`meta[name="twitter:image"]`,
	} {
		v, ok := doc.Find(sel).Attr("content")
		require.True(t, ok, sel)
		require.NotEmpty(t, v, sel)
	}
}

func TestHeadEscapesValues(t *testing.T) {
	m := seo.Meta{
		Title:       `<script>alert(1)</script>`,
		Description: `"quoted" & more`,
	}
	doc, out := render(t, Head(m))

	require.NotContains(t, out, "<script>alert(1)</script>")
	require.Equal(t, `<script>alert(1)</script>`, doc.Find("title").Text())
	desc, _ := doc.Find(`meta[name="description"]`).Attr("content")
	require.Equal(t, `"quoted" & more`, desc)
}

func TestDocumentRendersShell(t *testing.T) {
	s := defaultSite(t)
	n := nav.New(s.Registry)
	m, err := seo.Resolve(s.Registry, n.Current(), s.Identity)
	require.NoError(t, err)
	bundle, err := s.Binder().ContentFor(n.Current())
	require.NoError(t, err)

	doc, _ := render(t, Document(DocumentData{
		Meta:         m,
		Menu:         n.Menu(),
		Content:      bundle,
		Registration: s.Identity.Registration,
		CSRFToken:    "tok",
		Script:       "/public/app.js",
		Icons:        DefaultIcons,
	}))

	lang, _ := doc.Find("html").Attr("lang")
	require.Equal(t, "zh-CN", lang)
	require.Equal(t, 5, doc.Find("nav#menu a").Length())
	active, _ := doc.Find(`nav#menu a[aria-current="page"]`).Attr("data-page")
	require.Equal(t, "主页", active)
	token, _ := doc.Find(`meta[name="csrf-token"]`).Attr("content")
	require.Equal(t, "tok", token)
	require.Equal(t, 4, doc.Find(`link[rel="icon"], link[rel="apple-touch-icon"]`).Length())

	var boot Bootstrap
	require.NoError(t, json.Unmarshal([]byte(doc.Find("#lingsite-bootstrap").Text()), &boot))
	require.Equal(t, "主页", boot.Page)
	require.Equal(t, "返回", boot.Content.Strings["button.back"])
	require.Equal(t, m.Title, boot.Meta.Title)
	require.Equal(t, "粤ICP备2025504330号", boot.Registration.ICPNumber)

	links := doc.Find("footer#registration a")
	require.Equal(t, 2, links.Length())
	require.Equal(t, "粤ICP备2025504330号", links.First().Text())
	require.Equal(t, "https://beian.miit.gov.cn/", links.First().AttrOr("href", ""))
}

func TestDocumentOmitsEmptyFooter(t *testing.T) {
	doc, _ := render(t, Document(DocumentData{}))
	require.Equal(t, 0, doc.Find("footer#registration").Length())

	doc, _ = render(t, Document(DocumentData{Registration: site.Registration{ICPNumber: "ICP 1"}}))
	require.Equal(t, "ICP 1", doc.Find("footer#registration span").Text())
}

func TestDocumentRenderIsDeterministic(t *testing.T) {
	s := defaultSite(t)
	n := nav.New(s.Registry)
	m, err := seo.Resolve(s.Registry, n.Current(), s.Identity)
	require.NoError(t, err)
	bundle, err := s.Binder().ContentFor(n.Current())
	require.NoError(t, err)
	data := DocumentData{Meta: m, Menu: n.Menu(), Content: bundle}

	_, first := render(t, Document(data))
	_, second := render(t, Document(data))
	require.Equal(t, first, second)
}
