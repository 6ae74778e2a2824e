package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/lingloft/lingsite/seo"
)

// Head renders the document head fields for m: title, description, canonical
// link, Open Graph and Twitter tags, and the JSON-LD graph.
func Head(m seo.Meta) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ld, err := m.StructuredData.JSON()
		if err != nil {
			return err
		}
		t := &tagWriter{w: w}
		t.raw(`<meta charset="utf-8">`)
		t.raw(`<meta name="viewport" content="width=device-width, initial-scale=1, maximum-scale=5">`)
		t.raw("<title>" + templ.EscapeString(m.Title) + "</title>")
		t.metaName("description", m.Description)
		if m.Keywords != "" {
			t.metaName("keywords", m.Keywords)
		}
		if m.Author != "" {
			t.metaName("author", m.Author)
		}
		if m.Robots != "" {
			t.metaName("robots", m.Robots)
		}
		if m.ThemeColor != "" {
			t.metaName("theme-color", m.ThemeColor)
		}

		t.metaProperty("og:type", m.OG.Type)
		t.metaProperty("og:site_name", m.OG.SiteName)
		t.metaProperty("og:title", m.OG.Title)
		t.metaProperty("og:description", m.OG.Description)
		t.metaProperty("og:image", m.OG.Image)
		t.metaInt("og:image:width", m.OG.ImageWidth)
		t.metaInt("og:image:height", m.OG.ImageHeight)
		t.metaProperty("og:image:alt", m.OG.ImageAlt)
		t.metaProperty("og:url", m.OG.URL)
		t.metaProperty("og:locale", m.OG.Locale)

		t.metaName("twitter:card", m.Twitter.Card)
		t.metaName("twitter:site", m.Twitter.Site)
		t.metaName("twitter:title", m.Twitter.Title)
		t.metaName("twitter:description", m.Twitter.Description)
		t.metaName("twitter:image", m.Twitter.Image)
		t.metaName("twitter:image:alt", m.Twitter.ImageAlt)

		t.raw(`<link rel="canonical"`)
		t.attr("href", m.Canonical)
		t.raw(">")

		t.raw(`<script type="application/ld+json">` + ld + `</script>`)
		return t.err
	})
}
