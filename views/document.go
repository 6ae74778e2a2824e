package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/lingloft/lingsite/site"
)

// Document renders the single prerendered HTML document. Page switching
// happens in the client; the server only ever serves this one route.
func Document(d DocumentData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		boot, err := JSONScript(Bootstrap{
			Page:         d.Meta.PageID,
			Menu:         d.Menu,
			Content:      d.Content,
			Meta:         d.Meta,
			Registration: d.Registration,
		})
		if err != nil {
			return err
		}

		t := &tagWriter{w: w}
		t.raw("<!DOCTYPE html><html")
		t.attr("lang", d.Meta.Lang)
		t.raw("><head>")
		if t.err != nil {
			return t.err
		}
		if err := Head(d.Meta).Render(ctx, w); err != nil {
			return err
		}
		for _, ic := range d.Icons {
			t.raw("<link")
			t.attr("rel", ic.Rel)
			if ic.Type != "" {
				t.attr("type", ic.Type)
			}
			if ic.Sizes != "" {
				t.attr("sizes", ic.Sizes)
			}
			t.attr("href", ic.Href)
			t.raw(">")
		}
		t.raw(`<link rel="sitemap" type="application/xml" href="/sitemap.xml">`)
		if d.CSRFToken != "" {
			t.metaName("csrf-token", d.CSRFToken)
		}
		t.raw("</head><body>")

		t.raw(`<nav id="menu">`)
		for _, it := range d.Menu {
			t.raw("<a")
			t.attr("href", "#")
			t.attr("data-page", it.ID)
			if it.Active {
				t.attr("aria-current", "page")
			}
			t.raw(">" + templ.EscapeString(it.Label) + "</a>")
		}
		t.raw("</nav>")

		t.raw(`<main id="app"`)
		t.attr("data-page", d.Meta.PageID)
		t.raw("><h1>" + templ.EscapeString(d.Content.Title()) + "</h1>")
		for _, line := range d.Content.Body {
			t.raw("<p>" + templ.EscapeString(line) + "</p>")
		}
		t.raw("</main>")
		footer(t, d.Registration)

		t.raw(`<script id="lingsite-bootstrap" type="application/json">` + boot + `</script>`)
		if d.Script != "" {
			t.raw("<script defer")
			t.attr("src", d.Script)
			t.raw("></script>")
		}
		t.raw("</body></html>")
		return t.err
	})
}

// footer renders the filing numbers; a number without a link is plain text.
func footer(t *tagWriter, r site.Registration) {
	if r.ICPNumber == "" && r.PoliceNumber == "" {
		return
	}
	t.raw(`<footer id="registration">`)
	for _, f := range [][2]string{{r.ICPNumber, r.ICPLink}, {r.PoliceNumber, r.PoliceLink}} {
		number, link := f[0], f[1]
		if number == "" {
			continue
		}
		if link == "" {
			t.raw("<span>" + templ.EscapeString(number) + "</span>")
			continue
		}
		t.raw("<a")
		t.attr("href", link)
		t.attr("target", "_blank")
		t.attr("rel", "noopener noreferrer")
		t.raw(">" + templ.EscapeString(number) + "</a>")
	}
	t.raw("</footer>")
}
