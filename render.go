package lingsite

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/lingloft/lingsite/nav"
	"github.com/lingloft/lingsite/seo"
	"github.com/lingloft/lingsite/site"
	"github.com/lingloft/lingsite/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
// Nothing is written if rendering fails.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	var buf bytes.Buffer
	if err := cmp.Render(c.Request().Context(), &buf); err != nil {
		return err
	}
	return c.HTMLBlob(code, buf.Bytes())
}

// BuildDocument assembles the document for pageID with menu state, resolved
// metadata and bound content. script may be empty. An unknown pageID fails
// with *registry.UnknownPageError.
func BuildDocument(s *site.Site, pageID, script string) (views.DocumentData, error) {
	if _, err := s.Registry.Lookup(pageID); err != nil {
		return views.DocumentData{}, err
	}
	n := nav.Restore(s.Registry, pageID)
	current := n.Current()
	meta, err := seo.Resolve(s.Registry, current, s.Identity)
	if err != nil {
		return views.DocumentData{}, err
	}
	bundle, err := s.Binder().ContentFor(current)
	if err != nil {
		return views.DocumentData{}, err
	}
	return views.DocumentData{
		Meta:         meta,
		Menu:         n.Menu(),
		Content:      bundle,
		Registration: s.Identity.Registration,
		Script:       script,
		Icons:        views.DefaultIcons,
	}, nil
}

// WriteDocument renders the static document for pageID to w.
func WriteDocument(ctx context.Context, w io.Writer, s *site.Site, pageID, script string) error {
	d, err := BuildDocument(s, pageID, script)
	if err != nil {
		return err
	}
	return views.Document(d).Render(ctx, w)
}

// ResolvePage resolves the metadata of pageID against s.
func ResolvePage(s *site.Site, pageID string) (seo.Meta, error) {
	return seo.Resolve(s.Registry, pageID, s.Identity)
}
