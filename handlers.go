package lingsite

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/lingloft/lingsite/content"
	"github.com/lingloft/lingsite/nav"
	"github.com/lingloft/lingsite/registry"
	"github.com/lingloft/lingsite/seo"
	"github.com/lingloft/lingsite/site"
	"github.com/lingloft/lingsite/views"
)

type errorResponse struct {
	Error   string `json:"error"`
	Page    string `json:"page,omitempty"`
	Current string `json:"current,omitempty"`
}

type pageSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Default     bool   `json:"default,omitempty"`
}

// stateResponse is what the client needs to render the current page.
type stateResponse struct {
	Page         string            `json:"page"`
	Menu         []nav.Item        `json:"menu"`
	Meta         seo.Meta          `json:"meta"`
	Content      content.Bundle    `json:"content"`
	Registration site.Registration `json:"registration"`
}

type navigateRequest struct {
	Page string `json:"page"`
}

func handleHealthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (a *App) handleRoot(c echo.Context) error {
	d, err := BuildDocument(a.Site, a.Site.Registry.DefaultID(), a.Config.Script)
	if err != nil {
		return err
	}
	d.CSRFToken = CSRFToken(c)
	return Render(c, views.Document(d))
}

func (a *App) handlePages(c echo.Context) error {
	pages := a.Site.Registry.All()
	out := make([]pageSummary, 0, len(pages))
	for _, p := range pages {
		out = append(out, pageSummary{
			ID:          p.ID,
			Title:       p.DisplayTitle(),
			Description: p.Description,
			Default:     a.Site.Registry.IsDefault(p.ID),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handlePageMeta(c echo.Context) error {
	id := pageParam(c)
	m, err := a.resolver.Resolve(id)
	if err != nil {
		return a.pageError(c, id, "", err)
	}
	return c.JSON(http.StatusOK, m)
}

func (a *App) handlePageContent(c echo.Context) error {
	id := pageParam(c)
	b, err := a.binder.ContentFor(id)
	if err != nil {
		return a.pageError(c, id, "", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (a *App) handleState(c echo.Context) error {
	n, _, _, err := a.sessionNavigator(c)
	if err != nil {
		return err
	}
	st, err := a.state(n)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

func (a *App) handleNavigate(c echo.Context) error {
	if !a.limiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "too many navigations"})
	}
	var req navigateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	target := strings.TrimSpace(req.Page)

	n, sess, sid, err := a.sessionNavigator(c)
	if err != nil {
		return err
	}
	if a.recorder != nil {
		detach := a.recorder.Attach(n, sid)
		defer detach()
	}

	if _, err := n.Goto(target); err != nil {
		return a.pageError(c, target, n.Current(), err)
	}
	sess.Values[sessionPage] = n.Current()
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	st, err := a.state(n)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

// sessionNavigator restores the session's navigator. A new session gets an
// id and starts at the default page.
func (a *App) sessionNavigator(c echo.Context) (*nav.Navigator, *sessions.Session, string, error) {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		// A cookie signed with an old secret yields a fresh session plus an error.
		if sess == nil {
			return nil, nil, "", err
		}
		a.Logger.Debug("discarding unreadable session", zap.Error(err))
	}
	sid, _ := sess.Values[sessionID].(string)
	if sid == "" {
		sid = ulid.Make().String()
		sess.Values[sessionID] = sid
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			return nil, nil, "", err
		}
	}
	page, _ := sess.Values[sessionPage].(string)
	return nav.Restore(a.Site.Registry, page), sess, sid, nil
}

func (a *App) state(n *nav.Navigator) (stateResponse, error) {
	current := n.Current()
	m, err := a.resolver.Resolve(current)
	if err != nil {
		return stateResponse{}, err
	}
	b, err := a.binder.ContentFor(current)
	if err != nil {
		return stateResponse{}, err
	}
	return stateResponse{
		Page:         current,
		Menu:         n.Menu(),
		Meta:         m,
		Content:      b,
		Registration: a.Site.Identity.Registration,
	}, nil
}

// pageError maps an unknown page to 404; anything else goes to the error handler.
func (a *App) pageError(c echo.Context, id, current string, err error) error {
	if !errors.Is(err, registry.ErrUnknownPage) {
		return err
	}
	a.Logger.Info("unknown page rejected", zap.String("page", id), zap.String("current", current))
	return c.JSON(http.StatusNotFound, errorResponse{Error: "unknown page", Page: id, Current: current})
}

func pageParam(c echo.Context) string {
	raw := c.Param("id")
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	code := http.StatusInternalServerError
	if errors.As(err, &he) {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
