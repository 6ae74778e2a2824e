package seo

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lingloft/lingsite/registry"
	"github.com/lingloft/lingsite/site"
)

func testIdentity() site.Identity {
	return site.Identity{
		Name:          "Team",
		Motto:         "We build things",
		Tagline:       "Creative studio",
		Description:   "Site wide description",
		Keywords:      []string{"go", "web"},
		Author:        "The Team",
		URL:           "https://example.org/",
		Language:      "zh-CN",
		Type:          "website",
		OGImage:       "/logo.svg",
		OGImageWidth:  512,
		OGImageHeight: 512,
		TwitterHandle: "@team",
		LogoPath:      "/logo.svg",
		Organization: site.Organization{
			AlternateName: "TeamCo",
			Description:   "A small team",
			FoundingDate:  "2024",
			Skills:        []string{"frontend", "music"},
			SameAs:        []string{"https://github.com/team"},
		},
	}
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New("home",
		registry.PageDescriptor{ID: "home"},
		registry.PageDescriptor{ID: "about", Title: "About Us", Description: "Team info"},
		registry.PageDescriptor{ID: "projects", Title: "Projects"},
	)
	require.NoError(t, err)
	return reg
}

func TestResolveAboutPage(t *testing.T) {
	reg := testRegistry(t)

	m, err := Resolve(reg, "about", testIdentity())
	require.NoError(t, err)

	require.Equal(t, "about", m.PageID)
	require.Equal(t, "About Us", m.Title)
	require.Equal(t, "Team info", m.Description)
	require.Equal(t, "https://example.org", m.Canonical)

	names := make([]string, 0, 2)
	for _, it := range m.StructuredData.Breadcrumbs.ItemListElement {
		names = append(names, it.Name)
	}
	require.Equal(t, []string{"home", "About Us"}, names)
}

func TestResolveDefaultsAndFallbacks(t *testing.T) {
	reg := testRegistry(t)
	id := testIdentity()

	m, err := Resolve(reg, "home", id)
	require.NoError(t, err)
	require.Equal(t, "Team - Creative studio", m.Title)
	require.Equal(t, "Site wide description", m.Description)

	p, err := Resolve(reg, "projects", id)
	require.NoError(t, err)
	require.Equal(t, "Projects", p.Title)
	require.Equal(t, id.Description, p.Description, "empty description falls back verbatim")
	require.Equal(t, id.Description, p.OG.Description)
	require.Equal(t, id.Description, p.Twitter.Description)
}

func TestResolveSocialBlocksComplete(t *testing.T) {
	reg := testRegistry(t)

	for _, pageID := range reg.IDs() {
		m, err := Resolve(reg, pageID, testIdentity())
		require.NoError(t, err)

		og := m.OG
		for name, v := range map[string]string{
			"type": og.Type, "title": og.Title, "description": og.Description,
			"image": og.Image, "url": og.URL, "locale": og.Locale, "site_name": og.SiteName,
			"image_alt": og.ImageAlt,
		} {
			require.NotEmpty(t, v, "og:%s for %s", name, pageID)
		}
		require.Equal(t, "https://example.org/logo.svg", og.Image)
		require.Equal(t, "zh_CN", og.Locale)
		require.Equal(t, m.Canonical, og.URL)

		tw := m.Twitter
		require.Equal(t, "summary_large_image", tw.Card)
		require.Equal(t, m.Title, tw.Title)
		require.Equal(t, og.Image, tw.Image)
		require.Equal(t, "@team", tw.Site)
	}
}

func TestResolveSocialBlocksCompleteForBareIdentity(t *testing.T) {
	s, err := site.Load(strings.NewReader(`
identity:
  name: Team
  description: Site wide description
  url: https://example.org
default_page: home
pages:
  - id: home
  - id: about
`))
	require.NoError(t, err)

	for _, pageID := range s.Registry.IDs() {
		m, err := Resolve(s.Registry, pageID, s.Identity)
		require.NoError(t, err)

		og := m.OG
		for name, v := range map[string]string{
			"type": og.Type, "site_name": og.SiteName, "title": og.Title,
			"description": og.Description, "image": og.Image, "image_alt": og.ImageAlt,
			"url": og.URL, "locale": og.Locale,
		} {
			require.NotEmpty(t, v, "og:%s for %s", name, pageID)
		}
		tw := m.Twitter
		for name, v := range map[string]string{
			"card": tw.Card, "site": tw.Site, "title": tw.Title,
			"description": tw.Description, "image": tw.Image, "image_alt": tw.ImageAlt,
		} {
			require.NotEmpty(t, v, "twitter:%s for %s", name, pageID)
		}
		require.Equal(t, "https://example.org/logo.svg", og.Image)
		require.Equal(t, "@Team", tw.Site)
	}
}

func TestResolveFillsGapsInUnloadedIdentity(t *testing.T) {
	reg := testRegistry(t)
	id := site.Identity{Name: "Team", Description: "d", URL: "https://example.org"}

	m, err := Resolve(reg, "about", id)
	require.NoError(t, err)
	require.Equal(t, "website", m.OG.Type)
	require.Equal(t, "https://example.org/logo.svg", m.OG.Image)
	require.Equal(t, "Team", m.OG.ImageAlt)
	require.Equal(t, "zh_CN", m.OG.Locale)
	require.Equal(t, "@Team", m.Twitter.Site)
}

func TestCanonicalStaysAtRoot(t *testing.T) {
	reg := testRegistry(t)
	for _, pageID := range reg.IDs() {
		m, err := Resolve(reg, pageID, testIdentity())
		require.NoError(t, err)
		require.Equal(t, "https://example.org", m.Canonical)
		require.Equal(t, m.Canonical, m.StructuredData.WebPage.URL)
	}
}

func TestStructuredDataReferences(t *testing.T) {
	reg := testRegistry(t)

	for _, pageID := range reg.IDs() {
		m, err := Resolve(reg, pageID, testIdentity())
		require.NoError(t, err)
		sd := m.StructuredData

		require.Equal(t, "https://example.org/#organization", sd.Organization.ID)
		require.Equal(t, sd.Organization.ID, sd.WebPage.About.ID)
		require.Equal(t, sd.WebSite.ID, sd.WebPage.IsPartOf.ID)
		require.Equal(t, sd.Organization.ID, sd.WebSite.Publisher.ID)
		require.Equal(t, sd.Breadcrumbs.ID, sd.WebPage.Breadcrumb.ID)
	}
}

func TestBreadcrumbLength(t *testing.T) {
	reg := testRegistry(t)

	for _, pageID := range reg.IDs() {
		m, err := Resolve(reg, pageID, testIdentity())
		require.NoError(t, err)
		items := m.StructuredData.Breadcrumbs.ItemListElement

		if reg.IsDefault(pageID) {
			require.Len(t, items, 1)
		} else {
			require.Len(t, items, 2)
			require.Equal(t, 2, items[1].Position)
			require.Equal(t, "https://example.org/#page-"+pageID, items[1].Item)
		}
		require.Equal(t, 1, items[0].Position)
		require.Equal(t, "https://example.org", items[0].Item)
	}
}

func TestBreadcrumbLabelsUseDisplayTitle(t *testing.T) {
	reg, err := registry.New("home",
		registry.PageDescriptor{ID: "home"},
		registry.PageDescriptor{ID: "about"},
		registry.PageDescriptor{ID: "team", Title: "Our Team"},
	)
	require.NoError(t, err)

	labels := func(pageID string) []string {
		m, err := Resolve(reg, pageID, testIdentity())
		require.NoError(t, err)
		var out []string
		for _, it := range m.StructuredData.Breadcrumbs.ItemListElement {
			out = append(out, it.Name)
		}
		return out
	}
	require.Equal(t, []string{"home", "about"}, labels("about"))
	require.Equal(t, []string{"home", "Our Team"}, labels("team"))
}

func TestStructuredDataJSONShape(t *testing.T) {
	reg := testRegistry(t)
	m, err := Resolve(reg, "about", testIdentity())
	require.NoError(t, err)

	raw, err := m.StructuredData.JSON()
	require.NoError(t, err)

	var doc struct {
		Context string           `json:"@context"`
		Graph   []map[string]any `json:"@graph"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	require.Equal(t, "https://schema.org", doc.Context)
	require.Len(t, doc.Graph, 4)

	types := make([]string, 0, 4)
	for _, node := range doc.Graph {
		types = append(types, node["@type"].(string))
	}
	require.Equal(t, []string{"WebSite", "Organization", "WebPage", "BreadcrumbList"}, types)
}

func TestResolveIsIdempotent(t *testing.T) {
	reg := testRegistry(t)
	r := NewResolver(reg, testIdentity())

	first, err := r.Resolve("about")
	require.NoError(t, err)
	a, err := json.Marshal(first)
	require.NoError(t, err)

	second, err := r.Resolve("about")
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)

	require.Equal(t, string(a), string(b))
}

func TestResolveConcurrent(t *testing.T) {
	reg := testRegistry(t)
	r := NewResolver(reg, testIdentity())
	want, err := r.Resolve("projects")
	require.NoError(t, err)
	wantJSON, err := want.StructuredData.JSON()
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := r.Resolve("projects")
			if err != nil {
				errs <- err.Error()
				return
			}
			got, _ := m.StructuredData.JSON()
			if got != wantJSON {
				errs <- "structured data differs"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatal(e)
	}
}

func TestResolveUnknownPage(t *testing.T) {
	reg := testRegistry(t)
	_, err := Resolve(reg, "missing", testIdentity())
	require.ErrorIs(t, err, registry.ErrUnknownPage)
}
