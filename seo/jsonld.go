package seo

import (
	"encoding/json"
	"net/url"

	"github.com/lingloft/lingsite/registry"
	"github.com/lingloft/lingsite/site"
)

const schemaContext = "https://schema.org"

// Fragments used for node @id anchors.
const (
	FragmentWebSite      = "website"
	FragmentOrganization = "organization"
	FragmentWebPage      = "webpage"
	FragmentBreadcrumb   = "breadcrumb"
)

// Ref points at another node in the graph by @id.
type Ref struct {
	ID string `json:"@id"`
}

type WebSite struct {
	Type          string `json:"@type"`
	ID            string `json:"@id"`
	URL           string `json:"url"`
	Name          string `json:"name"`
	AlternateName string `json:"alternateName,omitempty"`
	Description   string `json:"description"`
	InLanguage    string `json:"inLanguage"`
	Publisher     Ref    `json:"publisher"`
}

type ImageObject struct {
	Type   string `json:"@type"`
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type Organization struct {
	Type          string       `json:"@type"`
	ID            string       `json:"@id"`
	Name          string       `json:"name"`
	AlternateName string       `json:"alternateName,omitempty"`
	Description   string       `json:"description,omitempty"`
	URL           string       `json:"url"`
	Logo          *ImageObject `json:"logo,omitempty"`
	FoundingDate  string       `json:"foundingDate,omitempty"`
	Slogan        string       `json:"slogan,omitempty"`
	KnowsAbout    []string     `json:"knowsAbout,omitempty"`
	SameAs        []string     `json:"sameAs,omitempty"`
}

type WebPage struct {
	Type        string `json:"@type"`
	ID          string `json:"@id"`
	URL         string `json:"url"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPartOf    Ref    `json:"isPartOf"`
	About       Ref    `json:"about"`
	Breadcrumb  Ref    `json:"breadcrumb"`
	InLanguage  string `json:"inLanguage"`
}

type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

type BreadcrumbList struct {
	Type            string     `json:"@type"`
	ID              string     `json:"@id"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// StructuredData is the JSON-LD document. It marshals as
// {"@context": ..., "@graph": [WebSite, Organization, WebPage, BreadcrumbList]}.
type StructuredData struct {
	WebSite      WebSite
	Organization Organization
	WebPage      WebPage
	Breadcrumbs  BreadcrumbList
}

func (sd StructuredData) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Context string `json:"@context"`
		Graph   []any  `json:"@graph"`
	}{
		Context: schemaContext,
		Graph:   []any{sd.WebSite, sd.Organization, sd.WebPage, sd.Breadcrumbs},
	})
}

// JSON returns the JSON-LD document. Identical inputs give identical bytes.
func (sd StructuredData) JSON() (string, error) {
	b, err := json.Marshal(sd)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// PageURL is the address a page is reachable at. The default page lives at
// the site root; other pages are anchors on the same document.
func PageURL(reg *registry.Registry, id site.Identity, pageID string) string {
	if reg.IsDefault(pageID) {
		return id.BaseURL()
	}
	return id.NodeID("page-" + url.PathEscape(pageID))
}

func buildGraph(reg *registry.Registry, page registry.PageDescriptor, id site.Identity, m Meta) StructuredData {
	websiteID := id.NodeID(FragmentWebSite)
	orgID := id.NodeID(FragmentOrganization)
	pageNodeID := id.NodeID(FragmentWebPage)
	crumbID := id.NodeID(FragmentBreadcrumb)
	org := id.Organization

	var logo *ImageObject
	if logoPath := firstNonEmpty(id.LogoPath, id.OGImage); logoPath != "" {
		logo = &ImageObject{
			Type:   "ImageObject",
			URL:    id.Absolute(logoPath),
			Width:  id.OGImageWidth,
			Height: id.OGImageHeight,
		}
	}

	root, _ := reg.Lookup(reg.DefaultID())
	crumbs := []ListItem{{
		Type:     "ListItem",
		Position: 1,
		Name:     root.DisplayTitle(),
		Item:     id.BaseURL(),
	}}
	if !reg.IsDefault(page.ID) {
		crumbs = append(crumbs, ListItem{
			Type:     "ListItem",
			Position: 2,
			Name:     page.DisplayTitle(),
			Item:     PageURL(reg, id, page.ID),
		})
	}

	return StructuredData{
		WebSite: WebSite{
			Type:          "WebSite",
			ID:            websiteID,
			URL:           id.BaseURL(),
			Name:          id.Name,
			AlternateName: org.AlternateName,
			Description:   firstNonEmpty(org.Description, id.Description),
			InLanguage:    id.Language,
			Publisher:     Ref{ID: orgID},
		},
		Organization: Organization{
			Type:          "Organization",
			ID:            orgID,
			Name:          id.Name,
			AlternateName: org.AlternateName,
			Description:   org.Description,
			URL:           id.BaseURL(),
			Logo:          logo,
			FoundingDate:  org.FoundingDate,
			Slogan:        firstNonEmpty(org.Slogan, id.Motto),
			KnowsAbout:    org.Skills,
			SameAs:        org.SameAs,
		},
		WebPage: WebPage{
			Type:        "WebPage",
			ID:          pageNodeID,
			URL:         m.Canonical,
			Name:        m.Title,
			Description: m.Description,
			IsPartOf:    Ref{ID: websiteID},
			About:       Ref{ID: orgID},
			Breadcrumb:  Ref{ID: crumbID},
			InLanguage:  id.Language,
		},
		Breadcrumbs: BreadcrumbList{
			Type:            "BreadcrumbList",
			ID:              crumbID,
			ItemListElement: crumbs,
		},
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
