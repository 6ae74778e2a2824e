// Package seo resolves the document head and structured data for a page.
package seo

import (
	"github.com/lingloft/lingsite/registry"
	"github.com/lingloft/lingsite/site"
)

type OpenGraph struct {
	Type        string `json:"type"`
	SiteName    string `json:"site_name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ImageAlt    string `json:"image_alt"`
	ImageWidth  int    `json:"image_width,omitempty"`
	ImageHeight int    `json:"image_height,omitempty"`
	URL         string `json:"url"`
	Locale      string `json:"locale"`
}

type Twitter struct {
	Card        string `json:"card"`
	Site        string `json:"site"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ImageAlt    string `json:"image_alt"`
}

// Meta is the resolved document head for one page.
type Meta struct {
	PageID         string         `json:"page"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Canonical      string         `json:"canonical"`
	Keywords       string         `json:"keywords,omitempty"`
	Author         string         `json:"author,omitempty"`
	Robots         string         `json:"robots,omitempty"`
	ThemeColor     string         `json:"theme_color,omitempty"`
	Lang           string         `json:"lang"`
	OG             OpenGraph      `json:"og"`
	Twitter        Twitter        `json:"twitter"`
	StructuredData StructuredData `json:"structured_data"`
}

const twitterCard = "summary_large_image"

// Resolver binds a registry and identity for repeated resolution. It is a
// value type with no mutable state and is safe for concurrent use.
type Resolver struct {
	reg *registry.Registry
	id  site.Identity
}

func NewResolver(reg *registry.Registry, id site.Identity) Resolver {
	return Resolver{reg: reg, id: id}
}

// Resolve is shorthand for Resolve on a fresh Resolver.
func (r Resolver) Resolve(pageID string) (Meta, error) {
	return Resolve(r.reg, pageID, r.id)
}

// Resolve computes the head fields and structured data for pageID.
func Resolve(reg *registry.Registry, pageID string, id site.Identity) (Meta, error) {
	page, err := reg.Lookup(pageID)
	if err != nil {
		return Meta{}, err
	}

	title := id.DefaultTitle()
	if page.HasTitle() {
		title = page.Title
	}
	description := page.Description
	if description == "" {
		description = id.Description
	}
	// Only the default page is prerendered; every other page is a client
	// view state on the same document, so the canonical URL stays at the root.
	canonical := id.BaseURL()
	image := id.ImageURL()
	imageAlt := id.OGImageAlt
	if imageAlt == "" {
		imageAlt = id.Name
	}

	m := Meta{
		PageID:      page.ID,
		Title:       title,
		Description: description,
		Canonical:   canonical,
		Keywords:    id.KeywordList(),
		Author:      id.Author,
		Robots:      id.Robots,
		ThemeColor:  id.ThemeColor,
		Lang:        id.Language,
		OG: OpenGraph{
			Type:        firstNonEmpty(id.Type, "website"),
			SiteName:    id.Name,
			Title:       title,
			Description: description,
			Image:       image,
			ImageAlt:    imageAlt,
			ImageWidth:  id.OGImageWidth,
			ImageHeight: id.OGImageHeight,
			URL:         canonical,
			Locale:      id.Locale(),
		},
		Twitter: Twitter{
			Card:        twitterCard,
			Site:        id.TwitterSite(),
			Title:       title,
			Description: description,
			Image:       image,
			ImageAlt:    imageAlt,
		},
	}
	m.StructuredData = buildGraph(reg, page, id, m)
	return m, nil
}
