package views

import (
	"github.com/lingloft/lingsite/content"
	"github.com/lingloft/lingsite/nav"
	"github.com/lingloft/lingsite/seo"
	"github.com/lingloft/lingsite/site"
)

// DocumentData is everything the root document needs. The server builds it
// from the navigator, binder and resolver; templates never look anything up.
type DocumentData struct {
	Meta         seo.Meta
	Menu         []nav.Item
	Content      content.Bundle
	Registration site.Registration
	CSRFToken    string
	Script       string // client bundle path, e.g. /public/app.js
	Icons        []Icon
}

// Icon is a <link rel="icon"> entry.
type Icon struct {
	Rel   string
	Type  string
	Sizes string
	Href  string
}

// DefaultIcons are the favicon links the site ships with.
var DefaultIcons = []Icon{
	{Rel: "icon", Type: "image/x-icon", Href: "/favicon.ico"},
	{Rel: "icon", Type: "image/png", Sizes: "32x32", Href: "/favicon-32x32.png"},
	{Rel: "icon", Type: "image/png", Sizes: "16x16", Href: "/favicon-16x16.png"},
	{Rel: "apple-touch-icon", Sizes: "180x180", Href: "/apple-touch-icon.png"},
}

// Bootstrap is the JSON payload the client reads on start-up.
type Bootstrap struct {
	Page         string            `json:"page"`
	Menu         []nav.Item        `json:"menu"`
	Content      content.Bundle    `json:"content"`
	Meta         seo.Meta          `json:"meta"`
	Registration site.Registration `json:"registration"`
}
