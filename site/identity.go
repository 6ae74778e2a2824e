package site

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Identity holds the process-wide facts about the site and the team behind
// it. It is built once by Load and only ever read afterwards.
type Identity struct {
	Name        string   `yaml:"name" json:"name"`
	NameEN      string   `yaml:"name_en" json:"name_en,omitempty"`
	Motto       string   `yaml:"motto" json:"motto"`
	Tagline     string   `yaml:"tagline" json:"tagline,omitempty"` // short suffix used in the default title
	Description string   `yaml:"description" json:"description"`
	Keywords    []string `yaml:"keywords" json:"keywords,omitempty"`
	Author      string   `yaml:"author" json:"author,omitempty"`

	URL           string `yaml:"url" json:"url"`
	Language      string `yaml:"language" json:"language"` // BCP 47, e.g. "zh-CN"
	Type          string `yaml:"type" json:"type"`         // og:type
	OGImage       string `yaml:"og_image" json:"og_image"`
	OGImageAlt    string `yaml:"og_image_alt" json:"og_image_alt,omitempty"`
	OGImageWidth  int    `yaml:"og_image_width" json:"og_image_width,omitempty"`
	OGImageHeight int    `yaml:"og_image_height" json:"og_image_height,omitempty"`
	TwitterHandle string `yaml:"twitter_handle" json:"twitter_handle,omitempty"`
	ThemeColor    string `yaml:"theme_color" json:"theme_color,omitempty"`
	Robots        string `yaml:"robots" json:"robots,omitempty"`
	LogoPath      string `yaml:"logo" json:"logo,omitempty"`

	Organization Organization `yaml:"organization" json:"organization"`
	Registration Registration `yaml:"registration" json:"registration"`
}

// Organization feeds the schema.org Organization node.
type Organization struct {
	AlternateName string   `yaml:"alternate_name" json:"alternate_name,omitempty"`
	Description   string   `yaml:"description" json:"description,omitempty"`
	Slogan        string   `yaml:"slogan" json:"slogan,omitempty"`
	FoundingDate  string   `yaml:"founding_date" json:"founding_date,omitempty"`
	Skills        []string `yaml:"skills" json:"skills,omitempty"`
	SameAs        []string `yaml:"same_as" json:"same_as,omitempty"`
}

// Registration carries the legal filing numbers the client shows in the footer.
type Registration struct {
	ICPNumber    string `yaml:"icp_number" json:"icp_number,omitempty"`
	ICPLink      string `yaml:"icp_link" json:"icp_link,omitempty"`
	PoliceNumber string `yaml:"police_number" json:"police_number,omitempty"`
	PoliceLink   string `yaml:"police_link" json:"police_link,omitempty"`
}

// DefaultImage is the site-relative share image used when the data names
// neither og_image nor logo.
const DefaultImage = "/logo.svg"

const defaultLanguage = "zh-CN"

func (id *Identity) setDefaults() {
	if id.Type == "" {
		id.Type = "website"
	}
	if id.Language == "" {
		id.Language = defaultLanguage
	}
	if id.LogoPath == "" {
		id.LogoPath = DefaultImage
	}
	if id.Robots == "" {
		id.Robots = "index, follow"
	}
	if id.OGImage == "" {
		id.OGImage = id.LogoPath
	}
	if id.TwitterHandle == "" {
		id.TwitterHandle = id.TwitterSite()
	}
}

func (id Identity) validate() error {
	if strings.TrimSpace(id.Name) == "" {
		return fmt.Errorf("identity: name is required")
	}
	if strings.TrimSpace(id.Description) == "" {
		return fmt.Errorf("identity: description is required")
	}
	u, err := url.Parse(id.URL)
	if err != nil {
		return fmt.Errorf("identity: parse url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("identity: url %q must be absolute http(s)", id.URL)
	}
	if _, err := language.Parse(id.Language); err != nil {
		return fmt.Errorf("identity: language %q: %w", id.Language, err)
	}
	return nil
}

// BaseURL is the site URL without a trailing slash.
func (id Identity) BaseURL() string {
	return strings.TrimRight(id.URL, "/")
}

// NodeID builds a stable JSON-LD @id anchor, e.g. https://example.org/#website.
func (id Identity) NodeID(fragment string) string {
	return id.BaseURL() + "/#" + fragment
}

// Absolute turns a site-relative asset path into an absolute URL. Values
// that already carry a scheme are returned unchanged.
func (id Identity) Absolute(p string) string {
	if p == "" {
		return ""
	}
	if u, err := url.Parse(p); err == nil && u.Scheme != "" {
		return p
	}
	return id.BaseURL() + "/" + strings.TrimLeft(p, "/")
}

// DefaultTitle is the document title used by pages without their own.
func (id Identity) DefaultTitle() string {
	suffix := id.Tagline
	if suffix == "" {
		suffix = id.Motto
	}
	if suffix == "" {
		return id.Name
	}
	return id.Name + " - " + suffix
}

// Locale converts the BCP 47 language into the Open Graph form (zh-CN -> zh_CN).
func (id Identity) Locale() string {
	lang := id.Language
	if lang == "" {
		lang = defaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return strings.ReplaceAll(lang, "-", "_")
	}
	base, _ := tag.Base()
	region, conf := tag.Region()
	if conf != language.Exact {
		return base.String()
	}
	return base.String() + "_" + region.String()
}

// ImageURL is the absolute share image: og_image, else the logo, else
// DefaultImage.
func (id Identity) ImageURL() string {
	for _, p := range []string{id.OGImage, id.LogoPath, DefaultImage} {
		if strings.TrimSpace(p) != "" {
			return id.Absolute(p)
		}
	}
	return ""
}

// TwitterSite is the twitter:site handle. Without a configured handle it is
// derived from the English name, else the name, with spaces removed.
func (id Identity) TwitterSite() string {
	if h := strings.TrimSpace(id.TwitterHandle); h != "" {
		if !strings.HasPrefix(h, "@") {
			h = "@" + h
		}
		return h
	}
	name := id.NameEN
	if strings.TrimSpace(name) == "" {
		name = id.Name
	}
	return "@" + strings.Join(strings.Fields(name), "")
}

// KeywordList joins keywords for the keywords meta tag.
func (id Identity) KeywordList() string {
	return strings.Join(id.Keywords, ", ")
}
