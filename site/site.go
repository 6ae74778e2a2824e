// Package site loads the identity facts, page table and strings table that
// make up the site, and checks them before anything is served.
package site

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"os"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"

	"github.com/lingloft/lingsite/content"
	"github.com/lingloft/lingsite/registry"
)

// Data is the on-disk shape of the site data file.
type Data struct {
	Version     int                       `yaml:"version"`
	Identity    Identity                  `yaml:"identity"`
	DefaultPage string                    `yaml:"default_page"`
	Pages       []registry.PageDescriptor `yaml:"pages"`
	Strings     map[string]string         `yaml:"strings"`
}

// Site is the validated, read-only result of loading Data.
type Site struct {
	Version  int
	Identity Identity
	Registry *registry.Registry
	Strings  content.Table
}

// Binder returns a content binder over the site's pages and strings.
func (s *Site) Binder() *content.Binder {
	return content.NewBinder(s.Registry, s.Strings)
}

// Load decodes YAML site data from r and validates it.
func Load(r io.Reader) (*Site, error) {
	var d Data
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode site data: %w", err)
	}
	return Build(d)
}

// LoadFile loads site data from path.
func LoadFile(path string) (*Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open site data: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default loads the embedded site data.
func Default() (*Site, error) {
	return Load(bytes.NewReader(defaultData))
}

// Build validates d and assembles a Site. Copy is reduced to plain text.
func Build(d Data) (*Site, error) {
	id := d.Identity
	id.setDefaults()
	if err := id.validate(); err != nil {
		return nil, err
	}
	id.Name = plain(id.Name)
	id.Motto = plain(id.Motto)
	id.Tagline = plain(id.Tagline)
	id.Description = plain(id.Description)

	pages := make([]registry.PageDescriptor, len(d.Pages))
	for i, p := range d.Pages {
		p.Title = plain(p.Title)
		p.Description = plain(p.Description)
		if p.Strings != nil {
			strs := make(map[string]string, len(p.Strings))
			for k, v := range p.Strings {
				strs[k] = plain(v)
			}
			p.Strings = strs
		}
		if p.Body != nil {
			body := make([]string, len(p.Body))
			for j, line := range p.Body {
				body[j] = plain(line)
			}
			p.Body = body
		}
		pages[i] = p
	}
	reg, err := registry.New(d.DefaultPage, pages...)
	if err != nil {
		return nil, err
	}

	strs := make(content.Table, len(d.Strings)+1)
	for k, v := range d.Strings {
		strs[k] = plain(v)
	}
	if _, ok := strs[content.SlotPageDescription]; !ok {
		strs[content.SlotPageDescription] = id.Description
	}

	return &Site{
		Version:  d.Version,
		Identity: id,
		Registry: reg,
		Strings:  strs,
	}, nil
}

var strictPolicy = bluemonday.StrictPolicy()

// plain strips any markup and returns unescaped text.
func plain(s string) string {
	if s == "" {
		return s
	}
	return html.UnescapeString(strictPolicy.Sanitize(s))
}
