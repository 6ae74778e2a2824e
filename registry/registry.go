// Package registry holds the static table of pages the site can show.
//
// A Registry is built once at startup and never mutated afterwards. Its
// insertion order is the canonical menu order, and its default page id is
// guaranteed to resolve.
package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPage matches any *UnknownPageError via errors.Is.
	ErrUnknownPage = errors.New("unknown page")

	ErrEmptyID        = errors.New("registry: page id is empty")
	ErrDuplicatePage  = errors.New("registry: duplicate page id")
	ErrDefaultMissing = errors.New("registry: default page not registered")
)

// UnknownPageError reports a page id that is not in the registry.
type UnknownPageError struct {
	ID string
}

func (e *UnknownPageError) Error() string {
	return fmt.Sprintf("unknown page %q", e.ID)
}

// Is lets errors.Is(err, ErrUnknownPage) match.
func (e *UnknownPageError) Is(target error) bool {
	return target == ErrUnknownPage
}

// PageDescriptor is the static record describing one page.
type PageDescriptor struct {
	ID          string            `yaml:"id" json:"id"`
	Title       string            `yaml:"title,omitempty" json:"title,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Strings     map[string]string `yaml:"strings,omitempty" json:"strings,omitempty"` // per-page content slot overrides
	Body        []string          `yaml:"body,omitempty" json:"body,omitempty"`
}

// HasTitle reports whether the descriptor carries its own title.
func (p PageDescriptor) HasTitle() bool { return p.Title != "" }

// DisplayTitle is the label used in menus and breadcrumbs.
func (p PageDescriptor) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.ID
}

// Registry maps page ids to descriptors.
type Registry struct {
	pages     []PageDescriptor
	index     map[string]int
	defaultID string
}

// New validates pages and builds a Registry. Any error here is a
// configuration error and should stop the process.
func New(defaultID string, pages ...PageDescriptor) (*Registry, error) {
	r := &Registry{
		pages:     make([]PageDescriptor, 0, len(pages)),
		index:     make(map[string]int, len(pages)),
		defaultID: defaultID,
	}
	for i, p := range pages {
		if p.ID == "" {
			return nil, fmt.Errorf("%w (position %d)", ErrEmptyID, i)
		}
		if _, dup := r.index[p.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePage, p.ID)
		}
		r.index[p.ID] = len(r.pages)
		r.pages = append(r.pages, clonePage(p))
	}
	if _, ok := r.index[defaultID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrDefaultMissing, defaultID)
	}
	return r, nil
}

// MustNew is New for compiled-in tables; it panics on a bad table.
func MustNew(defaultID string, pages ...PageDescriptor) *Registry {
	r, err := New(defaultID, pages...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the descriptor for id.
func (r *Registry) Lookup(id string) (PageDescriptor, error) {
	i, ok := r.index[id]
	if !ok {
		return PageDescriptor{}, &UnknownPageError{ID: id}
	}
	return clonePage(r.pages[i]), nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// All returns every descriptor in menu order.
func (r *Registry) All() []PageDescriptor {
	out := make([]PageDescriptor, len(r.pages))
	for i, p := range r.pages {
		out[i] = clonePage(p)
	}
	return out
}

// IDs returns the page ids in menu order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.pages))
	for i, p := range r.pages {
		ids[i] = p.ID
	}
	return ids
}

// DefaultID is the page shown when a session starts.
func (r *Registry) DefaultID() string { return r.defaultID }

// IsDefault reports whether id is the default (root) page.
func (r *Registry) IsDefault(id string) bool { return id == r.defaultID }

func (r *Registry) Len() int { return len(r.pages) }

func clonePage(p PageDescriptor) PageDescriptor {
	if p.Strings != nil {
		m := make(map[string]string, len(p.Strings))
		for k, v := range p.Strings {
			m[k] = v
		}
		p.Strings = m
	}
	if p.Body != nil {
		p.Body = append([]string(nil), p.Body...)
	}
	return p
}
