// Package content joins page descriptors with the site-wide strings table to
// produce the text a view renders.
package content

import (
	"sort"

	"github.com/lingloft/lingsite/registry"
)

// Slot names shared by every page.
const (
	SlotPageTitle       = "page.title"
	SlotPageDescription = "page.description"
)

// Table maps content slots (e.g. "button.back") to display text.
type Table map[string]string

// Get returns the text for slot and whether it was present.
func (t Table) Get(slot string) (string, bool) {
	v, ok := t[slot]
	return v, ok
}

// Keys returns the slot names in sorted order.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bundle is the resolved copy for one page.
type Bundle struct {
	PageID  string            `json:"page"`
	Strings map[string]string `json:"strings"`
	Body    []string          `json:"body,omitempty"`

	defaults Table
}

// Text returns the page override for slot, then the site default, and
// finally the slot name itself so a missing string is visible on screen.
func (b Bundle) Text(slot string) string {
	if v, ok := b.Strings[slot]; ok {
		return v
	}
	if v, ok := b.defaults[slot]; ok {
		return v
	}
	return slot
}

func (b Bundle) Title() string       { return b.Text(SlotPageTitle) }
func (b Bundle) Description() string { return b.Text(SlotPageDescription) }

// Binder resolves bundles. It holds no mutable state.
type Binder struct {
	reg      *registry.Registry
	defaults Table
}

// NewBinder copies defaults so later changes by the caller are not observed.
func NewBinder(reg *registry.Registry, defaults Table) *Binder {
	d := make(Table, len(defaults))
	for k, v := range defaults {
		d[k] = v
	}
	return &Binder{reg: reg, defaults: d}
}

// ContentFor returns the bundle for pageID.
func (b *Binder) ContentFor(pageID string) (Bundle, error) {
	p, err := b.reg.Lookup(pageID)
	if err != nil {
		return Bundle{}, err
	}
	strs := make(map[string]string, len(b.defaults)+len(p.Strings)+2)
	for k, v := range b.defaults {
		strs[k] = v
	}
	for k, v := range p.Strings {
		strs[k] = v
	}
	// Descriptor fields fill the page slots unless the page overrides them.
	if _, ok := p.Strings[SlotPageTitle]; !ok {
		strs[SlotPageTitle] = p.DisplayTitle()
	}
	if _, ok := p.Strings[SlotPageDescription]; !ok && p.Description != "" {
		strs[SlotPageDescription] = p.Description
	}
	return Bundle{
		PageID:   p.ID,
		Strings:  strs,
		Body:     p.Body,
		defaults: b.defaults,
	}, nil
}

// Defaults returns a copy of the site-wide table.
func (b *Binder) Defaults() Table {
	d := make(Table, len(b.defaults))
	for k, v := range b.defaults {
		d[k] = v
	}
	return d
}
