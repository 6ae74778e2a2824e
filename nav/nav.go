// Package nav holds the per-session navigation state: which page is current.
//
// All changes go through Goto, which validates the target against the
// registry before touching state, so Current always names a registered page.
package nav

import (
	"sync"

	"github.com/lingloft/lingsite/registry"
)

// Change describes a successful transition.
type Change struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Self reports whether the transition stayed on the same page.
func (c Change) Self() bool { return c.From == c.To }

// Item is a rendered menu entry.
type Item struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Navigator is the navigation state machine for one session.
type Navigator struct {
	reg *registry.Registry

	mu        sync.Mutex
	current   string
	listeners map[int]func(Change)
	nextID    int
}

// New starts a navigator at the registry's default page.
func New(reg *registry.Registry) *Navigator {
	return &Navigator{
		reg:       reg,
		current:   reg.DefaultID(),
		listeners: map[int]func(Change){},
	}
}

// Restore starts a navigator at id, falling back to the default page when id
// is not registered (e.g. a stale session after the page table changed).
func Restore(reg *registry.Registry, id string) *Navigator {
	n := New(reg)
	if reg.Has(id) {
		n.current = id
	}
	return n
}

// Current returns the current page id.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Goto moves to target. An unknown target is rejected with
// *registry.UnknownPageError and leaves the state untouched.
// Subscribers are notified after the state is updated, outside the lock.
func (n *Navigator) Goto(target string) (Change, error) {
	if !n.reg.Has(target) {
		return Change{}, &registry.UnknownPageError{ID: target}
	}

	n.mu.Lock()
	ch := Change{From: n.current, To: target}
	n.current = target
	listeners := make([]func(Change), 0, len(n.listeners))
	for i := 0; i < n.nextID; i++ {
		if fn, ok := n.listeners[i]; ok {
			listeners = append(listeners, fn)
		}
	}
	n.mu.Unlock()

	for _, fn := range listeners {
		fn(ch)
	}
	return ch, nil
}

// Subscribe registers fn for page-changed notifications, in subscription
// order. The returned func removes it.
func (n *Navigator) Subscribe(fn func(Change)) (unsubscribe func()) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.listeners, id)
			n.mu.Unlock()
		})
	}
}

// Menu renders the registry in menu order with the current page marked.
func (n *Navigator) Menu() []Item {
	current := n.Current()
	pages := n.reg.All()
	items := make([]Item, 0, len(pages))
	for _, p := range pages {
		items = append(items, Item{
			ID:     p.ID,
			Label:  p.DisplayTitle(),
			Active: p.ID == current,
		})
	}
	return items
}
