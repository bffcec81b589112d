// ABOUTME: Client records and the thread-safe directory that maps client IDs to them
// ABOUTME: Add overwrites whole records (last write wins); there is no removal

package clients

import (
	"sort"
	"sync"
)

// Logo describes how a client's logo is displayed. Every field is optional.
type Logo struct {
	Text     *string `json:"text" toml:"text"`
	ImageURL *string `json:"image_url" toml:"image_url"`
	Width    *string `json:"width" toml:"width"`
	Height   *string `json:"height" toml:"height"`
}

// Client is a tenant record selecting a theme and optional branding overrides.
// Theme is a lookup key into the theme registry, not an owning reference.
type Client struct {
	Name      string  `json:"name" toml:"name"`
	Theme     string  `json:"theme" toml:"theme"`
	Logo      Logo    `json:"logo" toml:"logo"`
	CustomCSS *string `json:"custom_css" toml:"custom_css"`
	CustomJS  *string `json:"custom_js" toml:"custom_js"`
}

// Entry pairs a client with its identifier.
type Entry struct {
	ID     string
	Client Client
}

// String returns a pointer to s, for filling optional fields.
func String(s string) *string {
	return &s
}

// Value dereferences an optional field, returning "" when unset.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Directory maps client identifiers to client records.
// Reads take the shared lock; Add takes the exclusive lock.
type Directory struct {
	mu      sync.RWMutex
	clients map[string]Client
}

// NewDirectory creates a directory seeded with the given clients.
func NewDirectory(seed map[string]Client) *Directory {
	d := &Directory{
		clients: make(map[string]Client, len(seed)),
	}
	for id, c := range seed {
		d.clients[id] = c
	}
	return d
}

// Get returns the client registered under id.
func (d *Directory) Get(id string) (Client, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.clients[id]
	return c, ok
}

// Add stores c under id, replacing any existing record entirely.
func (d *Directory) Add(id string, c Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clients[id] = c
}

// List returns all clients. Order is unspecified.
func (d *Directory) List() []Client {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Client, 0, len(d.clients))
	for _, c := range d.clients {
		out = append(out, c)
	}
	return out
}

// Entries returns all clients with their IDs, sorted by ID.
func (d *Directory) Entries() []Entry {
	d.mu.RLock()
	out := make([]Entry, 0, len(d.clients))
	for id, c := range d.clients {
		out = append(out, Entry{ID: id, Client: c})
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns all client IDs, sorted.
func (d *Directory) IDs() []string {
	d.mu.RLock()
	out := make([]string, 0, len(d.clients))
	for id := range d.clients {
		out = append(out, id)
	}
	d.mu.RUnlock()

	sort.Strings(out)
	return out
}

// Len returns the number of clients.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.clients)
}
