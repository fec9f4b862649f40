package persona

import "sync"

// Catalog is the in-memory persona catalog plus the "applied" pointer
// tracking which persona is active in the live conversation. The pointer
// holds an id reference, not a copy of the document.
type Catalog struct {
	mu        sync.RWMutex
	items     []Persona
	appliedID string
}

// NewCatalog returns a Catalog preloaded with the supplied personas.
func NewCatalog(items []Persona) *Catalog {
	copied := make([]Persona, 0, len(items))
	for _, p := range items {
		copied = append(copied, p.Clone())
	}
	return &Catalog{items: copied}
}

// List returns the catalog in insertion order.
func (c *Catalog) List() []Persona {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Persona, 0, len(c.items))
	for _, p := range c.items {
		out = append(out, p.Clone())
	}
	return out
}

// FindByID looks up a persona by identifier.
func (c *Catalog) FindByID(id string) (Persona, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.items {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return Persona{}, false
}

// Upsert inserts the persona or replaces the existing document with the
// same id (full-document replace).
func (c *Catalog) Upsert(p Persona) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.items {
		if existing.ID == p.ID {
			c.items[i] = p.Clone()
			return
		}
	}
	c.items = append(c.items, p.Clone())
}

// Remove deletes the persona and clears the applied pointer if it
// referenced this id.
func (c *Catalog) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.items {
		if existing.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			if c.appliedID == id {
				c.appliedID = ""
			}
			return true
		}
	}
	return false
}

// SetApplied records which persona is applied to the live conversation.
func (c *Catalog) SetApplied(id string) {
	c.mu.Lock()
	c.appliedID = id
	c.mu.Unlock()
}

// AppliedID returns the id of the applied persona, or "" when none is.
func (c *Catalog) AppliedID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.appliedID
}

// Replace swaps the whole catalog, keeping the applied pointer only if the
// referenced persona survives. Used when syncing from the backend.
func (c *Catalog) Replace(items []Persona) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := make([]Persona, 0, len(items))
	found := false
	for _, p := range items {
		if p.ID == c.appliedID {
			found = true
		}
		copied = append(copied, p.Clone())
	}
	c.items = copied
	if !found {
		c.appliedID = ""
	}
}
