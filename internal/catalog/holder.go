package catalog

import "sync/atomic"

// Holder publishes the current catalogue. Readers never block; reload
// builds a fresh Catalog and swaps it in.
type Holder struct {
	current atomic.Pointer[Catalog]
}

// NewHolder returns a holder seeded with c, or an empty catalogue when c is
// nil.
func NewHolder(c *Catalog) *Holder {
	h := &Holder{}
	h.Store(c)
	return h
}

// Load returns the published catalogue. It is never nil.
func (h *Holder) Load() *Catalog {
	if c := h.current.Load(); c != nil {
		return c
	}
	return Empty()
}

// Store publishes c.
func (h *Holder) Store(c *Catalog) {
	if c == nil {
		c = Empty()
	}
	h.current.Store(c)
}
