package hierarchy

import "sort"

// Collapsed is the set of group ids whose children are hidden. The zero
// value is not usable; a nil *Collapsed reads as empty.
type Collapsed struct {
	ids map[string]struct{}
}

// ToggleEvent reports the state of a group after a toggle.
type ToggleEvent struct {
	TaskID   string
	Expanded bool
}

// NewCollapsed returns a set holding ids.
func NewCollapsed(ids ...string) *Collapsed {
	c := &Collapsed{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		c.ids[id] = struct{}{}
	}
	return c
}

// Has reports whether id is collapsed.
func (c *Collapsed) Has(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.ids[id]
	return ok
}

// Toggle flips id between collapsed and expanded.
func (c *Collapsed) Toggle(id string) ToggleEvent {
	if _, ok := c.ids[id]; ok {
		delete(c.ids, id)
		return ToggleEvent{TaskID: id, Expanded: true}
	}
	c.ids[id] = struct{}{}
	return ToggleEvent{TaskID: id, Expanded: false}
}

// Len returns the number of collapsed ids.
func (c *Collapsed) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ids)
}

// IDs returns the collapsed ids, sorted.
func (c *Collapsed) IDs() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.ids))
	for id := range c.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
