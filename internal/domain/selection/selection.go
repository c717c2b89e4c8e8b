// Package selection tracks the set of records chosen for a bulk
// action. Selection is transient UI state: it is never persisted and
// membership is independent of whether a record is currently visible.
package selection

import "sync"

// Coordinator holds the active selection. The zero value is not
// usable; construct with New. All methods are safe for concurrent
// use.
type Coordinator struct {
	mu     sync.Mutex
	active bool
	ids    map[string]struct{}
}

func New() *Coordinator {
	return &Coordinator{ids: make(map[string]struct{})}
}

// Active reports whether selection mode is on.
func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Enter switches selection mode on with the given record as the only
// member, replacing any previous selection.
func (c *Coordinator) Enter(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = true
	c.ids = map[string]struct{}{id: {}}
}

// Exit leaves selection mode and clears the selection.
func (c *Coordinator) Exit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
	c.ids = make(map[string]struct{})
}

// Toggle flips membership of a single record.
func (c *Coordinator) Toggle(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.ids[id]; ok {
		delete(c.ids, id)
		return
	}
	c.ids[id] = struct{}{}
}

// ToggleAll takes the ids currently visible in the list. If every
// visible id is already selected the selection is cleared; otherwise
// the selection is replaced with exactly the visible ids, dropping
// members that are no longer visible.
func (c *Coordinator) ToggleAll(visible []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	allSelected := len(visible) > 0
	for _, id := range visible {
		if _, ok := c.ids[id]; !ok {
			allSelected = false
			break
		}
	}
	if allSelected {
		c.ids = make(map[string]struct{})
		return
	}
	next := make(map[string]struct{}, len(visible))
	for _, id := range visible {
		next[id] = struct{}{}
	}
	c.ids = next
}

// Contains reports whether the record is selected.
func (c *Coordinator) Contains(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.ids[id]
	return ok
}

// Selected returns the selected ids in unspecified order.
func (c *Coordinator) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.ids))
	for id := range c.ids {
		out = append(out, id)
	}
	return out
}

// Count returns the number of selected records.
func (c *Coordinator) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ids)
}
