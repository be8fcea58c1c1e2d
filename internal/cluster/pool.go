package cluster

import "fsim/internal/models"

// pool is the ordered set of entries not yet assigned to a cluster
type pool struct {
	order   []string
	entries map[string]models.FileEntry
}

func newPool(entries []models.FileEntry) *pool {
	p := &pool{
		order:   make([]string, 0, len(entries)),
		entries: make(map[string]models.FileEntry, len(entries)),
	}
	for _, e := range entries {
		if _, dup := p.entries[e.Key]; dup {
			continue
		}
		p.order = append(p.order, e.Key)
		p.entries[e.Key] = e
	}
	return p
}

func (p *pool) len() int {
	return len(p.entries)
}

func (p *pool) contains(key string) bool {
	_, ok := p.entries[key]
	return ok
}

func (p *pool) remove(key string) {
	delete(p.entries, key)
}

// shift removes and returns the first remaining entry
func (p *pool) shift() (models.FileEntry, bool) {
	for len(p.order) > 0 {
		key := p.order[0]
		p.order = p.order[1:]
		if e, ok := p.entries[key]; ok {
			delete(p.entries, key)
			return e, true
		}
	}
	return models.FileEntry{}, false
}

// each calls fn for every remaining entry in insertion order
func (p *pool) each(fn func(models.FileEntry)) {
	live := p.order[:0]
	for _, key := range p.order {
		if e, ok := p.entries[key]; ok {
			live = append(live, key)
			fn(e)
		}
	}
	p.order = live
}
