package finder

import (
	"github.com/rs/zerolog/log"

	"fsim/internal/similarity"
	"fsim/internal/storage"
)

// cache ties a BigramIndex to its side file for one run
type cache struct {
	path  string
	index *similarity.BigramIndex
	lock  *storage.Lock
	store *storage.Storage
	held  bool
}

// openCache locks and loads the side file at path into index.
// Every failure degrades to an in-memory cache.
func openCache(path string, index *similarity.BigramIndex) *cache {
	c := &cache{path: path, index: index, lock: storage.NewLock(path)}

	held, err := c.lock.TryLock()
	if err != nil {
		log.Warn().Err(err).Msg("cache lock unavailable, cache will not be persisted")
		return c
	}
	if !held {
		log.Warn().Str("path", path).Msg("cache in use by another run, cache will not be persisted")
		return c
	}
	c.held = true

	store, err := storage.NewStorage(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("unreadable cache, starting empty")
		return c
	}
	c.store = store

	n, err := store.LoadInto(index)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to load cache, starting empty")
		return c
	}
	log.Debug().Int("names", n).Str("path", store.Path()).Msg("cache loaded")
	return c
}

// save writes new entries, replacing the side file if it could not be opened
func (c *cache) save() {
	if !c.held {
		return
	}

	if c.store == nil {
		store, err := storage.Recreate(c.path)
		if err != nil {
			log.Warn().Err(err).Str("path", c.path).Msg("failed to recreate cache")
			return
		}
		c.store = store
	}

	n, err := c.store.Save(c.index)
	if err != nil {
		log.Warn().Err(err).Str("path", c.path).Msg("failed to write cache")
		return
	}
	log.Debug().Int("names", n).Str("path", c.store.Path()).Msg("cache saved")
}

func (c *cache) close() {
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			log.Warn().Err(err).Str("path", c.store.Path()).Msg("failed to close cache")
		}
	}
	if c.held {
		if err := c.lock.Unlock(); err != nil {
			log.Warn().Err(err).Str("path", c.lock.Path()).Msg("failed to release cache lock")
		}
	}
}
