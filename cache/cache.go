// Package cache keeps large read-only objects, such as word lists, loaded
// once per process and shared by every game.
package cache

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/spymaster/config"
)

type LoadFunc func(cfg *config.Config, key string) (any, error)

type objectCache struct {
	sync.Mutex
	objects map[string]any
}

var global = newObjectCache()

func newObjectCache() *objectCache {
	return &objectCache{objects: make(map[string]any)}
}

func (c *objectCache) get(cfg *config.Config, key string, load LoadFunc) (any, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("cache-hit")
		return obj, nil
	}
	log.Debug().Str("key", key).Msg("cache-load")
	obj, err := load(cfg, key)
	if err != nil {
		return nil, err
	}
	c.objects[key] = obj
	return obj, nil
}

// Load returns the object stored under key, calling load to create it the
// first time. Failed loads are not cached.
func Load(cfg *config.Config, key string, load LoadFunc) (any, error) {
	return global.get(cfg, key, load)
}

// LoadTyped is Load with the type assertion done for the caller.
func LoadTyped[T any](cfg *config.Config, key string, load func(*config.Config, string) (T, error)) (T, error) {
	obj, err := Load(cfg, key, func(cfg *config.Config, key string) (any, error) {
		return load(cfg, key)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	t, ok := obj.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache key %q holds %T", key, obj)
	}
	return t, nil
}

// Reset drops every cached object.
func Reset() {
	global.Lock()
	defer global.Unlock()
	global.objects = make(map[string]any)
}
