// Package cache keeps objects that are expensive to build and never change
// afterwards, such as decoded and resized sprite sets, for the life of the
// process. Cached objects are shared and must not be modified.
package cache

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type store struct {
	sync.Mutex
	objects map[string]interface{}
}

type loadFunc func(key string) (interface{}, error)

// GlobalObjectCache backs Load. It is created on first use.
var GlobalObjectCache *store

func (c *store) get(key string, build loadFunc) (interface{}, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("cache-hit")
		return obj, nil
	}
	obj, err := build(key)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("key", key).Msg("cache-stored")
	c.objects[key] = obj
	return obj, nil
}

func (c *store) len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.objects)
}

func CreateGlobalObjectCache() {
	GlobalObjectCache = &store{objects: make(map[string]interface{})}
}

// Load returns the object stored under key, calling build to make it the
// first time. A failed build leaves nothing behind, so the next call retries.
func Load(key string, build loadFunc) (interface{}, error) {
	if GlobalObjectCache == nil {
		CreateGlobalObjectCache()
	}
	return GlobalObjectCache.get(key, build)
}
