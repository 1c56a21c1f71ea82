// Package users maps numeric user ids to login names behind a bounded cache.
package users

import (
	"os/user"
	"strconv"

	"k8s.io/utils/lru"
)

const defaultCacheSize = 2048

// lookupID allows tests to stub the passwd lookup.
var lookupID = user.LookupId

// Directory resolves the owner name of a process.
type Directory interface {
	GetRef(uid uint32) string
}

// Table is a Directory backed by os/user with an LRU in front of it.
// Unknown ids resolve to their decimal form.
type Table struct {
	cache *lru.Cache
}

func New(size int) *Table {
	if size <= 0 {
		size = defaultCacheSize
	}
	return &Table{cache: lru.New(size)}
}

func (t *Table) GetRef(uid uint32) string {
	if name, ok := t.cache.Get(uid); ok {
		return name.(string)
	}
	id := strconv.FormatUint(uint64(uid), 10)
	name := id
	if u, err := lookupID(id); err == nil && u.Username != "" {
		name = u.Username
	}
	t.cache.Add(uid, name)
	return name
}

// Len reports how many ids are cached.
func (t *Table) Len() int { return t.cache.Len() }
