package cache

import (
	"container/list"
	"sync"

	"github.com/statewalker/vcs-sub000/plumbing"
)

// ObjectLRU is an LRU cache of decoded objects, evicting the least recently
// used entries once the total Size() of cached objects exceeds MaxSize.
type ObjectLRU struct {
	MaxSize FileSize

	mu         sync.Mutex
	actualSize FileSize
	ll         *list.List
	cache      map[plumbing.Hash]*list.Element
}

type objectEntry struct {
	hash plumbing.Hash
	obj  plumbing.EncodedObject
}

// NewObjectLRU creates a new ObjectLRU cache with the given budget.
func NewObjectLRU(maxSize FileSize) *ObjectLRU {
	return &ObjectLRU{MaxSize: maxSize}
}

// NewObjectLRUDefault creates a new ObjectLRU with DefaultMaxSize.
func NewObjectLRUDefault() *ObjectLRU {
	return NewObjectLRU(DefaultMaxSize)
}

// Put adds o to the cache, evicting the oldest entries until the cache fits
// within MaxSize. An object larger than MaxSize is simply not cached.
func (c *ObjectLRU) Put(o plumbing.EncodedObject) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ll == nil {
		c.ll = list.New()
		c.cache = make(map[plumbing.Hash]*list.Element)
	}

	h := o.Hash()
	if ee, ok := c.cache[h]; ok {
		c.ll.MoveToFront(ee)
		old := ee.Value.(*objectEntry)
		c.actualSize -= FileSize(old.obj.Size())
		ee.Value = &objectEntry{hash: h, obj: o}
		c.actualSize += FileSize(o.Size())
	} else {
		ee := c.ll.PushFront(&objectEntry{hash: h, obj: o})
		c.cache[h] = ee
		c.actualSize += FileSize(o.Size())
	}

	for c.actualSize > c.MaxSize && c.ll.Len() > 0 {
		c.removeOldest()
	}
}

// Get returns the cached object for h, if present.
func (c *ObjectLRU) Get(h plumbing.Hash) (plumbing.EncodedObject, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache == nil {
		return nil, false
	}
	ee, ok := c.cache[h]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(ee)
	return ee.Value.(*objectEntry).obj, true
}

// Clear empties the cache.
func (c *ObjectLRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll = nil
	c.cache = nil
	c.actualSize = 0
}

func (c *ObjectLRU) removeOldest() {
	ee := c.ll.Back()
	if ee == nil {
		return
	}
	c.ll.Remove(ee)
	entry := ee.Value.(*objectEntry)
	delete(c.cache, entry.hash)
	c.actualSize -= FileSize(entry.obj.Size())
}
