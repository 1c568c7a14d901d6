package cas

import (
	"container/list"
)

// LRUCache is a CAS wrapper that keeps recently read encodings in front of
// the underlying store.
type LRUCache struct {
	underlying CAS
	cache      map[Hash]*list.Element
	evictList  *list.List
	maxSize    int
}

type cacheEntry struct {
	hash  Hash
	value []byte
}

// NewLRUCache wraps underlying. A maxSize of 0 or less selects the default
// of 1000 entries.
func NewLRUCache(underlying CAS, maxSize int) *LRUCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &LRUCache{
		underlying: underlying,
		cache:      make(map[Hash]*list.Element),
		evictList:  list.New(),
		maxSize:    maxSize,
	}
}

func (l *LRUCache) Put(item Hashable) (Hash, error) {
	return l.underlying.Put(item)
}

func (l *LRUCache) Has(hash Hash) bool {
	if _, ok := l.cache[hash]; ok {
		return true
	}
	return l.underlying.Has(hash)
}

func (l *LRUCache) Len() int {
	return l.underlying.Len()
}

func (l *LRUCache) getValue(h Hash) (bool, []byte, error) {
	if elem, ok := l.cache[h]; ok {
		l.evictList.MoveToFront(elem)
		return true, elem.Value.(*cacheEntry).value, nil
	}

	underlying, ok := l.underlying.(directStore)
	if !ok {
		return false, nil, nil
	}
	has, data, err := underlying.getValue(h)
	if err != nil || !has {
		return false, nil, err
	}
	l.addToCache(h, data)
	return true, data, nil
}

func (l *LRUCache) addToCache(hash Hash, value []byte) {
	if elem, ok := l.cache[hash]; ok {
		l.evictList.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}
	elem := l.evictList.PushFront(&cacheEntry{hash: hash, value: value})
	l.cache[hash] = elem
	if l.evictList.Len() > l.maxSize {
		l.evictOldest()
	}
}

func (l *LRUCache) evictOldest() {
	elem := l.evictList.Back()
	if elem != nil {
		l.evictList.Remove(elem)
		delete(l.cache, elem.Value.(*cacheEntry).hash)
	}
}

type CacheStats struct {
	Size    int
	MaxSize int
}

func (l *LRUCache) Stats() CacheStats {
	return CacheStats{
		Size:    len(l.cache),
		MaxSize: l.maxSize,
	}
}
