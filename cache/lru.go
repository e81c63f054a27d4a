// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "github.com/hashicorp/golang-lru/simplelru"

// LRU a typed, size-bounded LRU cache built on golang-lru.
// It is not safe for concurrent use.
type LRU[K comparable, V any] struct {
	inner *simplelru.LRU
}

// NewLRU create a LRU cache instance. onEvict may be nil.
// maxSize should be > 0, or it panics.
func NewLRU[K comparable, V any](maxSize int, onEvict func(key K, value V)) *LRU[K, V] {
	var cb simplelru.EvictCallback
	if onEvict != nil {
		cb = func(key interface{}, value interface{}) {
			onEvict(key.(K), value.(V))
		}
	}
	inner, err := simplelru.NewLRU(maxSize, cb)
	if err != nil {
		panic(err)
	}
	return &LRU[K, V]{inner}
}

// Get looks up a key's value and marks it as most recently used.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	if v, ok := l.inner.Get(key); ok {
		return v.(V), true
	}
	var zero V
	return zero, false
}

// Peek looks up a key's value without updating its recency.
func (l *LRU[K, V]) Peek(key K) (V, bool) {
	if v, ok := l.inner.Peek(key); ok {
		return v.(V), true
	}
	var zero V
	return zero, false
}

// Add adds a value, evicting the least recently used entry when full.
func (l *LRU[K, V]) Add(key K, value V) {
	l.inner.Add(key, value)
}

// Contains checks if a key is in the cache, without updating its recency.
func (l *LRU[K, V]) Contains(key K) bool {
	return l.inner.Contains(key)
}

// Remove removes the key from the cache.
func (l *LRU[K, V]) Remove(key K) {
	l.inner.Remove(key)
}

// Len returns the number of entries.
func (l *LRU[K, V]) Len() int {
	return l.inner.Len()
}

// Keys returns the keys, from oldest to newest.
func (l *LRU[K, V]) Keys() []K {
	raw := l.inner.Keys()
	keys := make([]K, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, k.(K))
	}
	return keys
}

// GetOrAdd returns the value for key, creating and adding it when missing.
func (l *LRU[K, V]) GetOrAdd(key K, create func() V) V {
	if v, ok := l.Get(key); ok {
		return v
	}
	v := create()
	l.Add(key, v)
	return v
}

// GetOrLoad first try to get from cache, do load if missed.
func (l *LRU[K, V]) GetOrLoad(key K, loader func(key K) (V, error)) (V, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := loader(key)
	if err != nil {
		var zero V
		return zero, err
	}
	l.Add(key, v)
	return v, nil
}
