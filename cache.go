// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package navigation

import (
	"maps"
	"sync"
	"sync/atomic"
)

// rcuCache is a fill-once map. Reads are lock-free loads of an immutable
// map; writes copy the map under a mutex and swap the pointer.
//
// Entries are never evicted.
type rcuCache[K comparable, V any] struct {
	ptr atomic.Pointer[map[K]V]
	mu  sync.Mutex
}

func (c *rcuCache[K, V]) load(key K) (V, bool) {
	m := c.ptr.Load()
	if m == nil {
		var zero V
		return zero, false
	}
	v, ok := (*m)[key]

	return v, ok
}

// getOrCreate returns the cached value for key, calling create on a miss.
// Concurrent callers for the same key observe a single stored value. Errors
// from create are not cached.
func (c *rcuCache[K, V]) getOrCreate(key K, create func() (V, error)) (V, error) {
	// Lock-free fast path
	if v, ok := c.load(key); ok {
		return v, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check: another goroutine might have populated it
	if v, ok := c.load(key); ok {
		return v, nil
	}

	v, err := create()
	if err != nil {
		return v, err
	}

	old := c.ptr.Load()
	var next map[K]V
	if old == nil {
		next = make(map[K]V, 1)
	} else {
		next = make(map[K]V, len(*old)+1)
		maps.Copy(next, *old)
	}
	next[key] = v
	c.ptr.Store(&next)

	return v, nil
}

func (c *rcuCache[K, V]) len() int {
	m := c.ptr.Load()
	if m == nil {
		return 0
	}

	return len(*m)
}
