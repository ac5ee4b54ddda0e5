package lib

import "sync"

type IDer interface {
	ID() string
}

// Collection is a concurrency safe registry of items keyed by their ID
type Collection[T IDer] struct {
	items map[string]T
	mutex sync.RWMutex
}

func NewCollection[T IDer]() *Collection[T] {
	return &Collection[T]{
		items: make(map[string]T),
	}
}

func (c *Collection[T]) Load(id string) (T, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, ok := c.items[id]
	return item, ok
}

func (c *Collection[T]) Store(item T) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[item.ID()] = item
}

func (c *Collection[T]) Delete(id string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, id)
}

// Range stops iterating when f returns false. f must not modify the collection
func (c *Collection[T]) Range(f func(item T) bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	for _, item := range c.items {
		if !f(item) {
			return
		}
	}
}

func (c *Collection[T]) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.items)
}
