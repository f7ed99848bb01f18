// Package resilience provides insertion-order key tracking.
package resilience

import "container/list"

// orderedKeys tracks cache keys from newest to oldest insertion so the
// cache can evict the oldest entries when it exceeds its bound.
type orderedKeys struct {
	items map[string]*list.Element
	list  *list.List
}

func newOrderedKeys() *orderedKeys {
	return &orderedKeys{
		items: make(map[string]*list.Element),
		list:  list.New(),
	}
}

func (ok *orderedKeys) add(key string) {
	if element, exists := ok.items[key]; exists {
		ok.list.MoveToFront(element)
		return
	}
	ok.items[key] = ok.list.PushFront(key)
}

func (ok *orderedKeys) remove(key string) {
	element, exists := ok.items[key]
	if !exists {
		return
	}
	ok.list.Remove(element)
	delete(ok.items, key)
}

// evictOver removes and returns the oldest keys until size <= max.
func (ok *orderedKeys) evictOver(max int) []string {
	if max < 0 {
		max = 0
	}
	if len(ok.items) <= max {
		return nil
	}
	count := len(ok.items) - max
	evicted := make([]string, 0, count)
	for i := 0; i < count; i++ {
		element := ok.list.Back()
		if element == nil {
			break
		}
		key := element.Value.(string)
		evicted = append(evicted, key)
		ok.list.Remove(element)
		delete(ok.items, key)
	}
	return evicted
}
