package session

import (
	"container/list"
	"sync"

	"github.com/dmitrymomot/wirehttp/pkg/token"
)

// LRUTable is a bounded Table. When it reaches capacity the least recently
// used session is evicted.
type LRUTable struct {
	capacity int
	items    map[token.Token]*list.Element
	eviction *list.List
	mu       sync.Mutex
	onEvict  func(*Session)
}

// NewLRUTable creates a table holding at most capacity sessions.
// The capacity must be positive, otherwise it panics.
func NewLRUTable(capacity int) *LRUTable {
	if capacity <= 0 {
		panic("session: LRU table capacity must be positive")
	}
	return &LRUTable{
		capacity: capacity,
		items:    make(map[token.Token]*list.Element),
		eviction: list.New(),
	}
}

// OnEvict sets a callback invoked for every evicted session. It runs with
// the table lock held and must not call back into the table.
func (t *LRUTable) OnEvict(fn func(*Session)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onEvict = fn
}

// Get returns the session and marks it as recently used.
func (t *LRUTable) Get(id token.Token) (*Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if elem, ok := t.items[id]; ok {
		t.eviction.MoveToFront(elem)
		return elem.Value.(*Session), true
	}
	return nil, false
}

// Put stores a session, evicting the least recently used one if the table
// is over capacity.
func (t *LRUTable) Put(s *Session) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if elem, ok := t.items[s.id]; ok {
		t.eviction.MoveToFront(elem)
		elem.Value = s
		return
	}

	t.items[s.id] = t.eviction.PushFront(s)
	if t.eviction.Len() > t.capacity {
		if oldest := t.eviction.Back(); oldest != nil {
			evicted := t.remove(oldest)
			if t.onEvict != nil {
				t.onEvict(evicted)
			}
		}
	}
}

// Delete removes a session without invoking the eviction callback.
func (t *LRUTable) Delete(id token.Token) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if elem, ok := t.items[id]; ok {
		t.remove(elem)
	}
}

// Len returns the number of stored sessions.
func (t *LRUTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.eviction.Len()
}

// Must be called with lock held.
func (t *LRUTable) remove(elem *list.Element) *Session {
	t.eviction.Remove(elem)
	s := elem.Value.(*Session)
	delete(t.items, s.id)
	return s
}
