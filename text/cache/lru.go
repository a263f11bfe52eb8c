package cache

// lruNode is a node in a doubly-linked LRU list. The node carries its key
// so map entries can be deleted in O(1) on eviction.
type lruNode[K comparable] struct {
	key  K
	prev *lruNode[K]
	next *lruNode[K]
}

// lruList is a doubly-linked list with the most recently used node at the
// head. Not thread-safe; the owning shard synchronizes.
type lruList[K comparable] struct {
	head *lruNode[K]
	tail *lruNode[K]
	len  int
}

func newLRUList[K comparable]() *lruList[K] {
	return &lruList[K]{}
}

func (l *lruList[K]) Len() int { return l.len }

// PushFront adds a new node at the front and returns it.
func (l *lruList[K]) PushFront(key K) *lruNode[K] {
	node := &lruNode[K]{key: key}
	if l.head == nil {
		l.head = node
		l.tail = node
	} else {
		node.next = l.head
		l.head.prev = node
		l.head = node
	}
	l.len++
	return node
}

// MoveToFront promotes an existing node to most recently used.
func (l *lruList[K]) MoveToFront(node *lruNode[K]) {
	if node == nil || node == l.head {
		return
	}
	l.unlink(node)
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

// RemoveOldest removes and returns the least recently used key.
func (l *lruList[K]) RemoveOldest() (K, bool) {
	if l.tail == nil {
		var zero K
		return zero, false
	}
	node := l.tail
	l.unlink(node)
	return node.key, true
}

// Clear drops all nodes.
func (l *lruList[K]) Clear() {
	l.head = nil
	l.tail = nil
	l.len = 0
}

func (l *lruList[K]) unlink(node *lruNode[K]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	l.len--
}
