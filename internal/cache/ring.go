package cache

// ring is an intrusive recency list. The sentinel root is both head and
// tail, so link and unlink never branch on empty or boundary nodes:
// root.next is the most recently touched entry, root.prev the least.
type ring[K comparable] struct {
	root ringNode[K]
	size int
}

// ringNode carries its key so eviction can delete the map entry without a
// reverse lookup. A node with nil links is not on any ring.
type ringNode[K comparable] struct {
	key        K
	prev, next *ringNode[K]
}

func newRing[K comparable]() *ring[K] {
	r := &ring[K]{}
	r.root.prev = &r.root
	r.root.next = &r.root
	return r
}

func (r *ring[K]) len() int { return r.size }

// touch marks n most recently used, linking it first if needed.
func (r *ring[K]) touch(n *ringNode[K]) {
	if n.prev != nil {
		n.prev.next = n.next
		n.next.prev = n.prev
		r.size--
	}
	n.prev = &r.root
	n.next = r.root.next
	n.prev.next = n
	n.next.prev = n
	r.size++
}

// drop unlinks n. Dropping an unlinked node is a no-op.
func (r *ring[K]) drop(n *ringNode[K]) {
	if n.prev == nil {
		return
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
	r.size--
}

// oldest returns the least recently touched node, or nil when empty.
func (r *ring[K]) oldest() *ringNode[K] {
	if r.size == 0 {
		return nil
	}
	return r.root.prev
}
