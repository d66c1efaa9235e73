package cache

// shardCount splits keys across independently locked shards. A power of
// two keeps shard selection a mask of the hash.
const shardCount = 16

// Hasher maps a key to the hash used for shard selection. Keys hashing
// equal always land in the same shard, so a weak hasher costs contention
// and per-shard capacity, never correctness.
type Hasher[K comparable] func(K) uint64

// Sharded is an LRU cache split across sixteen shards, each an
// independently locked Cache. Recency and eviction are per shard: one hot
// shard evicts its own oldest entries while the others stay full.
type Sharded[K comparable, V any] struct {
	hasher Hasher[K]
	shards [shardCount]*Cache[K, V]
}

// NewSharded creates a sharded cache holding at most perShard entries in
// each shard. A perShard of 0 or less disables eviction.
func NewSharded[K comparable, V any](perShard int, hasher Hasher[K]) *Sharded[K, V] {
	s := &Sharded[K, V]{hasher: hasher}
	for i := range s.shards {
		s.shards[i] = New[K, V](perShard)
	}
	return s
}

func (s *Sharded[K, V]) shard(key K) *Cache[K, V] {
	return s.shards[s.hasher(key)&(shardCount-1)]
}

// Get returns the value cached under key and marks it most recently used
// within its shard.
func (s *Sharded[K, V]) Get(key K) (V, bool) {
	return s.shard(key).Get(key)
}

// Set stores value under key, evicting within the key's shard as needed.
func (s *Sharded[K, V]) Set(key K, value V) {
	s.shard(key).Set(key, value)
}

// Len returns the total number of entries across all shards.
func (s *Sharded[K, V]) Len() int {
	n := 0
	for _, c := range s.shards {
		n += c.Len()
	}
	return n
}
