// Package cache provides the LRU caches behind the text pipeline.
//
// A Cache is a single mutex-guarded LRU map, sized for few, large values
// such as parsed font tables. A Sharded cache spreads keys over sixteen
// independently locked shards for values hit concurrently from many render
// goroutines, such as rasterized text lines.
//
// Both types are safe for concurrent use and must not be copied after
// creation.
package cache
