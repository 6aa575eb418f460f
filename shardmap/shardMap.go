// Package shardmap is a string-keyed map split into independently locked
// shards so writers on different keys rarely contend.
package shardmap

import (
	"sync"
)

const SHARD_DEFAULT = 32

type kvShardBlock[V any] struct {
	items map[string]V
	mu    sync.Mutex
}

type ShardMap[V any] struct {
	shardNum uint8
	shards   []*kvShardBlock[V]
}

func New[V any](opts ...Option[V]) *ShardMap[V] {
	resp := &ShardMap[V]{
		shardNum: SHARD_DEFAULT,
	}

	for _, opt := range opts {
		opt(resp)
	}

	// Initialize shards
	resp.shards = make([]*kvShardBlock[V], resp.shardNum)
	for i := range resp.shards {
		resp.shards[i] = &kvShardBlock[V]{items: make(map[string]V)}
	}

	return resp
}

func (sm *ShardMap[V]) shard(key string) *kvShardBlock[V] {
	return sm.shards[fnv32(key)%uint32(sm.shardNum)]
}

func (sm *ShardMap[V]) Length() int {
	total := 0
	for _, shard := range sm.shards {
		shard.mu.Lock()
		total += len(shard.items)
		shard.mu.Unlock()
	}
	return total
}

// Get returns the value stored for key.
func (sm *ShardMap[V]) Get(key string) (value V, ok bool) {
	shard := sm.shard(key)

	shard.mu.Lock()
	defer shard.mu.Unlock()
	val, ok := shard.items[key]
	return val, ok
}

func (sm *ShardMap[V]) Set(key string, value V) {
	shard := sm.shard(key)

	shard.mu.Lock()
	defer shard.mu.Unlock()
	shard.items[key] = value
}

func (sm *ShardMap[V]) Remove(key string) {
	shard := sm.shard(key)

	shard.mu.Lock()
	defer shard.mu.Unlock()
	delete(shard.items, key)
}

// Range calls f for every entry until f returns false. Each shard is locked
// while it is visited, so f must not call back into the map.
func (sm *ShardMap[V]) Range(f func(key string, value V) bool) {
	for _, shard := range sm.shards {
		shard.mu.Lock()
		for k, v := range shard.items {
			if !f(k, v) {
				shard.mu.Unlock()
				return
			}
		}
		shard.mu.Unlock()
	}
}

func (sm *ShardMap[V]) Clear() {
	for _, shard := range sm.shards {
		shard.mu.Lock()
		clear(shard.items)
		shard.mu.Unlock()
	}
}

// recommend number.
const FNV_BASIS = uint32(2166136261)
const FNV_PRIME = uint32(16777619)

// FNV-1a algorithm
func fnv32(key string) uint32 {
	nhash := FNV_BASIS
	for i := 0; i < len(key); i++ {
		nhash ^= uint32(key[i])
		nhash *= FNV_PRIME
	}
	return nhash
}
