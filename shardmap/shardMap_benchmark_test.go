package shardmap_test

import (
	"math/rand"
	"strconv"
	"sync"
	"testing"

	"github.com/saweima12/minirt/shardmap"
)

func BenchmarkShardMapMixed(b *testing.B) {
	shardMap := shardmap.New[int]()
	keys := make([]string, b.N)
	for i := 0; i < b.N; i++ {
		keys[i] = strconv.Itoa(rand.Intn(b.N))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			op := rand.Intn(10)
			key := keys[rand.Intn(len(keys))]
			switch {
			case op < 3:
				shardMap.Get(key)
			case op < 5:
				shardMap.Remove(key)
			default:
				shardMap.Set(key, op)
			}
		}
	})
}

func BenchmarkSyncMapMixed(b *testing.B) {
	var syncMap sync.Map
	keys := make([]string, b.N)
	for i := 0; i < b.N; i++ {
		keys[i] = strconv.Itoa(rand.Intn(b.N))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			op := rand.Intn(10)
			key := keys[rand.Intn(len(keys))]
			switch {
			case op < 3:
				syncMap.Load(key)
			case op < 5:
				syncMap.Delete(key)
			default:
				syncMap.Store(key, op)
			}
		}
	})
}
