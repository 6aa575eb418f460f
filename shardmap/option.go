package shardmap

type Option[V any] func(*ShardMap[V])

func WithShardNum[V any](num uint8) Option[V] {
	return func(m *ShardMap[V]) {
		if num > 0 {
			m.shardNum = num
		}
	}
}
