package assignment

import (
	"hash/fnv"
	"sync"

	"github.com/playbypost/statecraft/internal/model"
)

const lockShards = 64

// identityLocks serializes assignment operations per external identity.
// Sharded so the lock table stays bounded regardless of identity count.
type identityLocks struct {
	shards [lockShards]sync.Mutex
}

func (l *identityLocks) lock(identity model.Identity) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identity))
	mu := &l.shards[h.Sum32()%lockShards]
	mu.Lock()
	return mu
}
