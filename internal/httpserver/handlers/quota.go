package handlers

import (
	"hash/fnv"
	"sync"
)

const quotaStripes = 64

// userLocks serialises the quota check and the history save of one user,
// so concurrent requests cannot all pass at limit-1. Users share a stripe
// when their ids hash alike.
type userLocks struct {
	stripes [quotaStripes]sync.Mutex
}

// lock acquires userID's stripe and returns its unlock func.
func (l *userLocks) lock(userID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	m := &l.stripes[h.Sum32()%quotaStripes]
	m.Lock()
	return m.Unlock
}
