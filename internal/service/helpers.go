package service

import (
	"sync"
)

// keyedMutex serializes work per key. Used to keep project progress
// recomputation single-writer per project within this process.
type keyedMutex struct {
	locks sync.Map // key → *sync.Mutex
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	mu, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
