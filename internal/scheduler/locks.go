package scheduler

import "sync"

// resourceLocks serializes the fetch-check-commit sequence per (node, gpu)
// partition. Without it two concurrent submissions could both observe no
// conflict and both commit overlapping bookings.
type resourceLocks struct {
	mu    sync.Mutex
	locks map[resourceKey]*sync.Mutex
}

type resourceKey struct {
	node int
	gpu  int
}

func newResourceLocks() *resourceLocks {
	return &resourceLocks{locks: make(map[resourceKey]*sync.Mutex)}
}

// Lock acquires the mutex for the resource and returns its unlock func.
func (r *resourceLocks) Lock(node, gpu int) func() {
	key := resourceKey{node: node, gpu: gpu}

	r.mu.Lock()
	lock, ok := r.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[key] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
