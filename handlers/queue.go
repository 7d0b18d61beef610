package handlers

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// workQueue runs jobs serially per key and concurrently across keys. A drain
// goroutine exists only while its key has pending work.
type workQueue struct {
	mu      sync.Mutex
	pending map[snowflake.ID][]func()
	active  map[snowflake.ID]bool
}

func newWorkQueue() *workQueue {
	return &workQueue{
		pending: make(map[snowflake.ID][]func()),
		active:  make(map[snowflake.ID]bool),
	}
}

func (q *workQueue) Do(key snowflake.ID, fn func()) {
	q.mu.Lock()
	q.pending[key] = append(q.pending[key], fn)
	if q.active[key] {
		q.mu.Unlock()
		return
	}
	q.active[key] = true
	q.mu.Unlock()
	go q.drain(key)
}

func (q *workQueue) drain(key snowflake.ID) {
	for {
		q.mu.Lock()
		jobs := q.pending[key]
		if len(jobs) == 0 {
			delete(q.pending, key)
			delete(q.active, key)
			q.mu.Unlock()
			return
		}
		fn := jobs[0]
		q.pending[key] = jobs[1:]
		q.mu.Unlock()
		fn()
	}
}
