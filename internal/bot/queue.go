package bot

import "sync"

// Queue runs jobs serially per key and in parallel across keys. A key's worker
// goroutine exits as soon as its backlog is empty.
type Queue struct {
	mu      sync.Mutex
	pending map[int64][]func()
	wg      sync.WaitGroup
}

func NewQueue() *Queue {
	return &Queue{pending: make(map[int64][]func())}
}

// Submit enqueues job behind any earlier job for the same key.
func (q *Queue) Submit(key int64, job func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	jobs, running := q.pending[key]
	q.pending[key] = append(jobs, job)
	if !running {
		q.wg.Add(1)
		go q.run(key)
	}
}

func (q *Queue) run(key int64) {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		jobs := q.pending[key]
		if len(jobs) == 0 {
			delete(q.pending, key)
			q.mu.Unlock()
			return
		}
		job := jobs[0]
		q.pending[key] = jobs[1:]
		q.mu.Unlock()

		job()
	}
}

// Active counts keys with a running worker.
func (q *Queue) Active() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Wait blocks until every submitted job has finished.
func (q *Queue) Wait() {
	q.wg.Wait()
}
