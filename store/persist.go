package store

import (
	"log"
	"sync"
)

type jobKind int

const (
	jobSave jobKind = iota
	jobClear
	jobBarrier
	jobStop
)

type job struct {
	kind jobKind
	done chan struct{}
}

// jobQueue is an unbounded FIFO so that enqueueing never blocks a mutation.
type jobQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	jobs   []job
	closed bool
}

func newJobQueue() *jobQueue {
	q := &jobQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *jobQueue) push(j job) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	// Saves always write the current state, so back-to-back saves collapse.
	if j.kind == jobSave && len(q.jobs) > 0 && q.jobs[len(q.jobs)-1].kind == jobSave {
		return true
	}
	if j.kind == jobStop {
		q.closed = true
	}
	q.jobs = append(q.jobs, j)
	q.cond.Signal()
	return true
}

func (q *jobQueue) pop() job {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.jobs) == 0 {
		q.cond.Wait()
	}
	j := q.jobs[0]
	q.jobs = q.jobs[1:]
	return j
}

// enqueue must be called with s.mu held so jobs follow mutation order.
func (s *Store) enqueue(kind jobKind) {
	if s.queue == nil {
		return
	}
	s.queue.push(job{kind: kind})
}

func (s *Store) runPersistence() {
	for {
		j := s.queue.pop()
		switch j.kind {
		case jobSave:
			snapshot := s.ExportCorpus()
			if err := s.persister.Save(snapshot); err != nil {
				log.Printf("❌ Errore nel salvataggio dello store: %v", err)
			}
		case jobClear:
			if err := s.persister.Clear(); err != nil {
				log.Printf("❌ Errore nella cancellazione dello storage: %v", err)
			}
		case jobBarrier:
			close(j.done)
		case jobStop:
			close(j.done)
			return
		}
	}
}

// Sync blocks until every write queued so far has been attempted.
func (s *Store) Sync() {
	if s.queue == nil {
		return
	}
	done := make(chan struct{})
	if s.queue.push(job{kind: jobBarrier, done: done}) {
		<-done
	}
}

// Close drains pending writes, stops the worker and closes the persister.
func (s *Store) Close() error {
	if s.queue == nil {
		return nil
	}
	done := make(chan struct{})
	if !s.queue.push(job{kind: jobStop, done: done}) {
		return nil
	}
	<-done
	return s.persister.Close()
}
