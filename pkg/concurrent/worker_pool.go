package concurrent

import (
	"sync"
)

type WorkerPool[T JobI, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan G
	wg         sync.WaitGroup
}

// NewWorkerPool. results is buffered with jobQueueSize, so a pool must not receive more jobs than
// jobQueueSize unless results are collected concurrently.
func NewWorkerPool[T JobI, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan T, jobQueueSize),
		results:    make(chan G, jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		res := jobFunc(job)
		wp.results <- res
	}
}

func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	for i := 1; i <= wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

// Close no more jobs.
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

// Wait until every worker is done, then close the results channel.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}
