// Package worker provides a fixed-size pool for background jobs such as
// best-effort object storage cleanup. Jobs are named so failures can be
// attributed in the logs.
package worker

import (
	"log"
	"sync"
)

// queueFactor sizes the job queue relative to the worker count.
const queueFactor = 16

// Job is a unit of background work.
type Job struct {
	Name string
	Run  func()
}

// Pool runs submitted jobs on a fixed number of goroutines.
type Pool struct {
	size     int
	jobs     chan Job
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewPool creates a pool with the given number of workers. Sizes below
// one are clamped to one.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		size: size,
		jobs: make(chan Job, size*queueFactor),
	}
}

// Start launches the worker goroutines. It must be called before Submit.
func (p *Pool) Start() {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.run(job)
			}
		}()
	}
}

func (p *Pool) run(job Job) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("worker: job %q panicked: %v", job.Name, r)
		}
	}()
	job.Run()
}

// Submit enqueues a job. It blocks when the queue is full and panics if
// called after Stop.
func (p *Pool) Submit(name string, fn func()) {
	p.jobs <- Job{Name: name, Run: fn}
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}
