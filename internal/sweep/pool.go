// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package sweep

// Pool limits how many tasks scattered through it run at once.
type Pool struct {
	job      *Job
	limit    int
	inFlight int
}

// NewPool creates a pool bound to job. A negative limit means unlimited; a
// zero limit would never admit a task and panics.
func NewPool(job *Job, limit int) *Pool {
	if job == nil {
		panic("pool requires a job")
	}
	if limit == 0 {
		panic("limit must be non-zero")
	}
	return &Pool{job: job, limit: limit}
}

// Limit returns the pool's concurrency limit.
func (p *Pool) Limit() int {
	return p.limit
}

// InFlight returns the number of the pool's tasks launched but not yet
// gathered.
func (p *Pool) InFlight() int {
	return p.inFlight
}

func (p *Pool) full() bool {
	return p.limit > 0 && p.inFlight >= p.limit
}
