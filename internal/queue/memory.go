package queue

import "sync"

// MemoryPublisher is an in-process JobPublisher that collects jobs in a
// slice. Used by tests and storage-free development runs.
type MemoryPublisher struct {
	mu   sync.Mutex
	jobs []*DispatchJob
}

// NewMemoryPublisher creates an empty in-memory publisher
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

// PublishJob appends the job to the in-memory buffer
func (p *MemoryPublisher) PublishJob(job *DispatchJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	copied := *job
	p.jobs = append(p.jobs, &copied)
	return nil
}

// Jobs returns a snapshot of everything published so far
func (p *MemoryPublisher) Jobs() []*DispatchJob {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := make([]*DispatchJob, len(p.jobs))
	copy(snapshot, p.jobs)
	return snapshot
}
