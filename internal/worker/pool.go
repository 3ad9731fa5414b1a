// Package worker writes output files in parallel. Each job renders into a
// temporary file next to its destination, which is renamed into place only
// when the job succeeds.
package worker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Job produces one output file.
type Job struct {
	Name   string
	Path   string
	Render func(w io.Writer) error
}

// Result holds the outcome of a single job.
type Result struct {
	Name     string
	Path     string
	Status   string // "done", "failed", "skipped"
	Bytes    int64
	Duration time.Duration
	Error    error
}

// Pool manages parallel job execution.
type Pool struct {
	maxWorkers int
}

// NewPool creates a pool running up to maxWorkers jobs at a time.
func NewPool(maxWorkers int) *Pool {
	return &Pool{maxWorkers: maxWorkers}
}

// Run executes all jobs and returns their results in job order. Jobs not
// yet started when ctx is cancelled are skipped.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	if p.maxWorkers <= 1 || len(jobs) <= 1 {
		return p.runSequential(ctx, jobs)
	}
	return p.runParallel(ctx, jobs)
}

func (p *Pool) runSequential(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, 0, len(jobs))
	for _, job := range jobs {
		results = append(results, p.execute(ctx, job))
	}
	return results
}

func (p *Pool) runParallel(ctx context.Context, jobs []Job) []Result {
	sem := make(chan struct{}, p.maxWorkers)
	var wg sync.WaitGroup

	results := make([]Result, len(jobs))

	for i, job := range jobs {
		wg.Add(1)
		sem <- struct{}{} // Acquire worker slot.

		go func(idx int, j Job) {
			defer wg.Done()
			defer func() { <-sem }() // Release worker slot.
			results[idx] = p.execute(ctx, j)
		}(i, job)
	}

	wg.Wait()
	return results
}

func (p *Pool) execute(ctx context.Context, job Job) Result {
	start := time.Now()
	r := Result{Name: job.Name, Path: job.Path}

	if err := ctx.Err(); err != nil {
		r.Status, r.Error = "skipped", err
		return r
	}
	if job.Render == nil {
		r.Status, r.Error = "failed", fmt.Errorf("%s: nothing to render", job.Name)
		return r
	}

	n, err := writeAtomic(job.Path, job.Render)
	r.Duration = time.Since(start)
	if err != nil {
		r.Status, r.Error = "failed", fmt.Errorf("%s: %w", job.Name, err)
		return r
	}
	r.Status, r.Bytes = "done", n
	return r
}

// writeAtomic renders into a temp file in path's directory and renames it
// over path. A failed render leaves any existing file untouched.
func writeAtomic(path string, render func(io.Writer) error) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return 0, fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	cw := &countingWriter{w: tmp}
	if err := render(cw); err != nil {
		tmp.Close()
		return 0, err
	}
	// CreateTemp makes the file owner-only; match a plain os.Create.
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("chmod temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("rename: %w", err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
