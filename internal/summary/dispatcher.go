package summary

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"ontoai/internal/ai"
)

var ErrBusy = errors.New("a generation is already running")

type Result struct {
	Text string
	Err  error
}

// Job is a running generation. Done receives exactly one Result.
type Job struct {
	ID       string
	Provider string
	Started  time.Time
	Done     <-chan Result
}

// Dispatcher runs at most one generation at a time in the background.
type Dispatcher struct {
	mu   sync.Mutex
	busy bool
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy
}

// Start sends prompt to p on a new goroutine. It fails with ErrBusy while an
// earlier job has not delivered its result.
func (d *Dispatcher) Start(ctx context.Context, p ai.Provider, prompt string) (*Job, error) {
	d.mu.Lock()
	if d.busy {
		d.mu.Unlock()
		return nil, ErrBusy
	}
	d.busy = true
	d.mu.Unlock()

	done := make(chan Result, 1)
	job := &Job{ID: uuid.NewString(), Provider: p.Name(), Started: time.Now(), Done: done}

	go func() {
		log.Printf("summary: job %s started on %s (%s)", job.ID, p.Name(), p.Model())
		text, err := p.Generate(ctx, prompt)
		if err != nil {
			log.Printf("summary: job %s failed after %s: %v", job.ID, time.Since(job.Started).Round(time.Millisecond), err)
		} else {
			log.Printf("summary: job %s finished in %s", job.ID, time.Since(job.Started).Round(time.Millisecond))
		}

		d.mu.Lock()
		d.busy = false
		d.mu.Unlock()
		done <- Result{Text: text, Err: err}
	}()
	return job, nil
}

// Wait blocks until the job delivers its result.
func (j *Job) Wait() (string, error) {
	r := <-j.Done
	return r.Text, r.Err
}
