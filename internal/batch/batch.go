// Package batch runs one job per book on a bounded worker pool. Every book
// is classified and processed on its own; a failure is recorded in that
// book's Result and never stops the others.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samcharles93/mobisniff/pkg/mobi"
)

// Outcome is the fate of one book in a batch.
type Outcome uint8

const (
	Success Outcome = iota
	NoFormat
	Encrypted
	NotApplicable
	Unknown
	Exists
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case NoFormat:
		return "no_format"
	case Encrypted:
		return "encrypted"
	case NotApplicable:
		return "not_applicable"
	case Unknown:
		return "unknown"
	case Exists:
		return "exists"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	for v := Success; v <= Exists; v++ {
		if v.String() == string(b) {
			*o = v
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

// Result is the record kept for one book.
type Result struct {
	Path    string               `json:"path"`
	Title   string               `json:"title,omitempty"`
	Outcome Outcome              `json:"outcome"`
	Output  string               `json:"output,omitempty"`
	Message string               `json:"message,omitempty"`
	Class   *mobi.Classification `json:"classification,omitempty"`
}

// DisplayName is the title when known, else the path.
func (r Result) DisplayName() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Path
}

// Job processes one book. It must not panic on bad input; failures belong in
// the returned Result.
type Job func(ctx context.Context, path string) Result

// Batch is a finished run.
type Batch struct {
	ID       string       `json:"id"`
	Target   *mobi.Target `json:"target,omitempty"`
	Started  time.Time    `json:"started"`
	Finished time.Time    `json:"finished"`
	Results  []Result     `json:"results"`
}

// Run processes paths with at most workers concurrent jobs (GOMAXPROCS when
// workers <= 0). Results keep the order of paths. Books not started before
// ctx is cancelled are reported as Unknown with the context error.
func Run(ctx context.Context, paths []string, workers int, job Job) []Result {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	results := make([]Result, len(paths))
	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				results[i] = job(ctx, paths[i])
			}
		}()
	}

	sent := 0
feed:
	for ; sent < len(paths); sent++ {
		select {
		case <-ctx.Done():
			break feed
		case next <- sent:
		}
	}
	close(next)
	wg.Wait()

	for i := sent; i < len(paths); i++ {
		results[i] = Result{Path: paths[i], Outcome: Unknown, Message: ctx.Err().Error()}
	}
	return results
}

// New runs a batch and stamps it with a fresh id.
func New(ctx context.Context, target *mobi.Target, paths []string, workers int, job Job) *Batch {
	b := &Batch{
		ID:      uuid.NewString(),
		Target:  target,
		Started: time.Now().UTC(),
	}
	b.Results = Run(ctx, paths, workers, job)
	b.Finished = time.Now().UTC()
	return b
}

// Count returns how many results have outcome o.
func (b *Batch) Count(o Outcome) int {
	n := 0
	for _, r := range b.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

// Filter returns the results with outcome o, in order.
func (b *Batch) Filter(o Outcome) []Result {
	var out []Result
	for _, r := range b.Results {
		if r.Outcome == o {
			out = append(out, r)
		}
	}
	return out
}
