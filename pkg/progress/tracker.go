package progress

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Event is emitted once per finished item.
type Event struct {
	WorkerID  int
	Item      string
	OK        bool
	Completed int
	Failed    int
	Total     int
}

// Observer receives item events. Calls are serialised by the tracker, so an
// implementation does not need its own locking.
type Observer interface {
	ItemDone(Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) ItemDone(e Event) { f(e) }

// WorkerProgress tracks progress for individual workers
type WorkerProgress struct {
	WorkerID      int
	JobsCompleted int
	ItemsDone     int
	CurrentJob    string
	LastUpdate    time.Time
}

// Tracker counts finished items across the workers of one batch.
type Tracker struct {
	mu        sync.Mutex
	workers   map[int]*WorkerProgress
	total     int
	completed int
	failed    int
	startTime time.Time
	endTime   time.Time
	observer  Observer
}

// NewTracker creates a tracker for totalItems items.
func NewTracker(totalItems int) *Tracker {
	return &Tracker{
		workers:   make(map[int]*WorkerProgress),
		total:     totalItems,
		startTime: time.Now(),
	}
}

// SetObserver registers the observer notified after each item.
func (t *Tracker) SetObserver(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observer = o
}

// SetTotal changes the number of expected items.
func (t *Tracker) SetTotal(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total = total
}

func (t *Tracker) worker(id int) *WorkerProgress {
	w := t.workers[id]
	if w == nil {
		w = &WorkerProgress{WorkerID: id}
		t.workers[id] = w
	}
	return w
}

// UpdateWorker records that workerID started (completed=false) or finished
// (completed=true) the job described by job.
func (t *Tracker) UpdateWorker(workerID int, job string, completed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w := t.worker(workerID)
	w.LastUpdate = time.Now()
	if completed {
		w.JobsCompleted++
		w.CurrentJob = ""
		return
	}
	w.CurrentJob = job
}

// ItemDone records one finished item and notifies the observer.
func (t *Tracker) ItemDone(workerID int, item string, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w := t.worker(workerID)
	w.ItemsDone++
	w.LastUpdate = time.Now()

	t.completed++
	if !ok {
		t.failed++
	}

	if t.observer != nil {
		t.observer.ItemDone(Event{
			WorkerID:  workerID,
			Item:      item,
			OK:        ok,
			Completed: t.completed,
			Failed:    t.failed,
			Total:     t.total,
		})
	}
}

// Finish stops the clock.
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.endTime.IsZero() {
		t.endTime = time.Now()
	}
}

// GetStats returns current progress statistics
func (t *Tracker) GetStats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	end := t.endTime
	if end.IsZero() {
		end = time.Now()
	}
	elapsed := end.Sub(t.startTime)

	rate := 0.0
	if elapsed.Seconds() > 0 {
		rate = float64(t.completed) / elapsed.Seconds()
	}
	percentage := 0.0
	if t.total > 0 {
		percentage = float64(t.completed) / float64(t.total) * 100
	}

	perWorker := make(map[int]int, len(t.workers))
	for id, w := range t.workers {
		perWorker[id] = w.ItemsDone
	}

	return Stats{
		Total:       t.total,
		Completed:   t.completed,
		Failed:      t.failed,
		WorkerCount: len(t.workers),
		PerWorker:   perWorker,
		Elapsed:     elapsed,
		Rate:        rate,
		Percentage:  percentage,
	}
}

// WriteSummary prints the final per-worker statistics.
func (t *Tracker) WriteSummary(w io.Writer) {
	stats := t.GetStats()

	fmt.Fprintf(w, "Processed %d items (%d failed) in %v\n",
		stats.Completed, stats.Failed, stats.Elapsed.Round(time.Millisecond))

	ids := make([]int, 0, len(stats.PerWorker))
	for id := range stats.PerWorker {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fmt.Fprintf(w, "Worker Statistics:\n")
	for _, id := range ids {
		rate := 0.0
		if stats.Elapsed.Seconds() > 0 {
			rate = float64(stats.PerWorker[id]) / stats.Elapsed.Seconds()
		}
		fmt.Fprintf(w, "  Worker %d: %d items (%.1f items/sec)\n", id, stats.PerWorker[id], rate)
	}
}

// Stats contains progress statistics
type Stats struct {
	Total       int
	Completed   int
	Failed      int
	WorkerCount int
	PerWorker   map[int]int
	Elapsed     time.Duration
	Rate        float64 // Items per second
	Percentage  float64
}
