package progress

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerCountsItems(t *testing.T) {
	tracker := NewTracker(4)
	tracker.ItemDone(0, "a.png", true)
	tracker.ItemDone(1, "b.png", false)
	tracker.ItemDone(1, "c.png", true)

	stats := tracker.GetStats()
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Completed)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 2, stats.WorkerCount)
	assert.Equal(t, map[int]int{0: 1, 1: 2}, stats.PerWorker)
	assert.InDelta(t, 75.0, stats.Percentage, 0.001)
}

func TestTrackerNotifiesObserver(t *testing.T) {
	tracker := NewTracker(2)
	var events []Event
	tracker.SetObserver(ObserverFunc(func(e Event) { events = append(events, e) }))

	tracker.ItemDone(3, "first.jpg", true)
	tracker.ItemDone(2, "second.jpg", false)

	require.Len(t, events, 2)
	assert.Equal(t, Event{WorkerID: 3, Item: "first.jpg", OK: true, Completed: 1, Failed: 0, Total: 2}, events[0])
	assert.Equal(t, Event{WorkerID: 2, Item: "second.jpg", OK: false, Completed: 2, Failed: 1, Total: 2}, events[1])
}

func TestTrackerConcurrentItems(t *testing.T) {
	tracker := NewTracker(400)
	var calls int
	tracker.SetObserver(ObserverFunc(func(Event) { calls++ }))

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				tracker.ItemDone(w, fmt.Sprintf("%d-%d", w, i), i%10 != 0)
			}
		}()
	}
	wg.Wait()

	stats := tracker.GetStats()
	assert.Equal(t, 400, stats.Completed)
	assert.Equal(t, 40, stats.Failed)
	assert.Equal(t, 400, calls)
	assert.Equal(t, 8, stats.WorkerCount)
}

func TestTrackerUpdateWorker(t *testing.T) {
	tracker := NewTracker(1)
	tracker.UpdateWorker(0, "chunk-0", false)
	assert.Equal(t, "chunk-0", tracker.workers[0].CurrentJob)

	tracker.UpdateWorker(0, "chunk-0", true)
	assert.Equal(t, "", tracker.workers[0].CurrentJob)
	assert.Equal(t, 1, tracker.workers[0].JobsCompleted)
}

func TestTrackerSetTotal(t *testing.T) {
	tracker := NewTracker(0)
	assert.Zero(t, tracker.GetStats().Percentage)

	tracker.SetTotal(2)
	tracker.ItemDone(0, "x", true)
	assert.InDelta(t, 50.0, tracker.GetStats().Percentage, 0.001)
}

func TestTrackerFinishFreezesElapsed(t *testing.T) {
	tracker := NewTracker(1)
	tracker.Finish()
	first := tracker.GetStats().Elapsed
	tracker.Finish()
	assert.Equal(t, first, tracker.GetStats().Elapsed)
}

func TestWriteSummary(t *testing.T) {
	tracker := NewTracker(3)
	tracker.ItemDone(1, "a", true)
	tracker.ItemDone(0, "b", true)
	tracker.ItemDone(1, "c", false)
	tracker.Finish()

	var buf bytes.Buffer
	tracker.WriteSummary(&buf)
	out := buf.String()

	assert.Contains(t, out, "Processed 3 items (1 failed)")
	assert.Contains(t, out, "Worker Statistics:")
	assert.Contains(t, out, "  Worker 0: 1 items")
	assert.Contains(t, out, "  Worker 1: 2 items")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Worker 0")), bytes.Index(buf.Bytes(), []byte("Worker 1")))
}
