package worker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"cobide/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRunsTasksInOrder(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	var mu sync.Mutex
	var got []int
	for i := 0; i < 20; i++ {
		i := i
		require.NoError(t, q.Submit(func(ctx context.Context) {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}
	q.Wait()

	mu.Lock()
	defer mu.Unlock()
	want := make([]int, 20)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, got)
}

func TestQueueNeverOverlaps(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	var mu sync.Mutex
	active, maxActive := 0, 0
	var log []string

	task := func(name string) Task {
		return func(ctx context.Context) {
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			for i := 0; i < 5; i++ {
				mu.Lock()
				log = append(log, fmt.Sprintf("%s-%d", name, i))
				mu.Unlock()
				time.Sleep(time.Millisecond)
			}

			mu.Lock()
			active--
			mu.Unlock()
		}
	}

	require.NoError(t, q.Submit(task("first")))
	require.NoError(t, q.Submit(task("second")))
	q.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, maxActive)
	assert.Equal(t, []string{
		"first-0", "first-1", "first-2", "first-3", "first-4",
		"second-0", "second-1", "second-2", "second-3", "second-4",
	}, log)
}

func TestQueueBusyFlag(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	assert.False(t, q.Busy())

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, q.Submit(func(ctx context.Context) {
		close(started)
		<-release
	}))
	<-started
	assert.True(t, q.Busy())

	// A second submission waits for the slot
	ran := make(chan struct{})
	require.NoError(t, q.Submit(func(ctx context.Context) { close(ran) }))
	assert.Equal(t, 1, q.Pending())
	select {
	case <-ran:
		t.Fatal("second task ran while the first was active")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-ran
	q.Wait()
	assert.False(t, q.Busy())
	assert.Equal(t, 0, q.Pending())
}

func TestQueueSurvivesPanics(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	require.NoError(t, q.Submit(func(ctx context.Context) { panic("boom") }))
	ran := make(chan struct{})
	require.NoError(t, q.Submit(func(ctx context.Context) { close(ran) }))

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("queue stopped after a panicking task")
	}
}

func TestQueueClose(t *testing.T) {
	q := NewQueue()

	started := make(chan struct{})
	cancelled := make(chan struct{})
	require.NoError(t, q.Submit(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(cancelled)
	}))
	dropped := false
	require.NoError(t, q.Submit(func(ctx context.Context) { dropped = true }))

	<-started
	q.Close()

	<-cancelled
	assert.False(t, dropped, "pending tasks are dropped on close")

	err := q.Submit(func(ctx context.Context) {})
	assert.True(t, errors.Is(err, errors.ErrQueueClosed))

	// Closing twice is harmless
	q.Close()
}
