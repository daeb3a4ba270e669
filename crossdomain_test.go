// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duoq_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/duoq"
	"code.hybscloud.com/duoq/loop"
	"code.hybscloud.com/duoq/pool"
)

// =============================================================================
// Thread to Task
// =============================================================================

// TestThreadPutWakesSuspendedGet suspends a task on an empty queue and puts
// from a goroutine.
func TestThreadPutWakesSuspendedGet(t *testing.T) {
	l := newLoop(t)
	m := &countingMetrics{}
	q := duoq.Build[string](duoq.New(0).Metrics(m))
	sq := q.Suspending()

	go func() {
		time.Sleep(20 * time.Millisecond)
		if err := q.Blocking().Put("hello"); err != nil {
			t.Errorf("Put: %v", err)
		}
	}()

	var got string
	runTask(t, l, func(tk *loop.Task) error {
		v, err := sq.Get(tk)
		got = v
		return err
	})
	if got != "hello" {
		t.Fatalf("Get: got %q, want %q", got, "hello")
	}
	if m.puts[duoq.Thread].Load() != 1 || m.gets[duoq.Task].Load() != 1 {
		t.Fatalf("metrics: thread puts %d, task gets %d, want 1 and 1",
			m.puts[duoq.Thread].Load(), m.gets[duoq.Task].Load())
	}
}

func TestThreadGetWakesSuspendedPut(t *testing.T) {
	l := newLoop(t)
	q := duoq.NewQueue[int](1)
	sq := q.Suspending()

	got := make(chan int, 2)
	go func() {
		time.Sleep(20 * time.Millisecond)
		for range 2 {
			v, err := q.Blocking().Get()
			if err != nil {
				t.Errorf("Get: %v", err)
				return
			}
			got <- v
		}
	}()

	runTask(t, l, func(tk *loop.Task) error {
		if err := sq.Put(tk, 1); err != nil {
			return err
		}
		return sq.Put(tk, 2)
	})
	if v := recv(t, got, "Get"); v != 1 {
		t.Fatalf("first Get: got %d, want 1", v)
	}
	if v := recv(t, got, "Get"); v != 2 {
		t.Fatalf("second Get: got %d, want 2", v)
	}
}

// =============================================================================
// Task to Thread
// =============================================================================

func TestTaskPutWakesBlockedGet(t *testing.T) {
	l := newLoop(t)
	m := &countingMetrics{}
	q := duoq.Build[int](duoq.New(0).Metrics(m))
	bq := q.Blocking()

	var received loop.Event
	var got int
	go func() {
		v, err := bq.Get()
		if err != nil {
			t.Errorf("Get: %v", err)
		}
		got = v
		received.Set()
	}()

	runTask(t, l, func(tk *loop.Task) error {
		if err := loop.Sleep(tk, 20*time.Millisecond); err != nil {
			return err
		}
		if err := q.Suspending().Put(tk, 99); err != nil {
			return err
		}
		return received.Wait(tk)
	})
	if got != 99 {
		t.Fatalf("Get: got %d, want 99", got)
	}
}

func TestTaskGetWakesBlockedPut(t *testing.T) {
	l := newLoop(t)
	q := duoq.NewQueue[int](1)
	bq := q.Blocking()
	bq.PutNowait(1)

	var stored loop.Event
	go func() {
		if err := bq.Put(2); err != nil {
			t.Errorf("Put: %v", err)
		}
		stored.Set()
	}()

	runTask(t, l, func(tk *loop.Task) error {
		if err := loop.Sleep(tk, 20*time.Millisecond); err != nil {
			return err
		}
		if v, err := q.Suspending().GetNowait(tk); err != nil || v != 1 {
			t.Errorf("GetNowait: got (%d, %v), want (1, nil)", v, err)
		}
		if err := stored.Wait(tk); err != nil {
			return err
		}
		v, err := q.Suspending().Get(tk)
		if err != nil || v != 2 {
			t.Errorf("Get: got (%d, %v), want (2, nil)", v, err)
		}
		return nil
	})
}

// TestTaskPutNowaitWakesBlockedGet blocks a goroutine on an empty queue
// and fills it from a task without suspending.
func TestTaskPutNowaitWakesBlockedGet(t *testing.T) {
	l := newLoop(t)
	q := duoq.NewQueue[int](1)

	got := make(chan int, 1)
	go func() {
		v, err := q.Blocking().Get()
		if err != nil {
			t.Errorf("Get: %v", err)
		}
		got <- v
	}()

	runTask(t, l, func(tk *loop.Task) error {
		if err := loop.Sleep(tk, 20*time.Millisecond); err != nil {
			return err
		}
		return q.Suspending().PutNowait(tk, 5)
	})

	if v := recv(t, got, "Get"); v != 5 {
		t.Fatalf("Get: got %d, want 5", v)
	}
}

func TestTaskDoneReleasesThreadJoin(t *testing.T) {
	l := newLoop(t)
	q := duoq.NewQueue[int](0)
	q.Blocking().Put(1)

	var joined loop.Event
	go func() {
		if err := q.Blocking().Join(); err != nil {
			t.Errorf("Join: %v", err)
		}
		joined.Set()
	}()

	runTask(t, l, func(tk *loop.Task) error {
		if _, err := q.Suspending().Get(tk); err != nil {
			return err
		}
		if err := q.Suspending().TaskDone(); err != nil {
			return err
		}
		return joined.Wait(tk)
	})
}

func TestThreadTaskDoneReleasesTaskJoin(t *testing.T) {
	l := newLoop(t)
	q := duoq.NewQueue[int](0)
	q.Blocking().Put(1)

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Blocking().Get()
		q.Blocking().TaskDone()
	}()

	runTask(t, l, func(tk *loop.Task) error {
		return q.Suspending().Join(tk)
	})
	if q.UnfinishedTasks() != 0 {
		t.Fatalf("UnfinishedTasks: got %d, want 0", q.UnfinishedTasks())
	}
}

// =============================================================================
// Mixed Traffic
// =============================================================================

// TestMixedProducersConsumers moves items through a small queue with
// goroutines and tasks on both ends and checks that each item arrives once.
func TestMixedProducersConsumers(t *testing.T) {
	const (
		perSide = 200
		maxsize = 3
	)
	l := newLoop(t)
	q := duoq.NewQueue[int](maxsize)
	bq, sq := q.Blocking(), q.Suspending()

	var mu sync.Mutex
	seen := make(map[int]int)
	record := func(v int) {
		mu.Lock()
		seen[v]++
		mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range perSide {
			if err := bq.Put(i); err != nil {
				t.Errorf("thread Put: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for range perSide {
			v, err := bq.Get()
			if err != nil {
				t.Errorf("thread Get: %v", err)
				return
			}
			record(v)
		}
	}()

	runTask(t, l, func(tk *loop.Task) error {
		producer := l.Go(func(tk *loop.Task) error {
			for i := range perSide {
				if err := sq.Put(tk, perSide+i); err != nil {
					return err
				}
			}
			return nil
		})
		consumer := l.Go(func(tk *loop.Task) error {
			for range perSide {
				v, err := sq.Get(tk)
				if err != nil {
					return err
				}
				record(v)
			}
			return nil
		})
		if err := loop.WaitAll(tk, producer.Future, consumer.Future); err != nil {
			return err
		}
		if producer.Err() != nil || consumer.Err() != nil {
			t.Errorf("tasks: producer %v, consumer %v", producer.Err(), consumer.Err())
		}
		return nil
	})
	wg.Wait()

	if len(seen) != 2*perSide {
		t.Fatalf("distinct items: got %d, want %d", len(seen), 2*perSide)
	}
	for v, n := range seen {
		if n != 1 {
			t.Fatalf("item %d received %d times", v, n)
		}
	}
}

// =============================================================================
// Dropped Notifications and Shutdown
// =============================================================================

// TestNotifyDroppedWhenExecutorClosed has a task wake a blocked thread
// getter through an executor that has already shut down.
func TestNotifyDroppedWhenExecutorClosed(t *testing.T) {
	m := &countingMetrics{}
	lg := &recordingLogger{}
	q := duoq.Build[int](duoq.New(0).Metrics(m).Logger(lg))

	p := pool.New(1, 2)
	p.Close()
	l := loop.New(loop.WithExecutor(p))
	t.Cleanup(func() { l.Close() })

	got := make(chan error, 1)
	go func() {
		_, err := q.Blocking().Get()
		got <- err
	}()

	runTask(t, l, func(tk *loop.Task) error {
		if err := loop.Sleep(tk, 20*time.Millisecond); err != nil {
			return err
		}
		return q.Suspending().PutNowait(tk, 1)
	})

	if n := m.drops[duoq.Task][duoq.Thread].Load(); n != 1 {
		t.Fatalf("dropped notifications: got %d, want 1", n)
	}
	if lg.count() == 0 {
		t.Fatal("logger: no line for the dropped notification")
	}
	if q.Qsize() != 1 {
		t.Fatalf("Qsize: got %d, want 1", q.Qsize())
	}

	q.Close()
	if err := recv(t, got, "Get"); !errors.Is(err, duoq.ErrClosed) {
		t.Fatalf("Get after Close: got %v, want ErrClosed", err)
	}
}

// TestLoopCloseEndsSuspendedGet closes a loop while a task is suspended in
// Get and checks that the task body returns.
func TestLoopCloseEndsSuspendedGet(t *testing.T) {
	q := duoq.NewQueue[int](0)

	l := loop.New()
	task := l.Go(func(tk *loop.Task) error {
		_, err := q.Suspending().Get(tk)
		return err
	})
	runTask(t, l, loop.Yield)
	if task.IsDone() {
		t.Fatal("task finished before Close")
	}
	if err := l.Close(); err != nil {
		t.Fatalf("loop Close: %v", err)
	}

	if !task.IsDone() {
		t.Fatal("task still suspended after Close")
	}
	if err := task.Err(); !errors.Is(err, loop.ErrCancelled) {
		t.Fatalf("Get: got %v, want ErrCancelled", err)
	}

	// The getter count was unwound, so a put has nobody to notify.
	if err := q.Blocking().PutNowait(1); err != nil {
		t.Fatalf("PutNowait: %v", err)
	}
	if q.Qsize() != 1 {
		t.Fatalf("Qsize: got %d, want 1", q.Qsize())
	}
}

// TestCloseWaitAfterCrossTraffic closes a queue with cross-domain wakeups
// possibly in flight and checks that it reaches the closed state.
func TestCloseWaitAfterCrossTraffic(t *testing.T) {
	l := newLoop(t)
	q := duoq.NewQueue[int](2)
	bq, sq := q.Blocking(), q.Suspending()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if err := bq.PutTimeout(i, 5*time.Millisecond); errors.Is(err, duoq.ErrClosed) {
				return
			}
		}
	}()

	runTask(t, l, func(tk *loop.Task) error {
		for range 50 {
			if _, err := sq.Get(tk); err != nil {
				return err
			}
		}
		if err := q.CloseWait(tk); err != nil {
			return err
		}
		if !q.Closed() {
			t.Errorf("Closed: got false after CloseWait")
		}
		return nil
	})
	close(stop)
	wg.Wait()
}
