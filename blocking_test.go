// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duoq_test

import (
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/duoq"
	"code.hybscloud.com/duoq/internal/atomics"
)

// =============================================================================
// Blocking Side - Non-blocking and Timed Operations
// =============================================================================

func TestBlockingNowait(t *testing.T) {
	q := duoq.NewQueue[int](1)
	bq := q.Blocking()

	if _, err := bq.GetNowait(); !errors.Is(err, duoq.ErrEmpty) {
		t.Fatalf("GetNowait on empty: got %v, want ErrEmpty", err)
	}
	if err := bq.PutNowait(1); err != nil {
		t.Fatalf("PutNowait: %v", err)
	}
	err := bq.PutNowait(2)
	if !errors.Is(err, duoq.ErrFull) {
		t.Fatalf("PutNowait on full: got %v, want ErrFull", err)
	}
	if !errors.Is(err, duoq.ErrWouldBlock) {
		t.Fatalf("ErrFull: does not wrap ErrWouldBlock")
	}
	// block=false ignores the timeout argument
	if err := bq.PutWait(3, false, -time.Second); !errors.Is(err, duoq.ErrFull) {
		t.Fatalf("PutWait(block=false) on full: got %v, want ErrFull", err)
	}
}

// TestPutTimeoutFull fills a queue of two and times out a third put.
func TestPutTimeoutFull(t *testing.T) {
	q := duoq.NewQueue[string](2)
	bq := q.Blocking()
	if err := bq.Put("A"); err != nil {
		t.Fatalf("Put(A): %v", err)
	}
	if err := bq.Put("B"); err != nil {
		t.Fatalf("Put(B): %v", err)
	}

	start := time.Now()
	err := bq.PutTimeout("C", 100*time.Millisecond)
	elapsed := time.Since(start)
	if !errors.Is(err, duoq.ErrFull) {
		t.Fatalf("PutTimeout(C): got %v, want ErrFull", err)
	}
	if elapsed < 90*time.Millisecond || elapsed > 2*time.Second {
		t.Fatalf("PutTimeout(C): returned after %v, want about 100ms", elapsed)
	}
	if got := drain(t, q); !slices.Equal(got, []string{"A", "B"}) {
		t.Fatalf("buffer: got %v, want [A B]", got)
	}
}

func TestGetTimeoutEmpty(t *testing.T) {
	q := duoq.NewQueue[int](0)
	start := time.Now()
	_, err := q.Blocking().GetTimeout(50 * time.Millisecond)
	if !errors.Is(err, duoq.ErrEmpty) {
		t.Fatalf("GetTimeout: got %v, want ErrEmpty", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("GetTimeout: returned after %v, want about 50ms", elapsed)
	}
}

func TestZeroTimeout(t *testing.T) {
	q := duoq.NewQueue[int](1)
	bq := q.Blocking()
	if _, err := bq.GetTimeout(0); !errors.Is(err, duoq.ErrEmpty) {
		t.Fatalf("GetTimeout(0) on empty: got %v, want ErrEmpty", err)
	}
	bq.PutNowait(1)
	if err := bq.PutTimeout(2, 0); !errors.Is(err, duoq.ErrFull) {
		t.Fatalf("PutTimeout(0) on full: got %v, want ErrFull", err)
	}
}

func TestInvalidTimeout(t *testing.T) {
	q := duoq.NewQueue[int](1)
	bq := q.Blocking()
	if err := bq.PutTimeout(1, -time.Millisecond); !errors.Is(err, duoq.ErrInvalidTimeout) {
		t.Fatalf("PutTimeout(-1ms): got %v, want ErrInvalidTimeout", err)
	}
	if _, err := bq.GetTimeout(-time.Millisecond); !errors.Is(err, duoq.ErrInvalidTimeout) {
		t.Fatalf("GetTimeout(-1ms): got %v, want ErrInvalidTimeout", err)
	}
	if bq.Qsize() != 0 {
		t.Fatalf("Qsize: got %d, want 0", bq.Qsize())
	}
}

// TestTimeoutSurvivesUnsatisfyingWakeup wakes a timed put whose slot is
// taken again before it can run. The put must keep waiting until its own
// deadline instead of succeeding or restarting the full timeout.
func TestTimeoutSurvivesUnsatisfyingWakeup(t *testing.T) {
	q := duoq.NewQueue[int](1)
	bq := q.Blocking()
	bq.PutNowait(0)

	done := make(chan error, 1)
	start := time.Now()
	go func() { done <- bq.PutTimeout(1, 200*time.Millisecond) }()

	time.Sleep(50 * time.Millisecond)
	// Free and refill the slot under one mutex hold each; the waiter may or
	// may not observe the gap.
	for range 5 {
		if _, err := bq.GetNowait(); err == nil {
			bq.PutNowait(0)
		}
		time.Sleep(10 * time.Millisecond)
	}

	err := recv(t, done, "PutTimeout")
	elapsed := time.Since(start)
	if err == nil {
		// The waiter won a gap. The slot must then hold its item.
		if bq.Qsize() != 1 {
			t.Fatalf("Qsize: got %d, want 1", bq.Qsize())
		}
		return
	}
	if !errors.Is(err, duoq.ErrFull) {
		t.Fatalf("PutTimeout: got %v, want ErrFull", err)
	}
	if elapsed < 190*time.Millisecond || elapsed > 2*time.Second {
		t.Fatalf("PutTimeout: returned after %v, want about 200ms", elapsed)
	}
}

// =============================================================================
// Blocking Side - Waits and Wakeups
// =============================================================================

func TestBlockingGetWaitsForPut(t *testing.T) {
	q := duoq.NewQueue[int](0)
	bq := q.Blocking()
	got := make(chan int, 1)
	go func() {
		v, err := bq.Get()
		if err != nil {
			t.Errorf("Get: %v", err)
		}
		got <- v
	}()
	time.Sleep(20 * time.Millisecond)
	if err := bq.Put(42); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if v := recv(t, got, "Get"); v != 42 {
		t.Fatalf("Get: got %d, want 42", v)
	}
}

func TestBlockingPutWaitsForGet(t *testing.T) {
	q := duoq.NewQueue[int](1)
	bq := q.Blocking()
	bq.PutNowait(1)

	done := make(chan error, 1)
	go func() { done <- bq.Put(2) }()
	time.Sleep(20 * time.Millisecond)
	select {
	case err := <-done:
		t.Fatalf("Put on full queue returned early: %v", err)
	default:
	}

	if v, err := bq.Get(); err != nil || v != 1 {
		t.Fatalf("Get: got (%d, %v), want (1, nil)", v, err)
	}
	if err := recv(t, done, "Put"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if v, err := bq.Get(); err != nil || v != 2 {
		t.Fatalf("Get: got (%d, %v), want (2, nil)", v, err)
	}
}

// TestBoundedNeverExceedsMaxsize runs producers and consumers through a
// queue of four and samples the size snapshot after every commit.
func TestBoundedNeverExceedsMaxsize(t *testing.T) {
	const (
		maxsize   = 4
		producers = 4
	)
	perProd := 500
	if atomics.RaceEnabled {
		perProd = 100
	}
	q := duoq.NewQueue[int](maxsize)
	bq := q.Blocking()

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perProd {
				if err := bq.Put(p*perProd + i); err != nil {
					t.Errorf("Put: %v", err)
					return
				}
				if n := bq.Qsize(); n > maxsize {
					t.Errorf("Qsize: got %d, exceeds %d", n, maxsize)
				}
			}
		}()
	}

	seen := make([]bool, producers*perProd)
	var mu sync.Mutex
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range producers * perProd / 2 {
				v, err := bq.Get()
				if err != nil {
					t.Errorf("Get: %v", err)
					return
				}
				mu.Lock()
				if seen[v] {
					t.Errorf("item %d received twice", v)
				}
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	for i, ok := range seen {
		if !ok {
			t.Fatalf("item %d lost", i)
		}
	}
}

// =============================================================================
// Blocking Side - Completion Tracking
// =============================================================================

func TestTaskDoneTooMany(t *testing.T) {
	q := duoq.NewQueue[int](0)
	bq := q.Blocking()
	bq.Put(1)
	bq.Get()
	if err := bq.TaskDone(); err != nil {
		t.Fatalf("TaskDone: %v", err)
	}
	if err := bq.TaskDone(); !errors.Is(err, duoq.ErrTooManyCompletions) {
		t.Fatalf("second TaskDone: got %v, want ErrTooManyCompletions", err)
	}
	if bq.UnfinishedTasks() != 0 {
		t.Fatalf("UnfinishedTasks: got %d, want 0", bq.UnfinishedTasks())
	}
}

func TestJoinWaitsForTaskDone(t *testing.T) {
	q := duoq.NewQueue[int](0)
	bq := q.Blocking()
	if err := bq.Join(); err != nil {
		t.Fatalf("Join on idle queue: %v", err)
	}

	bq.Put(1)
	bq.Put(2)
	done := make(chan error, 1)
	go func() { done <- bq.Join() }()

	for i := range 2 {
		if _, err := bq.Get(); err != nil {
			t.Fatalf("Get: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
		select {
		case err := <-done:
			t.Fatalf("Join returned with %d unfinished: %v", 2-i, err)
		default:
		}
		bq.TaskDone()
	}
	if err := recv(t, done, "Join"); err != nil {
		t.Fatalf("Join: %v", err)
	}
}

// =============================================================================
// Blocking Side - Close
// =============================================================================

func TestCloseReleasesBlockedCalls(t *testing.T) {
	q := duoq.NewQueue[int](1)
	full := duoq.NewQueue[int](1)
	full.Blocking().PutNowait(0)

	joinQ := duoq.NewQueue[int](0)
	joinQ.Blocking().PutNowait(0)

	errs := make(chan error, 3)
	go func() { _, err := q.Blocking().Get(); errs <- err }()
	go func() { errs <- full.Blocking().Put(1) }()
	go func() { errs <- joinQ.Blocking().Join() }()
	time.Sleep(20 * time.Millisecond)

	q.Close()
	full.Close()
	joinQ.Close()
	for range 3 {
		if err := recv(t, errs, "blocked call"); !errors.Is(err, duoq.ErrClosed) {
			t.Fatalf("blocked call after Close: got %v, want ErrClosed", err)
		}
	}
}

func TestOperationsAfterClose(t *testing.T) {
	q := duoq.NewQueue[int](0)
	bq := q.Blocking()
	bq.PutNowait(1)
	q.Close()
	q.Close()

	if err := bq.Put(2); !errors.Is(err, duoq.ErrClosed) {
		t.Fatalf("Put: got %v, want ErrClosed", err)
	}
	if err := bq.PutNowait(2); !errors.Is(err, duoq.ErrClosed) {
		t.Fatalf("PutNowait: got %v, want ErrClosed", err)
	}
	if _, err := bq.Get(); !errors.Is(err, duoq.ErrClosed) {
		t.Fatalf("Get: got %v, want ErrClosed", err)
	}
	if _, err := bq.GetNowait(); !errors.Is(err, duoq.ErrClosed) {
		t.Fatalf("GetNowait: got %v, want ErrClosed", err)
	}
	if err := bq.TaskDone(); !errors.Is(err, duoq.ErrClosed) {
		t.Fatalf("TaskDone: got %v, want ErrClosed", err)
	}
	if err := bq.Join(); !errors.Is(err, duoq.ErrClosed) {
		t.Fatalf("Join: got %v, want ErrClosed", err)
	}
	// Never bound to a loop, nothing in flight.
	if !q.Closed() {
		t.Fatal("Closed: got false after Close")
	}
}
