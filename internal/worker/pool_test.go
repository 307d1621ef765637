package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockTask struct {
	id       string
	duration time.Duration
	err      error
}

func (t *mockTask) ID() string { return t.id }
func (t *mockTask) Execute(ctx context.Context) error {
	select {
	case <-time.After(t.duration):
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestPool_BasicExecution(t *testing.T) {
	pool := NewPool(Config{Workers: 2, QueueSize: 10})
	pool.Start()
	defer pool.Stop()

	for i := 0; i < 5; i++ {
		task := &mockTask{
			id:       fmt.Sprintf("task-%d", i),
			duration: 10 * time.Millisecond,
		}
		if err := pool.Submit(context.Background(), task); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	results := 0
	timeout := time.After(time.Second)
	for results < 5 {
		select {
		case r := <-pool.Results():
			if r.Error != nil {
				t.Errorf("unexpected error: %v", r.Error)
			}
			results++
		case <-timeout:
			t.Fatal("timeout waiting for results")
		}
	}

	if stats := pool.Stats(); stats.Processed != 5 {
		t.Errorf("expected 5 processed, got %d", stats.Processed)
	}
}

func TestPool_ErrorHandling(t *testing.T) {
	pool := NewPool(Config{Workers: 2})
	pool.Start()
	defer pool.Stop()

	expectedErr := errors.New("task failed")
	_ = pool.Submit(context.Background(), &mockTask{
		id:       "failing-task",
		duration: 10 * time.Millisecond,
		err:      expectedErr,
	})

	result := <-pool.Results()
	if !errors.Is(result.Error, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, result.Error)
	}

	if stats := pool.Stats(); stats.Errors != 1 {
		t.Errorf("expected 1 error, got %d", stats.Errors)
	}
}

func TestPool_Cancellation(t *testing.T) {
	pool := NewPool(Config{Workers: 2})
	pool.Start()

	_ = pool.Submit(context.Background(), &mockTask{
		id:       "long-task",
		duration: 10 * time.Second,
	})

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() blocked on a running task")
	}
}

func TestPool_SubmitAfterStop(t *testing.T) {
	pool := NewPool(Config{Workers: 1})
	pool.Start()
	pool.StopWait()

	err := pool.Submit(context.Background(), &mockTask{id: "late"})
	if !errors.Is(err, ErrPoolStopped) {
		t.Errorf("expected ErrPoolStopped, got %v", err)
	}

	pool.Stop() // second stop is a no-op
}

func TestPool_ConcurrentSubmit(t *testing.T) {
	pool := NewPool(Config{Workers: 4, QueueSize: 100})
	pool.Start()

	var wg sync.WaitGroup
	var submitted atomic.Int64

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				task := &mockTask{
					id:       fmt.Sprintf("task-%d-%d", n, j),
					duration: time.Millisecond,
				}
				if err := pool.Submit(context.Background(), task); err == nil {
					submitted.Add(1)
				}
			}
		}(i)
	}

	drained := make(chan int)
	go func() {
		n := 0
		for range pool.Results() {
			n++
		}
		drained <- n
	}()

	wg.Wait()
	pool.StopWait()

	if got := <-drained; int64(got) != submitted.Load() {
		t.Errorf("expected %d results, got %d", submitted.Load(), got)
	}
	if stats := pool.Stats(); stats.Processed != 100 {
		t.Errorf("expected 100 processed, got %d", stats.Processed)
	}
}

func TestPool_NotStarted(t *testing.T) {
	pool := NewPool(Config{Workers: 2})

	err := pool.Submit(context.Background(), &mockTask{id: "test"})
	if !errors.Is(err, ErrPoolStopped) {
		t.Errorf("expected ErrPoolStopped when submitting to unstarted pool, got %v", err)
	}
}

func TestPool_DoubleStart(t *testing.T) {
	pool := NewPool(Config{Workers: 2})
	pool.Start()
	pool.Start()
	pool.Stop()
}

func TestPool_DefaultConfig(t *testing.T) {
	pool := NewPool(Config{})

	if pool.workers != runtime.GOMAXPROCS(0) {
		t.Errorf("expected %d workers, got %d", runtime.GOMAXPROCS(0), pool.workers)
	}
}

func TestRun(t *testing.T) {
	var count atomic.Int64
	tasks := make([]Task, 50)
	for i := range tasks {
		tasks[i] = NewFuncTask(fmt.Sprintf("t%d", i), func(context.Context) error {
			count.Add(1)
			return nil
		})
	}

	stats, err := Run(context.Background(), Config{Workers: 3, QueueSize: 4}, tasks)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if count.Load() != 50 {
		t.Errorf("expected 50 executions, got %d", count.Load())
	}
	if stats.Processed != 50 {
		t.Errorf("expected 50 processed, got %d", stats.Processed)
	}
}

func TestRun_JoinsErrors(t *testing.T) {
	errBad := errors.New("bad")
	tasks := []Task{
		NewFuncTask("ok", func(context.Context) error { return nil }),
		NewFuncTask("bad-1", func(context.Context) error { return errBad }),
		NewFuncTask("bad-2", func(context.Context) error { return errBad }),
	}

	stats, err := Run(context.Background(), Config{Workers: 2}, tasks)
	if !errors.Is(err, errBad) {
		t.Fatalf("expected joined errBad, got %v", err)
	}
	if stats.Errors != 2 {
		t.Errorf("expected 2 errors, got %d", stats.Errors)
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var count atomic.Int64
	tasks := []Task{
		NewFuncTask("t", func(context.Context) error {
			count.Add(1)
			return nil
		}),
	}

	_, err := Run(ctx, Config{Workers: 1}, tasks)
	if err == nil {
		t.Fatal("expected an error for a canceled context")
	}
	if count.Load() != 0 {
		t.Errorf("expected no executions, got %d", count.Load())
	}
}

func TestStats_String(t *testing.T) {
	stats := Stats{
		Workers:   4,
		Processed: 100,
		Errors:    5,
		Pending:   10,
	}

	if got := stats.String(); got != "workers=4 processed=100 errors=5 pending=10" {
		t.Errorf("Stats.String() = %q", got)
	}
}

func TestFuncTask(t *testing.T) {
	executed := false
	task := NewFuncTask("func-task", func(ctx context.Context) error {
		executed = true
		return nil
	})

	if task.ID() != "func-task" {
		t.Errorf("unexpected ID: %s", task.ID())
	}
	if err := task.Execute(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !executed {
		t.Error("function was not executed")
	}
}

func TestBatchTask(t *testing.T) {
	var executed []string
	tasks := []Task{
		NewFuncTask("task-1", func(ctx context.Context) error {
			executed = append(executed, "task-1")
			return nil
		}),
		NewFuncTask("task-2", func(ctx context.Context) error {
			executed = append(executed, "task-2")
			return nil
		}),
	}

	batch := NewBatchTask("batch", tasks)
	if batch.ID() != "batch" {
		t.Errorf("unexpected ID: %s", batch.ID())
	}
	if err := batch.Execute(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(executed) != 2 {
		t.Errorf("expected 2 tasks executed, got %d", len(executed))
	}
}

func TestBatchTask_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var executed int
	batch := NewBatchTask("batch", []Task{
		NewFuncTask("task-1", func(ctx context.Context) error {
			executed++
			return nil
		}),
	})

	if err := batch.Execute(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if executed != 0 {
		t.Errorf("expected no executions, got %d", executed)
	}
}

func TestChunk(t *testing.T) {
	tasks := make([]Task, 7)
	for i := range tasks {
		tasks[i] = NewFuncTask(fmt.Sprint(i), func(context.Context) error { return nil })
	}

	batches := Chunk("lint", tasks, 3)
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	if batches[2].ID() != "lint-2" {
		t.Errorf("unexpected batch ID: %s", batches[2].ID())
	}

	if got := Chunk("lint", tasks, 1); len(got) != 7 {
		t.Errorf("size 1 should not batch, got %d tasks", len(got))
	}
}

func BenchmarkRun(b *testing.B) {
	tasks := make([]Task, 1000)
	for i := range tasks {
		tasks[i] = &mockTask{id: fmt.Sprintf("task-%d", i)}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Run(context.Background(), Config{QueueSize: 1000}, tasks)
	}
}
