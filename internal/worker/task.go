package worker

import (
	"context"
	"strconv"
)

// FuncTask wraps a function as a task.
type FuncTask struct {
	id string
	fn func(ctx context.Context) error
}

// NewFuncTask creates a task from a function.
func NewFuncTask(id string, fn func(ctx context.Context) error) *FuncTask {
	return &FuncTask{
		id: id,
		fn: fn,
	}
}

// ID returns the task identifier.
func (f *FuncTask) ID() string {
	return f.id
}

// Execute executes the function.
func (f *FuncTask) Execute(ctx context.Context) error {
	return f.fn(ctx)
}

// BatchTask runs several tasks sequentially on one worker. Small messages
// are cheaper to lint in batches than one task each.
type BatchTask struct {
	id    string
	tasks []Task
}

// NewBatchTask creates a new batch task.
func NewBatchTask(id string, tasks []Task) *BatchTask {
	return &BatchTask{
		id:    id,
		tasks: tasks,
	}
}

// ID returns the batch task identifier.
func (b *BatchTask) ID() string {
	return b.id
}

// Execute executes all tasks in the batch, stopping at the first error or
// when ctx is done.
func (b *BatchTask) Execute(ctx context.Context) error {
	for _, task := range b.tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := task.Execute(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Chunk groups tasks into batches of at most size tasks.
func Chunk(prefix string, tasks []Task, size int) []Task {
	if size <= 1 {
		return tasks
	}

	batches := make([]Task, 0, (len(tasks)+size-1)/size)
	for start := 0; start < len(tasks); start += size {
		end := min(start+size, len(tasks))
		batches = append(batches, NewBatchTask(
			prefix+"-"+strconv.Itoa(start/size),
			tasks[start:end],
		))
	}
	return batches
}
