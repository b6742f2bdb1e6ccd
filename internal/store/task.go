package store

import "context"

// Task is a handle on an operation started with Run. There is no way to
// cancel it other than through the ctx passed to Run.
type Task struct {
	done chan struct{}
	err  error
}

func Run(ctx context.Context, op func(context.Context) error) *Task {
	task := &Task{done: make(chan struct{})}
	go func() {
		defer close(task.done)
		task.err = op(ctx)
	}()
	return task
}

// Wait blocks until the operation settles and returns its failure, which the
// owning container has already recorded in its state.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}
