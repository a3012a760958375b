package mocks

import (
	"context"
	"sync"

	"github.com/ITyukz11/payops/internal/worker"
)

// Dispatcher runs tasks inline and remembers what was dispatched.
type Dispatcher struct {
	mu    sync.Mutex
	Names []string
	Errs  []error
}

func (d *Dispatcher) Dispatch(name string, task worker.Task) {
	err := task(context.Background())

	d.mu.Lock()
	defer d.mu.Unlock()
	d.Names = append(d.Names, name)
	d.Errs = append(d.Errs, err)
}

func (d *Dispatcher) Dispatched() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.Names...)
}
