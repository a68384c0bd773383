package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/humdesk"
)

// Interface compliance check.
var _ humdesk.Upload = (*Task)(nil)

// Task is an in-memory humdesk.Upload driven by the test: Report delivers
// progress, Finish settles it. Cancel settles it as aborted.
type Task struct {
	name       string
	onProgress humdesk.ProgressFunc

	mu       sync.Mutex
	state    humdesk.UploadState
	progress float64
	result   humdesk.UploadResult
	err      error
	cancels  int
	done     chan struct{}
}

// NewTask returns a pending task.
func NewTask(name string, onProgress humdesk.ProgressFunc) *Task {
	return &Task{name: name, onProgress: onProgress, progress: -1, done: make(chan struct{})}
}

// TaskUploader returns an Uploader whose uploads are pending Tasks. Every
// started task is sent on the returned channel.
func TaskUploader(buffer int) (*Uploader, <-chan *Task) {
	ch := make(chan *Task, buffer)
	return &Uploader{
		UploadFn: func(_ context.Context, f humdesk.UploadFile, onProgress humdesk.ProgressFunc) humdesk.Upload {
			t := NewTask(f.Name, onProgress)
			ch <- t
			return t
		},
	}, ch
}

func (t *Task) Name() string { return t.name }

func (t *Task) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

func (t *Task) State() humdesk.UploadState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Task) Done() <-chan struct{} { return t.done }

// Cancel settles a pending task as aborted and counts every call.
func (t *Task) Cancel() {
	t.mu.Lock()
	t.cancels++
	t.mu.Unlock()
	t.settle(humdesk.UploadAborted, humdesk.UploadResult{}, fmt.Errorf("mock: %s: %w", t.name, humdesk.ErrCanceled))
}

// Cancels returns how many times Cancel was called.
func (t *Task) Cancels() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancels
}

func (t *Task) Wait(ctx context.Context) (humdesk.UploadResult, error) {
	select {
	case <-t.done:
	case <-ctx.Done():
		return humdesk.UploadResult{}, ctx.Err()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.err
}

// Report records progress and forwards it to the callback while pending.
func (t *Task) Report(fraction float64) {
	t.mu.Lock()
	if t.state.Settled() {
		t.mu.Unlock()
		return
	}
	t.progress = fraction
	t.mu.Unlock()
	if t.onProgress != nil {
		t.onProgress(fraction)
	}
}

// Finish settles the task as succeeded when err is nil and failed otherwise.
func (t *Task) Finish(res humdesk.UploadResult, err error) {
	state := humdesk.UploadSucceeded
	if err != nil {
		state = humdesk.UploadFailed
	}
	t.settle(state, res, err)
}

func (t *Task) settle(state humdesk.UploadState, res humdesk.UploadResult, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Settled() {
		return
	}
	t.state, t.result, t.err = state, res, err
	close(t.done)
}
