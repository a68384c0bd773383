package humdesk

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// Uploads is the caller-side task list of concurrent uploads. Each task is
// independently cancelable; CancelAll cancels every tracked task.
type Uploads struct {
	uploader   Uploader
	onProgress func(name string, fraction float64)

	mu    sync.Mutex
	tasks []Upload
}

// UploadsOption configures Uploads.
type UploadsOption func(*Uploads)

// WithProgress sets a callback receiving progress of every started task.
func WithProgress(fn func(name string, fraction float64)) UploadsOption {
	return func(u *Uploads) {
		u.onProgress = fn
	}
}

// NewUploads creates an empty task list backed by uploader.
func NewUploads(uploader Uploader, opts ...UploadsOption) *Uploads {
	u := &Uploads{uploader: uploader}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Start begins one upload per file and tracks them. The returned slice is in
// the same order as files.
func (u *Uploads) Start(ctx context.Context, files ...UploadFile) []Upload {
	started := make([]Upload, 0, len(files))
	for _, f := range files {
		var onProgress ProgressFunc
		if u.onProgress != nil {
			name := f.Name
			onProgress = func(fraction float64) { u.onProgress(name, fraction) }
		}
		started = append(started, u.uploader.Upload(ctx, f, onProgress))
	}
	u.mu.Lock()
	u.tasks = append(u.tasks, started...)
	u.mu.Unlock()
	return started
}

// Tasks returns a snapshot of the tracked tasks in start order.
func (u *Uploads) Tasks() []Upload {
	u.mu.Lock()
	defer u.mu.Unlock()
	return slices.Clone(u.tasks)
}

// CancelAll cancels every tracked task and stops tracking them.
func (u *Uploads) CancelAll() {
	u.mu.Lock()
	tasks := u.tasks
	u.tasks = nil
	u.mu.Unlock()
	for _, t := range tasks {
		t.Cancel()
	}
}

// Remove cancels task and stops tracking it. Other tasks, including ones
// with the same name, are untouched. It reports whether task was tracked.
func (u *Uploads) Remove(task Upload) bool {
	u.mu.Lock()
	i := slices.Index(u.tasks, task)
	if i >= 0 {
		u.tasks = slices.Delete(u.tasks, i, i+1)
	}
	u.mu.Unlock()
	if i < 0 {
		return false
	}
	task.Cancel()
	return true
}

// Prune drops settled tasks and returns them.
func (u *Uploads) Prune() []Upload {
	u.mu.Lock()
	defer u.mu.Unlock()
	var settled []Upload
	u.tasks = slices.DeleteFunc(u.tasks, func(t Upload) bool {
		if t.State().Settled() {
			settled = append(settled, t)
			return true
		}
		return false
	})
	return settled
}

// Wait blocks until every tracked task settles or ctx is done. Cancelled
// tasks are not reported; other failures are joined into the returned error.
func (u *Uploads) Wait(ctx context.Context) error {
	var errs []error
	for _, t := range u.Tasks() {
		if _, err := t.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, ErrCanceled) {
				continue
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
