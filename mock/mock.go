// Package mock provides test doubles for humdesk interfaces using function
// fields.
package mock

import (
	"context"

	"github.com/fwojciec/humdesk"
)

// Interface compliance checks.
var (
	_ humdesk.Completer = (*Completer)(nil)
	_ humdesk.Uploader  = (*Uploader)(nil)
	_ humdesk.Upload    = (*Upload)(nil)
)

// Completer is a test double for humdesk.Completer.
// Set CompleteFn before calling Complete.
type Completer struct {
	CompleteFn func(ctx context.Context, req humdesk.CompletionRequest, onToken humdesk.TokenFunc) error
}

// Complete delegates to CompleteFn.
func (c *Completer) Complete(ctx context.Context, req humdesk.CompletionRequest, onToken humdesk.TokenFunc) error {
	return c.CompleteFn(ctx, req, onToken)
}

// Tokens returns a CompleteFn that emits tokens in order and returns err.
// It stops early with ctx.Err() when ctx is cancelled.
func Tokens(err error, tokens ...string) func(context.Context, humdesk.CompletionRequest, humdesk.TokenFunc) error {
	return func(ctx context.Context, _ humdesk.CompletionRequest, onToken humdesk.TokenFunc) error {
		for _, tok := range tokens {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if onToken != nil {
				onToken(tok)
			}
		}
		return err
	}
}

// Uploader is a test double for humdesk.Uploader.
// Set UploadFn before calling Upload.
type Uploader struct {
	UploadFn func(ctx context.Context, file humdesk.UploadFile, onProgress humdesk.ProgressFunc) humdesk.Upload
}

// Upload delegates to UploadFn.
func (u *Uploader) Upload(ctx context.Context, file humdesk.UploadFile, onProgress humdesk.ProgressFunc) humdesk.Upload {
	return u.UploadFn(ctx, file, onProgress)
}

// Upload is a test double for humdesk.Upload.
// NameFn and WaitFn panic when nil to catch missing setup. The remaining
// fields are nil-safe: Progress returns -1, State returns UploadPending,
// Cancel is a no-op and Done returns a nil channel.
type Upload struct {
	NameFn     func() string
	ProgressFn func() float64
	StateFn    func() humdesk.UploadState
	CancelFn   func()
	DoneFn     func() <-chan struct{}
	WaitFn     func(ctx context.Context) (humdesk.UploadResult, error)
}

// Name delegates to NameFn.
func (u *Upload) Name() string {
	return u.NameFn()
}

// Progress delegates to ProgressFn. Returns -1 when ProgressFn is nil.
func (u *Upload) Progress() float64 {
	if u.ProgressFn == nil {
		return -1
	}
	return u.ProgressFn()
}

// State delegates to StateFn. Returns UploadPending when StateFn is nil.
func (u *Upload) State() humdesk.UploadState {
	if u.StateFn == nil {
		return humdesk.UploadPending
	}
	return u.StateFn()
}

// Cancel delegates to CancelFn. No-op when CancelFn is nil.
func (u *Upload) Cancel() {
	if u.CancelFn != nil {
		u.CancelFn()
	}
}

// Done delegates to DoneFn. Returns nil when DoneFn is nil.
func (u *Upload) Done() <-chan struct{} {
	if u.DoneFn == nil {
		return nil
	}
	return u.DoneFn()
}

// Wait delegates to WaitFn.
func (u *Upload) Wait(ctx context.Context) (humdesk.UploadResult, error) {
	return u.WaitFn(ctx)
}
