package humdesk

import (
	"context"
	"io"
)

// UploadFile is the source of a single-file upload. Size is the number of
// bytes Body will yield; a negative Size means the total is unknown and no
// progress will be reported.
type UploadFile struct {
	Name string
	Body io.Reader
	Size int64
}

// UploadState is the settlement state of an Upload.
type UploadState int

const (
	UploadPending   UploadState = iota // Transfer in flight.
	UploadSucceeded                    // Server accepted the file.
	UploadFailed                       // Non-success status or transport failure.
	UploadAborted                      // Cancel was requested before settlement.
)

func (s UploadState) String() string {
	switch s {
	case UploadPending:
		return "pending"
	case UploadSucceeded:
		return "succeeded"
	case UploadFailed:
		return "failed"
	case UploadAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Settled reports whether s is a terminal state.
func (s UploadState) Settled() bool {
	return s != UploadPending
}

// UploadResult is the decoded body of a successful upload. It is the zero
// value when the server's body could not be decoded.
type UploadResult struct {
	Files []File
}

// ProgressFunc receives the fraction of bytes sent, in [0, 1].
type ProgressFunc func(fraction float64)

// Upload is one in-flight file transfer.
//
// The handle settles exactly once. Wait returns:
//   - the decoded result and nil once the upload succeeded;
//   - an error matching ErrCanceled when Cancel was called before settlement;
//   - a *StatusError (or a wrapped transport error) otherwise.
//
// Cancel is idempotent and a no-op after settlement. Once Cancel returns the
// progress callback is not invoked again.
type Upload interface {
	Name() string
	// Progress returns the last reported fraction, or -1 when the total size
	// is unknown or nothing has been reported yet.
	Progress() float64
	State() UploadState
	Cancel()
	Done() <-chan struct{}
	Wait(ctx context.Context) (UploadResult, error)
}

// Uploader starts progress-tracked, cancelable uploads. Upload returns
// immediately; the transfer runs in the background.
type Uploader interface {
	Upload(ctx context.Context, file UploadFile, onProgress ProgressFunc) Upload
}
