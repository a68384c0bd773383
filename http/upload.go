package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/humdesk"
	"github.com/rs/zerolog"
)

// Interface compliance check.
var _ humdesk.Upload = (*upload)(nil)

// Upload starts sending file to the document store and returns immediately.
//
// When file.Size is known the request carries an exact Content-Length and
// onProgress receives the fraction of the body handed to the transport,
// increasing and at most 1. onProgress runs on the transport's goroutine and
// must not block. It may call Cancel on the same upload.
func (c *Client) Upload(ctx context.Context, file humdesk.UploadFile, onProgress humdesk.ProgressFunc) humdesk.Upload {
	ctx, cancel := context.WithCancel(ctx)
	u := &upload{
		name:       file.Name,
		onProgress: onProgress,
		cancel:     cancel,
		logger:     c.logger,
		start:      time.Now(),
		progress:   -1,
		done:       make(chan struct{}),
	}
	if err := file.Validate(); err != nil {
		u.settle(humdesk.UploadResult{}, fmt.Errorf("http: %w", err))
		return u
	}
	file.Body = &abortReader{ctx: ctx, r: file.Body}
	go func() {
		res, err := c.sendUpload(ctx, file, u.report)
		u.settle(res, err)
	}()
	return u
}

// upload is the handle of one background transfer. It settles exactly once,
// either when the transport returns or when Cancel is called.
type upload struct {
	name       string
	onProgress humdesk.ProgressFunc
	cancel     context.CancelFunc
	logger     zerolog.Logger
	start      time.Time

	mu        sync.Mutex
	canceled  bool
	state     humdesk.UploadState
	progress  float64
	result    humdesk.UploadResult
	err       error
	done      chan struct{}
	closeOnce sync.Once
}

func (u *upload) Name() string { return u.name }

func (u *upload) Progress() float64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.progress
}

func (u *upload) State() humdesk.UploadState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

func (u *upload) Done() <-chan struct{} { return u.done }

// Cancel aborts the transfer and settles the upload as aborted without
// waiting for the transport. It is a no-op once the upload settled or a
// previous Cancel was recorded. No progress callback starts after Cancel
// returns; one already running may finish.
func (u *upload) Cancel() {
	u.mu.Lock()
	if u.state.Settled() || u.canceled {
		u.mu.Unlock()
		return
	}
	u.canceled = true
	u.mu.Unlock()

	u.cancel()
	u.settle(humdesk.UploadResult{}, nil)
}

// Wait blocks until the upload settles or ctx is done.
func (u *upload) Wait(ctx context.Context) (humdesk.UploadResult, error) {
	select {
	case <-u.done:
	case <-ctx.Done():
		return humdesk.UploadResult{}, ctx.Err()
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.result, u.err
}

func (u *upload) report(sent, total int64) {
	fraction := float64(sent) / float64(total)
	fraction = min(max(fraction, 0), 1)

	u.mu.Lock()
	if u.canceled || u.state.Settled() || fraction <= u.progress {
		u.mu.Unlock()
		return
	}
	u.progress = fraction
	u.mu.Unlock()

	if u.onProgress != nil {
		u.onProgress(fraction)
	}
}

// settle records the outcome exactly once. A recorded Cancel wins over
// whatever the transport reported.
func (u *upload) settle(res humdesk.UploadResult, err error) {
	u.mu.Lock()
	if u.state.Settled() {
		u.mu.Unlock()
		return
	}
	switch {
	case u.canceled:
		u.state = humdesk.UploadAborted
		u.err = fmt.Errorf("http: upload %s: %w", u.name, humdesk.ErrCanceled)
	case err != nil:
		u.state = humdesk.UploadFailed
		u.err = err
	default:
		u.state = humdesk.UploadSucceeded
		u.result = res
	}
	state, settleErr := u.state, u.err
	u.mu.Unlock()

	// Logged before done closes so waiters observe a complete log.
	event := u.logger.Info()
	if state == humdesk.UploadFailed {
		event = u.logger.Warn().Err(settleErr)
	}
	event.
		Str("file", u.name).
		Stringer("state", state).
		Dur("duration", time.Since(u.start)).
		Msg("upload_settled")

	u.cancel()
	u.closeOnce.Do(func() { close(u.done) })
}

func (c *Client) sendUpload(ctx context.Context, file humdesk.UploadFile, report func(sent, total int64)) (humdesk.UploadResult, error) {
	body, contentType, size, err := newUploadBody(file)
	if err != nil {
		return humdesk.UploadResult{}, fmt.Errorf("http: upload %s: %w", file.Name, err)
	}
	if size >= 0 {
		body = &progressReader{r: body, total: size, report: report}
	}

	req, err := c.newRequest(ctx, http.MethodPost, uploadPath, nil, body)
	if err != nil {
		return humdesk.UploadResult{}, fmt.Errorf("http: upload %s: %w", file.Name, err)
	}
	req.Header.Set("Content-Type", contentType)
	// -1 makes the transport fall back to chunked encoding.
	req.ContentLength = size

	resp, err := c.do(req)
	if err != nil {
		return humdesk.UploadResult{}, fmt.Errorf("http: upload %s: %w", file.Name, err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return humdesk.UploadResult{}, parseHTTPError(resp)
	}

	var out apiFiles
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.logger.Debug().Err(err).Str("file", file.Name).Msg("upload response not decoded")
		return humdesk.UploadResult{}, nil
	}
	return humdesk.UploadResult{Files: out.domain()}, nil
}

// newUploadBody lays out a single-file multipart body as preamble, file
// content and trailer. size is the exact body length, or -1 when file.Size
// is unknown.
func newUploadBody(file humdesk.UploadFile) (body io.Reader, contentType string, size int64, err error) {
	var head bytes.Buffer
	mw := multipart.NewWriter(&head)
	if _, err := mw.CreateFormFile(uploadField, file.Name); err != nil {
		return nil, "", 0, err
	}
	headLen := head.Len()
	if err := mw.Close(); err != nil {
		return nil, "", 0, err
	}
	trailer := bytes.Clone(head.Bytes()[headLen:])
	head.Truncate(headLen)

	size = -1
	if file.Size >= 0 {
		size = int64(headLen) + file.Size + int64(len(trailer))
	}
	body = io.MultiReader(&head, file.Body, bytes.NewReader(trailer))
	return body, mw.FormDataContentType(), size, nil
}

// progressReader counts bytes read by the transport.
type progressReader struct {
	r      io.Reader
	sent   int64
	total  int64
	report func(sent, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.report(p.sent, p.total)
	}
	return n, err
}

// abortReader stops handing the file to the transport once ctx is done.
type abortReader struct {
	ctx context.Context
	r   io.Reader
}

func (a *abortReader) Read(b []byte) (int, error) {
	if err := a.ctx.Err(); err != nil {
		return 0, err
	}
	return a.r.Read(b)
}
