package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/fwojciec/humdesk"
)

// ListFiles returns the documents stored on the server.
func (c *Client) ListFiles(ctx context.Context) ([]humdesk.File, error) {
	var out apiFiles
	if err := c.send(ctx, http.MethodGet, filesPath, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.domain(), nil
}

// DownloadFile streams a stored document. The caller closes the reader.
func (c *Client) DownloadFile(ctx context.Context, name string) (io.ReadCloser, error) {
	if name == "" {
		return nil, fmt.Errorf("http: file name must not be empty: %w", humdesk.ErrValidation)
	}
	return c.open(ctx, filesPath+"/"+url.PathEscape(name), nil)
}

// UploadFiles sends every file in one multipart request. Unlike Upload it
// reports no progress and cannot be cancelled except through ctx.
func (c *Client) UploadFiles(ctx context.Context, files ...humdesk.UploadFile) (humdesk.UploadResult, error) {
	if len(files) == 0 {
		return humdesk.UploadResult{}, fmt.Errorf("http: no files to upload: %w", humdesk.ErrValidation)
	}
	for _, f := range files {
		if err := f.Validate(); err != nil {
			return humdesk.UploadResult{}, fmt.Errorf("http: %w", err)
		}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeParts(mw, files))
	}()

	req, err := c.newRequest(ctx, http.MethodPost, uploadPath, nil, pr)
	if err != nil {
		pr.Close()
		return humdesk.UploadResult{}, fmt.Errorf("http: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		pr.Close()
		return humdesk.UploadResult{}, fmt.Errorf("http: upload: %w", err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return humdesk.UploadResult{}, parseHTTPError(resp)
	}
	var out apiFiles
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.logger.Debug().Err(err).Int("files", len(files)).Msg("upload response not decoded")
		return humdesk.UploadResult{}, nil
	}
	return humdesk.UploadResult{Files: out.domain()}, nil
}

func writeParts(mw *multipart.Writer, files []humdesk.UploadFile) error {
	for _, f := range files {
		part, err := mw.CreateFormFile(uploadField, f.Name)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, f.Body); err != nil {
			return err
		}
	}
	return mw.Close()
}
