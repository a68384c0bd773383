package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fwojciec/humdesk"
)

// LoginURL returns the page that starts the provider's authorization flow.
// It is meant to be opened in a browser.
func (c *Client) LoginURL(p humdesk.DriveProvider) string {
	return c.baseURL + drivePath(p, "auth")
}

// ListDrive lists the provider's root folder, or searches it when query is
// not empty.
func (c *Client) ListDrive(ctx context.Context, p humdesk.DriveProvider, query string) ([]humdesk.DriveItem, error) {
	if _, err := humdesk.ParseDriveProvider(string(p)); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	var q url.Values
	if query != "" {
		q = url.Values{"q": {query}}
	}
	var out apiDriveItems
	if err := c.send(ctx, http.MethodGet, drivePath(p, "list"), q, nil, &out); err != nil {
		return nil, err
	}
	items := make([]humdesk.DriveItem, len(out.Files))
	for i, it := range out.Files {
		items[i] = humdesk.DriveItem{
			ID:       it.ID,
			Name:     it.Name,
			MimeType: it.MimeType,
			Size:     int64(it.Size),
		}
	}
	return items, nil
}

// ImportDrive copies the drive item into the document store.
func (c *Client) ImportDrive(ctx context.Context, p humdesk.DriveProvider, id string) (humdesk.File, error) {
	if _, err := humdesk.ParseDriveProvider(string(p)); err != nil {
		return humdesk.File{}, fmt.Errorf("http: %w", err)
	}
	if id == "" {
		return humdesk.File{}, fmt.Errorf("http: drive item id must not be empty: %w", humdesk.ErrValidation)
	}
	var out apiImportResponse
	if err := c.send(ctx, http.MethodPost, drivePath(p, "import"), url.Values{"id": {id}}, nil, &out); err != nil {
		return humdesk.File{}, err
	}
	name := out.Name
	if name == "" {
		name = id
	}
	return humdesk.File{Name: name}, nil
}

func drivePath(p humdesk.DriveProvider, action string) string {
	return integrationsPath + "/" + string(p) + "/" + action
}
