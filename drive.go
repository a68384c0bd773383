package humdesk

import (
	"context"
	"fmt"
)

// DriveProvider identifies a third-party drive integration.
type DriveProvider string

const (
	DriveGoogle   DriveProvider = "google"
	DriveOneDrive DriveProvider = "onedrive"
)

// ParseDriveProvider converts a user-supplied name to a DriveProvider.
func ParseDriveProvider(s string) (DriveProvider, error) {
	switch s {
	case "google", "gdrive":
		return DriveGoogle, nil
	case "onedrive":
		return DriveOneDrive, nil
	default:
		return "", fmt.Errorf("unknown drive provider %q: %w", s, ErrValidation)
	}
}

// DriveItem is a file or folder listed from a third-party drive.
type DriveItem struct {
	ID       string
	Name     string
	MimeType string
	Size     int64
}

// DriveService exposes the drive integrations. Authorization is an opaque
// redirect handled by the server; LoginURL only builds the entry point.
type DriveService interface {
	LoginURL(p DriveProvider) string
	ListDrive(ctx context.Context, p DriveProvider, query string) ([]DriveItem, error)
	// ImportDrive copies a drive item into the document store and returns
	// the stored file.
	ImportDrive(ctx context.Context, p DriveProvider, id string) (File, error)
}
