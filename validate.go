package humdesk

import (
	"fmt"
	"strings"
)

// MaxPageLimit is the largest page the humdata endpoints accept.
const MaxPageLimit = 200

// Validate checks the page window.
func (p Page) Validate() error {
	if p.Limit < 0 || p.Limit > MaxPageLimit {
		return fmt.Errorf("limit must be in [0, %d], got %d: %w", MaxPageLimit, p.Limit, ErrValidation)
	}
	if p.Offset < 0 {
		return fmt.Errorf("offset must be non-negative, got %d: %w", p.Offset, ErrValidation)
	}
	return nil
}

// Validate checks the funding filters and page window.
func (q FundingQuery) Validate() error {
	if q.Year < 0 {
		return fmt.Errorf("year must be non-negative, got %d: %w", q.Year, ErrValidation)
	}
	return q.Page.Validate()
}

// Validate rejects an empty message.
func (r CompletionRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return fmt.Errorf("message must not be empty: %w", ErrValidation)
	}
	return nil
}

// Validate rejects an empty message.
func (r ChatRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return fmt.Errorf("message must not be empty: %w", ErrValidation)
	}
	return nil
}

// ParseExportFormat converts a user-supplied name to an ExportFormat.
// Empty input selects PDF.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(s)) {
	case "", ExportPDF:
		return ExportPDF, nil
	case ExportDOCX:
		return ExportDOCX, nil
	case ExportXLSX:
		return ExportXLSX, nil
	default:
		return "", fmt.Errorf("unknown export format %q: %w", s, ErrValidation)
	}
}

// Validate rejects an empty name.
func (f UploadFile) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("upload file name must not be empty: %w", ErrValidation)
	}
	if f.Body == nil {
		return fmt.Errorf("upload %q has no body: %w", f.Name, ErrValidation)
	}
	return nil
}
