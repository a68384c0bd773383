package humdesk_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/humdesk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    humdesk.Page
		wantErr bool
	}{
		{"zero uses server default", humdesk.Page{}, false},
		{"max limit", humdesk.Page{Limit: humdesk.MaxPageLimit, Offset: 400}, false},
		{"limit too large", humdesk.Page{Limit: humdesk.MaxPageLimit + 1}, true},
		{"negative limit", humdesk.Page{Limit: -1}, true},
		{"negative offset", humdesk.Page{Offset: -5}, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.page.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, humdesk.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFundingQuery_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, humdesk.FundingQuery{Year: 2024}.Validate())
	assert.ErrorIs(t, humdesk.FundingQuery{Year: -1}.Validate(), humdesk.ErrValidation)
	assert.ErrorIs(t, humdesk.FundingQuery{Page: humdesk.Page{Offset: -1}}.Validate(), humdesk.ErrValidation)
}

func TestRequest_Validate_EmptyMessage(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, humdesk.CompletionRequest{Message: " \n"}.Validate(), humdesk.ErrValidation)
	assert.ErrorIs(t, humdesk.ChatRequest{}.Validate(), humdesk.ErrValidation)
	assert.NoError(t, humdesk.CompletionRequest{Message: "hi"}.Validate())
	assert.NoError(t, humdesk.ChatRequest{Message: "hi"}.Validate())
}

func TestParseExportFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]humdesk.ExportFormat{
		"":     humdesk.ExportPDF,
		"pdf":  humdesk.ExportPDF,
		"DOCX": humdesk.ExportDOCX,
		"xlsx": humdesk.ExportXLSX,
	} {
		got, err := humdesk.ParseExportFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := humdesk.ParseExportFormat("odt")
	assert.ErrorIs(t, err, humdesk.ErrValidation)
}

func TestParseDriveProvider(t *testing.T) {
	t.Parallel()

	p, err := humdesk.ParseDriveProvider("gdrive")
	require.NoError(t, err)
	assert.Equal(t, humdesk.DriveGoogle, p)

	p, err = humdesk.ParseDriveProvider("onedrive")
	require.NoError(t, err)
	assert.Equal(t, humdesk.DriveOneDrive, p)

	_, err = humdesk.ParseDriveProvider("dropbox")
	assert.ErrorIs(t, err, humdesk.ErrValidation)
}

func TestUploadFile_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, humdesk.UploadFile{Name: "a.txt", Body: strings.NewReader(""), Size: 0}.Validate())
	assert.ErrorIs(t, humdesk.UploadFile{Body: strings.NewReader("")}.Validate(), humdesk.ErrValidation)
	assert.ErrorIs(t, humdesk.UploadFile{Name: "a.txt"}.Validate(), humdesk.ErrValidation)
}
