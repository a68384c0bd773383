package humdesk_test

import (
	"testing"

	"github.com/fwojciec/humdesk"
	"github.com/stretchr/testify/assert"
)

func TestDefaultTheme(t *testing.T) {
	t.Parallel()

	theme := humdesk.DefaultTheme()

	assert.Equal(t, 4, theme.UserMsg)
	assert.Equal(t, 1, theme.Error)
	assert.Equal(t, 2, theme.Success)
	assert.Equal(t, 8, theme.Muted)
	assert.Equal(t, 5, theme.Accent)
	assert.Equal(t, 6, theme.Progress)
}
