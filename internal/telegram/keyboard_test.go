package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationRow(t *testing.T) {
	first := PaginationRow(0, 3, "sess_page")
	require.Len(t, first, 2)
	assert.Equal(t, "1/3", first[0].Text)
	assert.Equal(t, "cur", first[0].CallbackData)
	assert.Equal(t, "sess_page_1", first[1].CallbackData)

	middle := PaginationRow(1, 3, "sess_page")
	require.Len(t, middle, 3)
	assert.Equal(t, "sess_page_0", middle[0].CallbackData)
	assert.Equal(t, "sess_page_2", middle[2].CallbackData)

	last := PaginationRow(2, 3, "sess_page")
	require.Len(t, last, 2)
	assert.Equal(t, "sess_page_1", last[0].CallbackData)
	assert.Equal(t, "3/3", last[1].Text)
}

func TestMainMenu_ButtonsAreCommands(t *testing.T) {
	menu := MainMenu()
	assert.True(t, menu.ResizeKeyboard)
	for _, row := range menu.Keyboard {
		for _, btn := range row {
			assert.Equal(t, byte('/'), btn.Text[0], btn.Text)
		}
	}
}
