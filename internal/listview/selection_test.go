package listview_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"katalog/internal/listview"
)

func TestSelection_ToggleFlipsMembership(t *testing.T) {
	selection := listview.NewSelection()

	selection.Toggle(7)
	assert.True(t, selection.Has(7))

	selection.Toggle(7)
	assert.False(t, selection.Has(7))
	assert.Equal(t, 0, selection.Count())
}

func TestSelection_SelectAllReplacesMembership(t *testing.T) {
	selection := listview.NewSelection()

	selection.Toggle(99)
	selection.SelectAll([]uint{1, 2, 3})

	assert.False(t, selection.Has(99))
	assert.Equal(t, []uint{1, 2, 3}, selection.IDs())
}

func TestSelection_IsAllSelectedRequiresExactEquality(t *testing.T) {
	page := []uint{1, 2, 3}
	selection := listview.NewSelection()

	// Empty selection is never "all selected".
	assert.False(t, selection.IsAllSelected(page))

	// A subset is not enough.
	selection.Toggle(1)
	selection.Toggle(2)
	assert.False(t, selection.IsAllSelected(page))

	selection.Toggle(3)
	assert.True(t, selection.IsAllSelected(page))

	// A superset fails too.
	selection.Toggle(4)
	assert.False(t, selection.IsAllSelected(page))
}

func TestSelection_ClearEmptiesSelection(t *testing.T) {
	selection := listview.NewSelection()
	selection.SelectAll([]uint{5, 6})

	selection.Clear()

	assert.Equal(t, 0, selection.Count())
	assert.Empty(t, selection.IDs())
}
