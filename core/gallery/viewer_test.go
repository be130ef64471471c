package gallery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatimaschool/website/core"
	"github.com/fatimaschool/website/core/gallery"
)

func catalog() []gallery.Item {
	items := make([]gallery.Item, 0, 5)
	for i, data := range gallery.SeedItems() {
		items = append(items, gallery.Item{
			ID:          int64(i + 1),
			Src:         data.Src,
			Title:       data.Title,
			Description: data.Description,
			Category:    data.Category,
		})
	}
	return items
}

func itemIDs(items []gallery.Item) []int64 {
	res := make([]int64, len(items))
	for i, item := range items {
		res[i] = item.ID
	}
	return res
}

func TestViewer_Visible(t *testing.T) {
	v := gallery.NewViewer(catalog())
	assert.Equal(t, gallery.AllCategories, v.Category())
	assert.Equal(t, []int64{1, 2, 3, 4}, itemIDs(v.Visible()))
	assert.Equal(t, []string{"All", gallery.CategoryArt, gallery.CategorySpeaking, gallery.CategoryLeadership, gallery.CategoryResults}, v.Categories())

	require.NoError(t, v.SelectCategory(gallery.CategoryResults))
	assert.Equal(t, []int64{4, 5}, itemIDs(v.Visible()))

	err := v.SelectCategory("Sports")
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "category", vErr.Fields[0].Field)
	assert.Equal(t, gallery.CategoryResults, v.Category())

	require.NoError(t, v.SelectCategory(gallery.AllCategories))
	assert.Len(t, v.Visible(), 4)

	t.Run("All shows one item per category", func(t *testing.T) {
		items := append(catalog(), gallery.Item{ID: 6, Category: gallery.CategoryArt}, gallery.Item{ID: 7, Category: gallery.CategorySpeaking})
		assert.Equal(t, []int64{1, 2, 3, 4}, itemIDs(gallery.NewViewer(items).Visible()))
	})

	t.Run("empty categories are skipped", func(t *testing.T) {
		items := []gallery.Item{{ID: 9, Category: gallery.CategoryResults}, {ID: 8, Category: gallery.CategoryArt}}
		assert.Equal(t, []int64{8, 9}, itemIDs(gallery.Representatives(items)))
		assert.Empty(t, gallery.Representatives(nil))
	})
}

func TestViewer_Lightbox(t *testing.T) {
	v := gallery.NewViewer(catalog())

	_, ok := v.Current()
	assert.False(t, ok)
	_, ok = v.Next()
	assert.False(t, ok)

	_, err := v.Open(42)
	assert.Equal(t, gallery.ErrNotFound, err)
	assert.False(t, v.IsOpen())

	item, err := v.Open(5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.ID)
	assert.True(t, v.IsOpen())
	assert.Equal(t, gallery.CategoryResults, v.Category())

	lb, ok := v.Lightbox()
	require.True(t, ok)
	assert.Equal(t, 2, lb.Position)
	assert.Equal(t, 2, lb.Total)
	assert.Equal(t, int64(4), lb.Previous.ID)
	assert.Equal(t, int64(4), lb.Next.ID)

	// circular
	item, _ = v.Next()
	assert.Equal(t, int64(4), item.ID)
	item, _ = v.Next()
	assert.Equal(t, int64(5), item.ID)
	item, _ = v.Prev()
	assert.Equal(t, int64(4), item.ID)
	item, _ = v.Prev()
	assert.Equal(t, int64(5), item.ID)

	v.Close()
	assert.False(t, v.IsOpen())
	assert.Equal(t, gallery.AllCategories, v.Category())
	_, ok = v.Lightbox()
	assert.False(t, ok)

	t.Run("single item wraps onto itself", func(t *testing.T) {
		v := gallery.NewViewer(catalog())
		_, err := v.Open(1)
		require.NoError(t, err)
		item, ok := v.Next()
		require.True(t, ok)
		assert.Equal(t, int64(1), item.ID)
		item, _ = v.Prev()
		assert.Equal(t, int64(1), item.ID)
	})

	t.Run("selecting a category closes the lightbox", func(t *testing.T) {
		v := gallery.NewViewer(catalog())
		_, err := v.Open(2)
		require.NoError(t, err)
		require.NoError(t, v.SelectCategory(gallery.CategoryArt))
		assert.False(t, v.IsOpen())
	})
}
