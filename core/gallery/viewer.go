package gallery

import (
	"github.com/pkg/errors"

	"github.com/fatimaschool/website/core"
)

var errUnknownCategory = errors.New("unknown category")

// Viewer holds the public gallery state: a category filter and a lightbox
// showing one item at a time.
type Viewer struct {
	items    []Item
	category string
	open     bool
	index    int // in Visible()
}

// NewViewer starts on the "All" view with the lightbox closed.
func NewViewer(items []Item) *Viewer {
	return &Viewer{items: items, category: AllCategories}
}

func (v *Viewer) Category() string { return v.category }
func (v *Viewer) IsOpen() bool     { return v.open }

// Categories returns "All" followed by the categories present in the catalog,
// in order of first appearance.
func (v *Viewer) Categories() []string {
	cats := []string{AllCategories}
	seen := make(map[string]bool, len(Categories))
	for _, item := range v.items {
		if !seen[item.Category] {
			seen[item.Category] = true
			cats = append(cats, item.Category)
		}
	}
	return cats
}

// Visible returns the items of the current category.
// "All" shows exactly one item (the first one found) per fixed category.
func (v *Viewer) Visible() []Item {
	if v.category == AllCategories {
		return Representatives(v.items)
	}
	visible := make([]Item, 0, len(v.items))
	for _, item := range v.items {
		if item.Category == v.category {
			visible = append(visible, item)
		}
	}
	return visible
}

// SelectCategory switches the filter and closes the lightbox.
func (v *Viewer) SelectCategory(category string) error {
	category = core.CleanString(category)
	if category != AllCategories && !IsCategory(category) {
		return core.NewValidationError(errUnknownCategory, core.FieldError{Field: "category", Error: categoryText})
	}
	v.category = category
	v.open = false
	v.index = 0
	return nil
}

// Open shows the item in the lightbox, filtering the gallery to the item's category.
func (v *Viewer) Open(id int64) (Item, error) {
	for _, item := range v.items {
		if item.ID != id {
			continue
		}
		v.category = item.Category
		for i, vi := range v.Visible() {
			if vi.ID == id {
				v.open = true
				v.index = i
				return vi, nil
			}
		}
	}
	return Item{}, ErrNotFound
}

// Current returns the item shown in the lightbox.
func (v *Viewer) Current() (Item, bool) {
	visible := v.Visible()
	if !v.open || v.index >= len(visible) {
		return Item{}, false
	}
	return visible[v.index], true
}

// Next moves the lightbox forward, wrapping from the last item to the first.
func (v *Viewer) Next() (Item, bool) {
	return v.step(1)
}

// Prev moves the lightbox backward, wrapping from the first item to the last.
func (v *Viewer) Prev() (Item, bool) {
	return v.step(-1)
}

func (v *Viewer) step(delta int) (Item, bool) {
	visible := v.Visible()
	if !v.open || len(visible) == 0 {
		return Item{}, false
	}
	v.index = (v.index + delta + len(visible)) % len(visible)
	return visible[v.index], true
}

// Close closes the lightbox and goes back to the "All" view.
func (v *Viewer) Close() {
	v.open = false
	v.index = 0
	v.category = AllCategories
}

// Lightbox is the lightbox state of an open item.
type Lightbox struct {
	Item     Item   `json:"item"`
	Category string `json:"category"`
	Position int    `json:"position"` // 1-based
	Total    int    `json:"total"`
	Previous Item   `json:"previous"`
	Next     Item   `json:"next"`
}

// Lightbox describes the open item together with its circular neighbours.
func (v *Viewer) Lightbox() (Lightbox, bool) {
	visible := v.Visible()
	if !v.open || v.index >= len(visible) {
		return Lightbox{}, false
	}
	n := len(visible)
	return Lightbox{
		Item:     visible[v.index],
		Category: v.category,
		Position: v.index + 1,
		Total:    n,
		Previous: visible[(v.index-1+n)%n],
		Next:     visible[(v.index+1)%n],
	}, true
}

// Representatives returns the first item of each fixed category, in category order.
// Categories without items are skipped.
func Representatives(items []Item) []Item {
	reps := make([]Item, 0, len(Categories))
	for _, c := range Categories {
		for _, item := range items {
			if item.Category == c {
				reps = append(reps, item)
				break
			}
		}
	}
	return reps
}
