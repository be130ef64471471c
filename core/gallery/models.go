package gallery

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fatimaschool/website/core"
)

// Categories
const (
	CategoryArt        = "Art and Creativity"
	CategorySpeaking   = "Public Speaking"
	CategoryLeadership = "Leadership Events"
	CategoryResults    = "Student Results"

	// AllCategories is the synthesized view showing one item per category.
	AllCategories = "All"
)

// Categories is the fixed set of categories, in display order.
var Categories = []string{CategoryArt, CategorySpeaking, CategoryLeadership, CategoryResults}

func IsCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

type Item struct {
	ID          int64     `json:"id" db:"id"`
	Src         string    `json:"src" db:"src"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ItemData contains what may be provided to create or modify an Item.
type ItemData struct {
	Title       string `json:"title" validate:"notblank,nohtml"`
	Category    string `json:"category" validate:"notblank,gallery_category"`
	Src         string `json:"src" validate:"notblank"`
	Description string `json:"description" validate:"nohtml"`
}

func (d *ItemData) Clean() {
	d.Title = core.CleanString(d.Title)
	d.Category = core.CleanString(d.Category)
	d.Src = core.CleanString(d.Src)
	d.Description = core.CleanString(d.Description)
}

func (d *ItemData) Validate(validate *validator.Validate) error {
	d.Clean()
	return validate.Struct(d)
}

func DataOf(item Item) ItemData {
	return ItemData{
		Title:       item.Title,
		Category:    item.Category,
		Src:         item.Src,
		Description: item.Description,
	}
}
