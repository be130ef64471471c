package gallery

import (
	"context"

	"github.com/pkg/errors"

	"github.com/fatimaschool/website/core"
)

var (
	errMissingFields = errors.New("please fill in all required fields")
	errMarkup        = errors.New("markup is not allowed")
)

// Editor holds the admin gallery editor state: the item list and the add/edit form.
type Editor struct {
	Items []Item
	Form  ItemData

	svc       Service
	editingID int64
}

func NewEditor(svc Service, items []Item) *Editor {
	return &Editor{svc: svc, Items: items}
}

// Editing returns the id of the item being edited; ok is false when adding.
func (e *Editor) Editing() (id int64, ok bool) {
	return e.editingID, e.editingID != 0
}

// Edit fills the form with the item's fields.
func (e *Editor) Edit(id int64) error {
	for _, item := range e.Items {
		if item.ID == id {
			e.editingID = id
			e.Form = DataOf(item)
			return nil
		}
	}
	return ErrNotFound
}

// Reset clears the form and goes back to adding.
func (e *Editor) Reset() {
	e.editingID = 0
	e.Form = ItemData{}
}

// Submit creates a new item (prepended to the list) or replaces the edited one, keeping its id.
// Nothing is stored when title, category or image path is blank.
func (e *Editor) Submit(ctx context.Context) (Item, error) {
	e.Form.Clean()
	if flds := e.missingFields(); len(flds) > 0 {
		return Item{}, core.NewValidationError(errMissingFields, flds...)
	}
	if flds := e.markupFields(); len(flds) > 0 {
		return Item{}, core.NewValidationError(errMarkup, flds...)
	}
	if !IsCategory(e.Form.Category) {
		return Item{}, core.NewValidationError(errUnknownCategory, core.FieldError{Field: "category", Error: categoryText})
	}

	if id, ok := e.Editing(); ok {
		item, err := e.svc.Update(ctx, id, e.Form)
		if err != nil {
			return Item{}, errors.Wrap(err, "updating gallery item")
		}
		for i := range e.Items {
			if e.Items[i].ID == id {
				e.Items[i] = item
			}
		}
		e.Reset()
		return item, nil
	}

	item, err := e.svc.Create(ctx, e.Form)
	if err != nil {
		return Item{}, errors.Wrap(err, "creating gallery item")
	}
	e.Items = append([]Item{item}, e.Items...)
	e.Reset()
	return item, nil
}

// Delete removes the item once confirm agrees. It reports whether the item was deleted.
func (e *Editor) Delete(ctx context.Context, id int64, confirm func(Item) bool) (bool, error) {
	idx := -1
	for i, item := range e.Items {
		if item.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, ErrNotFound
	}
	if confirm == nil || !confirm(e.Items[idx]) {
		return false, nil
	}

	if err := e.svc.Delete(ctx, id); err != nil {
		return false, errors.Wrap(err, "deleting gallery item")
	}
	e.Items = append(e.Items[:idx:idx], e.Items[idx+1:]...)
	if e.editingID == id {
		e.Reset()
	}
	return true, nil
}

func (e *Editor) missingFields() []core.FieldError {
	var flds []core.FieldError
	for _, fld := range []struct{ name, value string }{
		{"title", e.Form.Title},
		{"category", e.Form.Category},
		{"src", e.Form.Src},
	} {
		if fld.value == "" {
			flds = append(flds, core.FieldError{Field: fld.name, Error: "this field is required"})
		}
	}
	return flds
}

func (e *Editor) markupFields() []core.FieldError {
	var flds []core.FieldError
	for _, fld := range []struct{ name, value string }{
		{"title", e.Form.Title},
		{"description", e.Form.Description},
	} {
		if core.HasMarkup(fld.value) {
			flds = append(flds, core.FieldError{Field: fld.name, Error: "this field cannot contain HTML markup"})
		}
	}
	return flds
}
