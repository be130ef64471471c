package gallery

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/fatimaschool/website/core"
)

var ErrNotFound = errors.New("gallery item not found")

var (
	// OrderingFields are the fields items may be ordered by.
	OrderingFields = map[string]bool{"id": true, "title": true, "category": true, "created_at": true, "updated_at": true}

	// NewestFirst is the admin listing order.
	NewestFirst = []core.DBOrdering{{Field: "created_at"}, {Field: "id"}}
	// CatalogOrder is the public listing order.
	CatalogOrder = []core.DBOrdering{{Field: "id", Ascending: true}}
)

type (
	Repository interface {
		QueryAllGalleryItems(ctx context.Context, orderings ...core.DBOrdering) ([]Item, error)
		GetGalleryItem(ctx context.Context, id int64) (Item, error)
		CountGalleryItems(ctx context.Context) (int, error)
		CreateGalleryItem(ctx context.Context, item Item) (Item, error)
		UpdateGalleryItem(ctx context.Context, item Item) (Item, error)
		DeleteGalleryItem(ctx context.Context, id int64) error
	}

	Service interface {
		QueryAll(ctx context.Context, orderings ...core.DBOrdering) ([]Item, error)
		GetByID(ctx context.Context, id int64) (Item, error)
		Create(ctx context.Context, data ItemData) (Item, error)
		Update(ctx context.Context, id int64, data ItemData) (Item, error)
		Delete(ctx context.Context, id int64) error
		Seed(ctx context.Context, force bool) (int, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// QueryAll returns every item, newest first unless orderings are given.
func (svc *service) QueryAll(ctx context.Context, orderings ...core.DBOrdering) ([]Item, error) {
	if len(orderings) == 0 {
		orderings = NewestFirst
	}
	return svc.repo.QueryAllGalleryItems(ctx, orderings...)
}

func (svc *service) GetByID(ctx context.Context, id int64) (Item, error) {
	return svc.repo.GetGalleryItem(ctx, id)
}

func (svc *service) Create(ctx context.Context, data ItemData) (Item, error) {
	now := time.Now().UTC()
	return svc.repo.CreateGalleryItem(ctx, Item{
		Src:         data.Src,
		Title:       data.Title,
		Description: data.Description,
		Category:    data.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// Update replaces every field of the item but its id and creation time.
func (svc *service) Update(ctx context.Context, id int64, data ItemData) (Item, error) {
	item, err := svc.repo.GetGalleryItem(ctx, id)
	if err != nil {
		return Item{}, err
	}
	item.Src = data.Src
	item.Title = data.Title
	item.Description = data.Description
	item.Category = data.Category
	item.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateGalleryItem(ctx, item)
}

func (svc *service) Delete(ctx context.Context, id int64) error {
	return svc.repo.DeleteGalleryItem(ctx, id)
}

// Seed adds the SeedItems catalog when the gallery is empty (or always when forced)
// and returns the number of created items.
func (svc *service) Seed(ctx context.Context, force bool) (int, error) {
	if !force {
		count, err := svc.repo.CountGalleryItems(ctx)
		if err != nil {
			return 0, errors.Wrap(err, "counting gallery items")
		}
		if count > 0 {
			return 0, nil
		}
	}

	var created int
	for _, data := range SeedItems() {
		if _, err := svc.Create(ctx, data); err != nil {
			return created, errors.Wrap(err, "creating gallery item")
		}
		created++
	}
	return created, nil
}
