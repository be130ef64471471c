package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/fatimaschool/website/core"
	"github.com/fatimaschool/website/core/gallery"
)

type galleryRepository struct {
	db *galleryTable
}

var _ gallery.Repository = (*galleryRepository)(nil)

func NewGalleryRepository(db *DB) gallery.Repository {
	return &galleryRepository{db: db.gallery}
}

func (repo *galleryRepository) QueryAllGalleryItems(_ context.Context, orderings ...core.DBOrdering) ([]gallery.Item, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	items := make([]gallery.Item, 0, len(repo.db.rows))
	for _, item := range repo.db.rows {
		items = append(items, *item)
	}

	valid := make([]core.DBOrdering, 0, len(orderings))
	for _, ord := range orderings {
		if gallery.OrderingFields[ord.Field] {
			valid = append(valid, ord)
		}
	}
	if len(valid) == 0 {
		valid = gallery.NewestFirst
	}
	sort.Slice(items, func(i, j int) bool {
		for _, ord := range valid {
			c := compareItems(items[i], items[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func compareItems(a, b gallery.Item, field string) int {
	switch field {
	case "id":
		return compareInt64(a.ID, b.ID)
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "category":
		return strings.Compare(a.Category, b.Category)
	case "created_at":
		return compareInt64(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	case "updated_at":
		return compareInt64(a.UpdatedAt.UnixNano(), b.UpdatedAt.UnixNano())
	}
	return 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (repo *galleryRepository) GetGalleryItem(_ context.Context, id int64) (gallery.Item, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if item, ok := repo.db.rows[id]; ok {
		return *item, nil
	}
	return gallery.Item{}, gallery.ErrNotFound
}

func (repo *galleryRepository) CountGalleryItems(_ context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.rows), nil
}

func (repo *galleryRepository) CreateGalleryItem(_ context.Context, item gallery.Item) (gallery.Item, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pk++
	item.ID = repo.db.pk
	repo.db.rows[item.ID] = &item
	return item, nil
}

func (repo *galleryRepository) UpdateGalleryItem(_ context.Context, item gallery.Item) (gallery.Item, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.rows[item.ID]
	if !ok {
		return gallery.Item{}, gallery.ErrNotFound
	}
	item.CreatedAt = orig.CreatedAt
	repo.db.rows[item.ID] = &item
	return item, nil
}

func (repo *galleryRepository) DeleteGalleryItem(_ context.Context, id int64) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.rows[id]; !ok {
		return gallery.ErrNotFound
	}
	delete(repo.db.rows, id)
	return nil
}
