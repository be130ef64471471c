package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/fatimaschool/website/core"
	"github.com/fatimaschool/website/core/gallery"
)

const (
	galleryColumns      = "id, src, title, description, category, created_at, updated_at"
	galleryDefaultOrder = "created_at DESC, id DESC"
)

type galleryRepository struct {
	db *sqlx.DB
}

var _ gallery.Repository = (*galleryRepository)(nil)

func NewGalleryRepository(db *sqlx.DB) gallery.Repository {
	return &galleryRepository{db: db}
}

func (repo *galleryRepository) QueryAllGalleryItems(ctx context.Context, orderings ...core.DBOrdering) ([]gallery.Item, error) {
	items := make([]gallery.Item, 0)
	q := "SELECT " + galleryColumns + " FROM gallery_items ORDER BY " +
		core.OrderByClause(orderings, gallery.OrderingFields, galleryDefaultOrder)
	if err := repo.db.SelectContext(ctx, &items, q); err != nil {
		return nil, errors.Wrap(err, "selecting gallery items")
	}
	return items, nil
}

func (repo *galleryRepository) GetGalleryItem(ctx context.Context, id int64) (gallery.Item, error) {
	var item gallery.Item
	q := "SELECT " + galleryColumns + " FROM gallery_items WHERE id = $1"
	if err := repo.db.GetContext(ctx, &item, q, id); err != nil {
		if err == sql.ErrNoRows {
			return gallery.Item{}, gallery.ErrNotFound
		}
		return gallery.Item{}, errors.Wrap(err, "selecting gallery item")
	}
	return item, nil
}

func (repo *galleryRepository) CountGalleryItems(ctx context.Context) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count, "SELECT count(*) FROM gallery_items")
	return count, errors.Wrap(err, "counting gallery items")
}

func (repo *galleryRepository) CreateGalleryItem(ctx context.Context, item gallery.Item) (gallery.Item, error) {
	var created gallery.Item
	q := `INSERT INTO gallery_items (src, title, description, category, created_at, updated_at)
		VALUES (:src, :title, :description, :category, :created_at, :updated_at)
		RETURNING ` + galleryColumns
	rows, err := repo.db.NamedQueryContext(ctx, q, item)
	if err != nil {
		return gallery.Item{}, errors.Wrap(err, "inserting gallery item")
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err = rows.Err(); err == nil {
			err = sql.ErrNoRows
		}
		return gallery.Item{}, errors.Wrap(err, "inserting gallery item")
	}
	return created, errors.Wrap(rows.StructScan(&created), "scanning gallery item")
}

func (repo *galleryRepository) UpdateGalleryItem(ctx context.Context, item gallery.Item) (gallery.Item, error) {
	var updated gallery.Item
	q := `UPDATE gallery_items
		SET src = $2, title = $3, description = $4, category = $5, updated_at = $6
		WHERE id = $1
		RETURNING ` + galleryColumns
	row := repo.db.QueryRowxContext(ctx, q, item.ID, item.Src, item.Title, item.Description, item.Category, item.UpdatedAt)
	if err := row.StructScan(&updated); err != nil {
		if err == sql.ErrNoRows {
			return gallery.Item{}, gallery.ErrNotFound
		}
		return gallery.Item{}, errors.Wrap(err, "updating gallery item")
	}
	return updated, nil
}

func (repo *galleryRepository) DeleteGalleryItem(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM gallery_items WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting gallery item")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting gallery item")
	}
	if n == 0 {
		return gallery.ErrNotFound
	}
	return nil
}
