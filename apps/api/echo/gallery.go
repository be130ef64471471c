package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fatimaschool/website/core"
	"github.com/fatimaschool/website/core/gallery"
)

var errDeleteNotConfirmed = errors.New("deletion not confirmed")

type (
	galleryApi struct {
		svc      gallery.Service
		validate *validator.Validate
	}

	GalleryView struct {
		Categories []string       `json:"categories"`
		Category   string         `json:"category"`
		Items      []gallery.Item `json:"items"`
	}
)

func registerGalleryAPI(g *echo.Group, adminG *echo.Group, svc gallery.Service, validate *validator.Validate) {
	api := galleryApi{
		svc:      svc,
		validate: validate,
	}

	// public viewer
	pg := g.Group("/gallery")
	pg.GET("", api.view)
	pg.GET("/:id", api.lightbox)

	// editor
	ag := adminG.Group("/admin/gallery")
	ag.GET("", api.query)
	ag.POST("", api.create)
	ag.GET("/categories", api.categories)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

func (api *galleryApi) viewer(ctx echo.Context) (*gallery.Viewer, error) {
	items, err := api.svc.QueryAll(ctx.Request().Context(), gallery.CatalogOrder...)
	if err != nil {
		return nil, errors.Wrap(err, "querying gallery items")
	}
	return gallery.NewViewer(items), nil
}

func (api *galleryApi) view(ctx echo.Context) error {
	viewer, err := api.viewer(ctx)
	if err != nil {
		return err
	}
	if category := ctx.QueryParam("category"); category != "" {
		if err = viewer.SelectCategory(category); err != nil {
			return err
		}
	}
	return ctx.JSON(http.StatusOK, GalleryView{
		Categories: viewer.Categories(),
		Category:   viewer.Category(),
		Items:      viewer.Visible(),
	})
}

func (api *galleryApi) lightbox(ctx echo.Context) error {
	id, ok := paramID(ctx)
	if !ok {
		return errHttpNotFound
	}
	viewer, err := api.viewer(ctx)
	if err != nil {
		return err
	}
	if _, err = viewer.Open(id); err != nil {
		return errHttpNotFound
	}
	lb, _ := viewer.Lightbox()
	return ctx.JSON(http.StatusOK, lb)
}

func (api *galleryApi) query(ctx echo.Context) error {
	items, err := api.svc.QueryAll(ctx.Request().Context(), bindOrdering(ctx)...)
	if err != nil {
		return errors.Wrap(err, "querying gallery items")
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *galleryApi) categories(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, gallery.Categories)
}

func (api *galleryApi) create(ctx echo.Context) error {
	var data gallery.ItemData
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ItemData")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	editor := gallery.NewEditor(api.svc, nil)
	editor.Form = data
	item, err := editor.Submit(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "creating gallery item")
	}
	return ctx.JSON(http.StatusCreated, item)
}

func (api *galleryApi) update(ctx echo.Context) error {
	editor, err := api.editorFor(ctx)
	if err != nil {
		return err
	}

	var data gallery.ItemData
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ItemData")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	editor.Form = data
	item, err := editor.Submit(ctx.Request().Context())
	if err != nil {
		if errors.Cause(err) == gallery.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating gallery item")
	}
	return ctx.JSON(http.StatusOK, item)
}

// destroy requires ?confirm=true.
func (api *galleryApi) destroy(ctx echo.Context) error {
	editor, err := api.editorFor(ctx)
	if err != nil {
		return err
	}
	id, _ := editor.Editing()
	confirmed, _ := strconv.ParseBool(ctx.QueryParam("confirm"))

	deleted, err := editor.Delete(ctx.Request().Context(), id, func(gallery.Item) bool { return confirmed })
	if err != nil {
		if errors.Cause(err) == gallery.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting gallery item")
	}
	if !deleted {
		return core.NewValidationError(errDeleteNotConfirmed, core.FieldError{
			Field: "confirm",
			Error: "set confirm=true to delete this item",
		})
	}
	return ctx.NoContent(http.StatusNoContent)
}

// editorFor loads the item of the :id param into an editor.
func (api *galleryApi) editorFor(ctx echo.Context) (*gallery.Editor, error) {
	id, ok := paramID(ctx)
	if !ok {
		return nil, errHttpNotFound
	}
	item, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == gallery.ErrNotFound {
			return nil, errHttpNotFound
		}
		return nil, errors.Wrap(err, "getting gallery item")
	}

	editor := gallery.NewEditor(api.svc, []gallery.Item{item})
	if err = editor.Edit(id); err != nil {
		return nil, errors.Wrap(err, "editing gallery item")
	}
	return editor, nil
}

func paramID(ctx echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	return id, err == nil && id > 0
}
