package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/fatimaschool/website/apps/api/echo"
	"github.com/fatimaschool/website/core/gallery"
	"github.com/fatimaschool/website/tests"
)

var categoryErr = "must be one of: " + strings.Join(gallery.Categories, ", ")

// seedGallery stores the seed catalog and returns it by id (1 to 5).
func seedGallery(t *testing.T, fx *fixture) []gallery.Item {
	ctx := context.Background()
	n, err := gallery.NewService(fx.galleryRepo).Seed(ctx, false)
	require.NoError(t, err)
	require.Equal(t, 5, n)

	items, err := fx.galleryRepo.QueryAllGalleryItems(ctx, gallery.CatalogOrder...)
	require.NoError(t, err)
	return items
}

func Test_galleryApi_view(t *testing.T) {
	fx := setup(t)
	items := seedGallery(t, fx)
	art, speech, leadership, results, results2 := items[0], items[1], items[2], items[3], items[4]
	categories := append([]string{gallery.AllCategories}, gallery.Categories...)

	path := func(category string) string {
		return "/api/gallery?" + url.Values{"category": {category}}.Encode()
	}

	tests := []httpTest{
		{
			name: "All (one item per category)", path: "/api/gallery", wantCode: http.StatusOK,
			wantData: marchallObj(t, GalleryView{
				Categories: categories,
				Category:   gallery.AllCategories,
				Items:      []gallery.Item{art, speech, leadership, results},
			}),
		},
		{
			name: "category", path: path(gallery.CategoryResults), wantCode: http.StatusOK,
			wantData: marchallObj(t, GalleryView{
				Categories: categories,
				Category:   gallery.CategoryResults,
				Items:      []gallery.Item{results, results2},
			}),
		},
		{
			name: "unknown category", path: path("Sports"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"category": categoryErr}),
		},
		{
			name: "lightbox", path: "/api/gallery/5", wantCode: http.StatusOK,
			wantData: marchallObj(t, gallery.Lightbox{
				Item: results2, Category: gallery.CategoryResults, Position: 2, Total: 2, Previous: results, Next: results,
			}),
		},
		{
			name: "lightbox (single item category)", path: "/api/gallery/1", wantCode: http.StatusOK,
			wantData: marchallObj(t, gallery.Lightbox{
				Item: art, Category: gallery.CategoryArt, Position: 1, Total: 1, Previous: art, Next: art,
			}),
		},
		{name: "lightbox (unknown)", path: "/api/gallery/99", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
		{name: "lightbox (invalid id)", path: "/api/gallery/abc", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
	}
	runHTTPTests(t, fx, tests)
}

func Test_galleryApi_view_AlwaysOnePerCategory(t *testing.T) {
	fx := setup(t)
	seedGallery(t, fx)
	for i := 0; i < 12; i++ {
		testutil.CreateGalleryItem(t, fx.galleryRepo, "Extra", gallery.Categories[i%len(gallery.Categories)], "/images/extra.jpg")
	}

	req, rec := newRequest(http.MethodGet, "/api/gallery")
	fx.serve(req, rec)
	require.Equal(t, http.StatusOK, rec.Code)

	var view GalleryView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	if assert.Len(t, view.Items, 4) {
		for i, item := range view.Items {
			assert.Equal(t, gallery.Categories[i], item.Category)
		}
	}
}

func Test_galleryApi_admin(t *testing.T) {
	fx := setup(t)
	items := seedGallery(t, fx)
	art, speech, leadership, results, results2 := items[0], items[1], items[2], items[3], items[4]
	token := fx.token(t)

	tests := []httpTest{
		{name: "Auth required", path: "/api/admin/gallery", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "newest first", path: "/api/admin/gallery", token: token, wantCode: http.StatusOK, wantData: marchallList(t, results2, results, leadership, speech, art)},
		{
			name: "order by title", path: "/api/admin/gallery?ordering=title", token: token, wantCode: http.StatusOK,
			wantData: marchallList(t, results2, leadership, results, art, speech),
		},
		{
			name: "order by -title,id", path: "/api/admin/gallery?ordering=-title,id", token: token, wantCode: http.StatusOK,
			wantData: marchallList(t, speech, art, results, leadership, results2),
		},
		{
			name: "blank and unknown orderings skipped", path: "/api/admin/gallery?ordering=-,-title,,nope", token: token, wantCode: http.StatusOK,
			wantData: marchallList(t, speech, art, results, leadership, results2),
		},
		{
			name: "order by category,-id", path: "/api/admin/gallery?ordering=category,-id", token: token, wantCode: http.StatusOK,
			wantData: marchallList(t, art, leadership, speech, results2, results),
		},
		{
			name: "categories", path: "/api/admin/gallery/categories", token: token, wantCode: http.StatusOK,
			wantData: marchallObj(t, gallery.Categories),
		},
		{
			name: "create (invalid)", method: http.MethodPost, path: "/api/admin/gallery", token: token,
			body:     []byte(`{"category": "Sports", "description": "Match day"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"title":    "this field cannot be blank",
				"category": categoryErr,
				"src":      "this field cannot be blank",
			}),
		},
		{
			name: "update (unknown)", method: http.MethodPut, path: "/api/admin/gallery/99", token: token,
			body:     marchallObj(t, gallery.DataOf(art)),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "delete (not confirmed)", method: http.MethodDelete, path: "/api/admin/gallery/3", token: token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"confirm": "set confirm=true to delete this item"}),
		},
		{name: "delete", method: http.MethodDelete, path: "/api/admin/gallery/3?confirm=true", token: token, wantCode: http.StatusNoContent},
		{
			name: "delete (unknown)", method: http.MethodDelete, path: "/api/admin/gallery/3?confirm=true", token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	runHTTPTests(t, fx, tests)

	t.Run("create (markup)", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/gallery", token, marchallObj(t, gallery.ItemData{
			Title:       "Science Fair <i>2024</i>",
			Category:    gallery.CategoryArt,
			Src:         "/images/science.jpg",
			Description: "if a<b then b>a",
		}))
		fx.serve(req, rec)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"title":       "this field cannot contain HTML markup",
				"description": "this field cannot contain HTML markup",
			}),
		}, rec)
	})

	t.Run("create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/admin/gallery", token, marchallObj(t, gallery.ItemData{
			Title:    " Science Fair 2024 ",
			Category: gallery.CategoryArt,
			Src:      "/images/science.jpg",
		}))
		fx.serve(req, rec)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created gallery.Item
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, int64(6), created.ID)
		assert.Equal(t, "Science Fair 2024", created.Title)

		stored, err := fx.galleryRepo.GetGalleryItem(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Title, stored.Title)
	})

	t.Run("update keeps the id", func(t *testing.T) {
		data := gallery.ItemData{
			Title:       "Debate Finals",
			Category:    gallery.CategorySpeaking,
			Src:         "/images/debate.jpg",
			Description: "Regional debate finals",
		}
		req, rec := newAuthRequest(http.MethodPut, "/api/admin/gallery/2", token, marchallObj(t, data))
		fx.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		stored, err := fx.galleryRepo.GetGalleryItem(context.Background(), speech.ID)
		require.NoError(t, err)
		assert.Equal(t, speech.ID, stored.ID)
		assert.Equal(t, data, gallery.DataOf(stored))
		assert.Equal(t, speech.CreatedAt, stored.CreatedAt)
	})

	count, err := fx.galleryRepo.CountGalleryItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count, "one deleted, one created")

	_, err = fx.galleryRepo.GetGalleryItem(context.Background(), leadership.ID)
	assert.Equal(t, gallery.ErrNotFound, err)

}
