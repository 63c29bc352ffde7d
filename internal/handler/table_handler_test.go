package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mess-portal/internal/crud"
	"mess-portal/internal/model"
	"mess-portal/internal/notify"
)

type itemForm struct {
	Name string `json:"name"`
}

type itemStore struct {
	items   []model.MenuItem
	created []itemForm
	updated map[int64]itemForm
}

func newItemTable(t *testing.T, store *itemStore, queue *notify.Queue) *TableHandler[model.MenuItem, itemForm, itemForm] {
	t.Helper()

	table := crud.New(crud.Options[model.MenuItem, itemForm, itemForm]{
		Resource: "Menu item",
		Identify: model.MenuItem.ID,
		Fetch: func(_ context.Context, req model.PageRequest) (model.Page[model.MenuItem], error) {
			return model.Paginate(store.items, req.Page, req.Size), nil
		},
		Create: func(_ context.Context, form itemForm) (model.MenuItem, error) {
			store.created = append(store.created, form)
			item := model.MenuItem{ItemID: int64(len(store.items) + 1), Name: form.Name}
			store.items = append(store.items, item)
			return item, nil
		},
		Update: func(_ context.Context, id int64, form itemForm) (model.MenuItem, error) {
			store.updated[id] = form
			return model.MenuItem{ItemID: id, Name: form.Name}, nil
		},
		Delete: func(context.Context, int64) error { return nil },
		Notifier: queue,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	fetchOne := func(_ context.Context, id int64) (model.MenuItem, error) {
		for _, item := range store.items {
			if item.ItemID == id {
				return item, nil
			}
		}
		return model.MenuItem{}, crud.ErrNotLoaded
	}

	return NewTableHandler(table, fetchOne)
}

func tableRoutes(h *TableHandler[model.MenuItem, itemForm, itemForm]) http.Handler {
	r := chi.NewRouter()
	r.Get("/items", h.List)
	r.Post("/items/form", h.OpenCreate)
	r.Post("/items/{id}/form", h.OpenEdit)
	r.Delete("/items/form", h.CloseForm)
	r.Post("/items/submit", h.Submit)
	r.Delete("/items/{id}", h.Delete)
	return r
}

func serve(t *testing.T, h http.Handler, method string, target string, body string) (*httptest.ResponseRecorder, crud.View[model.MenuItem]) {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, reader))

	var envelope struct {
		Data crud.View[model.MenuItem] `json:"data"`
	}
	if rec.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	}
	return rec, envelope.Data
}

func TestTableHandlerEditFallsBackToFetchOne(t *testing.T) {
	t.Parallel()

	store := &itemStore{updated: map[int64]itemForm{}}
	for i := 1; i <= 7; i++ {
		store.items = append(store.items, model.MenuItem{ItemID: int64(i), Name: "Dish"})
	}
	routes := tableRoutes(newItemTable(t, store, notify.NewQueue(8, nil)))

	rec, view := serve(t, routes, http.MethodGet, "/items?page=0&size=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, view.Data.Content, 5)

	// Row 7 lives on page 1, which is not loaded.
	rec, view = serve(t, routes, http.MethodPost, "/items/7/form", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, view.Modal.Open)
	require.NotNil(t, view.Modal.Editing)
	assert.Equal(t, int64(7), view.Modal.Editing.ItemID)

	rec, view = serve(t, routes, http.MethodPost, "/items/submit", `{"name":"Paneer"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, view.Modal.Open)
	assert.Equal(t, itemForm{Name: "Paneer"}, store.updated[7])
	assert.Empty(t, store.created)
}

func TestTableHandlerSubmitWithoutForm(t *testing.T) {
	t.Parallel()

	store := &itemStore{updated: map[int64]itemForm{}}
	routes := tableRoutes(newItemTable(t, store, notify.NewQueue(8, nil)))

	rec, _ := serve(t, routes, http.MethodPost, "/items/submit", `{"name":"Paneer"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	serve(t, routes, http.MethodPost, "/items/form", "")
	rec, _ = serve(t, routes, http.MethodPost, "/items/submit", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.created)
}

func TestTableHandlerDeleteNeedsConfirm(t *testing.T) {
	t.Parallel()

	queue := notify.NewQueue(8, nil)
	store := &itemStore{items: []model.MenuItem{{ItemID: 1, Name: "Dosa"}}, updated: map[int64]itemForm{}}
	routes := tableRoutes(newItemTable(t, store, queue))

	rec, _ := serve(t, routes, http.MethodDelete, "/items/1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, queue.Drain())

	rec, _ = serve(t, routes, http.MethodDelete, "/items/1?confirm=true", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	pending := queue.Drain()
	require.Len(t, pending, 1)
	assert.Equal(t, "Menu item deleted successfully!", pending[0].Message)

	rec, _ = serve(t, routes, http.MethodDelete, "/items/abc?confirm=true", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTableHandlerListFetchesOnSelectionChange(t *testing.T) {
	t.Parallel()

	store := &itemStore{updated: map[int64]itemForm{}}
	for i := 1; i <= 7; i++ {
		store.items = append(store.items, model.MenuItem{ItemID: int64(i), Name: "Dish"})
	}
	h := newItemTable(t, store, notify.NewQueue(8, nil))
	routes := tableRoutes(h)

	_, view := serve(t, routes, http.MethodGet, "/items?page=0&size=5", "")
	require.Len(t, view.Data.Content, 5)

	// Unchanged selection serves the loaded page.
	store.items = append(store.items, model.MenuItem{ItemID: 8, Name: "Added elsewhere"})
	_, view = serve(t, routes, http.MethodGet, "/items?page=0&size=5", "")
	assert.Equal(t, int64(7), view.Data.TotalElements)

	_, view = serve(t, routes, http.MethodGet, "/items?page=0&size=5&refresh=true", "")
	assert.Equal(t, int64(8), view.Data.TotalElements)

	_, view = serve(t, routes, http.MethodGet, "/items?page=1&size=5", "")
	assert.Len(t, view.Data.Content, 3)

	h.Reset()
	_, view = serve(t, routes, http.MethodGet, "/items?page=1&size=5", "")
	require.NotNil(t, view.Data)
	assert.Equal(t, 1, view.Page)
}
