package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mess-portal/internal/crud"
	"mess-portal/internal/model"
)

// TableHandler exposes a paginated table over HTTP: list, open and close the
// form, submit it and delete with confirmation.
type TableHandler[T any, C any, U any] struct {
	table *crud.Table[T, C, U]
	// fetchOne loads a row for editing when it is not on the current page.
	fetchOne func(ctx context.Context, id int64) (T, error)
}

func NewTableHandler[T any, C any, U any](table *crud.Table[T, C, U], fetchOne func(ctx context.Context, id int64) (T, error)) *TableHandler[T, C, U] {
	return &TableHandler[T, C, U]{table: table, fetchOne: fetchOne}
}

// List fetches only when the page selection changed. refresh=true marks a
// fresh mount and always fetches.
func (h *TableHandler[T, C, U]) List(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	load := h.table.SetPagination
	if queryBool(r, "refresh") {
		load = h.table.Load
	}

	view, err := load(r.Context(), page, size)
	if err != nil {
		writeError(w, err)
		return
	}

	writeTableView(w, http.StatusOK, view)
}

func (h *TableHandler[T, C, U]) OpenCreate(w http.ResponseWriter, _ *http.Request) {
	h.table.OpenCreate()
	writeTableView(w, http.StatusOK, h.table.View())
}

func (h *TableHandler[T, C, U]) OpenEdit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	item, err := h.table.Find(id)
	if errors.Is(err, crud.ErrNotLoaded) && h.fetchOne != nil {
		item, err = h.fetchOne(r.Context(), id)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	h.table.OpenEdit(item)
	writeTableView(w, http.StatusOK, h.table.View())
}

func (h *TableHandler[T, C, U]) CloseForm(w http.ResponseWriter, _ *http.Request) {
	h.table.CloseModal()
	writeTableView(w, http.StatusOK, h.table.View())
}

// Submit decodes the body as both the create and the update form; the table
// uses whichever matches the open modal.
func (h *TableHandler[T, C, U]) Submit(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := decodeJSON(w, r, &raw); err != nil {
		writeError(w, err)
		return
	}

	var (
		create C
		update U
	)
	if err := json.Unmarshal(raw, &create); err != nil {
		writeError(w, model.ErrInvalidInput)
		return
	}
	if err := json.Unmarshal(raw, &update); err != nil {
		writeError(w, model.ErrInvalidInput)
		return
	}

	view, err := h.table.Submit(r.Context(), create, update)
	if err != nil {
		writeError(w, err)
		return
	}

	writeTableView(w, http.StatusOK, view)
}

func (h *TableHandler[T, C, U]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := h.table.Delete(r.Context(), id, queryBool(r, "confirm"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeTableView(w, http.StatusOK, view)
}

func (h *TableHandler[T, C, U]) Reset() {
	h.table.Reset()
}

func writeTableView[T any](w http.ResponseWriter, status int, view crud.View[T]) {
	var meta *model.Meta
	if view.Data != nil {
		m := view.Data.Meta()
		meta = &m
	}
	writeSuccess(w, status, view, meta)
}
