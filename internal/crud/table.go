// Package crud drives the paginated tables shared by the admin and history
// views: fetch on load and on page change, modal create/edit, confirm-then-delete
// and a refetch of the current page after every mutation.
package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"mess-portal/internal/model"
	"mess-portal/internal/notify"
	"mess-portal/pkg/apierror"
)

var (
	ErrNotConfirmed = errors.New("delete requires confirmation")
	ErrReadOnly     = errors.New("table does not support this mutation")
	ErrModalClosed  = errors.New("no form is open")
	ErrNotLoaded    = errors.New("item is not on the current page")
)

// None is the form type of tables without create or update.
type None struct{}

type Options[T any, C any, U any] struct {
	// Resource names the rows in notifications, e.g. "User".
	Resource string
	PageSize int
	Sort     string
	Identify func(T) int64
	Fetch    func(ctx context.Context, req model.PageRequest) (model.Page[T], error)
	Create   func(ctx context.Context, form C) (T, error)
	Update   func(ctx context.Context, id int64, form U) (T, error)
	Delete   func(ctx context.Context, id int64) error
	Notifier notify.Notifier
	Logger   *slog.Logger
}

type Modal[T any] struct {
	Open    bool `json:"open"`
	Editing *T   `json:"editing,omitempty"`
}

// View is a copy of the table state for rendering.
type View[T any] struct {
	Page       int            `json:"page"`
	Size       int            `json:"size"`
	Data       *model.Page[T] `json:"data"`
	Loading    bool           `json:"loading"`
	Error      string         `json:"error,omitempty"`
	Modal      Modal[T]       `json:"modal"`
	OutOfRange bool           `json:"outOfRange"`
}

type Table[T any, C any, U any] struct {
	opts Options[T, C, U]

	mu         sync.Mutex
	page       int
	size       int
	data       *model.Page[T]
	loading    bool
	errMsg     string
	modal      Modal[T]
	generation uint64
}

func New[T any, C any, U any](opts Options[T, C, U]) *Table[T, C, U] {
	if opts.PageSize <= 0 {
		opts.PageSize = 5
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Resource == "" {
		opts.Resource = "Item"
	}

	return &Table[T, C, U]{opts: opts, size: opts.PageSize}
}

func (t *Table[T, C, U]) View() View[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewLocked()
}

// Load is the mount fetch: it applies the selection and always fetches once.
func (t *Table[T, C, U]) Load(ctx context.Context, page int, size int) (View[T], error) {
	t.mu.Lock()
	t.page, t.size = t.normalize(page, size)
	t.mu.Unlock()

	err := t.fetch(ctx)
	return t.View(), err
}

// SetPagination fetches exactly once when the selection changes and not at all
// when it does not.
func (t *Table[T, C, U]) SetPagination(ctx context.Context, page int, size int) (View[T], error) {
	t.mu.Lock()
	page, size = t.normalize(page, size)
	changed := page != t.page || size != t.size || t.data == nil
	t.page, t.size = page, size
	t.mu.Unlock()

	if !changed {
		return t.View(), nil
	}

	err := t.fetch(ctx)
	return t.View(), err
}

// Refresh re-fetches the current page.
func (t *Table[T, C, U]) Refresh(ctx context.Context) (View[T], error) {
	err := t.fetch(ctx)
	return t.View(), err
}

func (t *Table[T, C, U]) OpenCreate() {
	t.mu.Lock()
	t.modal = Modal[T]{Open: true}
	t.mu.Unlock()
}

func (t *Table[T, C, U]) OpenEdit(item T) {
	t.mu.Lock()
	t.modal = Modal[T]{Open: true, Editing: &item}
	t.mu.Unlock()
}

func (t *Table[T, C, U]) CloseModal() {
	t.mu.Lock()
	t.modal = Modal[T]{}
	t.mu.Unlock()
}

// Reset drops everything a previous user left behind: the page, the open form
// and any fetch still in flight.
func (t *Table[T, C, U]) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.generation++
	t.page = 0
	t.size = t.opts.PageSize
	t.data = nil
	t.loading = false
	t.errMsg = ""
	t.modal = Modal[T]{}
}

// Find returns the row with id from the last fetched page.
func (t *Table[T, C, U]) Find(id int64) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	if t.data == nil || t.opts.Identify == nil {
		return zero, ErrNotLoaded
	}
	for _, item := range t.data.Content {
		if t.opts.Identify(item) == id {
			return item, nil
		}
	}

	return zero, ErrNotLoaded
}

// Submit sends the open form: an update when a row is being edited, a create
// otherwise. On success the modal closes and the current page is re-fetched;
// on failure the modal stays open.
func (t *Table[T, C, U]) Submit(ctx context.Context, create C, update U) (View[T], error) {
	t.mu.Lock()
	modal := t.modal
	t.mu.Unlock()

	if !modal.Open {
		return t.View(), ErrModalClosed
	}

	var (
		err  error
		verb string
	)
	if modal.Editing != nil {
		verb = "updated"
		if t.opts.Update == nil || t.opts.Identify == nil {
			return t.View(), ErrReadOnly
		}
		_, err = t.opts.Update(ctx, t.opts.Identify(*modal.Editing), update)
	} else {
		verb = "created"
		if t.opts.Create == nil {
			return t.View(), ErrReadOnly
		}
		_, err = t.opts.Create(ctx, create)
	}

	if err != nil {
		t.notify(notify.LevelError, apierror.MessageOf(err, "An error occurred."))
		return t.View(), err
	}

	t.notify(notify.LevelSuccess, fmt.Sprintf("%s %s successfully!", t.opts.Resource, verb))
	t.CloseModal()

	return t.Refresh(ctx)
}

// Delete removes a row after explicit confirmation and re-fetches the current
// page. The page index is left as is even if the page is now past the end.
func (t *Table[T, C, U]) Delete(ctx context.Context, id int64, confirmed bool) (View[T], error) {
	if t.opts.Delete == nil {
		return t.View(), ErrReadOnly
	}
	if !confirmed {
		return t.View(), ErrNotConfirmed
	}

	if err := t.opts.Delete(ctx, id); err != nil {
		t.notify(notify.LevelError, apierror.MessageOf(err, fmt.Sprintf("Failed to delete %s.", strings.ToLower(t.opts.Resource))))
		return t.View(), err
	}

	t.notify(notify.LevelInfo, fmt.Sprintf("%s deleted successfully!", t.opts.Resource))
	return t.Refresh(ctx)
}

func (t *Table[T, C, U]) fetch(ctx context.Context) error {
	t.mu.Lock()
	t.generation++
	generation := t.generation
	req := model.PageRequest{Page: t.page, Size: t.size, Sort: t.opts.Sort}
	t.loading = true
	t.errMsg = ""
	t.mu.Unlock()

	page, err := t.opts.Fetch(ctx, req)
	if err == nil {
		err = page.Validate()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// A newer fetch was issued while this one was in flight.
	if generation != t.generation {
		t.opts.Logger.Debug("discarding stale page response", "resource", t.opts.Resource, "generation", generation, "latest", t.generation)
		return nil
	}

	t.loading = false
	if err != nil {
		t.errMsg = apierror.MessageOf(err, fmt.Sprintf("Failed to fetch %s.", strings.ToLower(t.opts.Resource)+"s"))
		return err
	}

	t.data = &page
	return nil
}

func (t *Table[T, C, U]) normalize(page int, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = t.opts.PageSize
	}
	return page, size
}

func (t *Table[T, C, U]) viewLocked() View[T] {
	view := View[T]{
		Page:    t.page,
		Size:    t.size,
		Loading: t.loading,
		Error:   t.errMsg,
		Modal:   t.modal,
	}
	if t.data != nil {
		data := *t.data
		view.Data = &data
		view.OutOfRange = data.OutOfRange()
	}
	return view
}

func (t *Table[T, C, U]) notify(level notify.Level, message string) {
	if t.opts.Notifier == nil {
		return
	}
	t.opts.Notifier.Push(notify.Notification{Level: level, Source: t.opts.Resource, Message: message})
}
