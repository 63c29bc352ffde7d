package model

import (
	"encoding/json"
	"fmt"
)

// PageRequest selects a zero-based slice of a server-held collection.
type PageRequest struct {
	Page int
	Size int
	Sort string
}

// Page is one zero-based slice of a larger server-held collection.
type Page[T any] struct {
	Content          []T   `json:"content"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
	NumberOfElements int   `json:"numberOfElements"`
}

type pageWire[T any] struct {
	Content          *[]T   `json:"content"`
	Number           *int   `json:"number"`
	Size             *int   `json:"size"`
	TotalElements    *int64 `json:"totalElements"`
	TotalPages       *int   `json:"totalPages"`
	First            *bool  `json:"first"`
	Last             *bool  `json:"last"`
	Empty            *bool  `json:"empty"`
	NumberOfElements *int   `json:"numberOfElements"`
}

// UnmarshalJSON rejects envelopes with missing pagination fields instead of
// defaulting them to zero.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	var wire pageWire[T]
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	missing := []string{}
	if wire.Content == nil {
		missing = append(missing, "content")
	}
	if wire.Number == nil {
		missing = append(missing, "number")
	}
	if wire.Size == nil {
		missing = append(missing, "size")
	}
	if wire.TotalElements == nil {
		missing = append(missing, "totalElements")
	}
	if wire.TotalPages == nil {
		missing = append(missing, "totalPages")
	}
	if wire.First == nil {
		missing = append(missing, "first")
	}
	if wire.Last == nil {
		missing = append(missing, "last")
	}
	if wire.Empty == nil {
		missing = append(missing, "empty")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", ErrMalformedPage, missing)
	}

	*p = Page[T]{
		Content:       *wire.Content,
		Number:        *wire.Number,
		Size:          *wire.Size,
		TotalElements: *wire.TotalElements,
		TotalPages:    *wire.TotalPages,
		First:         *wire.First,
		Last:          *wire.Last,
		Empty:         *wire.Empty,
	}
	if wire.NumberOfElements != nil {
		p.NumberOfElements = *wire.NumberOfElements
	} else {
		p.NumberOfElements = len(p.Content)
	}

	return nil
}

// NewPage builds a consistent envelope around one slice of content.
func NewPage[T any](content []T, number int, size int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return Page[T]{
		Content:          content,
		Number:           number,
		Size:             size,
		TotalElements:    total,
		TotalPages:       totalPages,
		First:            number == 0,
		Last:             number >= totalPages-1,
		Empty:            len(content) == 0,
		NumberOfElements: len(content),
	}
}

// Paginate slices all into the requested page.
func Paginate[T any](all []T, number int, size int) Page[T] {
	if size <= 0 || number < 0 {
		return NewPage[T](nil, number, size, int64(len(all)))
	}

	start := number * size
	if start >= len(all) {
		return NewPage[T](nil, number, size, int64(len(all)))
	}

	end := start + size
	if end > len(all) {
		end = len(all)
	}

	content := make([]T, end-start)
	copy(content, all[start:end])

	return NewPage(content, number, size, int64(len(all)))
}

// Validate checks the envelope invariants. A page past the last one (which the
// server returns after the final row of the final page is deleted) is valid but
// OutOfRange.
func (p Page[T]) Validate() error {
	if p.Size < 0 || p.Number < 0 || p.TotalElements < 0 || p.TotalPages < 0 {
		return fmt.Errorf("%w: negative field", ErrInvalidPage)
	}
	if p.Size > 0 && len(p.Content) > p.Size {
		return fmt.Errorf("%w: %d items exceed page size %d", ErrInvalidPage, len(p.Content), p.Size)
	}
	if p.First != (p.Number == 0) {
		return fmt.Errorf("%w: first=%t on page %d", ErrInvalidPage, p.First, p.Number)
	}
	if p.TotalElements == 0 {
		if !p.Empty {
			return fmt.Errorf("%w: no elements but empty=false", ErrInvalidPage)
		}
		return nil
	}
	if !p.OutOfRange() && p.Last != (p.Number == p.TotalPages-1) {
		return fmt.Errorf("%w: last=%t on page %d of %d", ErrInvalidPage, p.Last, p.Number, p.TotalPages)
	}

	return nil
}

func (p Page[T]) OutOfRange() bool {
	return p.TotalPages > 0 && p.Number >= p.TotalPages
}

// Meta summarizes the envelope for view responses.
func (p Page[T]) Meta() Meta {
	return Meta{
		Page:       p.Number,
		Size:       p.Size,
		Total:      p.TotalElements,
		TotalPages: p.TotalPages,
	}
}
