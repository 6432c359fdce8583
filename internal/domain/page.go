package domain

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest selects a zero-based page of a result set.
type PageRequest struct {
	Page int
	Size int
}

// Normalize clamps the request into a usable range. The page index is capped
// so that Offset never overflows.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if maxPage := math.MaxInt / p.Size; p.Page > maxPage {
		p.Page = maxPage
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is one slice of an ordered result set plus the totals needed to page
// through the rest.
type Page[T any] struct {
	Content       []T
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}

// NewPage assembles a page. req must already be normalized.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// First reports whether this is the first page.
func (p Page[T]) First() bool {
	return p.Page == 0
}

// Last reports whether no page follows this one.
func (p Page[T]) Last() bool {
	return p.Page >= p.TotalPages-1
}

// MapPage converts the content of a page while keeping its metadata.
func MapPage[T, R any](p Page[T], fn func(T) R) Page[R] {
	out := make([]R, len(p.Content))
	for i := range p.Content {
		out[i] = fn(p.Content[i])
	}
	return Page[R]{
		Content:       out,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}
