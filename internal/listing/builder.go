package listing

import (
	"context"
	"fmt"
	"net/url"
)

// Source is an orderable, countable, sliceable record collection. OrderBy
// returns a new Source with the ordering appended after any existing one and
// must leave the receiver untouched.
type Source[T any] interface {
	OrderBy(column string, dir Direction) Source[T]
	Count(ctx context.Context) (int64, error)
	Page(ctx context.Context, page, size int) ([]T, error)
}

// Result is the view-model of one listing page.
type Result[T any] struct {
	Name           string   `json:"name"`
	View           string   `json:"view,omitempty"`
	Items          []T      `json:"items"`
	Total          int64    `json:"total"`
	Page           int      `json:"page"`
	PageSize       int      `json:"page_size"`
	TotalPages     int      `json:"total_pages"`
	Sort           Sort     `json:"sort"`
	SortAttributes []string `json:"sort_attributes"`
	// PageClamped reports that the requested page was past the end and the
	// last page was returned instead.
	PageClamped bool `json:"page_clamped,omitempty"`
}

// Build parses this listing's parameters from values and builds the page.
func Build[T any](ctx context.Context, def *Definition, src Source[T], values url.Values) (Result[T], error) {
	return BuildRequest(ctx, def, src, def.ParseRequest(values))
}

// BuildRequest orders src, counts it and slices out the requested page.
//
// Count and page are two reads against src. Unless the underlying store
// serves both from one consistent snapshot, a concurrent write between them
// can make Total disagree with the returned page.
func BuildRequest[T any](ctx context.Context, def *Definition, src Source[T], req Request) (Result[T], error) {
	req = def.Normalize(req)
	column, _ := def.Column(req.Sort.Attribute)
	ordered := src.OrderBy(column, req.Sort.Direction)
	if def.tieBreaker != "" && def.tieBreaker != column {
		ordered = ordered.OrderBy(def.tieBreaker, req.Sort.Direction)
	}

	total, err := ordered.Count(ctx)
	if err != nil {
		return Result[T]{}, fmt.Errorf("count %s: %w", def.name, err)
	}
	totalPages := TotalPages(total, req.PageSize)

	res := Result[T]{
		Name:           def.name,
		View:           def.view,
		Items:          []T{},
		Total:          total,
		Page:           req.Page,
		PageSize:       req.PageSize,
		TotalPages:     totalPages,
		Sort:           req.Sort,
		SortAttributes: def.SortAttributes(),
	}
	if total <= 0 {
		res.Page = 1
		return res, nil
	}
	if res.Page > totalPages {
		res.Page = totalPages
		res.PageClamped = true
	}

	items, err := ordered.Page(ctx, res.Page, res.PageSize)
	if err != nil {
		return Result[T]{}, fmt.Errorf("page %s: %w", def.name, err)
	}
	if items != nil {
		res.Items = items
	}
	return res, nil
}

// TotalPages is ceil(total/pageSize), and 0 for an empty collection.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// Offset is the number of rows preceding a 1-based page.
func Offset(page, pageSize int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * pageSize
}
