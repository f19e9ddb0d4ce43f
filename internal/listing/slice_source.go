package listing

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// KeyFunc extracts the sort key of one column from a record. Supported key
// types are string, the integer kinds, float64, bool and time.Time.
type KeyFunc[T any] func(T) any

// SliceSource serves a listing from records held in memory.
type SliceSource[T any] struct {
	items  []T
	keys   map[string]KeyFunc[T]
	orders []order
}

type order struct {
	column string
	dir    Direction
}

func NewSliceSource[T any](items []T, keys map[string]KeyFunc[T]) *SliceSource[T] {
	return &SliceSource[T]{items: items, keys: keys}
}

func (s *SliceSource[T]) OrderBy(column string, dir Direction) Source[T] {
	next := &SliceSource[T]{
		items:  s.items,
		keys:   s.keys,
		orders: make([]order, 0, len(s.orders)+1),
	}
	next.orders = append(next.orders, s.orders...)
	next.orders = append(next.orders, order{column: column, dir: dir})
	return next
}

func (s *SliceSource[T]) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int64(len(s.items)), nil
}

func (s *SliceSource[T]) Page(ctx context.Context, page, size int) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sorted, err := s.sorted()
	if err != nil {
		return nil, err
	}
	start := Offset(page, size)
	if start >= len(sorted) || size <= 0 {
		return []T{}, nil
	}
	end := min(start+size, len(sorted))
	return sorted[start:end], nil
}

func (s *SliceSource[T]) sorted() ([]T, error) {
	for _, o := range s.orders {
		if _, ok := s.keys[o.column]; !ok {
			return nil, fmt.Errorf("slice source: no key for column %q", o.column)
		}
	}
	out := slices.Clone(s.items)
	var cmpErr error
	slices.SortStableFunc(out, func(a, b T) int {
		for _, o := range s.orders {
			key := s.keys[o.column]
			c, err := compareKeys(key(a), key(b))
			if err != nil && cmpErr == nil {
				cmpErr = fmt.Errorf("slice source: column %q: %w", o.column, err)
			}
			if c == 0 {
				continue
			}
			if o.dir == Desc {
				return -c
			}
			return c
		}
		return 0
	})
	if cmpErr != nil {
		return nil, cmpErr
	}
	return out, nil
}

func compareKeys(a, b any) (int, error) {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), nil
		}
	case int:
		if y, ok := b.(int); ok {
			return cmp.Compare(x, y), nil
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y), nil
		}
	case uint:
		if y, ok := b.(uint); ok {
			return cmp.Compare(x, y), nil
		}
	case uint64:
		if y, ok := b.(uint64); ok {
			return cmp.Compare(x, y), nil
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y), nil
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, nil
			case !x:
				return -1, nil
			default:
				return 1, nil
			}
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y), nil
		}
	case nil:
		if b == nil {
			return 0, nil
		}
		return -1, nil
	}
	if b == nil {
		return 1, nil
	}
	return 0, fmt.Errorf("cannot compare %T with %T", a, b)
}
