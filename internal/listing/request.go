package listing

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Request is the normalized page/sort state of one listing for one request.
type Request struct {
	Page     int
	PageSize int
	Sort     Sort
}

// ParamKey returns the namespaced query key for a listing parameter,
// e.g. users[page].
func (d *Definition) ParamKey(field string) string {
	return d.name + "[" + field + "]"
}

// ParseRequest reads this listing's parameters out of values. Recognized keys:
//
//	<name>[page]              1-based page number
//	<name>[per_page]          page size
//	<name>[sort][<attr>]      asc|desc
//	<name>[sort_by]           attr, with optional <name>[sort_order]
//
// Anything missing or malformed falls back to the definition defaults.
func (d *Definition) ParseRequest(values url.Values) Request {
	req := Request{Page: 1, PageSize: d.pageSize.Default, Sort: d.defaultSort}
	if v, err := strconv.Atoi(strings.TrimSpace(values.Get(d.ParamKey("page")))); err == nil {
		req.Page = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(values.Get(d.ParamKey("per_page")))); err == nil {
		req.PageSize = v
	}
	if s, ok := d.parseNestedSort(values); ok {
		req.Sort = s
	} else if s, ok := d.parseFlatSort(values); ok {
		req.Sort = s
	}
	return d.Normalize(req)
}

// Normalize clamps a request into the valid range of this definition.
func (d *Definition) Normalize(req Request) Request {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = d.pageSize.Default
	}
	if req.PageSize > d.pageSize.Max {
		req.PageSize = d.pageSize.Max
	}
	attr := strings.ToLower(strings.TrimSpace(req.Sort.Attribute))
	if _, ok := d.columns[attr]; !ok {
		req.Sort = d.defaultSort
		return req
	}
	dir, ok := ParseDirection(string(req.Sort.Direction))
	if !ok {
		dir = d.defaultSort.Direction
	}
	req.Sort = Sort{Attribute: attr, Direction: dir}
	return req
}

func (d *Definition) parseNestedSort(values url.Values) (Sort, bool) {
	prefix := d.name + "[sort]["
	keys := make([]string, 0, 1)
	for k := range values {
		if strings.HasPrefix(k, prefix) && strings.HasSuffix(k, "]") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		attr := strings.ToLower(k[len(prefix) : len(k)-1])
		if _, ok := d.columns[attr]; !ok {
			continue
		}
		dir, ok := ParseDirection(values.Get(k))
		if !ok {
			dir = d.defaultSort.Direction
		}
		return Sort{Attribute: attr, Direction: dir}, true
	}
	return Sort{}, false
}

func (d *Definition) parseFlatSort(values url.Values) (Sort, bool) {
	attr := strings.ToLower(strings.TrimSpace(values.Get(d.ParamKey("sort_by"))))
	if _, ok := d.columns[attr]; !ok {
		return Sort{}, false
	}
	dir, ok := ParseDirection(values.Get(d.ParamKey("sort_order")))
	if !ok {
		dir = d.defaultSort.Direction
	}
	return Sort{Attribute: attr, Direction: dir}, true
}
