// Package listing turns an orderable, countable record source plus raw
// request parameters into one sorted page of records with pagination
// metadata. Several listings can share one query string: every parameter is
// namespaced by the listing name.
package listing

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var ErrInvalidDefinition = errors.New("invalid listing definition")

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ParseDirection accepts asc/desc in any case.
func ParseDirection(raw string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(Asc):
		return Asc, true
	case string(Desc):
		return Desc, true
	default:
		return "", false
	}
}

// SortAttribute maps a public sort name to the column reference used in the
// ORDER BY clause. Columns come from code, never from request input.
type SortAttribute struct {
	Name   string
	Column string
}

type Sort struct {
	Attribute string    `json:"attribute"`
	Direction Direction `json:"direction"`
}

type PageSizeConfig struct {
	Default int
	Max     int
}

type Definition struct {
	name        string
	view        string
	attrs       []SortAttribute
	columns     map[string]string
	defaultSort Sort
	pageSize    PageSizeConfig
	tieBreaker  string
}

type Option func(*Definition)

func WithPageSize(cfg PageSizeConfig) Option {
	return func(d *Definition) { d.pageSize = cfg }
}

// WithView names the template the rendering layer should use for this listing.
func WithView(view string) Option {
	return func(d *Definition) { d.view = strings.TrimSpace(view) }
}

// WithTieBreaker appends a secondary ordering on a unique column so rows with
// equal sort keys keep a stable position across pages.
func WithTieBreaker(column string) Option {
	return func(d *Definition) { d.tieBreaker = strings.TrimSpace(column) }
}

func NewDefinition(name string, attrs []SortAttribute, defaultSort Sort, opts ...Option) (*Definition, error) {
	d := &Definition{
		name:     strings.TrimSpace(name),
		attrs:    make([]SortAttribute, 0, len(attrs)),
		columns:  make(map[string]string, len(attrs)),
		pageSize: PageSizeConfig{Default: DefaultPageSize, Max: MaxPageSize},
	}
	for _, opt := range opts {
		opt(d)
	}

	if !namePattern.MatchString(d.name) {
		return nil, fmt.Errorf("%w: name %q must match %s", ErrInvalidDefinition, name, namePattern.String())
	}
	if len(attrs) == 0 {
		return nil, fmt.Errorf("%w: %s has no sort attributes", ErrInvalidDefinition, d.name)
	}
	for _, a := range attrs {
		attrName := strings.ToLower(strings.TrimSpace(a.Name))
		column := strings.TrimSpace(a.Column)
		if attrName == "" || column == "" {
			return nil, fmt.Errorf("%w: %s has a sort attribute with an empty name or column", ErrInvalidDefinition, d.name)
		}
		if _, dup := d.columns[attrName]; dup {
			return nil, fmt.Errorf("%w: %s declares sort attribute %q twice", ErrInvalidDefinition, d.name, attrName)
		}
		d.columns[attrName] = column
		d.attrs = append(d.attrs, SortAttribute{Name: attrName, Column: column})
	}

	defaultAttr := strings.ToLower(strings.TrimSpace(defaultSort.Attribute))
	if _, ok := d.columns[defaultAttr]; !ok {
		return nil, fmt.Errorf("%w: %s default sort %q is not a sort attribute", ErrInvalidDefinition, d.name, defaultSort.Attribute)
	}
	dir, ok := ParseDirection(string(defaultSort.Direction))
	if !ok {
		return nil, fmt.Errorf("%w: %s default direction %q must be asc or desc", ErrInvalidDefinition, d.name, defaultSort.Direction)
	}
	d.defaultSort = Sort{Attribute: defaultAttr, Direction: dir}

	if d.pageSize.Default < 1 || d.pageSize.Max < d.pageSize.Default {
		return nil, fmt.Errorf("%w: %s page size default=%d max=%d", ErrInvalidDefinition, d.name, d.pageSize.Default, d.pageSize.Max)
	}
	return d, nil
}

// MustDefinition panics on an invalid definition. Use it for listings
// declared at package level.
func MustDefinition(name string, attrs []SortAttribute, defaultSort Sort, opts ...Option) *Definition {
	d, err := NewDefinition(name, attrs, defaultSort, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Definition) Name() string { return d.name }
func (d *Definition) View() string { return d.view }
func (d *Definition) DefaultSort() Sort { return d.defaultSort }
func (d *Definition) PageSize() PageSizeConfig { return d.pageSize }
func (d *Definition) TieBreaker() string { return d.tieBreaker }

func (d *Definition) Column(attribute string) (string, bool) {
	c, ok := d.columns[strings.ToLower(strings.TrimSpace(attribute))]
	return c, ok
}

// SortAttributes returns the public sort names in declaration order.
func (d *Definition) SortAttributes() []string {
	out := make([]string, 0, len(d.attrs))
	for _, a := range d.attrs {
		out = append(out, a.Name)
	}
	return out
}
