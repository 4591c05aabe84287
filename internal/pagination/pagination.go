package pagination

import (
	"errors"
	"strconv"
)

const DefaultPerPage = 10

// ErrInvalidPage is returned by ResolveStrict for a page that does not exist.
var ErrInvalidPage = errors.New("invalid page")

// Params define the window of rows to fetch.
type Params struct {
	Page    int
	PerPage int
}

func (p Params) Offset() int {
	if p.Page < 1 {
		p.Page = 1
	}
	return (p.Page - 1) * p.Limit()
}

func (p Params) Limit() int {
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	return p.PerPage
}

// Resolve turns the raw ?page= value into a valid page. A value that is not a
// number selects the first page; one below 1 or past the end selects the last page.
// An empty result still has one page.
func Resolve(raw string, total int64, perPage int) Params {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	last := numPages(total, perPage)

	if raw == "" {
		return Params{Page: 1, PerPage: perPage}
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return Params{Page: 1, PerPage: perPage}
	}
	if page < 1 || page > last {
		page = last
	}
	return Params{Page: page, PerPage: perPage}
}

// ResolveStrict accepts only an existing page number or "last". A missing value
// selects the first page. Anything else is ErrInvalidPage.
func ResolveStrict(raw string, total int64, perPage int) (Params, error) {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	last := numPages(total, perPage)

	switch raw {
	case "":
		return Params{Page: 1, PerPage: perPage}, nil
	case "last":
		return Params{Page: last, PerPage: perPage}, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 || page > last {
		return Params{}, ErrInvalidPage
	}
	return Params{Page: page, PerPage: perPage}, nil
}

// Page carries one page of items plus the metadata listing endpoints render.
type Page[T any] struct {
	Items   []T
	Number  int
	PerPage int
	Total   int64
}

func New[T any](items []T, params Params, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:   items,
		Number:  params.Page,
		PerPage: params.Limit(),
		Total:   total,
	}
}

func (p Page[T]) NumPages() int {
	return numPages(p.Total, p.PerPage)
}

func (p Page[T]) HasPrevious() bool {
	return p.Number > 1
}

func (p Page[T]) HasNext() bool {
	return p.Number < p.NumPages()
}

func (p Page[T]) PreviousPage() int {
	if p.HasPrevious() {
		return p.Number - 1
	}
	return 1
}

func (p Page[T]) NextPage() int {
	if p.HasNext() {
		return p.Number + 1
	}
	return p.NumPages()
}

func numPages(total int64, perPage int) int {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if total <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
