package pagination

import (
	"strconv"
	"strings"

	"github.com/fkhayef/yatube/pkg/response"
)

// PostsPerPage is the number of posts shown on every paginated page
const PostsPerPage = 10

// Page describes one page of an ordered collection
type Page struct {
	Number      int  `json:"number"`
	PerPage     int  `json:"per_page"`
	Total       int  `json:"total"`
	NumPages    int  `json:"num_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// New resolves the raw page parameter against a collection of total items.
// Missing, malformed or non-positive values select the first page, values
// past the end select the last one.
func New(rawPage string, total, perPage int) Page {
	if perPage < 1 {
		perPage = PostsPerPage
	}
	if total < 0 {
		total = 0
	}

	numPages := (total + perPage - 1) / perPage
	if numPages < 1 {
		// an empty collection still has one (empty) page
		numPages = 1
	}

	number, err := strconv.Atoi(strings.TrimSpace(rawPage))
	if err != nil || number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	return Page{
		Number:      number,
		PerPage:     perPage,
		Total:       total,
		NumPages:    numPages,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
}

// Offset returns the index of the first item on the page
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Limit returns the maximum number of items on the page
func (p Page) Limit() int {
	return p.PerPage
}

// Meta converts the page into the response metadata block
func (p Page) Meta() *response.Meta {
	return &response.Meta{
		Page:       p.Number,
		PerPage:    p.PerPage,
		Total:      p.Total,
		TotalPages: p.NumPages,
	}
}

