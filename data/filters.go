package data

import (
	"math"
	"strings"

	"github.com/emzola/bookreviews/internal/validator"
)

// MaxPageSize caps the number of records returned in a single page.
const MaxPageSize = 100

// Filters defines pagination and sorting options for list queries.
type Filters struct {
	Page         int
	PageSize     int
	Sort         string
	SortSafeList []string
}

func ValidateFilters(v *validator.Validator, f Filters) {
	v.Check(f.Page > 0, "page", "must be greater than zero")
	v.Check(f.Page <= 10_000_000, "page", "must be a maximum of 10 million")
	v.Check(f.PageSize > 0, "limit", "must be greater than zero")
	v.Check(f.PageSize <= MaxPageSize, "limit", "must be a maximum of 100")
	v.Check(validator.In(f.Sort, f.SortSafeList...), "sort", "invalid sort value")
}

// SortColumn returns the sort field without its direction prefix. It panics
// if the sort value is not in the safe list, which guards the SQL builders
// against injection.
func (f Filters) SortColumn() string {
	for _, safeValue := range f.SortSafeList {
		if f.Sort == safeValue {
			return strings.TrimPrefix(f.Sort, "-")
		}
	}
	panic("unsafe sort parameter: " + f.Sort)
}

// SortDirection returns "ASC" or "DESC" depending on the prefix of Sort.
func (f Filters) SortDirection() string {
	if strings.HasPrefix(f.Sort, "-") {
		return "DESC"
	}
	return "ASC"
}

func (f Filters) Limit() int {
	return f.PageSize
}

func (f Filters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Metadata holds the pagination details of a listing.
type Metadata struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	PageSize    int  `json:"pageSize"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// CalculateMetadata calculates the pagination metadata for a listing of
// totalRecords items.
func CalculateMetadata(totalRecords, page, pageSize int) Metadata {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(totalRecords) / float64(pageSize)))
	}
	return Metadata{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  totalRecords,
		PageSize:    pageSize,
		HasNext:     page*pageSize < totalRecords,
		HasPrev:     page > 1,
	}
}

// PageBounds returns the slice bounds of the requested page within n ordered
// records. Both bounds are clamped to n.
func (f Filters) PageBounds(n int) (int, int) {
	start := f.Offset()
	if start > n {
		start = n
	}
	end := start + f.Limit()
	if end > n {
		end = n
	}
	return start, end
}
