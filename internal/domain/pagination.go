package domain

// Pagination describes one page of a listing.
type Pagination struct {
	CurrentPage int
	PageSize    int
	TotalItems  int
	TotalPages  int
}

// NewPagination computes TotalPages as ceil(total/pageSize).
func NewPagination(page, pageSize, total int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Pagination{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  totalPages,
	}
}

// Offset returns the number of rows preceding the current page.
func (p Pagination) Offset() int {
	if p.CurrentPage < 1 {
		return 0
	}
	return (p.CurrentPage - 1) * p.PageSize
}

type Page[T any] struct {
	Data       []T
	Pagination Pagination
}
