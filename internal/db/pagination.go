package db

// Pagination contains metadata for paginated listings
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination computes pagination metadata. Page and per-page values are
// normalized so callers can pass request input unchecked.
func NewPagination(page, perPage int, total int64) Pagination {
	page, perPage = normalizePage(page, perPage)
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if totalPages == 0 {
		totalPages = 1
	}
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// LastPage returns the page number holding the final item, treating zero
// items as page 1. Used to jump to the newest comment without the caller
// knowing the count in advance.
func LastPage(total int64, perPage int) int {
	if perPage <= 0 {
		perPage = 10
	}
	if total <= 0 {
		return 1
	}
	return int((total-1)/int64(perPage)) + 1
}

func normalizePage(page, perPage int) (int, int) {
	if perPage <= 0 {
		perPage = 10
	}
	if page <= 0 {
		page = 1
	}
	return page, perPage
}

func pageOffset(page, perPage int) int {
	page, perPage = normalizePage(page, perPage)
	return (page - 1) * perPage
}
