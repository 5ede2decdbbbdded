package domain

type Metadata struct {
	CurrentPage  int
	FirstPage    int
	LastPage     int
	PageSize     int
	TotalRecords int
}

func NewMetadata(totalRecords, page, pageSize int) *Metadata {
	return &Metadata{
		CurrentPage:  page,
		FirstPage:    1,
		LastPage:     (totalRecords + pageSize - 1) / pageSize,
		PageSize:     pageSize,
		TotalRecords: totalRecords,
	}
}

// paginate returns the bounds of the requested page within a slice of length n.
func paginate(n int, p Pagination) (int, int) {
	start := p.Offset()
	if start > n {
		start = n
	}

	end := start + p.Limit()
	if end > n {
		end = n
	}

	return start, end
}

// Page slices items according to p and builds the matching metadata.
func Page[T any](items []T, p Pagination) ([]T, *Metadata) {
	start, end := paginate(len(items), p)
	return items[start:end], NewMetadata(len(items), p.Page, p.PageSize)
}
