package stats

import "github.com/wchung1209/climbing-log/internal/model"

// DefaultPageSize is the number of climbs shown per page.
const DefaultPageSize = 10

// TotalPages returns ceil(count/size), never less than 1.
func TotalPages(count, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := (count + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage moves page into [1, TotalPages(count, size)].
func ClampPage(page, count, size int) int {
	if page < 1 {
		return 1
	}
	if last := TotalPages(count, size); page > last {
		return last
	}
	return page
}

// Paginate returns the requested page of items, clamping page to a valid index.
func Paginate[T any](items []T, page, size int) model.Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	page = ClampPage(page, len(items), size)
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	window := make([]T, end-start)
	copy(window, items[start:end])
	return model.Page[T]{
		Items:      window,
		Page:       page,
		TotalPages: TotalPages(len(items), size),
	}
}
