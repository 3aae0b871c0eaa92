package domain

const DefaultPageSize = 25

type PageDirection string

const (
	PagePrev PageDirection = "prev"
	PageNext PageDirection = "next"
)

func (d PageDirection) Valid() bool {
	switch d {
	case PagePrev, PageNext:
		return true
	default:
		return false
	}
}

// PageView is a derived, immutable slice of an item list.
type PageView struct {
	Items      []TrackedItem
	PageIndex  int
	TotalPages int
	PageSize   int
	Total      int
}

// ComposePage slices items into the page at pageIndex. Out-of-range indexes
// are clamped and an empty list yields a single empty page.
func ComposePage(items []TrackedItem, pageSize, pageIndex int) PageView {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	pageIndex = clampPage(pageIndex, totalPages)

	start := pageIndex * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	page := make([]TrackedItem, end-start)
	copy(page, items[start:end])

	return PageView{
		Items:      page,
		PageIndex:  pageIndex,
		TotalPages: totalPages,
		PageSize:   pageSize,
		Total:      total,
	}
}

func (p PageView) HasPrev() bool {
	return p.PageIndex > 0
}

func (p PageView) HasNext() bool {
	return p.PageIndex < p.TotalPages-1
}

// Step returns the page index reached by moving one page in dir. Moving past
// either end stays put.
func (p PageView) Step(dir PageDirection) int {
	switch dir {
	case PagePrev:
		return clampPage(p.PageIndex-1, p.TotalPages)
	case PageNext:
		return clampPage(p.PageIndex+1, p.TotalPages)
	default:
		return p.PageIndex
	}
}

// At returns the item at a 1-based position on the page.
func (p PageView) At(position int) (TrackedItem, bool) {
	if position < 1 || position > len(p.Items) {
		return TrackedItem{}, false
	}

	return p.Items[position-1], true
}

func clampPage(index, totalPages int) int {
	if index < 0 {
		return 0
	}
	if index > totalPages-1 {
		return totalPages - 1
	}

	return index
}
