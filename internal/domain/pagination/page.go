package pagination

// Page is one slice of a stable, forward-only listing
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// BuildPage assembles a page from rows fetched with the limit+1 probe. If
// the extra row is present it is discarded and the next cursor is derived
// from the last row actually returned.
func BuildPage[T any](rows []T, limit int, cursorOf func(T) Cursor) Page[T] {
	page := Page[T]{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		page.HasMore = true
		page.NextCursor = cursorOf(page.Items[limit-1]).Encode()
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page
}
