package handler

import (
	"net/http"
	"strconv"
)

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// pageParams extracts offset/limit style paging from page and page_size
// query parameters.
func pageParams(r *http.Request, defaultSize int) (offset, limit int) {
	page := queryInt(r, "page", 0)
	if page < 0 {
		page = 0
	}
	limit = queryInt(r, "page_size", defaultSize)
	if limit <= 0 {
		limit = defaultSize
	}
	return page * limit, limit
}
