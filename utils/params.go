package utils

import (
	"net/http"
)

type ResultViewOptions struct {
	SortBy  string
	ShowAll bool
}

// ParseResultViewOptions reads the sort key and preview/full toggle off a
// results request.
func ParseResultViewOptions(r *http.Request) ResultViewOptions {
	q := r.URL.Query()
	return ResultViewOptions{
		SortBy:  q.Get("sort"),
		ShowAll: q.Get("view") == "all",
	}
}
