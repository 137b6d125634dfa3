package store

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const DefaultPageSize = 10

// Query selects a page of a collection.
type Query struct {
	Page    int
	Size    int
	Filters map[string]string
}

func (q Query) normalize() Query {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}
	return q
}

// Key serializes the query. Identical queries produce identical keys.
func (q Query) Key() string {
	q = q.normalize()
	var b strings.Builder
	b.WriteString("page=")
	b.WriteString(strconv.Itoa(q.Page))
	b.WriteString("&size=")
	b.WriteString(strconv.Itoa(q.Size))

	keys := make([]string, 0, len(q.Filters))
	for k, v := range q.Filters {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("&")
		b.WriteString(url.QueryEscape(k))
		b.WriteString("=")
		b.WriteString(url.QueryEscape(q.Filters[k]))
	}
	return b.String()
}

// Params renders the query as request parameters. Empty filters are dropped.
func (q Query) Params() url.Values {
	q = q.normalize()
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("size", strconv.Itoa(q.Size))
	for k, v := range q.Filters {
		if v != "" {
			params.Set(k, v)
		}
	}
	return params
}

// With returns a copy of the query with the filter set.
func (q Query) With(key, value string) Query {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	filters[key] = value
	q.Filters = filters
	return q
}
