package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Page is one page of a server side paginated collection.
type Page[T any] struct {
	Items         []T `json:"content"`
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// flexInt accepts a JSON number, a numeric string or null.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*f = flexInt(n)
	return nil
}

type wirePage[T any] struct {
	Content       []T      `json:"content"`
	Page          *flexInt `json:"page"`
	Number        *flexInt `json:"number"`
	Size          *flexInt `json:"size"`
	TotalElements flexInt  `json:"totalElements"`
	TotalPages    flexInt  `json:"totalPages"`
	Pageable      *struct {
		PageNumber flexInt `json:"pageNumber"`
		PageSize   flexInt `json:"pageSize"`
	} `json:"pageable"`
}

// UnmarshalJSON decodes the backend page in any of its shapes: page/size at
// the top level, Spring's pageable object, or a bare array.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*p = Page[T]{Items: items, Size: len(items), TotalElements: len(items)}
		if len(items) > 0 {
			p.TotalPages = 1
		}
		return nil
	}

	var w wirePage[T]
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return err
	}
	out := Page[T]{
		Items:         w.Content,
		TotalElements: int(w.TotalElements),
		TotalPages:    int(w.TotalPages),
	}
	switch {
	case w.Page != nil:
		out.Page = int(*w.Page)
	case w.Pageable != nil:
		out.Page = int(w.Pageable.PageNumber)
	case w.Number != nil:
		out.Page = int(*w.Number)
	}
	switch {
	case w.Size != nil:
		out.Size = int(*w.Size)
	case w.Pageable != nil:
		out.Size = int(w.Pageable.PageSize)
	}
	if out.Items == nil {
		out.Items = []T{}
	}
	*p = out
	return nil
}

func (p Page[T]) clone() Page[T] {
	out := p
	out.Items = append([]T(nil), p.Items...)
	return out
}
