package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
)

var ErrNotFound = errors.New("not found")

// Collection is an in-memory table of T. Items are listed newest first.
type Collection[T any] struct {
	items map[string]T
	order []string
	next  int
	idOf  func(T) string
	setID func(*T, string)
	lock  sync.RWMutex
}

func NewCollection[T any](idOf func(T) string, setID func(*T, string)) *Collection[T] {
	return &Collection[T]{
		items: make(map[string]T),
		idOf:  idOf,
		setID: setID,
	}
}

// Upsert stores item, assigning the next sequential id when it has none.
func (c *Collection[T]) Upsert(item T) T {
	c.lock.Lock()
	defer c.lock.Unlock()
	id := c.idOf(item)
	if id == "" {
		c.next++
		id = strconv.Itoa(c.next)
		c.setID(&item, id)
	}
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = item
	return item
}

func (c *Collection[T]) Delete(id string) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if _, ok := c.items[id]; !ok {
		return ErrNotFound
	}
	delete(c.items, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *Collection[T]) Get(id string) (T, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	item, ok := c.items[id]
	if !ok {
		return item, ErrNotFound
	}
	return item, nil
}

// Update applies fn to the stored item.
func (c *Collection[T]) Update(id string, fn func(*T) error) (T, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	item, ok := c.items[id]
	if !ok {
		return item, ErrNotFound
	}
	if err := fn(&item); err != nil {
		return item, err
	}
	c.setID(&item, id)
	c.items[id] = item
	return item, nil
}

// All returns every item, newest first.
func (c *Collection[T]) All() []T {
	c.lock.RLock()
	defer c.lock.RUnlock()
	out := make([]T, 0, len(c.order))
	for i := len(c.order) - 1; i >= 0; i-- {
		out = append(out, c.items[c.order[i]])
	}
	return out
}

// List filters, sorts and pages the collection.
func (c *Collection[T]) List(q ListQuery) Page[T] {
	return PageOf(c.All(), q)
}

// ListQuery is a parsed list request.
type ListQuery struct {
	Page           int
	Size           int
	Search         string
	SortField      string
	OrderDirection string
	Filters        map[string]string // exact matches on JSON fields
}

var reservedParams = map[string]bool{
	"page": true, "size": true, "search": true, "sortField": true, "orderDirection": true,
}

// ParseListQuery reads paging, search and equality filters from params.
func ParseListQuery(params url.Values) ListQuery {
	q := ListQuery{
		Search:         strings.TrimSpace(params.Get("search")),
		SortField:      params.Get("sortField"),
		OrderDirection: strings.ToUpper(params.Get("orderDirection")),
		Filters:        make(map[string]string),
	}
	q.Page, _ = strconv.Atoi(params.Get("page"))
	q.Size, _ = strconv.Atoi(params.Get("size"))
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = 10
	}
	for key, values := range params {
		if !reservedParams[key] && len(values) > 0 && values[0] != "" {
			q.Filters[key] = values[0]
		}
	}
	return q
}

// Page is the wire shape of a listed page.
type Page[T any] struct {
	Content       []T `json:"content"`
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// PageOf applies q to items.
func PageOf[T any](items []T, q ListQuery) Page[T] {
	type row struct {
		item   T
		fields map[string]any
	}
	rows := make([]row, 0, len(items))
	for _, item := range items {
		fields := fieldsOf(item)
		if matches(fields, q) {
			rows = append(rows, row{item: item, fields: fields})
		}
	}
	if q.SortField != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := fmt.Sprint(rows[i].fields[q.SortField]), fmt.Sprint(rows[j].fields[q.SortField])
			if q.OrderDirection == "DESC" {
				return a > b
			}
			return a < b
		})
	}

	if q.Size <= 0 {
		q.Size = 10
	}
	p := Page[T]{
		Content:       []T{},
		Page:          q.Page,
		Size:          q.Size,
		TotalElements: len(rows),
		TotalPages:    (len(rows) + q.Size - 1) / q.Size,
	}
	start := q.Page * q.Size
	if start >= len(rows) {
		return p
	}
	end := min(start+q.Size, len(rows))
	for _, r := range rows[start:end] {
		p.Content = append(p.Content, r.item)
	}
	return p
}

// fieldsOf flattens item to its JSON fields.
func fieldsOf(item any) map[string]any {
	data, err := json.Marshal(item)
	if err != nil {
		return nil
	}
	fields := make(map[string]any)
	_ = json.Unmarshal(data, &fields)
	return fields
}

func matches(fields map[string]any, q ListQuery) bool {
	for key, want := range q.Filters {
		if !strings.EqualFold(fmt.Sprint(fields[key]), want) {
			return false
		}
	}
	if q.Search == "" {
		return true
	}
	needle := strings.ToLower(q.Search)
	for _, v := range fields {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}
