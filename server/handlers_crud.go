package server

import (
	"net/http"
)

// ListHandler serves a page of c.
func ListHandler[T any](c *Collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, c.List(ParseListQuery(r.URL.Query())))
	}
}

func GetHandler[T any](c *Collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := c.Get(r.PathValue("id"))
		if err != nil {
			writeLookupError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// CreateHandler decodes a new item, lets prepare fill in or reject it and
// stores it.
func CreateHandler[T any](c *Collection[T], prepare func(*T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var item T
		if err := decodeJSON(r, &item); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		c.setID(&item, "")
		if prepare != nil {
			if err := prepare(&item); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
		writeJSON(w, http.StatusOK, c.Upsert(item))
	}
}

// UpdateHandler merges the body into the stored item.
func UpdateHandler[T any](c *Collection[T], validate func(*T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var decodeErr error
		item, err := c.Update(r.PathValue("id"), func(item *T) error {
			if decodeErr = decodeJSON(r, item); decodeErr != nil {
				return decodeErr
			}
			if validate != nil {
				decodeErr = validate(item)
			}
			return decodeErr
		})
		switch {
		case decodeErr != nil:
			writeError(w, http.StatusBadRequest, decodeErr.Error())
		case err != nil:
			writeLookupError(w, err)
		default:
			writeJSON(w, http.StatusOK, item)
		}
	}
}

// DeleteHandler removes an item and runs after on success.
func DeleteHandler[T any](c *Collection[T], after func(id string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := c.Delete(id); err != nil {
			writeLookupError(w, err)
			return
		}
		if after != nil {
			after(id)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
