package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/docflow-admin/store"
	"github.com/jrsteele09/docflow-admin/users"
)

type newUserRequest struct {
	Username       string         `json:"username"`
	Password       string         `json:"password"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	Role           users.RoleType `json:"role"`
	Status         string         `json:"status"`
	OrganizationID store.ID       `json:"organizationId"`
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

func (s *Server) userList() []users.User {
	list, _ := s.users.List()
	out := make([]users.User, 0, len(list))
	for _, u := range list {
		out = append(out, *u)
	}
	return out
}

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, PageOf(s.userList(), ParseListQuery(r.URL.Query())))
	}
}

func (s *Server) CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req newUserRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid user payload")
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		if req.Username == "" {
			writeError(w, http.StatusBadRequest, "username is required")
			return
		}
		if _, err := s.users.GetByUsername(req.Username); err == nil {
			writeError(w, http.StatusBadRequest, "username already taken")
			return
		}
		if err := users.ValidatePasswordStrength(req.Password); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		hash, err := users.HashPassword(req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if req.Role == "" {
			req.Role = users.RoleOperator
		}
		if req.Status == "" {
			req.Status = store.StatusActive
		}

		user := &users.User{
			Username:       req.Username,
			PasswordHash:   hash,
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			FullName:       fullName(req.FirstName, req.LastName),
			Role:           req.Role,
			Status:         req.Status,
			OrganizationID: req.OrganizationID,
		}
		if err := s.users.Upsert(user); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// UpdateUserHandler merges the body into the stored user. Username and
// password are not changed here.
func (s *Server) UpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stored, err := s.users.GetByID(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		updated := *stored
		if err := decodeJSON(r, &updated); err != nil {
			writeError(w, http.StatusBadRequest, "invalid user payload")
			return
		}
		updated.ID = stored.ID
		updated.Username = stored.Username
		updated.PasswordHash = stored.PasswordHash
		if updated.FirstName != stored.FirstName || updated.LastName != stored.LastName {
			updated.FullName = fullName(updated.FirstName, updated.LastName)
		}
		if err := s.users.Upsert(&updated); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := s.users.Delete(id); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.refresh.Revoke(id)
		s.grants.revokeUser(id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) GetUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.users.GetByID(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// SetPasswordHandler resets a password from username and password query parameters.
func (s *Server) SetPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.URL.Query().Get("username")
		password := r.URL.Query().Get("password")
		stored, err := s.users.GetByUsername(username)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		if err := users.ValidatePasswordStrength(password); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		hash, err := users.HashPassword(password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		updated := *stored
		updated.PasswordHash = hash
		if err := s.users.Upsert(&updated); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.refresh.Revoke(string(updated.ID))
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) OperatorsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		operators := make([]users.User, 0)
		for _, u := range s.userList() {
			if u.Role == users.RoleOperator {
				operators = append(operators, u)
			}
		}
		writeJSON(w, http.StatusOK, operators)
	}
}

// changeUser applies a single multipart form field to a user.
func (s *Server) changeUser(field string, apply func(*users.User, string) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		stored, err := s.users.GetByID(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		updated := *stored
		if !apply(&updated, r.FormValue(field)) {
			writeError(w, http.StatusBadRequest, "invalid "+field)
			return
		}
		if err := s.users.Upsert(&updated); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !updated.Active() {
			s.refresh.Revoke(string(updated.ID))
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) ChangeRoleHandler() http.HandlerFunc {
	return s.changeUser("role", func(u *users.User, value string) bool {
		switch role := users.RoleType(value); role {
		case users.RoleAdmin, users.RoleDirector, users.RoleOperator:
			u.Role = role
			return true
		}
		return false
	})
}

func (s *Server) ChangeStatusHandler() http.HandlerFunc {
	return s.changeUser("status", func(u *users.User, value string) bool {
		if value != store.StatusActive && value != store.StatusInactive {
			return false
		}
		u.Status = value
		return true
	})
}

// GivePermissionHandler grants one user access to contracts and templates.
func (s *Server) GivePermissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var grant users.PermissionGrant
		if err := decodeJSON(r, &grant); err != nil || grant.UserID == "" {
			writeError(w, http.StatusBadRequest, "user id is required")
			return
		}
		if _, err := s.users.GetByID(grant.UserID); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		for _, id := range grant.DocumentationIDs {
			s.grants.add(kindContract, id, grant.UserID)
		}
		for _, id := range grant.SampleIDs {
			s.grants.add(kindTemplate, id, grant.UserID)
		}
		w.WriteHeader(http.StatusOK)
	}
}
