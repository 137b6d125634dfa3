package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/docflow-admin/users"
)

const invalidCredentials = "invalid username or password"

type loginResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	User         *users.User `json:"user"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginHandler checks username and password query parameters and issues a
// token pair.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := strings.TrimSpace(r.URL.Query().Get("username"))
		password := r.URL.Query().Get("password")
		if username == "" || password == "" {
			writeError(w, http.StatusBadRequest, "username and password are required")
			return
		}

		user, err := s.users.GetByUsername(username)
		if err != nil || !user.CheckPassword(password) {
			writeError(w, http.StatusUnauthorized, invalidCredentials)
			return
		}
		if !user.Active() {
			writeError(w, http.StatusForbidden, "user is blocked")
			return
		}

		accessToken, err := s.access.CreateAccessToken(user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		refreshToken, err := s.refresh.Create(string(user.ID))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.logger.Info().Str("username", username).Msg("login")
		writeJSON(w, http.StatusOK, loginResponse{Token: accessToken, RefreshToken: refreshToken, User: user})
	}
}

// RefreshHandler rotates a refresh token and issues a new access token.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := decodeJSON(r, &req); err != nil || req.RefreshToken == "" {
			writeError(w, http.StatusBadRequest, "refresh token is required")
			return
		}

		newRefresh, userID, err := s.refresh.Rotate(req.RefreshToken)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}
		user, err := s.users.GetByID(userID)
		if err != nil || !user.Active() {
			s.refresh.Revoke(userID)
			writeError(w, http.StatusUnauthorized, "user is not active")
			return
		}
		accessToken, err := s.access.CreateAccessToken(user)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, refreshResponse{AccessToken: accessToken, RefreshToken: newRefresh})
	}
}

// MeHandler returns the user behind the access token.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := claimsFrom(r.Context())
		user, err := s.users.GetByID(claims.UserID)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}
