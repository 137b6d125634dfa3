package refresh

import (
	"context"
	"net/http"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/sessions"
	"github.com/jrsteele09/docflow-admin/transport"
)

const refreshPath = "auth/refresh"

// Exchanger trades a refresh token for a new session.
type Exchanger interface {
	Exchange(ctx context.Context, refreshToken string) (sessions.Session, error)
}

var _ Exchanger = (*HTTPExchanger)(nil)

// HTTPExchanger calls the backend refresh endpoint as an open request, so the
// exchange itself never goes through the coordinator.
type HTTPExchanger struct {
	client *transport.Client
}

func NewHTTPExchanger(client *transport.Client) *HTTPExchanger {
	return &HTTPExchanger{client: client}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (e *HTTPExchanger) Exchange(ctx context.Context, refreshToken string) (sessions.Session, error) {
	resp, err := e.client.Do(ctx, transport.Request{
		Path:   refreshPath,
		Method: http.MethodPost,
		Data:   refreshRequest{RefreshToken: refreshToken},
		Open:   true,
	})
	if err != nil {
		return sessions.Session{}, err
	}

	var body refreshResponse
	if err := resp.Decode(&body); err != nil {
		return sessions.Session{}, err
	}
	if body.AccessToken == "" {
		return sessions.Session{}, apperrors.ErrInvalidResponse
	}
	return sessions.Session{AccessToken: body.AccessToken, RefreshToken: body.RefreshToken}, nil
}
