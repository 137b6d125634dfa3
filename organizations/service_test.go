package organizations_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/organizations"
	"github.com/jrsteele09/docflow-admin/store"
	"github.com/jrsteele09/docflow-admin/transport"
	"github.com/jrsteele09/docflow-admin/transport/transportfake"
)

func setup(t *testing.T) (*organizations.Service, *transportfake.Doer) {
	t.Helper()
	doer := transportfake.New().On(http.MethodGet, "organizations", transportfake.JSON(http.StatusOK, map[string]any{
		"content":       []organizations.Organization{{ID: "1", Name: "Acme", IdentifierNumber: "301234567"}},
		"page":          "0",
		"size":          "10",
		"totalElements": "1",
	}))
	svc := organizations.NewService(doer)
	page, err := svc.List(context.Background(), 0, 10, "acme")
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalElements)
	require.Equal(t, "acme", doer.Last().Params.Get("search"))
	return svc, doer
}

func TestCreateTrimsForm(t *testing.T) {
	svc, doer := setup(t)
	doer.On(http.MethodPost, "organizations", func(req transport.Request) (*transport.Response, error) {
		form := req.Data.(organizations.Form)
		require.Equal(t, organizations.Form{Name: "Globex", IdentifierNumber: "305555555"}, form)
		return transportfake.JSON(http.StatusCreated, organizations.Organization{ID: "2", Name: form.Name})(req)
	})

	_, err := svc.Create(context.Background(), organizations.Form{Name: "  Globex ", IdentifierNumber: " 305555555"})
	require.NoError(t, err)
	page := svc.Organizations().Snapshot()
	require.Equal(t, store.ID("2"), page.Items[0].ID)
	require.Equal(t, 2, page.TotalElements)
}

func TestUpdateSendsTrimmedFields(t *testing.T) {
	svc, doer := setup(t)
	doer.On(http.MethodPut, "organizations/1", transportfake.Status(http.StatusOK))

	updated, err := svc.Update(context.Background(), "1", organizations.Form{Name: " Acme LLC ", IdentifierNumber: "301234567 "})
	require.NoError(t, err)
	require.Equal(t, "Acme LLC", updated.Name)
	require.Equal(t, store.Patch{"name": "Acme LLC", "identifierNumber": "301234567"}, doer.Last().Data)
}

func TestDelete(t *testing.T) {
	svc, doer := setup(t)
	doer.On(http.MethodDelete, "organizations/1", transportfake.Status(http.StatusNoContent))

	require.NoError(t, svc.Delete(context.Background(), "1"))
	require.Empty(t, svc.Organizations().Snapshot().Items)

	err := svc.Delete(context.Background(), "")
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
