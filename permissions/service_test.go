package permissions_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/permissions"
	"github.com/jrsteele09/docflow-admin/transport/transportfake"
)

func TestContractUsers(t *testing.T) {
	doer := transportfake.New().
		On(http.MethodGet, "users/documentation-permissions/10", transportfake.JSON(http.StatusOK, map[string]any{
			"content":       []map[string]any{{"id": 1, "fullName": "Ann", "hasPermission": true}, {"id": 2, "fullName": "Bob"}},
			"pageable":      map[string]any{"pageNumber": 0, "pageSize": 10},
			"totalElements": 2,
			"totalPages":    1,
		})).
		On(http.MethodGet, "users/documentation-permissions/11", transportfake.JSON(http.StatusOK, map[string]any{"content": []any{}}))
	svc := permissions.NewService(doer)

	page, err := svc.ContractUsers(context.Background(), "10", permissions.Filter{Search: "a", Role: "ignored"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.True(t, page.Items[0].HasPermission)
	require.Equal(t, "Ann", page.Items[0].FullName)
	require.Equal(t, "a", doer.Last().Params.Get("search"))
	require.False(t, doer.Last().Params.Has("role"))

	_, ok := svc.Members().Find("2")
	require.True(t, ok)

	_, err = svc.ContractUsers(context.Background(), "11", permissions.Filter{})
	require.NoError(t, err)
	require.Empty(t, svc.Members().Snapshot().Items)

	_, err = svc.ContractUsers(context.Background(), "", permissions.Filter{})
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestTemplateUsersAndGrants(t *testing.T) {
	doer := transportfake.New().
		On(http.MethodGet, "users/sample-permissions/3", transportfake.JSON(http.StatusOK, []map[string]any{{"id": "u1"}})).
		On(http.MethodPost, permissions.TemplateGrantPath, transportfake.Status(http.StatusOK)).
		On(http.MethodPost, permissions.ContractGrantPath, transportfake.Status(http.StatusOK))
	svc := permissions.NewService(doer)

	page, err := svc.TemplateUsers(context.Background(), "3", permissions.Filter{Role: "ROLE_OPERATOR"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "ROLE_OPERATOR", doer.Last().Params.Get("role"))

	require.NoError(t, svc.GrantTemplate(context.Background(), permissions.TemplateGrant{SampleID: "3", UserIDs: []string{"u1"}}))
	require.Equal(t, permissions.TemplateGrant{SampleID: "3", UserIDs: []string{"u1"}}, doer.Last().Data)

	require.NoError(t, svc.GrantContract(context.Background(), permissions.ContractGrant{DocumentationID: "9", UserIDs: []string{"u1"}}))
	require.Error(t, svc.GrantContract(context.Background(), permissions.ContractGrant{}))
}
