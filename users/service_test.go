package users_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/notify"
	"github.com/jrsteele09/docflow-admin/notify/notifyfake"
	"github.com/jrsteele09/docflow-admin/store"
	"github.com/jrsteele09/docflow-admin/transport"
	"github.com/jrsteele09/docflow-admin/transport/transportfake"
	"github.com/jrsteele09/docflow-admin/users"
)

type sinkReporter struct{ sink *notifyfake.Recorder }

func (r sinkReporter) Report(err error) {
	r.sink.Notify(notify.TypeError, apperrors.MessageOf(err))
}

func memberPage(items ...users.User) map[string]any {
	return map[string]any{"content": items, "pageable": map[string]any{"pageNumber": 0, "pageSize": 10}, "totalElements": len(items), "totalPages": 1}
}

func setupService(t *testing.T, seed ...users.User) (*users.Service, *transportfake.Doer, *notifyfake.Recorder) {
	t.Helper()
	doer := transportfake.New().On(http.MethodGet, "users", transportfake.JSON(http.StatusOK, memberPage(seed...)))
	rec := notifyfake.New()
	svc := users.NewService(doer, store.WithReporter(sinkReporter{rec}))
	_, err := svc.List(context.Background(), users.Filter{})
	require.NoError(t, err)
	return svc, doer, rec
}

func TestListFilters(t *testing.T) {
	svc, doer, _ := setupService(t, users.User{ID: "1", FullName: "Ann"})

	_, err := svc.List(context.Background(), users.Filter{Page: 2, Search: "ann", Role: users.RoleOperator, Status: users.StatusFilter("false")})
	require.NoError(t, err)

	params := doer.Last().Params
	require.Equal(t, "2", params.Get("page"))
	require.Equal(t, "ann", params.Get("search"))
	require.Equal(t, "ROLE_OPERATOR", params.Get("role"))
	require.Equal(t, store.StatusInactive, params.Get("status"))
	require.Equal(t, users.DefaultSortField, params.Get("sortField"))
	require.Equal(t, users.DefaultOrderDirection, params.Get("orderDirection"))
	require.Len(t, svc.Members().Snapshot().Items, 1)
}

func TestCreateDefaultsStatus(t *testing.T) {
	svc, doer, _ := setupService(t)
	doer.On(http.MethodPost, "users", func(req transport.Request) (*transport.Response, error) {
		payload := req.Data.(users.NewUser)
		require.Equal(t, store.StatusActive, payload.Status)
		return transportfake.JSON(http.StatusCreated, users.User{ID: "7", Username: payload.Username, Status: payload.Status})(req)
	})

	created, err := svc.Create(context.Background(), users.NewUser{Username: "op", Password: "Secret123"})
	require.NoError(t, err)
	require.Equal(t, store.ID("7"), created.ID)
	require.Equal(t, 1, svc.Members().Snapshot().TotalElements)

	_, err = svc.Create(context.Background(), users.NewUser{Username: "op"})
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestUpdateRollsBackOnFailure(t *testing.T) {
	svc, doer, rec := setupService(t, users.User{ID: "1", FullName: "Ann", Status: store.StatusActive})
	doer.On(http.MethodPut, "users/1", transportfake.Fail(apperrors.FromStatus(http.StatusUnprocessableEntity, "")))

	_, err := svc.Update(context.Background(), "1", store.Patch{"status": false})
	require.Error(t, err)

	u, ok := svc.Members().Find("1")
	require.True(t, ok)
	require.Equal(t, store.StatusActive, u.Status)
	last, _ := rec.LastNotification()
	require.Equal(t, "invalid data", last.Message)
}

func TestChangeRoleAndStatus(t *testing.T) {
	svc, doer, _ := setupService(t, users.User{ID: "1", Role: users.RoleOperator, Status: store.StatusActive})
	doer.On(http.MethodPut, "user/change-role/1", transportfake.Status(http.StatusOK)).
		On(http.MethodPut, "user/change-status/1", transportfake.Status(http.StatusOK))

	require.NoError(t, svc.ChangeRole(context.Background(), "1", users.RoleDirector))
	require.NoError(t, svc.ChangeStatus(context.Background(), "1", false))

	form := doer.Last().Data.(transport.Multipart)
	require.Equal(t, store.StatusInactive, form.Fields["status"])

	u, _ := svc.Members().Find("1")
	require.Equal(t, users.RoleDirector, u.Role)
	require.Equal(t, store.StatusInactive, u.Status)
}

func TestSetPassword(t *testing.T) {
	svc, doer, _ := setupService(t)
	doer.On(http.MethodPost, "users/set-password-admin", transportfake.Status(http.StatusOK))

	require.NoError(t, svc.SetPassword(context.Background(), "op", "N3wSecret"))
	params := doer.Last().Params
	require.Equal(t, "op", params.Get("username"))
	require.Equal(t, "N3wSecret", params.Get("password"))

	require.Error(t, svc.SetPassword(context.Background(), "", "x"))
}

func TestMeAndOperators(t *testing.T) {
	svc, doer, _ := setupService(t)
	doer.On(http.MethodGet, "user/me", transportfake.JSON(http.StatusOK, map[string]any{"id": 5, "username": "boss", "role": "ROLE_DIRECTOR"})).
		On(http.MethodGet, "user/operators", transportfake.JSON(http.StatusOK, []users.User{{ID: "2"}, {ID: "3"}}))

	me, err := svc.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, store.ID("5"), me.ID)
	require.Equal(t, users.RoleDirector, me.Role)

	ops, err := svc.Operators(context.Background())
	require.NoError(t, err)
	require.Len(t, ops, 2)
}

func TestDelete(t *testing.T) {
	svc, doer, _ := setupService(t, users.User{ID: "1"}, users.User{ID: "2"})
	doer.On(http.MethodDelete, "users/1", transportfake.Status(http.StatusNoContent))

	require.NoError(t, svc.Delete(context.Background(), "1"))
	page := svc.Members().Snapshot()
	require.Len(t, page.Items, 1)
	require.Equal(t, 1, page.TotalElements)
}
