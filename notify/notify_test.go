package notify_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/notify"
	"github.com/jrsteele09/docflow-admin/notify/notifyfake"
	"github.com/jrsteele09/docflow-admin/sessions"
	"github.com/jrsteele09/docflow-admin/storage"
)

func setup(t *testing.T) (*notify.Reporter, *notifyfake.Recorder, *sessions.Store) {
	t.Helper()
	rec := notifyfake.New()
	store := sessions.NewStore(storage.NewInMemoryStore())
	require.NoError(t, store.Save(sessions.Session{AccessToken: "a", RefreshToken: "r"}))
	return notify.NewReporter(rec, store, zerolog.Nop()), rec, store
}

func TestReportServerErrorRedirects(t *testing.T) {
	reporter, rec, store := setup(t)
	reporter.Report(apperrors.FromStatus(http.StatusBadGateway, ""))

	require.Equal(t, []string{notify.ServerErrorPath}, rec.Redirects())
	require.Empty(t, rec.Notifications())
	require.True(t, store.Get().Authenticated())
}

func TestReportAuthErrorLogsOut(t *testing.T) {
	reporter, rec, store := setup(t)
	reporter.Report(fmt.Errorf("me: %w", apperrors.FromStatus(http.StatusUnauthorized, "")))

	require.Equal(t, notify.LoginPath, rec.LastRedirect())
	require.False(t, store.Get().Authenticated())
}

func TestReportClientErrorNotifies(t *testing.T) {
	reporter, rec, _ := setup(t)
	reporter.Report(apperrors.FromStatus(http.StatusConflict, "duplicate identifier"))
	reporter.Report(errors.New("boom"))

	require.Equal(t, []notifyfake.Notification{
		{Type: notify.TypeError, Message: "duplicate identifier"},
		{Type: notify.TypeError, Message: "boom"},
	}, rec.Notifications())
	require.Empty(t, rec.Redirects())
}

func TestReportSkipsHandledRefreshFailure(t *testing.T) {
	reporter, rec, _ := setup(t)
	reporter.Report(&apperrors.APIError{Kind: apperrors.KindAuth, Status: 401, Cause: apperrors.ErrRefreshFailed})
	reporter.Report(nil)

	require.Empty(t, rec.Redirects())
	require.Empty(t, rec.Notifications())
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := notify.LogSink{Logger: zerolog.New(&buf)}
	sink.Notify(notify.TypeError, "access denied")
	sink.Redirect(notify.LoginPath)

	require.Contains(t, buf.String(), `"level":"error"`)
	require.Contains(t, buf.String(), "access denied")
	require.Contains(t, buf.String(), `"path":"/auth/login"`)
}

func TestReportSkipsCancelledCalls(t *testing.T) {
	reporter, rec, store := setup(t)
	reporter.Report(fmt.Errorf("list users: %w", apperrors.Network(context.Canceled)))

	require.Empty(t, rec.Notifications())
	require.Empty(t, rec.Redirects())
	require.True(t, store.Get().Authenticated())
}
