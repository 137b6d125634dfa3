package client_test

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/docflow-admin/auth"
	"github.com/jrsteele09/docflow-admin/client"
	"github.com/jrsteele09/docflow-admin/contracts"
	"github.com/jrsteele09/docflow-admin/downloads"
	"github.com/jrsteele09/docflow-admin/internal/config"
	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/notify"
	"github.com/jrsteele09/docflow-admin/notify/notifyfake"
	"github.com/jrsteele09/docflow-admin/organizations"
	"github.com/jrsteele09/docflow-admin/server"
	"github.com/jrsteele09/docflow-admin/sessions"
	"github.com/jrsteele09/docflow-admin/storage"
	"github.com/jrsteele09/docflow-admin/templates"
	fakeuserrepo "github.com/jrsteele09/docflow-admin/users/repofake"
)

type testFixture struct {
	client *client.Client
	sink   *notifyfake.Recorder
	fs     afero.Fs
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	t.Setenv("ENV", "TEST")
	t.Setenv("API_VERSION", "v1")
	t.Setenv("DOWNLOAD_DIR", "/downloads")

	backend, err := server.New(config.New(), fakeuserrepo.NewFakeUserRepo())
	require.NoError(t, err)
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	t.Setenv("API_BASE_URL", srv.URL)

	sink := notifyfake.New()
	fs := afero.NewMemMapFs()
	c, err := client.New(config.New(),
		client.WithHTTPClient(srv.Client()),
		client.WithStorage(storage.NewInMemoryStore()),
		client.WithFs(fs),
		client.WithSink(sink),
	)
	require.NoError(t, err)
	return &testFixture{client: c, sink: sink, fs: fs}
}

func (f *testFixture) login(t *testing.T) {
	t.Helper()
	_, err := f.client.Auth.Login(context.Background(), auth.Credentials{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	f.sink.Reset()
}

func TestLoginScenario(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	_, err := f.client.Auth.Login(ctx, auth.Credentials{Username: "admin", Password: "nope"})
	require.Error(t, err)
	require.False(t, f.client.Auth.CheckAuth())
	last, ok := f.sink.LastNotification()
	require.True(t, ok)
	require.Equal(t, notifyfake.Notification{Type: notify.TypeError, Message: "invalid username or password"}, last)

	user, err := f.client.Auth.Login(ctx, auth.Credentials{Username: " admin ", Password: "admin123"})
	require.NoError(t, err)
	require.Equal(t, "admin", user.Username)
	require.True(t, f.client.Auth.CheckAuth())
	require.Equal(t, notify.DashboardPath, f.sink.LastRedirect())

	me, err := f.client.Auth.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, user.Role, me.Role)

	require.NoError(t, f.client.Auth.Logout())
	require.False(t, f.client.Auth.CheckAuth())
	require.Equal(t, notify.LoginPath, f.sink.LastRedirect())
}

func TestStaleTokenIsRefreshed(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	current := f.client.Sessions.Get()
	require.NoError(t, f.client.Sessions.Save(sessions.Session{AccessToken: "stale", RefreshToken: current.RefreshToken}))

	var wg sync.WaitGroup
	errs := make([]error, 4)
	calls := []func() error{
		func() error { _, err := f.client.Organizations.List(context.Background(), 0, 10, ""); return err },
		func() error { _, err := f.client.Templates.List(context.Background(), 0, 10, ""); return err },
		func() error { _, err := f.client.Contracts.List(context.Background(), 0, 10, ""); return err },
		func() error { _, err := f.client.Downloads.List(context.Background(), 0, 10, ""); return err },
	}
	for i, call := range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = call()
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.GreaterOrEqual(t, f.client.Refresh.Refreshes(), 1)
	refreshed := f.client.Sessions.Get()
	require.NotEqual(t, "stale", refreshed.AccessToken)
	require.NotEqual(t, current.RefreshToken, refreshed.RefreshToken)
	require.Empty(t, f.sink.Redirects())
}

func TestFailedRefreshLogsOut(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	require.NoError(t, f.client.Sessions.Save(sessions.Session{AccessToken: "stale", RefreshToken: "revoked"}))

	_, err := f.client.Organizations.List(context.Background(), 0, 10, "")
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrRefreshFailed))
	require.False(t, f.client.Auth.CheckAuth())
	require.Equal(t, notify.LoginPath, f.sink.LastRedirect())
}

func TestOrganizationLifecycle(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	ctx := context.Background()

	org, err := f.client.Organizations.Create(ctx, organizations.Form{Name: "  Delta Finance ", IdentifierNumber: "301"})
	require.NoError(t, err)
	require.Equal(t, "Delta Finance", org.Name)

	page, err := f.client.Organizations.List(ctx, 0, 10, "delta")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	require.NoError(t, f.client.Organizations.Delete(ctx, string(org.ID)))
	page, err = f.client.Organizations.List(ctx, 0, 10, "delta")
	require.NoError(t, err)
	require.Empty(t, page.Items)
}

func TestContractToArchive(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	ctx := context.Background()

	tmpl, err := f.client.Templates.Create(ctx, templates.Upload{Name: "Lease", FileName: "lease.docx", Content: []byte("docx")})
	require.NoError(t, err)

	contract, err := f.client.Contracts.Create(ctx, contracts.Form{"name": "Lease #1", "sampleId": string(tmpl.ID)})
	require.NoError(t, err)
	require.NotEmpty(t, contract.ID)

	require.NoError(t, f.client.Contracts.Generate(ctx, []string{string(contract.ID)}, contracts.Form{"serviceType": contracts.ServiceTypes[0]}))
	generated, err := f.client.Contracts.Get(ctx, string(contract.ID))
	require.NoError(t, err)
	require.Equal(t, contracts.StatusFinished, generated.Status)

	require.NoError(t, f.client.Downloads.Create(ctx, downloads.Request{DocumentationIDs: []string{string(contract.ID)}}))
	jobs, err := f.client.Downloads.List(ctx, 0, 10, "")
	require.NoError(t, err)
	require.NotEmpty(t, jobs.Items)
	job := jobs.Items[0]

	path, err := f.client.Downloads.Download(ctx, string(job.ID), "zip")
	require.NoError(t, err)
	require.Equal(t, "/downloads/documents_"+string(job.ID)+".zip", path)
	data, err := afero.ReadFile(f.fs, path)
	require.NoError(t, err)
	require.Equal(t, "PK", string(data[:2]))
}
