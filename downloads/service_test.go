package downloads_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/docflow-admin/download"
	"github.com/jrsteele09/docflow-admin/downloads"
	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/transport"
	"github.com/jrsteele09/docflow-admin/transport/transportfake"
)

func newService(t *testing.T, doer *transportfake.Doer) (*downloads.Service, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return downloads.NewService(doer, download.NewSaver(fs, "/out")), fs
}

func TestListAndCreate(t *testing.T) {
	doer := transportfake.New().
		On(http.MethodGet, "download-info", transportfake.JSON(http.StatusOK, map[string]any{
			"content":       []downloads.Job{{ID: "1", FileType: "PDF", Status: "FINISHED"}},
			"totalElements": 1,
		})).
		On(http.MethodPost, "download-info/create", transportfake.Status(http.StatusOK))
	svc, _ := newService(t, doer)

	page, err := svc.List(context.Background(), 0, 10, "FINISHED")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, "FINISHED", doer.Last().Params.Get("status"))

	require.NoError(t, svc.Create(context.Background(), downloads.Request{DocumentationIDs: []string{"4", "5"}}))
	require.Equal(t, 2, doer.Calls(http.MethodGet, "download-info"))
	require.Equal(t, "FINISHED", doer.Last().Params.Get("status"))

	err = svc.Create(context.Background(), downloads.Request{})
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	require.Equal(t, 1, doer.Calls(http.MethodPost, "download-info/create"))
}

func TestDownloadSavesZip(t *testing.T) {
	header := http.Header{"Content-Disposition": {`attachment; filename="contracts.pdf.tar"`}}
	doer := transportfake.New().On(http.MethodGet, "download-info/9/download", transportfake.Binary(header, []byte("PK")))
	svc, fs := newService(t, doer)

	saved, err := svc.Download(context.Background(), "9", "pdf")
	require.NoError(t, err)
	require.Equal(t, "/out/contracts.zip", saved)
	data, err := afero.ReadFile(fs, saved)
	require.NoError(t, err)
	require.Equal(t, []byte("PK"), data)
	require.Equal(t, transport.ResponseBinary, doer.Last().ResponseType)
	require.False(t, svc.Downloading("9"))
}

func TestDownloadFallbackName(t *testing.T) {
	downloads.NowTimeFunc = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { downloads.NowTimeFunc = time.Now })

	doer := transportfake.New().On(http.MethodGet, "download-info/9/download", transportfake.Binary(http.Header{}, []byte("PK")))
	svc, _ := newService(t, doer)

	saved, err := svc.Download(context.Background(), "9", "docx")
	require.NoError(t, err)
	require.Equal(t, "/out/document_20240102030405.zip", saved)
}

func TestDownloadEmptyFile(t *testing.T) {
	doer := transportfake.New().On(http.MethodGet, "download-info/9/download", transportfake.Binary(http.Header{}, nil))
	svc, _ := newService(t, doer)

	_, err := svc.Download(context.Background(), "9", "pdf")
	require.ErrorIs(t, err, download.ErrEmptyFile)
	require.False(t, svc.Downloading("9"))
}

func TestDownloadGuardsSameID(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	doer := transportfake.New().On(http.MethodGet, "download-info/9/download", func(req transport.Request) (*transport.Response, error) {
		close(started)
		<-release
		return transportfake.Binary(http.Header{}, []byte("PK"))(req)
	})
	svc, _ := newService(t, doer)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Download(context.Background(), "9", "pdf")
		done <- err
	}()
	<-started
	assert.True(t, svc.Downloading("9"))

	_, err := svc.Download(context.Background(), "9", "pdf")
	require.ErrorIs(t, err, downloads.ErrInProgress)
	close(release)
	require.NoError(t, <-done)
	require.Equal(t, 1, doer.Calls(http.MethodGet, "download-info/9/download"))
}

func TestDocumentsAndDelete(t *testing.T) {
	doer := transportfake.New().
		On(http.MethodGet, "download-info/3/documents", transportfake.JSON(http.StatusOK, []map[string]any{{"id": 1, "name": "Loan"}})).
		On(http.MethodDelete, "download-info/3", transportfake.Status(http.StatusNoContent))
	svc, _ := newService(t, doer)

	docs, err := svc.Documents(context.Background(), "3")
	require.NoError(t, err)
	require.Equal(t, "Loan", docs[0].Name)
	require.NoError(t, svc.Delete(context.Background(), "3"))
}
