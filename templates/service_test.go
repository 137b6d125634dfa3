package templates_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/templates"
	"github.com/jrsteele09/docflow-admin/transport"
	"github.com/jrsteele09/docflow-admin/transport/transportfake"
)

func setup(t *testing.T) (*templates.Service, *transportfake.Doer) {
	t.Helper()
	doer := transportfake.New().On(http.MethodGet, "samples", transportfake.JSON(http.StatusOK, map[string]any{
		"content":       []templates.Template{{ID: "1", Name: "Lease"}},
		"totalElements": 1,
	}))
	svc := templates.NewService(doer)
	_, err := svc.List(context.Background(), 0, 10, "")
	require.NoError(t, err)
	return svc, doer
}

func TestCreateUploadsMultipart(t *testing.T) {
	svc, doer := setup(t)
	doer.On(http.MethodPost, "samples/upload", func(req transport.Request) (*transport.Response, error) {
		body := req.Data.(transport.Multipart)
		require.Equal(t, "Loan", body.Fields["name"])
		require.Equal(t, "loan.docx", body.Files[0].Name)
		return transportfake.JSON(http.StatusOK, templates.Template{ID: "2", Name: "Loan"})(req)
	})

	_, err := svc.Create(context.Background(), templates.Upload{Name: "Loan", FileName: "loan.docx", Content: []byte("docx")})
	require.NoError(t, err)
	page := svc.Templates().Snapshot()
	require.Equal(t, "Loan", page.Items[0].Name)
	require.Equal(t, 2, page.TotalElements)

	_, err = svc.Create(context.Background(), templates.Upload{Name: "Loan"})
	require.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	require.Equal(t, 1, doer.Calls(http.MethodPost, "samples/upload"))
}

func TestUpdateFileMergesResponse(t *testing.T) {
	svc, doer := setup(t)
	doer.On(http.MethodPut, "samples/update-file/1", transportfake.JSON(http.StatusOK, map[string]any{"fileName": "lease-v2.docx"}))

	merged, err := svc.UpdateFile(context.Background(), "1", templates.Upload{Name: "Lease", FileName: "lease-v2.docx", Content: []byte("v2")})
	require.NoError(t, err)
	require.Equal(t, "Lease", merged.Name)
	require.Equal(t, "lease-v2.docx", merged.FileName)

	cached, ok := svc.Templates().Find("1")
	require.True(t, ok)
	require.Equal(t, "lease-v2.docx", cached.FileName)
}

func TestFieldsAndUpdateFields(t *testing.T) {
	svc, doer := setup(t)
	doer.On(http.MethodGet, "samples/1", transportfake.JSON(http.StatusOK, templates.Template{
		ID: "1", Name: "Lease", SampleFields: []templates.Field{{Key: "tenant"}},
	})).On(http.MethodPut, "samples/update-fields/1", transportfake.JSON(http.StatusOK, map[string]any{}))

	tpl, err := svc.Fields(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, tpl.SampleFields, 1)

	fields := []templates.Field{{Key: "tenant"}, {Key: "amount", Type: "NUMBER"}}
	updated, err := svc.UpdateFields(context.Background(), "1", fields)
	require.NoError(t, err)
	require.Equal(t, fields, updated)

	selected, ok := svc.Selected()
	require.True(t, ok)
	require.Len(t, selected.SampleFields, 2)

	_, err = svc.UpdateFields(context.Background(), "1", nil)
	require.ErrorIs(t, err, apperrors.ErrMissingPayload)
}

func TestOpenFile(t *testing.T) {
	templates.NowTimeFunc = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { templates.NowTimeFunc = time.Now })

	svc, doer := setup(t)
	doer.On(http.MethodGet, "samples/show-sample/1", transportfake.Binary(http.Header{}, []byte("docx-bytes")))

	obj, err := svc.OpenFile(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "document_20240102030405.docx", obj.Name)
	require.Equal(t, templates.DocxMimeType, obj.MimeType)
	require.Equal(t, transport.ResponseBinary, doer.Last().ResponseType)
}

func TestDelete(t *testing.T) {
	svc, doer := setup(t)
	doer.On(http.MethodDelete, "samples/1", transportfake.Status(http.StatusOK))

	require.NoError(t, svc.Delete(context.Background(), "1"))
	require.Empty(t, svc.Templates().Snapshot().Items)
	require.Zero(t, svc.Templates().Snapshot().TotalElements)
}
