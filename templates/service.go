package templates

import (
	"context"
	"net/http"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/download"
	"github.com/jrsteele09/docflow-admin/store"
	"github.com/jrsteele09/docflow-admin/transport"
)

const (
	path             = "samples"
	uploadPath       = "samples/upload"
	updateFilePath   = "samples/update-file"
	updateFieldsPath = "samples/update-fields"
	showPath         = "samples/show-sample"
)

// NowTimeFunc is used to name downloaded files without a Content-Disposition.
var NowTimeFunc = time.Now

// Service manages document templates.
type Service struct {
	templates *store.Store[Template]
	call      store.Caller

	mu       sync.RWMutex
	selected *Template
}

func NewService(doer store.Doer, opts ...store.Option) *Service {
	return &Service{
		templates: store.New("templates", doer, store.Endpoints{List: path, Create: uploadPath}, Template.Key, opts...),
		call:      store.NewCaller(doer, opts...),
	}
}

// Templates is the cached page.
func (s *Service) Templates() *store.Store[Template] {
	return s.templates
}

func (s *Service) List(ctx context.Context, page, size int, search string) (store.Page[Template], error) {
	return s.templates.List(ctx, store.Query{Page: page, Size: size, Filters: map[string]string{"search": search}})
}

func (u Upload) multipart(requireFile bool) (transport.Multipart, error) {
	if u.Name == "" {
		return transport.Multipart{}, apperrors.Validation(apperrors.ErrMissingPayload, "template name is required")
	}
	if requireFile && len(u.Content) == 0 {
		return transport.Multipart{}, apperrors.Validation(apperrors.ErrMissingPayload, "template file is required")
	}
	m := transport.Multipart{Fields: map[string]string{"name": u.Name}}
	if len(u.Content) > 0 {
		m.Files = []transport.File{{Field: "file", Name: u.FileName, Content: u.Content}}
	}
	return m, nil
}

// Create uploads a new template and puts it at the head of the page.
func (s *Service) Create(ctx context.Context, upload Upload) (Template, error) {
	body, err := upload.multipart(true)
	if err != nil {
		return Template{}, err
	}
	return s.templates.Create(ctx, body)
}

// UpdateFile replaces the name and optionally the file of a template. The
// response is merged into the cached item.
func (s *Service) UpdateFile(ctx context.Context, id string, upload Upload) (Template, error) {
	if id == "" {
		return Template{}, apperrors.Validation(apperrors.ErrMissingID, "template id is required")
	}
	body, err := upload.multipart(false)
	if err != nil {
		return Template{}, err
	}
	var changes store.Patch
	if err := s.call.Into(ctx, transport.Request{Path: updateFilePath, Method: http.MethodPut, ResourceID: id, Data: body}, &changes); err != nil {
		return Template{}, err
	}
	if len(changes) == 0 {
		changes = store.Patch{"name": upload.Name}
	}
	merged, _, err := s.templates.Merge(id, changes)
	return merged, err
}

// UpdateFields replaces the field list of a template.
func (s *Service) UpdateFields(ctx context.Context, id string, fields []Field) ([]Field, error) {
	if id == "" {
		return nil, apperrors.Validation(apperrors.ErrMissingID, "template id is required")
	}
	if len(fields) == 0 {
		return nil, apperrors.Validation(apperrors.ErrMissingPayload, "fields must not be empty")
	}
	var resp Template
	if err := s.call.Into(ctx, transport.Request{Path: updateFieldsPath, Method: http.MethodPut, ResourceID: id, Data: fields}, &resp); err != nil {
		return nil, err
	}
	updated := resp.SampleFields
	if len(updated) == 0 {
		updated = fields
	}

	s.mu.Lock()
	if s.selected != nil && string(s.selected.ID) == id {
		s.selected.SampleFields = updated
	}
	s.mu.Unlock()
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.templates.Remove(ctx, id)
}

// Fields loads a template with its fields and makes it the selected one.
func (s *Service) Fields(ctx context.Context, id string) (Template, error) {
	t, err := s.templates.Get(ctx, id)
	if err != nil {
		return Template{}, err
	}
	s.mu.Lock()
	s.selected = &t
	s.mu.Unlock()
	return t, nil
}

// Selected returns the template loaded by Fields.
func (s *Service) Selected() (Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return Template{}, false
	}
	return *s.selected, true
}

// OpenFile downloads the template file.
func (s *Service) OpenFile(ctx context.Context, id string) (*download.Object, error) {
	if id == "" {
		return nil, apperrors.Validation(apperrors.ErrMissingID, "template id is required")
	}
	resp, err := s.call.Do(ctx, transport.Request{Path: showPath, ResourceID: id, ResponseType: transport.ResponseBinary})
	if err != nil {
		return nil, err
	}
	return download.FromResponse(resp, "docx", DocxMimeType, NowTimeFunc())
}
