package contracts

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/download"
	"github.com/jrsteele09/docflow-admin/permissions"
	"github.com/jrsteele09/docflow-admin/store"
	"github.com/jrsteele09/docflow-admin/templates"
	"github.com/jrsteele09/docflow-admin/transport"
)

const (
	path            = "documentations"
	generatePath    = "documentations/generate"
	downloadPath    = "documentations/download"
	samplesPath     = "samples"
	permissionsPath = "documentation-permissions"
)

// NowTimeFunc is used to name downloaded files without a Content-Disposition.
var NowTimeFunc = time.Now

type Service struct {
	contracts *store.Store[Contract]
	call      store.Caller
}

func NewService(doer store.Doer, opts ...store.Option) *Service {
	return &Service{
		contracts: store.New("contracts", doer, store.Endpoints{List: path}, Contract.Key, opts...),
		call:      store.NewCaller(doer, opts...),
	}
}

func (s *Service) Contracts() *store.Store[Contract] {
	return s.contracts
}

func (s *Service) List(ctx context.Context, page, size int, search string) (store.Page[Contract], error) {
	return s.contracts.List(ctx, store.Query{Page: page, Size: size, Filters: map[string]string{"search": search}})
}

func (s *Service) Get(ctx context.Context, id string) (Contract, error) {
	return s.contracts.Get(ctx, id)
}

// relist reloads the current page after a change. A page already loading
// will show the change on its own.
func (s *Service) relist(ctx context.Context) error {
	if _, err := s.contracts.Reload(ctx); err != nil && !apperrors.Is(err, apperrors.ErrBusy) {
		return err
	}
	return nil
}

func (s *Service) Create(ctx context.Context, form Form) (Contract, error) {
	if len(form) == 0 {
		return Contract{}, apperrors.Validation(apperrors.ErrMissingPayload, "contract form is required")
	}
	created, err := s.contracts.Create(ctx, form)
	if err != nil {
		return Contract{}, err
	}
	return created, s.relist(ctx)
}

func (s *Service) Edit(ctx context.Context, id string, form Form) (Contract, error) {
	updated, err := s.contracts.Update(ctx, id, store.Patch(form))
	if err != nil {
		return Contract{}, err
	}
	return updated, s.relist(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.contracts.Remove(ctx, id); err != nil {
		return err
	}
	return s.relist(ctx)
}

// Samples lists the templates contracts can be generated from. Anything
// other than a list decodes to an empty result.
func (s *Service) Samples(ctx context.Context) ([]templates.Template, error) {
	var page store.Page[templates.Template]
	if err := s.call.Into(ctx, transport.Request{Path: samplesPath, Method: http.MethodGet}, &page); err != nil {
		if apperrors.KindOf(err) == "" {
			return []templates.Template{}, nil
		}
		return nil, err
	}
	if page.Items == nil {
		return []templates.Template{}, nil
	}
	return page.Items, nil
}

// Generate creates contracts for ids from the shared form.
func (s *Service) Generate(ctx context.Context, ids []string, form Form) error {
	if len(ids) == 0 {
		return apperrors.Validation(apperrors.ErrMissingID, "contract ids are required")
	}
	if form == nil {
		return apperrors.Validation(apperrors.ErrMissingPayload, "contract form is required")
	}
	body := make(map[string]any, len(form)+1)
	for k, v := range form {
		body[k] = v
	}
	body["contractIds"] = ids

	if _, err := s.call.Do(ctx, transport.Request{Path: generatePath, Method: http.MethodPost, Data: body}); err != nil {
		return errors.Wrap(err, "generate contracts")
	}
	return s.relist(ctx)
}

func (s *Service) GrantPermission(ctx context.Context, grant permissions.ContractGrant) error {
	if grant.DocumentationID == "" {
		return apperrors.Validation(apperrors.ErrMissingID, "contract id is required")
	}
	_, err := s.call.Do(ctx, transport.Request{Path: permissions.ContractGrantPath, Method: http.MethodPost, Data: grant})
	return err
}

// Permissions lists who can access a contract.
func (s *Service) Permissions(ctx context.Context, contractID string) ([]permissions.Permission, error) {
	if contractID == "" {
		return nil, apperrors.Validation(apperrors.ErrMissingID, "contract id is required")
	}
	var page store.Page[permissions.Permission]
	if err := s.call.Into(ctx, transport.Request{Path: permissionsPath, Method: http.MethodGet, ResourceID: contractID}, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (s *Service) DeletePermission(ctx context.Context, userID, contractID string) error {
	if userID == "" || contractID == "" {
		return apperrors.Validation(apperrors.ErrMissingID, "user id and contract id are required")
	}
	_, err := s.call.Do(ctx, transport.Request{
		Path:       permissionsPath + "/" + url.PathEscape(userID),
		Method:     http.MethodDelete,
		ResourceID: contractID,
	})
	return err
}

// OpenFile renders a contract in format (docx or pdf).
func (s *Service) OpenFile(ctx context.Context, id, format string) (*download.Object, error) {
	if id == "" {
		return nil, apperrors.Validation(apperrors.ErrMissingID, "contract id is required")
	}
	if format == "" {
		format = "docx"
	}
	resp, err := s.call.Do(ctx, transport.Request{
		Path:         downloadPath,
		Method:       http.MethodPost,
		ResourceID:   id,
		Params:       transport.Params(map[string]string{"format": format}),
		ResponseType: transport.ResponseBinary,
	})
	if err != nil {
		return nil, err
	}
	return download.FromResponse(resp, format, templates.DocxMimeType, NowTimeFunc())
}
