package permissions

import (
	"context"
	"net/http"
	"sync"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/store"
	"github.com/jrsteele09/docflow-admin/transport"
)

const (
	contractUsersPath = "users/documentation-permissions/"
	templateUsersPath = "users/sample-permissions/"
	ContractGrantPath = "documentation-permissions/grant"
	TemplateGrantPath = "sample-permissions/grant"
)

// Filter narrows the member list of a document.
type Filter struct {
	Page   int
	Size   int
	Search string
	Status string
	Role   string
}

// Service lists who can access a contract or template and grants access.
type Service struct {
	doer store.Doer
	opts []store.Option
	call store.Caller

	mu      sync.Mutex
	target  string
	members *store.Store[Member]
}

func NewService(doer store.Doer, opts ...store.Option) *Service {
	return &Service{doer: doer, opts: opts, call: store.NewCaller(doer, opts...)}
}

// storeFor returns the member store of the given document, replacing the
// cached one when the document changes.
func (s *Service) storeFor(kind Kind, id string) *store.Store[Member] {
	listPath := contractUsersPath + id
	if kind == KindTemplate {
		listPath = templateUsersPath + id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.members == nil || s.target != listPath {
		s.members = store.New("permissions", s.doer, store.Endpoints{List: listPath}, Member.Key, s.opts...)
		s.target = listPath
	}
	return s.members
}

// Members returns the member store of the last listed document.
func (s *Service) Members() *store.Store[Member] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members
}

func (f Filter) query() store.Query {
	return store.Query{Page: f.Page, Size: f.Size, Filters: map[string]string{
		"search": f.Search,
		"status": f.Status,
		"role":   f.Role,
	}}
}

// ContractUsers lists users with their access to a contract.
func (s *Service) ContractUsers(ctx context.Context, contractID string, f Filter) (store.Page[Member], error) {
	if contractID == "" {
		return store.Page[Member]{}, apperrors.Validation(apperrors.ErrMissingID, "contract id is required")
	}
	f.Role = ""
	return s.storeFor(KindContract, contractID).List(ctx, f.query())
}

// TemplateUsers lists users with their access to a template.
func (s *Service) TemplateUsers(ctx context.Context, templateID string, f Filter) (store.Page[Member], error) {
	if templateID == "" {
		return store.Page[Member]{}, apperrors.Validation(apperrors.ErrMissingID, "template id is required")
	}
	return s.storeFor(KindTemplate, templateID).List(ctx, f.query())
}

func (s *Service) GrantContract(ctx context.Context, grant ContractGrant) error {
	if grant.DocumentationID == "" {
		return apperrors.Validation(apperrors.ErrMissingID, "contract id is required")
	}
	_, err := s.call.Do(ctx, transport.Request{Path: ContractGrantPath, Method: http.MethodPost, Data: grant})
	return err
}

func (s *Service) GrantTemplate(ctx context.Context, grant TemplateGrant) error {
	if grant.SampleID == "" {
		return apperrors.Validation(apperrors.ErrMissingID, "template id is required")
	}
	_, err := s.call.Do(ctx, transport.Request{Path: TemplateGrantPath, Method: http.MethodPost, Data: grant})
	return err
}
