package organizations

import (
	"context"

	"github.com/jrsteele09/docflow-admin/store"
)

const path = "organizations"

// Service manages organizations.
type Service struct {
	orgs *store.Store[Organization]
}

func NewService(doer store.Doer, opts ...store.Option) *Service {
	return &Service{
		orgs: store.New("organizations", doer, store.Endpoints{List: path}, Organization.Key, opts...),
	}
}

// Organizations is the cached page.
func (s *Service) Organizations() *store.Store[Organization] {
	return s.orgs
}

func (s *Service) List(ctx context.Context, page, size int, search string) (store.Page[Organization], error) {
	return s.orgs.List(ctx, store.Query{Page: page, Size: size, Filters: map[string]string{"search": search}})
}

func (s *Service) Create(ctx context.Context, form Form) (Organization, error) {
	return s.orgs.Create(ctx, form.Trimmed())
}

// Update sends the trimmed name and identifier number.
func (s *Service) Update(ctx context.Context, id string, form Form) (Organization, error) {
	return s.orgs.Update(ctx, id, form.Trimmed().patch())
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.orgs.Remove(ctx, id)
}
