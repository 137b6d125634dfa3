package users

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
	"github.com/jrsteele09/docflow-admin/internal/utils"
	"github.com/jrsteele09/docflow-admin/store"
	"github.com/jrsteele09/docflow-admin/transport"
)

const (
	membersPath      = "users"
	setPasswordPath  = "users/set-password-admin"
	userPath         = "user"
	mePath           = "user/me"
	operatorsPath    = "user/operators"
	changeRolePath   = "user/change-role"
	changeStatusPath = "user/change-status"
	givePermission   = "user/give-permission"

	DefaultSortField      = "fullName"
	DefaultOrderDirection = "DESC"
)

// Filter narrows the member list.
type Filter struct {
	Page           int
	Size           int
	Search         string
	Role           RoleType
	Status         *bool // nil lists every status
	SortField      string
	OrderDirection string
}

// Query renders the filter with the backend defaults applied.
func (f Filter) Query() store.Query {
	q := store.Query{Page: f.Page, Size: f.Size, Filters: map[string]string{
		"search":         f.Search,
		"role":           string(f.Role),
		"sortField":      f.SortField,
		"orderDirection": f.OrderDirection,
	}}
	if q.Filters["sortField"] == "" {
		q.Filters["sortField"] = DefaultSortField
	}
	if q.Filters["orderDirection"] == "" {
		q.Filters["orderDirection"] = DefaultOrderDirection
	}
	if f.Status != nil {
		q.Filters["status"] = store.StatusValue(*f.Status)
	}
	return q
}

// NewUser is the payload for creating a member.
type NewUser struct {
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Role      RoleType `json:"role,omitempty"`
	Status    string   `json:"status"`
}

// PermissionGrant gives a user access to a set of documents.
type PermissionGrant struct {
	UserID           string   `json:"userId"`
	DocumentationIDs []string `json:"documentationIds,omitempty"`
	SampleIDs        []string `json:"sampleIds,omitempty"`
}

// Service manages organization members.
type Service struct {
	members *store.Store[User]
	call    store.Caller
}

func NewService(doer store.Doer, opts ...store.Option) *Service {
	return &Service{
		members: store.New("users", doer, store.Endpoints{List: membersPath}, User.Key, opts...),
		call:    store.NewCaller(doer, opts...),
	}
}

// Members is the cached member page.
func (s *Service) Members() *store.Store[User] {
	return s.members
}

func (s *Service) List(ctx context.Context, f Filter) (store.Page[User], error) {
	return s.members.List(ctx, f.Query())
}

// Create adds a member. The status defaults to ACTIVE.
func (s *Service) Create(ctx context.Context, u NewUser) (User, error) {
	if u.Username == "" || u.Password == "" {
		return User{}, apperrors.Validation(apperrors.ErrMissingPayload, "username and password are required")
	}
	if u.Status == "" {
		u.Status = store.StatusActive
	}
	return s.members.Create(ctx, u)
}

// Update patches a member; a boolean status is sent as ACTIVE or INACTIVE.
func (s *Service) Update(ctx context.Context, id string, patch store.Patch) (User, error) {
	return s.members.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.members.Remove(ctx, id)
}

// SetPassword resets the password of a member.
func (s *Service) SetPassword(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return apperrors.Validation(apperrors.ErrMissingPayload, "username and password are required")
	}
	_, err := s.call.Do(ctx, transport.Request{
		Path:   setPasswordPath,
		Method: http.MethodPost,
		Params: url.Values{"username": {username}, "password": {password}},
	})
	return err
}

// Get fetches one user.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	var u User
	if id == "" {
		return u, apperrors.Validation(apperrors.ErrMissingID, "user id is required")
	}
	err := s.call.Into(ctx, transport.Request{Path: userPath, ResourceID: id}, &u)
	return u, err
}

// Me fetches the signed in user.
func (s *Service) Me(ctx context.Context) (User, error) {
	var u User
	err := s.call.Into(ctx, transport.Request{Path: mePath}, &u)
	return u, err
}

func (s *Service) Operators(ctx context.Context) ([]User, error) {
	var page store.Page[User]
	if err := s.call.Into(ctx, transport.Request{Path: operatorsPath}, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (s *Service) ChangeRole(ctx context.Context, id string, role RoleType) error {
	if id == "" || role == "" {
		return apperrors.Validation(apperrors.ErrMissingID, "user id and role are required")
	}
	_, err := s.call.Do(ctx, transport.Request{
		Path:       changeRolePath,
		Method:     http.MethodPut,
		ResourceID: id,
		Data:       transport.Multipart{Fields: map[string]string{"role": string(role)}},
	})
	if err == nil {
		s.members.Modify(id, func(u *User) { u.Role = role })
	}
	return err
}

func (s *Service) ChangeStatus(ctx context.Context, id string, active bool) error {
	if id == "" {
		return apperrors.Validation(apperrors.ErrMissingID, "user id is required")
	}
	status := store.StatusValue(active)
	_, err := s.call.Do(ctx, transport.Request{
		Path:       changeStatusPath,
		Method:     http.MethodPut,
		ResourceID: id,
		Data:       transport.Multipart{Fields: map[string]string{"status": status}},
	})
	if err == nil {
		s.members.Modify(id, func(u *User) { u.Status = status })
	}
	return err
}

func (s *Service) GivePermission(ctx context.Context, grant PermissionGrant) error {
	if grant.UserID == "" {
		return apperrors.Validation(apperrors.ErrMissingID, "user id is required")
	}
	_, err := s.call.Do(ctx, transport.Request{Path: givePermission, Method: http.MethodPut, Data: grant})
	return err
}

// StatusFilter is a helper for building Filter.Status from a CLI flag value.
func StatusFilter(value string) *bool {
	if value == "" {
		return nil
	}
	if v, err := strconv.ParseBool(value); err == nil {
		return utils.Ptr(v)
	}
	switch value {
	case store.StatusActive:
		return utils.Ptr(true)
	case store.StatusInactive:
		return utils.Ptr(false)
	}
	return nil
}
