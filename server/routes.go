package server

import (
	"net/http"

	"github.com/jrsteele09/docflow-admin/users"
)

func (s *Server) initRoutes() {
	open := s.APIMiddleware()
	protected := s.ProtectedMiddleware()
	managers := s.APIMiddleware(s.RequireAuth(), s.RequireRole(users.RoleAdmin, users.RoleDirector))
	admins := s.APIMiddleware(s.RequireAuth(), s.RequireRole(users.RoleAdmin))

	s.mux.HandleFunc("OPTIONS /", ChainMiddleware(s.preflight(), open...))

	// AUTH
	s.RegisterRouteFunc(http.MethodPost, RouteAuthLogin, ChainMiddleware(s.LoginHandler(), open...))
	s.RegisterRouteFunc(http.MethodPost, RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), open...))

	// USERS
	s.RegisterRouteFunc(http.MethodGet, RouteUserMe, ChainMiddleware(s.MeHandler(), protected...))
	s.RegisterRouteFunc(http.MethodGet, RouteUserOperators, ChainMiddleware(s.OperatorsHandler(), protected...))
	s.RegisterRouteFunc(http.MethodGet, RouteUser, ChainMiddleware(s.GetUserHandler(), protected...))
	s.RegisterRouteFunc(http.MethodPut, RouteUserChangeRole, ChainMiddleware(s.ChangeRoleHandler(), managers...))
	s.RegisterRouteFunc(http.MethodPut, RouteUserChangeStatus, ChainMiddleware(s.ChangeStatusHandler(), managers...))
	s.RegisterRouteFunc(http.MethodPut, RouteUserGivePerm, ChainMiddleware(s.GivePermissionHandler(), managers...))
	s.RegisterRouteFunc(http.MethodGet, RouteUsers, ChainMiddleware(s.ListUsersHandler(), managers...))
	s.RegisterRouteFunc(http.MethodPost, RouteUsers, ChainMiddleware(s.CreateUserHandler(), managers...))
	s.RegisterRouteFunc(http.MethodPut, RouteUsersItem, ChainMiddleware(s.UpdateUserHandler(), managers...))
	s.RegisterRouteFunc(http.MethodDelete, RouteUsersItem, ChainMiddleware(s.DeleteUserHandler(), managers...))
	s.RegisterRouteFunc(http.MethodPost, RouteUsersSetPassword, ChainMiddleware(s.SetPasswordHandler(), managers...))

	// ORGANIZATIONS
	s.RegisterRouteFunc(http.MethodGet, RouteOrganizations, ChainMiddleware(ListHandler(s.orgs), admins...))
	s.RegisterRouteFunc(http.MethodPost, RouteOrganizations, ChainMiddleware(CreateHandler(s.orgs, validateOrganization), admins...))
	s.RegisterRouteFunc(http.MethodGet, RouteOrganizationsItem, ChainMiddleware(GetHandler(s.orgs), admins...))
	s.RegisterRouteFunc(http.MethodPut, RouteOrganizationsItem, ChainMiddleware(UpdateHandler(s.orgs, validateOrganization), admins...))
	s.RegisterRouteFunc(http.MethodDelete, RouteOrganizationsItem, ChainMiddleware(DeleteHandler(s.orgs, nil), admins...))

	// TEMPLATES
	s.RegisterRouteFunc(http.MethodGet, RouteSamples, ChainMiddleware(ListHandler(s.samples), protected...))
	s.RegisterRouteFunc(http.MethodGet, RouteSamplesItem, ChainMiddleware(GetHandler(s.samples), protected...))
	s.RegisterRouteFunc(http.MethodPost, RouteSamplesUpload, ChainMiddleware(s.UploadTemplateHandler(), protected...))
	s.RegisterRouteFunc(http.MethodPut, RouteSamplesUpdateFile, ChainMiddleware(s.UpdateTemplateFileHandler(), protected...))
	s.RegisterRouteFunc(http.MethodPut, RouteSamplesUpdateFields, ChainMiddleware(s.UpdateTemplateFieldsHandler(), protected...))
	s.RegisterRouteFunc(http.MethodGet, RouteSamplesShow, ChainMiddleware(s.ShowTemplateHandler(), protected...))
	s.RegisterRouteFunc(http.MethodDelete, RouteSamplesItem, ChainMiddleware(DeleteHandler(s.samples, func(id string) {
		s.files.drop(id)
		s.grants.dropDocument(kindTemplate, id)
	}), protected...))

	// CONTRACTS
	s.RegisterRouteFunc(http.MethodGet, RouteDocumentations, ChainMiddleware(ListHandler(s.docs), protected...))
	s.RegisterRouteFunc(http.MethodPost, RouteDocumentations, ChainMiddleware(CreateHandler(s.docs, prepareContract), protected...))
	s.RegisterRouteFunc(http.MethodGet, RouteDocumentationsItem, ChainMiddleware(GetHandler(s.docs), protected...))
	s.RegisterRouteFunc(http.MethodPut, RouteDocumentationsItem, ChainMiddleware(UpdateHandler(s.docs, nil), protected...))
	s.RegisterRouteFunc(http.MethodDelete, RouteDocumentationsItem, ChainMiddleware(DeleteHandler(s.docs, func(id string) {
		s.grants.dropDocument(kindContract, id)
	}), protected...))
	s.RegisterRouteFunc(http.MethodPost, RouteDocumentationsGenerate, ChainMiddleware(s.GenerateHandler(), protected...))
	s.RegisterRouteFunc(http.MethodPost, RouteDocumentationsDownload, ChainMiddleware(s.ContractFileHandler(), protected...))

	// PERMISSIONS
	s.RegisterRouteFunc(http.MethodPost, RouteContractPermissionGrant, ChainMiddleware(s.GrantContractHandler(), managers...))
	s.RegisterRouteFunc(http.MethodGet, RouteContractPermissions, ChainMiddleware(s.ContractPermissionsHandler(), managers...))
	s.RegisterRouteFunc(http.MethodDelete, RouteContractPermissionDelete, ChainMiddleware(s.DeleteContractPermissionHandler(), managers...))
	s.RegisterRouteFunc(http.MethodPost, RouteTemplatePermissionGrant, ChainMiddleware(s.GrantTemplateHandler(), managers...))
	s.RegisterRouteFunc(http.MethodGet, RouteContractMembers, ChainMiddleware(s.MembersHandler(kindContract), managers...))
	s.RegisterRouteFunc(http.MethodGet, RouteTemplateMembers, ChainMiddleware(s.MembersHandler(kindTemplate), managers...))

	// DOWNLOADS
	s.RegisterRouteFunc(http.MethodGet, RouteDownloads, ChainMiddleware(ListHandler(s.jobs), protected...))
	s.RegisterRouteFunc(http.MethodPost, RouteDownloadsCreate, ChainMiddleware(s.CreateDownloadHandler(), protected...))
	s.RegisterRouteFunc(http.MethodDelete, RouteDownloadsItem, ChainMiddleware(DeleteHandler(s.jobs, nil), protected...))
	s.RegisterRouteFunc(http.MethodGet, RouteDownloadsArchive, ChainMiddleware(s.DownloadArchiveHandler(), protected...))
	s.RegisterRouteFunc(http.MethodGet, RouteDownloadsDocuments, ChainMiddleware(s.DownloadDocumentsHandler(), protected...))
}
