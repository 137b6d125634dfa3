package server

// Route path constants, relative to the API version prefix.
const (
	// Auth
	RouteAuthLogin   = "/auth/login"
	RouteAuthRefresh = "/auth/refresh"

	// Current user and member management
	RouteUserMe           = "/user/me"
	RouteUserOperators    = "/user/operators"
	RouteUser             = "/user/{id}"
	RouteUserChangeRole   = "/user/change-role/{id}"
	RouteUserChangeStatus = "/user/change-status/{id}"
	RouteUserGivePerm     = "/user/give-permission"
	RouteUsers            = "/users"
	RouteUsersItem        = "/users/{id}"
	RouteUsersSetPassword = "/users/set-password-admin"

	// Organizations
	RouteOrganizations     = "/organizations"
	RouteOrganizationsItem = "/organizations/{id}"

	// Templates
	RouteSamples             = "/samples"
	RouteSamplesItem         = "/samples/{id}"
	RouteSamplesUpload       = "/samples/upload"
	RouteSamplesUpdateFile   = "/samples/update-file/{id}"
	RouteSamplesUpdateFields = "/samples/update-fields/{id}"
	RouteSamplesShow         = "/samples/show-sample/{id}"

	// Contracts
	RouteDocumentations         = "/documentations"
	RouteDocumentationsItem     = "/documentations/{id}"
	RouteDocumentationsGenerate = "/documentations/generate"
	RouteDocumentationsDownload = "/documentations/download/{id}"

	// Permissions
	RouteContractPermissionGrant  = "/documentation-permissions/grant"
	RouteContractPermissions      = "/documentation-permissions/{id}"
	RouteContractPermissionDelete = "/documentation-permissions/{userId}/{contractId}"
	RouteTemplatePermissionGrant  = "/sample-permissions/grant"
	RouteContractMembers          = "/users/documentation-permissions/{id}"
	RouteTemplateMembers          = "/users/sample-permissions/{id}"

	// Download jobs
	RouteDownloads          = "/download-info"
	RouteDownloadsCreate    = "/download-info/create"
	RouteDownloadsItem      = "/download-info/{id}"
	RouteDownloadsArchive   = "/download-info/{id}/download"
	RouteDownloadsDocuments = "/download-info/{id}/documents"
)
