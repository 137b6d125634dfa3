package permissions

import (
	"github.com/jrsteele09/docflow-admin/store"
	"github.com/jrsteele09/docflow-admin/users"
)

// Kind is the type of document a permission applies to.
type Kind string

const (
	KindContract Kind = "documentation"
	KindTemplate Kind = "sample"
)

// Member is a user listed against a contract or template together with
// whether they may access it.
type Member struct {
	users.User
	HasPermission bool `json:"hasPermission"`
}

// Permission is one user's access to one document.
type Permission struct {
	ID              store.ID `json:"id,omitempty"`
	UserID          store.ID `json:"userId"`
	Username        string   `json:"username,omitempty"`
	FullName        string   `json:"fullName,omitempty"`
	DocumentationID store.ID `json:"documentationId,omitempty"`
	SampleID        store.ID `json:"sampleId,omitempty"`
}

// ContractGrant gives users access to a contract.
type ContractGrant struct {
	DocumentationID string   `json:"documentationId"`
	UserIDs         []string `json:"userIds"`
}

// TemplateGrant gives users access to a template.
type TemplateGrant struct {
	SampleID string   `json:"sampleId"`
	UserIDs  []string `json:"userIds"`
}
