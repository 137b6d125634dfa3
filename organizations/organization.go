package organizations

import (
	"strings"

	"github.com/jrsteele09/docflow-admin/store"
)

// Organization owns users, templates and contracts.
type Organization struct {
	ID               store.ID `json:"id,omitempty"`
	Name             string   `json:"name"`
	IdentifierNumber string   `json:"identifierNumber"` // taxpayer identification number
	UsersCount       int      `json:"usersCount,omitempty"`
}

// Key returns the organization id.
func (o Organization) Key() string {
	return string(o.ID)
}

// Form is the editable part of an organization.
type Form struct {
	Name             string `json:"name"`
	IdentifierNumber string `json:"identifierNumber"`
}

// Trimmed returns the form with surrounding whitespace removed.
func (f Form) Trimmed() Form {
	return Form{Name: strings.TrimSpace(f.Name), IdentifierNumber: strings.TrimSpace(f.IdentifierNumber)}
}

func (f Form) patch() store.Patch {
	return store.Patch{"name": f.Name, "identifierNumber": f.IdentifierNumber}
}
