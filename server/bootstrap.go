package server

import (
	"fmt"

	"github.com/jrsteele09/docflow-admin/contracts"
	"github.com/jrsteele09/docflow-admin/organizations"
	"github.com/jrsteele09/docflow-admin/store"
	"github.com/jrsteele09/docflow-admin/templates"
	"github.com/jrsteele09/docflow-admin/users"
)

const (
	DefaultOrganizationName = "Head Office"
	DefaultTemplateName     = "Loan agreement"
)

// InitialiseSystem makes sure the admin account exists and seeds an
// organization, a template and a contract on first start.
func (s *Server) InitialiseSystem() error {
	username := s.config.GetAdminUsername()
	if _, err := s.users.GetByUsername(username); err == nil {
		return nil
	}

	hash, err := users.HashPassword(s.config.GetAdminPassword())
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	org := s.orgs.Upsert(organizations.Organization{Name: DefaultOrganizationName, IdentifierNumber: "000000000", UsersCount: 1})
	admin := &users.User{
		Username:       username,
		PasswordHash:   hash,
		FirstName:      "System",
		LastName:       "Admin",
		FullName:       "System Admin",
		Role:           users.RoleAdmin,
		Status:         store.StatusActive,
		OrganizationID: org.ID,
	}
	if err := s.users.Upsert(admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	sample := s.samples.Upsert(templates.Template{
		Name:     DefaultTemplateName,
		FileName: "loan-agreement.docx",
		SampleFields: []templates.Field{
			{ID: "1", Key: "borrower", Name: "Borrower", Type: "text", Required: true},
			{ID: "2", Key: "amount", Name: "Amount", Type: "number", Required: true},
		},
	})
	s.files.put(string(sample.ID), []byte("loan agreement template"))

	s.docs.Upsert(contracts.Contract{
		Name:       "Loan agreement #1",
		SampleID:   sample.ID,
		SampleName: sample.Name,
		Status:     contracts.StatusCreated,
		Fields:     map[string]string{"borrower": "Jane Doe", "amount": "1000"},
	})

	s.logger.Info().Str("username", username).Msg("bootstrap complete: admin user created")
	return nil
}
