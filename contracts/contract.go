package contracts

import "github.com/jrsteele09/docflow-admin/store"

// Status is the processing state of a generated contract.
type Status string

const (
	StatusCreated         Status = "CREATED"
	StatusSent            Status = "SENT"
	StatusUnknown         Status = "UNKNOWN"
	StatusNotSentInIpolis Status = "NO_SENT_IN_IPOLIS"
	StatusErrorBeforeSent Status = "ERROR_BEFORE_SENT"
	StatusErrorAfterSent  Status = "ERROR_AFTER_SENT"
	StatusError           Status = "ERROR"
	StatusErrorInIpolis   Status = "ERROR_IN_IPOLIS"
	StatusProcess         Status = "PROCESS"
	StatusRetry           Status = "RETRY"
	StatusFinished        Status = "FINISHED"
)

// Failed reports whether the contract ended in one of the error states.
func (s Status) Failed() bool {
	switch s {
	case StatusError, StatusErrorBeforeSent, StatusErrorAfterSent, StatusErrorInIpolis, StatusNotSentInIpolis:
		return true
	}
	return false
}

// Loan classifications used when generating contracts.
var (
	ServiceTypes = []string{"GIG_LOAN", "INGO_LOAN", "NEW_CONTRACTS"}
	CreditTypes  = []string{"MICRO_LOAN", "AUTO_LOAN", "INSTALLMENT_LOAN"}
)

// Contract is a document ("documentation") generated from a template.
type Contract struct {
	ID          store.ID          `json:"id,omitempty"`
	Name        string            `json:"name"`
	SampleID    store.ID          `json:"sampleId,omitempty"`
	SampleName  string            `json:"sampleName,omitempty"`
	Status      Status            `json:"status,omitempty"`
	ServiceType string            `json:"serviceType,omitempty"`
	CreditType  string            `json:"creditType,omitempty"`
	CreatedAt   string            `json:"createdAt,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

func (c Contract) Key() string {
	return string(c.ID)
}

// Form is the free-form body of create, edit and generate calls.
type Form map[string]any
