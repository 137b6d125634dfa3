package downloads

import (
	"github.com/jrsteele09/docflow-admin/contracts"
	"github.com/jrsteele09/docflow-admin/store"
)

// ZipMimeType is the type of every packaged download.
const ZipMimeType = "application/zip"

// Job is an asynchronous packaging of contracts ("download-info").
type Job struct {
	ID               store.ID   `json:"id,omitempty"`
	FileType         string     `json:"fileType,omitempty"`
	Status           string     `json:"status,omitempty"`
	Date             string     `json:"date,omitempty"`
	DocumentationIDs []store.ID `json:"documentationIds,omitempty"`
}

func (j Job) Key() string {
	return string(j.ID)
}

// Request asks the backend to package contracts.
type Request struct {
	DocumentationIDs []string `json:"documentationIds"`
	FileType         string   `json:"fileType,omitempty"`
}

// Document is a contract included in a job.
type Document = contracts.Contract
