package server

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/docflow-admin/contracts"
	"github.com/jrsteele09/docflow-admin/downloads"
	"github.com/jrsteele09/docflow-admin/store"
)

// Job statuses reported by the mock backend. Packaging is instant.
const (
	JobFinished = "FINISHED"
	JobError    = "ERROR"
)

// CreateDownloadHandler packages contracts into a new job.
func (s *Server) CreateDownloadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req downloads.Request
		if err := decodeJSON(r, &req); err != nil || len(req.DocumentationIDs) == 0 {
			writeError(w, http.StatusBadRequest, "document ids are required")
			return
		}
		job := downloads.Job{
			FileType: strings.ToUpper(req.FileType),
			Status:   JobFinished,
			Date:     NowTimeFunc().UTC().Format(time.RFC3339),
		}
		if job.FileType == "" {
			job.FileType = "PDF"
		}
		for _, id := range req.DocumentationIDs {
			if _, err := s.docs.Get(id); err != nil {
				job.Status = JobError
			}
			job.DocumentationIDs = append(job.DocumentationIDs, store.ID(id))
		}
		writeJSON(w, http.StatusOK, s.jobs.Upsert(job))
	}
}

func (s *Server) jobDocuments(job downloads.Job) []contracts.Contract {
	docs := make([]contracts.Contract, 0, len(job.DocumentationIDs))
	for _, id := range job.DocumentationIDs {
		if c, err := s.docs.Get(string(id)); err == nil {
			docs = append(docs, c)
		}
	}
	return docs
}

// DownloadArchiveHandler streams a zip with one rendered file per contract.
func (s *Server) DownloadArchiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		job, err := s.jobs.Get(id)
		if err != nil {
			writeLookupError(w, err)
			return
		}
		docs := s.jobDocuments(job)
		if len(docs) == 0 {
			writeError(w, http.StatusNotFound, "no documents in download")
			return
		}

		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		ext := strings.ToLower(job.FileType)
		for _, c := range docs {
			f, err := zw.Create(fmt.Sprintf("%s_%s.%s", c.ID, c.Name, ext))
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if _, err := f.Write(renderContract(c)); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
		if err := zw.Close(); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeFile(w, fmt.Sprintf("documents_%s.zip", id), downloads.ZipMimeType, buf.Bytes())
	}
}

func (s *Server) DownloadDocumentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := s.jobs.Get(r.PathValue("id"))
		if err != nil {
			writeLookupError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.jobDocuments(job))
	}
}
