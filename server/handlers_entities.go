package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jrsteele09/docflow-admin/contracts"
	"github.com/jrsteele09/docflow-admin/organizations"
	"github.com/jrsteele09/docflow-admin/store"
	"github.com/jrsteele09/docflow-admin/templates"
)

const maxUpload = 32 << 20

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

func validateOrganization(o *organizations.Organization) error {
	o.Name = strings.TrimSpace(o.Name)
	o.IdentifierNumber = strings.TrimSpace(o.IdentifierNumber)
	if o.Name == "" {
		return errors.New("organization name is required")
	}
	return nil
}

func prepareContract(c *contracts.Contract) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("contract name is required")
	}
	c.Status = contracts.StatusCreated
	c.CreatedAt = NowTimeFunc().UTC().Format(time.RFC3339)
	return nil
}

// blobs holds uploaded template files.
type blobs struct {
	files map[string][]byte
	lock  sync.RWMutex
}

func newBlobs() *blobs {
	return &blobs{files: make(map[string][]byte)}
}

func (b *blobs) put(id string, data []byte) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.files[id] = data
}

func (b *blobs) get(id string) ([]byte, bool) {
	b.lock.RLock()
	defer b.lock.RUnlock()
	data, ok := b.files[id]
	return data, ok
}

func (b *blobs) drop(id string) {
	b.lock.Lock()
	defer b.lock.Unlock()
	delete(b.files, id)
}

// uploadedFile reads the optional "file" part of a multipart form.
func uploadedFile(r *http.Request) (name string, data []byte, err error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	defer file.Close()
	data, err = io.ReadAll(file)
	return header.Filename, data, err
}

// UploadTemplateHandler creates a template from a name and a file.
func (s *Server) UploadTemplateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		name := strings.TrimSpace(r.FormValue("name"))
		fileName, data, err := uploadedFile(r)
		if err != nil || name == "" || len(data) == 0 {
			writeError(w, http.StatusBadRequest, "template name and file are required")
			return
		}
		t := s.samples.Upsert(templates.Template{Name: name, FileName: fileName})
		s.files.put(string(t.ID), data)
		writeJSON(w, http.StatusOK, t)
	}
}

// UpdateTemplateFileHandler renames a template and optionally replaces its
// file. It answers with the changed fields only.
func (s *Server) UpdateTemplateFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		id := r.PathValue("id")
		fileName, data, err := uploadedFile(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		changes := map[string]any{}
		_, err = s.samples.Update(id, func(t *templates.Template) error {
			if name := strings.TrimSpace(r.FormValue("name")); name != "" {
				t.Name = name
				changes["name"] = name
			}
			if len(data) > 0 {
				t.FileName = fileName
				changes["fileName"] = fileName
			}
			return nil
		})
		if err != nil {
			writeLookupError(w, err)
			return
		}
		if len(data) > 0 {
			s.files.put(id, data)
		}
		writeJSON(w, http.StatusOK, changes)
	}
}

func (s *Server) UpdateTemplateFieldsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields []templates.Field
		if err := decodeJSON(r, &fields); err != nil || len(fields) == 0 {
			writeError(w, http.StatusBadRequest, "fields must not be empty")
			return
		}
		for i := range fields {
			if fields[i].ID == "" {
				fields[i].ID = store.ID(fmt.Sprint(i + 1))
			}
		}
		t, err := s.samples.Update(r.PathValue("id"), func(t *templates.Template) error {
			t.SampleFields = fields
			return nil
		})
		if err != nil {
			writeLookupError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

// ShowTemplateHandler streams the template file.
func (s *Server) ShowTemplateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		t, err := s.samples.Get(id)
		if err != nil {
			writeLookupError(w, err)
			return
		}
		data, _ := s.files.get(id)
		writeFile(w, t.FileName, templates.DocxMimeType, data)
	}
}

// GenerateHandler fills contracts from the shared form and marks them finished.
func (s *Server) GenerateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ContractIDs []string `json:"contractIds"`
			ServiceType string   `json:"serviceType"`
			CreditType  string   `json:"creditType"`
		}
		if err := decodeJSON(r, &body); err != nil || len(body.ContractIDs) == 0 {
			writeError(w, http.StatusBadRequest, "contract ids are required")
			return
		}
		generated := 0
		for _, id := range body.ContractIDs {
			_, err := s.docs.Update(id, func(c *contracts.Contract) error {
				if body.ServiceType != "" {
					c.ServiceType = body.ServiceType
				}
				if body.CreditType != "" {
					c.CreditType = body.CreditType
				}
				c.Status = contracts.StatusFinished
				return nil
			})
			if err == nil {
				generated++
			}
		}
		writeJSON(w, http.StatusOK, map[string]int{"generated": generated})
	}
}

// ContractFileHandler renders a contract in the requested format.
func (s *Server) ContractFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.docs.Get(r.PathValue("id"))
		if err != nil {
			writeLookupError(w, err)
			return
		}
		format := r.URL.Query().Get("format")
		if format == "" {
			format = "docx"
		}
		mimeType := templates.DocxMimeType
		if format == "pdf" {
			mimeType = "application/pdf"
		}
		writeFile(w, c.Name+"."+format, mimeType, renderContract(c))
	}
}

func renderContract(c contracts.Contract) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nstatus: %s\n", c.Name, c.Status)
	for k, v := range c.Fields {
		fmt.Fprintf(&b, "%s: %s\n", k, v)
	}
	return []byte(b.String())
}

// writeFile sends data as an attachment named name. Non-ASCII names use the
// RFC 5987 form.
func writeFile(w http.ResponseWriter, name, mimeType string, data []byte) {
	switch {
	case name == "":
	case isASCII(name):
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	default:
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(name))
	}
	w.Header().Set("Content-Type", mimeType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
