package templates

import "github.com/jrsteele09/docflow-admin/store"

// DocxMimeType is assumed when the backend does not say what a template file is.
const DocxMimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Template is a document template ("sample") with the fields a contract
// generated from it has to fill in.
type Template struct {
	ID           store.ID `json:"id,omitempty"`
	Name         string   `json:"name"`
	FileName     string   `json:"fileName,omitempty"`
	SampleFields []Field  `json:"sampleFields,omitempty"`
}

// Key returns the template id.
func (t Template) Key() string {
	return string(t.ID)
}

// Field is a placeholder inside a template.
type Field struct {
	ID       store.ID `json:"id,omitempty"`
	Key      string   `json:"key"`
	Name     string   `json:"name,omitempty"`
	Type     string   `json:"type,omitempty"`
	Required bool     `json:"required,omitempty"`
}

// Upload is a template file with its display name.
type Upload struct {
	Name     string
	FileName string
	Content  []byte
}
