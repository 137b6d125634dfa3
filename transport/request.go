package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// ResponseType selects how the body of a response is treated.
type ResponseType string

const (
	ResponseJSON   ResponseType = "json"
	ResponseBinary ResponseType = "binary"
)

// Request describes one backend call.
type Request struct {
	Path         string
	Method       string
	Params       url.Values
	Data         any
	Headers      http.Header
	ResponseType ResponseType
	Open         bool   // no Authorization header and no refresh on 401
	ResourceID   string // appended to Path as a trailing segment
}

// Multipart is a multipart/form-data body.
type Multipart struct {
	Fields map[string]string
	Files  []File
}

// File is one file part of a Multipart body.
type File struct {
	Field   string
	Name    string
	Content []byte
}

// Response is a completed 2xx response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode JSON-decodes the body into v.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Params builds query params from key/value pairs, skipping empty values.
func Params(kv map[string]string) url.Values {
	params := url.Values{}
	for k, v := range kv {
		if v != "" {
			params.Set(k, v)
		}
	}
	return params
}

func (c *Client) buildURL(req Request) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	if c.version != "" {
		b.WriteString("/")
		b.WriteString(c.version)
	}
	b.WriteString("/")
	b.WriteString(strings.Trim(req.Path, "/"))
	if req.ResourceID != "" {
		b.WriteString("/")
		b.WriteString(url.PathEscape(req.ResourceID))
	}

	query := url.Values{}
	for k, vs := range req.Params {
		for _, v := range vs {
			if v != "" {
				query.Add(k, v)
			}
		}
	}
	if len(query) > 0 {
		b.WriteString("?")
		b.WriteString(query.Encode())
	}
	return b.String()
}

// encodeBody renders Data once so that a replayed request sends the same bytes.
func encodeBody(data any) ([]byte, string, error) {
	switch v := data.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return v, "application/octet-stream", nil
	case io.Reader:
		b, err := io.ReadAll(v)
		if err != nil {
			return nil, "", fmt.Errorf("read request body: %w", err)
		}
		return b, "application/octet-stream", nil
	case Multipart:
		return encodeMultipart(&v)
	case *Multipart:
		return encodeMultipart(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return b, "application/json", nil
	}
}

func encodeMultipart(m *Multipart) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range m.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}
	for _, f := range m.Files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("write file part %s: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
