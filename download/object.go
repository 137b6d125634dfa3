package download

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/jrsteele09/docflow-admin/transport"
)

const DefaultMimeType = "application/octet-stream"

var (
	ErrEmptyFile   = errors.New("empty file received")
	ErrReleased    = errors.New("download already released")
	ErrInvalidName = errors.New("invalid file name")
)

// Object is a downloaded file held in memory until it is saved.
type Object struct {
	Name     string
	MimeType string
	Data     []byte
}

// FromResponse builds the object for a binary response.
func FromResponse(resp *transport.Response, format, fallbackMime string, now time.Time) (*Object, error) {
	if resp == nil || len(resp.Body) == 0 {
		return nil, ErrEmptyFile
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = fallbackMime
	}
	if mime == "" {
		mime = DefaultMimeType
	}
	return &Object{
		Name:     Filename(resp.Header.Get("Content-Disposition"), format, now),
		MimeType: mime,
		Data:     resp.Body,
	}, nil
}

// Release drops the buffered content.
func (o *Object) Release() {
	o.Data = nil
}

// Released reports whether the content has been dropped.
func (o *Object) Released() bool {
	return o.Data == nil
}

// Saver writes downloaded objects into a directory.
type Saver struct {
	fs  afero.Fs
	dir string
}

func NewSaver(fs afero.Fs, dir string) *Saver {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir == "" {
		dir = "."
	}
	return &Saver{fs: fs, dir: dir}
}

// Save writes obj to the target directory through a temp file and returns
// the final path. The object is released whether or not the write succeeds.
func (s *Saver) Save(obj *Object) (string, error) {
	defer obj.Release()
	if obj.Released() {
		return "", ErrReleased
	}
	name := filepath.Base(filepath.Clean("/" + obj.Name))
	if name == "/" || name == "." {
		return "", ErrInvalidName
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir %s: %w", s.dir, err)
	}
	tmp, err := afero.TempFile(s.fs, s.dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = s.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(obj.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	target := filepath.Join(s.dir, name)
	if err := s.fs.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	committed = true
	return target, nil
}
