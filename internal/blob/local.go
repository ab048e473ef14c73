package blob

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"tasker_backend/internal/logger"
)

// LocalStore keeps blobs on the local filesystem under a single directory.
// Locators are "<publicPrefix>/<stored name>" so they can be served back
// directly by the file download endpoint.
type LocalStore struct {
	dir          string
	publicPrefix string
}

// NewLocalStore creates the storage directory if needed.
func NewLocalStore(dir, publicPrefix string) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalStore{dir: abs, publicPrefix: strings.TrimSuffix(publicPrefix, "/")}, nil
}

func (s *LocalStore) Save(ctx context.Context, up Upload) (string, error) {
	name, err := SanitizeFileName(up.FileName)
	if err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, name)
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create blob file: %w", err)
	}
	if _, err := io.Copy(f, up.Content); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("write blob file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	logger.Info("blob stored", "name", name)
	return s.publicPrefix + "/" + name, nil
}

func (s *LocalStore) Metadata(ctx context.Context, locator string) (*Metadata, error) {
	name, err := s.fileFor(locator)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
		return nil, fmt.Errorf("stat blob %s: %w", name, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &Metadata{
		URL:      s.publicPrefix + "/" + name,
		FileName: name,
		FileType: contentType,
	}, nil
}

func (s *LocalStore) Delete(ctx context.Context, locator string) error {
	name, err := s.fileFor(locator)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Open returns a reader for download serving.
func (s *LocalStore) Open(locator string) (io.ReadSeekCloser, *Metadata, error) {
	meta, err := s.Metadata(context.Background(), locator)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, meta.FileName))
	if err != nil {
		return nil, nil, err
	}
	return f, meta, nil
}

// fileFor maps a locator back to a bare file name inside the storage
// directory, rejecting anything that would resolve outside it.
func (s *LocalStore) fileFor(locator string) (string, error) {
	name := strings.TrimPrefix(locator, s.publicPrefix+"/")
	name = filepath.Base(name)
	if name == "" || name == "." || name == ".." || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid blob locator: %q", locator)
	}
	return name, nil
}

var _ Store = (*LocalStore)(nil)
