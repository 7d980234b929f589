package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ipo-insight/backend/internal/models"
)

// DefaultRetention is how long an uploaded prospectus stays servable.
// Older files are refused but not deleted.
const DefaultRetention = 24 * time.Hour

// pdfMagic is the canonical PDF signature; stored files must start with it.
var pdfMagic = []byte("%PDF")

// idPattern matches the 8-4-4-4-12 textual form of a UUID, case-insensitive.
var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// Classified failures of the retrieval chain. Handlers map these to HTTP statuses.
var (
	ErrInvalidID   = errors.New("invalid prospectus id")
	ErrOutsideRoot = errors.New("path escapes storage root")
	ErrNotFound    = errors.New("prospectus not found")
	ErrExpired     = errors.New("prospectus expired")
	ErrNotPDF      = errors.New("not a PDF document")
)

// Store defines the interface for prospectus document storage.
type Store interface {
	Save(r io.Reader) (*models.ProspectusInfo, error)
	Open(fileID string) (*models.ProspectusFile, error)
	List(limit int) ([]*models.ProspectusInfo, error)
}

// LocalStore implements Store on the local filesystem. Documents are named
// prospectus-<uuid>.pdf under the root directory; there is no separate
// index, the filesystem is the data model.
type LocalStore struct {
	root      string
	retention time.Duration
}

// NewLocalStore creates a LocalStore rooted at dir, creating it if needed.
// The root is canonicalized once so later containment checks compare
// resolved paths.
func NewLocalStore(dir string, retention time.Duration) (*LocalStore, error) {
	if retention <= 0 {
		retention = DefaultRetention
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}

	root, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving storage root: %w", err)
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving storage root: %w", err)
	}

	return &LocalStore{
		root:      root,
		retention: retention,
	}, nil
}

// Root returns the canonicalized storage root directory.
func (s *LocalStore) Root() string {
	return s.root
}

// Save writes a new prospectus document and returns its metadata. Content
// that does not begin with the PDF signature is rejected before anything
// touches disk.
func (s *LocalStore) Save(r io.Reader) (*models.ProspectusInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, ErrNotPDF
	}

	id := uuid.New().String()
	path := filepath.Join(s.root, fileName(id))

	if err := os.WriteFile(path, data, 0644); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing prospectus: %w", err)
	}

	return &models.ProspectusInfo{
		ID:         id,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
	}, nil
}

// Open runs the full retrieval chain for fileID and returns the document.
// Validation order is fixed: id format, path containment, existence,
// freshness, content signature. Each failure is a distinct sentinel error.
func (s *LocalStore) Open(fileID string) (*models.ProspectusFile, error) {
	path, err := s.resolve(fileID)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat prospectus: %w", err)
	}

	if time.Since(fi.ModTime()) > s.retention {
		return nil, ErrExpired
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prospectus: %w", err)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, ErrNotPDF
	}

	return &models.ProspectusFile{
		Info: models.ProspectusInfo{
			ID:         strings.ToLower(fileID),
			Size:       fi.Size(),
			UploadedAt: fi.ModTime(),
		},
		Data: data,
	}, nil
}

// List returns metadata for fresh prospectuses, newest first.
func (s *LocalStore) List(limit int) ([]*models.ProspectusInfo, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("listing storage root: %w", err)
	}

	var list []*models.ProspectusInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, ok := idFromFileName(entry.Name())
		if !ok {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(fi.ModTime()) > s.retention {
			continue
		}
		list = append(list, &models.ProspectusInfo{
			ID:         id,
			Size:       fi.Size(),
			UploadedAt: fi.ModTime(),
		})
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].UploadedAt.After(list[j].UploadedAt)
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	return list, nil
}

// resolve validates the id format and confines the resulting path to the
// storage root. The pattern already excludes separators, but the containment
// check stays as a second line against traversal.
func (s *LocalStore) resolve(fileID string) (string, error) {
	if !idPattern.MatchString(fileID) {
		return "", ErrInvalidID
	}

	path, err := filepath.Abs(filepath.Join(s.root, fileName(fileID)))
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	if !underRoot(s.root, path) {
		return "", ErrOutsideRoot
	}

	return path, nil
}

// underRoot reports whether path lies inside root after canonicalization.
func underRoot(root, path string) bool {
	root = filepath.Clean(root)
	path = filepath.Clean(path)
	if path == root {
		return false
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}

func fileName(id string) string {
	return "prospectus-" + strings.ToLower(id) + ".pdf"
}

// idFromFileName extracts the document id from a stored file name, if the
// name follows the prospectus-<uuid>.pdf convention.
func idFromFileName(name string) (string, bool) {
	if !strings.HasPrefix(name, "prospectus-") || !strings.HasSuffix(name, ".pdf") {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(name, "prospectus-"), ".pdf")
	if !idPattern.MatchString(id) {
		return "", false
	}
	return id, true
}
