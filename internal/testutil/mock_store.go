// mock_store.go - Mock prospectus store for testing
package testutil

import (
	"bytes"
	"io"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ipo-insight/backend/internal/models"
	"github.com/ipo-insight/backend/internal/storage"
)

var mockIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type mockDoc struct {
	data  []byte
	mtime time.Time
}

// MockStore implements storage.Store in memory, mirroring the retrieval
// chain's error classification so handler tests exercise status mapping.
type MockStore struct {
	mu   sync.RWMutex
	docs map[string]*mockDoc

	// Forced error overrides; when set, the corresponding method returns
	// the error unconditionally.
	OpenErr error
	SaveErr error
	ListErr error
}

// NewMockStore creates an empty mock store
func NewMockStore() *MockStore {
	return &MockStore{
		docs: make(map[string]*mockDoc),
	}
}

func (m *MockStore) Save(r io.Reader) (*models.ProspectusInfo, error) {
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, storage.ErrNotPDF
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.docs[id] = &mockDoc{data: data, mtime: time.Now()}

	return &models.ProspectusInfo{
		ID:         id,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
	}, nil
}

func (m *MockStore) Open(fileID string) (*models.ProspectusFile, error) {
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	if !mockIDPattern.MatchString(fileID) {
		return nil, storage.ErrInvalidID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[strings.ToLower(fileID)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if time.Since(doc.mtime) > storage.DefaultRetention {
		return nil, storage.ErrExpired
	}
	if !bytes.HasPrefix(doc.data, []byte("%PDF")) {
		return nil, storage.ErrNotPDF
	}

	return &models.ProspectusFile{
		Info: models.ProspectusInfo{
			ID:         strings.ToLower(fileID),
			Size:       int64(len(doc.data)),
			UploadedAt: doc.mtime,
		},
		Data: doc.data,
	}, nil
}

func (m *MockStore) List(limit int) ([]*models.ProspectusInfo, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []*models.ProspectusInfo
	for id, doc := range m.docs {
		if time.Since(doc.mtime) > storage.DefaultRetention {
			continue
		}
		list = append(list, &models.ProspectusInfo{
			ID:         id,
			Size:       int64(len(doc.data)),
			UploadedAt: doc.mtime,
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

// Ensure MockStore implements storage.Store
var _ storage.Store = (*MockStore)(nil)

// Test Helper Methods

// AddDocument places a document directly into the mock with the given mtime.
func (m *MockStore) AddDocument(id string, data []byte, mtime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mtime.IsZero() {
		mtime = time.Now()
	}
	m.docs[strings.ToLower(id)] = &mockDoc{data: data, mtime: mtime}
}

// DocumentCount returns the number of stored documents.
func (m *MockStore) DocumentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}
