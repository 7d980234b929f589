package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

// minimal well-formed-enough PDF payload for signature checks
var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), DefaultRetention)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	return store
}

// writeDoc places a document directly under the store root, bypassing Save,
// the way the upload pipeline would.
func writeDoc(t *testing.T, store *LocalStore, id string, data []byte, mtime time.Time) {
	t.Helper()
	path := filepath.Join(store.Root(), fileName(id))
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing test doc: %v", err)
	}
	if !mtime.IsZero() {
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatalf("setting mtime: %v", err)
		}
	}
}

func TestLocalStore_Open_InvalidIDs(t *testing.T) {
	store := newTestStore(t)

	ids := []string{
		"",
		"not-a-uuid",
		"12345678-1234-1234-1234-12345678901",   // too short
		"12345678-1234-1234-1234-1234567890123", // too long
		"gggggggg-1234-1234-1234-123456789012",  // non-hex
		"../../../etc/passwd",
		"..%2f..%2fetc%2fpasswd",
		"12345678-1234-1234-1234-123456789012/../x",
	}

	for _, id := range ids {
		if _, err := store.Open(id); !errors.Is(err, ErrInvalidID) {
			t.Errorf("Open(%q): expected ErrInvalidID, got %v", id, err)
		}
	}
}

func TestLocalStore_Open_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Open(uuid.New().String())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalStore_Open_Expired(t *testing.T) {
	store := newTestStore(t)
	id := uuid.New().String()
	writeDoc(t, store, id, pdfBytes, time.Now().Add(-25*time.Hour))

	_, err := store.Open(id)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestLocalStore_Open_FreshButNotPDF(t *testing.T) {
	store := newTestStore(t)
	id := uuid.New().String()
	writeDoc(t, store, id, []byte("<html>not a pdf</html>"), time.Time{})

	_, err := store.Open(id)
	if !errors.Is(err, ErrNotPDF) {
		t.Errorf("expected ErrNotPDF, got %v", err)
	}
}

func TestLocalStore_Open_Success(t *testing.T) {
	store := newTestStore(t)
	id := uuid.New().String()
	writeDoc(t, store, id, pdfBytes, time.Time{})

	doc, err := store.Open(id)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(doc.Data, pdfBytes) {
		t.Error("served bytes differ from stored bytes")
	}
	if doc.Info.Size != int64(len(pdfBytes)) {
		t.Errorf("expected size %d, got %d", len(pdfBytes), doc.Info.Size)
	}
	if doc.Info.ID != strings.ToLower(id) {
		t.Errorf("expected id %s, got %s", strings.ToLower(id), doc.Info.ID)
	}
}

func TestLocalStore_Open_UppercaseID(t *testing.T) {
	store := newTestStore(t)
	id := uuid.New().String()
	writeDoc(t, store, id, pdfBytes, time.Time{})

	// The pattern is case-insensitive and file names are normalized lower.
	if _, err := store.Open(strings.ToUpper(id)); err != nil {
		t.Errorf("Open with uppercase id: %v", err)
	}
}

func TestLocalStore_Save(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name: "valid pdf",
			data: pdfBytes,
		},
		{
			name:    "not a pdf",
			data:    []byte("plain text"),
			wantErr: ErrNotPDF,
		},
		{
			name:    "empty",
			data:    nil,
			wantErr: ErrNotPDF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)

			info, err := store.Save(bytes.NewReader(tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Save: %v", err)
			}

			// The saved document must be retrievable through the full chain.
			doc, err := store.Open(info.ID)
			if err != nil {
				t.Fatalf("Open after Save: %v", err)
			}
			if !bytes.Equal(doc.Data, tt.data) {
				t.Error("round-tripped bytes differ")
			}
		})
	}
}

func TestLocalStore_List(t *testing.T) {
	store := newTestStore(t)

	fresh1 := uuid.New().String()
	fresh2 := uuid.New().String()
	stale := uuid.New().String()

	writeDoc(t, store, fresh1, pdfBytes, time.Now().Add(-2*time.Hour))
	writeDoc(t, store, fresh2, pdfBytes, time.Now().Add(-1*time.Hour))
	writeDoc(t, store, stale, pdfBytes, time.Now().Add(-30*time.Hour))

	// A stray file that does not follow the naming convention is ignored.
	if err := os.WriteFile(filepath.Join(store.Root(), "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	list, err := store.List(20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 fresh documents, got %d", len(list))
	}
	if list[0].ID != fresh2 || list[1].ID != fresh1 {
		t.Errorf("expected newest-first order [%s %s], got [%s %s]",
			fresh2, fresh1, list[0].ID, list[1].ID)
	}
}

func TestLocalStore_List_Limit(t *testing.T) {
	store := newTestStore(t)
	for i := 0; i < 5; i++ {
		writeDoc(t, store, uuid.New().String(), pdfBytes, time.Time{})
	}

	list, err := store.List(3)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("expected 3 documents, got %d", len(list))
	}
}

func TestUnderRoot(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "tmp", "prospectus-uploads")

	tests := []struct {
		name string
		path string
		want bool
	}{
		{
			name: "file inside root",
			path: filepath.Join(root, "prospectus-x.pdf"),
			want: true,
		},
		{
			name: "root itself",
			path: root,
			want: false,
		},
		{
			name: "parent of root",
			path: filepath.Dir(root),
			want: false,
		},
		{
			name: "traversal out of root",
			path: filepath.Join(root, "..", "..", "etc", "passwd"),
			want: false,
		},
		{
			name: "sibling with shared prefix",
			path: root + "-evil/prospectus-x.pdf",
			want: false,
		},
		{
			name: "nested inside root",
			path: filepath.Join(root, "sub", "file.pdf"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := underRoot(root, tt.path); got != tt.want {
				t.Errorf("underRoot(%q, %q) = %v, want %v", root, tt.path, got, tt.want)
			}
		})
	}
}

func TestIDFromFileName(t *testing.T) {
	id := "d0a93e1c-6f4b-4a2e-9c3d-5b8e7f1a2b3c"

	tests := []struct {
		name   string
		file   string
		wantOK bool
	}{
		{"conventional name", "prospectus-" + id + ".pdf", true},
		{"missing prefix", id + ".pdf", false},
		{"missing extension", "prospectus-" + id, false},
		{"garbage id", "prospectus-hello.pdf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := idFromFileName(tt.file)
			if ok != tt.wantOK {
				t.Fatalf("idFromFileName(%q) ok = %v, want %v", tt.file, ok, tt.wantOK)
			}
			if ok && got != id {
				t.Errorf("expected id %s, got %s", id, got)
			}
		})
	}
}
