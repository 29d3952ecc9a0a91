package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DiskStore keeps uploaded transaction slips on the local filesystem. Stored
// names are opaque references; the ledger only records the name.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes the file under a random name, keeping the original extension.
// The returned name is what callers persist.
func (store *DiskStore) Save(src io.Reader, originalName string) (string, error) {
	storedName := uuid.New().String() + filepath.Ext(originalName)

	dst, err := os.Create(filepath.Join(store.dir, storedName))
	if err != nil {
		return "", fmt.Errorf("failed to create slip file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write slip file: %w", err)
	}

	return storedName, nil
}

// Open returns the stored slip for download.
func (store *DiskStore) Open(storedName string) (io.ReadCloser, error) {
	cleaned := filepath.Base(storedName)
	file, err := os.Open(filepath.Join(store.dir, cleaned))
	if err != nil {
		return nil, fmt.Errorf("failed to open slip file: %w", err)
	}
	return file, nil
}
