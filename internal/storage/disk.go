package storage

import (
	"fmt"
	"io"
	"os"
)

// DiskStore keeps blobs as plain files under a root directory.
type DiskStore struct {
	root string
}

// NewDiskStore creates the root directory if it does not exist yet.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("could not create storage root %s: %w", root, err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Root() string {
	return s.root
}

func (s *DiskStore) Write(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing blob %s: %w", path, err)
	}
	return nil
}

func (s *DiskStore) ReadStream(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening blob %s: %w", path, err)
	}
	return f, nil
}

func (s *DiskStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
