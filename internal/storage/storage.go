package storage

import "io"

// BlobStore persists raw file content. Paths are absolute and generated by
// the caller; derivatives live next to the original under a size suffix.
type BlobStore interface {
	Write(path string, data []byte) error
	ReadStream(path string) (io.ReadCloser, error)
	Exists(path string) bool
	// Root returns the directory new blobs should be placed under.
	Root() string
}
