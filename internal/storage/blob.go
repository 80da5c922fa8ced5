package storage

import "io"

// BlobStore keeps saved grade files and best-options reports under
// slash-separated keys such as "<owner>/<book>.csv".
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns the stored key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error                     // missing keys are not an error
	SignedURL(key string) (string, error)        // fs returns "file://..." for dev
}
