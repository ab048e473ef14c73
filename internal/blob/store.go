// Package blob abstracts external file storage. Attachment metadata lives in
// the relational store; the bytes live behind a Store and are referenced by
// locator. Blob operations are never part of a database transaction.
package blob

import (
	"context"
	"io"
)

// Upload is one incoming file to store.
type Upload struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

// Metadata describes a stored blob.
type Metadata struct {
	URL      string
	FileName string
	FileType string
}

// Store stores, describes and deletes blobs by locator.
type Store interface {
	// Save writes the upload and returns its locator.
	Save(ctx context.Context, up Upload) (string, error)
	// Metadata resolves a locator to attachment metadata.
	Metadata(ctx context.Context, locator string) (*Metadata, error)
	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, locator string) error
}
