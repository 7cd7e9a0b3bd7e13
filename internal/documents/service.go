package documents

import (
	"context"
	"io"

	"signaldrift-backend/internal/docstore"
)

// Service contains business logic for documents. Upload, listing, and deletion
// all go straight to the document store; there is no relational record.
type Service struct {
	Store *docstore.Store
}

// Upload validates and persists an uploaded file.
func (s *Service) Upload(ctx context.Context, fileName string, r io.Reader) (docstore.StoredFile, error) {
	return s.Store.Save(ctx, fileName, r)
}

// List returns stored documents, newest first.
func (s *Service) List(ctx context.Context) ([]docstore.StoredFile, error) {
	return s.Store.List(ctx)
}

// Delete removes a stored document by name.
func (s *Service) Delete(ctx context.Context, name string) error {
	return s.Store.Delete(ctx, name)
}
