package docstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"signaldrift-backend/internal/shared/util"
)

// allowedExtensions is the upload allowlist. Everything else is rejected
// before any bytes reach disk.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".doc":  {},
	".txt":  {},
	".csv":  {},
	".xlsx": {},
	".xls":  {},
	".md":   {},
	".rtf":  {},
}

// binaryMediaTypes maps binary document extensions to the media type recorded
// when the raw bytes are forwarded to the analysis provider. Extensions absent
// here are decoded as text instead.
var binaryMediaTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".doc":  "application/msword",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xls":  "application/vnd.ms-excel",
	".rtf":  "application/rtf",
}

const storedNameTimeLayout = "20060102T150405.000000000Z"

// StoredFile describes one document in the store.
type StoredFile struct {
	Name         string
	OriginalName string
	Size         int64
	UploadedAt   time.Time
}

// Store persists uploaded documents in a flat local directory.
type Store struct {
	baseDir string
}

// New creates a document store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// AllowedExtension reports whether the file name carries an allowed extension.
func AllowedExtension(name string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// MediaType returns the provider media type for binary document formats.
// ok is false for formats that are sent as decoded text.
func MediaType(name string) (mediaType string, ok bool) {
	mediaType, ok = binaryMediaTypes[strings.ToLower(filepath.Ext(name))]
	return mediaType, ok
}

// Save validates the name, prefixes it with the upload timestamp to avoid
// collisions, and writes the content to disk.
func (s *Store) Save(ctx context.Context, fileName string, r io.Reader) (StoredFile, error) {
	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return StoredFile{}, fmt.Errorf("%w: %s", ErrInvalidName, fileName)
	}
	if !AllowedExtension(sanitized) {
		return StoredFile{}, fmt.Errorf("%w: %s", ErrDisallowedExtension, filepath.Ext(sanitized))
	}
	if err := ctx.Err(); err != nil {
		return StoredFile{}, err
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return StoredFile{}, fmt.Errorf("mkdir: %w", err)
	}

	now := time.Now().UTC()
	storedName := fmt.Sprintf("%s_%s", now.Format(storedNameTimeLayout), sanitized)
	fullPath := filepath.Join(s.baseDir, storedName)

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return StoredFile{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(fullPath)
		return StoredFile{}, fmt.Errorf("write body: %w", err)
	}

	return StoredFile{
		Name:         storedName,
		OriginalName: sanitized,
		Size:         size,
		UploadedAt:   now,
	}, nil
}

// Read returns the full content of a stored document.
func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	fullPath, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// Exists reports whether a document with the given stored name is present.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	fullPath, err := s.resolve(name)
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat file: %w", err)
	}
	return !info.IsDir(), nil
}

// List returns all stored documents, newest first.
func (s *Store) List(ctx context.Context) ([]StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []StoredFile{}, nil
		}
		return nil, fmt.Errorf("read dir: %w", err)
	}

	files := make([]StoredFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, StoredFile{
			Name:         entry.Name(),
			OriginalName: originalName(entry.Name()),
			Size:         info.Size(),
			UploadedAt:   info.ModTime().UTC(),
		})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].UploadedAt.After(files[j].UploadedAt)
	})
	return files, nil
}

// Delete removes a stored document by name.
func (s *Store) Delete(ctx context.Context, name string) error {
	fullPath, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// resolve joins name onto the base directory, rejecting anything that would
// escape the storage root.
func (s *Store) resolve(name string) (string, error) {
	clean := filepath.Clean(name)
	if clean == "" || clean == "." || filepath.IsAbs(clean) ||
		strings.HasPrefix(clean, "..") || strings.ContainsAny(clean, "/\\") {
		return "", ErrInvalidName
	}
	return filepath.Join(s.baseDir, clean), nil
}

// originalName strips the timestamp prefix applied by Save, falling back to
// the stored name for files that predate the convention.
func originalName(storedName string) string {
	idx := strings.Index(storedName, "_")
	if idx <= 0 || idx == len(storedName)-1 {
		return storedName
	}
	if _, err := time.Parse(storedNameTimeLayout, storedName[:idx]); err != nil {
		return storedName
	}
	return storedName[idx+1:]
}
