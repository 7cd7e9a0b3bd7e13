package docstore

import "errors"

var (
	ErrNotFound            = errors.New("document not found")
	ErrInvalidName         = errors.New("invalid document name")
	ErrDisallowedExtension = errors.New("disallowed file extension")
)
