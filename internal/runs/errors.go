package runs

import "errors"

var (
	ErrNotFound              = errors.New("run not found")
	ErrPromptNotFound        = errors.New("prompt not found")
	ErrDocumentNotFound      = errors.New("document not found")
	ErrProviderNotConfigured = errors.New("analysis provider not configured")
)
