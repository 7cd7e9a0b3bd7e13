package llm

import "context"

// Client abstracts LLM providers for claim-map extraction.
type Client interface {
	Complete(ctx context.Context, input CompleteInput) (string, error)
}

// CompleteInput captures one provider invocation: a system instruction plus a
// single user turn carrying the document content. When MediaType is set, Data
// holds the raw bytes of a binary document; otherwise Text holds the decoded
// document text.
type CompleteInput struct {
	System    string
	FileName  string
	MediaType string
	Data      []byte
	Text      string
}
