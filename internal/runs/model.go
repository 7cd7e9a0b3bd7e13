package runs

import "time"

// Run statuses. A run is created pending and transitions exactly once to a
// terminal state; terminal states are final.
const (
	StatusPending  = "pending"
	StatusComplete = "complete"
	StatusError    = "error"
)

// Run is one durable record of a single attempt to analyse a document with a
// prompt. Output is set iff status is complete; ErrorMessage iff status is
// error; DurationMs iff status is complete.
type Run struct {
	ID               string    `json:"id"`
	PromptID         string    `json:"prompt_id"`
	DocumentFilename string    `json:"document_filename"`
	Model            string    `json:"model"`
	Status           string    `json:"status"`
	Output           *string   `json:"output"`
	ErrorMessage     *string   `json:"error_message"`
	DurationMs       *int64    `json:"duration_ms"`
	CreatedAt        time.Time `json:"created_at"`

	// PromptText is joined from the prompt record on reads; never stored.
	PromptText string `json:"prompt_text,omitempty"`
}
