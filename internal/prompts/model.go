package prompts

import "time"

// Prompt is a reusable system instruction template sent to the analysis provider.
type Prompt struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
