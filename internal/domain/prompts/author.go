package prompts

// Author is the display record the identity service returns for a user id.
type Author struct {
	ID    int64  `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}
