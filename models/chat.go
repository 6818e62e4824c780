package models

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Message        string `json:"message" binding:"required,min=1,max=2000"`
	UserID         string `json:"user_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse carries the generated reply plus the prompt variant that
// produced it, so A/B test traffic can be attributed downstream.
type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
	PromptLabel    string `json:"prompt_label,omitempty"`
	PromptVersion  int    `json:"prompt_version,omitempty"`
	Mode           string `json:"mode,omitempty"` // "grounded", "general" or "degraded"
	TokensUsed     int    `json:"tokens_used,omitempty"`
}

// QueryRequest is the body of POST /api/pdf/query
type QueryRequest struct {
	Query string `json:"query" binding:"required,min=1"`
	TopK  int    `json:"top_k,omitempty"`
}

// QueryResponse returns the ranked chunks for a direct document query
type QueryResponse struct {
	DocumentID string         `json:"document_id"`
	Results    []SearchResult `json:"results"`
	Context    string         `json:"context"`
}
