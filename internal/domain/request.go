package domain

// ChatRequest is the body of the chat endpoints.
type ChatRequest struct {
	Message        string `json:"message" validate:"required"`
	ConversationID string `json:"conversation_id" validate:"required"`
}

// ChatResponse is returned by the non-streaming chat endpoint.
type ChatResponse struct {
	Message        string   `json:"message"`
	Citations      []string `json:"citations"`
	ConversationID string   `json:"conversation_id"`
}

// FeedbackRequest is the body of the feedback endpoint.
type FeedbackRequest struct {
	Message string `json:"message" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Rating  int    `json:"rating"`
}

// FeedbackResponse is returned by the feedback endpoint.
type FeedbackResponse struct {
	Message string `json:"message"`
	Rating  int    `json:"rating"`
}

// ConversationResponse lists the stored messages of a conversation.
type ConversationResponse struct {
	ConversationID string    `json:"conversation_id"`
	Messages       []Message `json:"messages"`
}
