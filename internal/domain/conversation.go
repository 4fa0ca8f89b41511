package domain

// Message is one turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// LLMInput is the conversation shape handed to an agent.
type LLMInput struct {
	Messages []Message `json:"messages"`
}
