// Package domain defines the core domain models for the assistant backend.
package domain

// Role is the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// EventType discriminates the SSE events sent to chat clients.
type EventType string

const (
	EventTypeToolCall  EventType = "tool_call"
	EventTypeReasoning EventType = "reasoning"
	EventTypeText      EventType = "text"
	EventTypeCitations EventType = "citations"
	EventTypeImages    EventType = "images"
	EventTypeDone      EventType = "done"
)

// TokenKind discriminates the variants of a StreamToken.
type TokenKind string

const (
	TokenKindToolCalls     TokenKind = "tool_calls"
	TokenKindContentBlocks TokenKind = "content_blocks"
	TokenKindContent       TokenKind = "content"
	TokenKindEmpty         TokenKind = "empty"
)

// BlockType is the type of a content block inside a token.
type BlockType string

const (
	BlockTypeText      BlockType = "text"
	BlockTypeReasoning BlockType = "reasoning"
)

// AnnotationTypeCitation marks an annotation that references a web source.
const AnnotationTypeCitation = "citation"
