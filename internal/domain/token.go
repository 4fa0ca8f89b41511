package domain

// StreamToken is one normalized unit of agent output. Exactly one of the
// payload fields is meaningful, selected by Kind.
type StreamToken struct {
	Kind      TokenKind
	Node      string
	ToolCalls []ToolCall
	Blocks    []ContentBlock
	Content   string
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// ContentBlock is a typed piece of token content.
type ContentBlock struct {
	Type        BlockType
	Text        string
	Annotations []Annotation
}

// Annotation is metadata attached to a text block.
type Annotation struct {
	Type      string
	ID        string
	URL       string
	Title     string
	CitedText string
	EndIndex  int
}

// ToolCallsToken builds a token carrying tool call requests.
func ToolCallsToken(node string, calls ...ToolCall) StreamToken {
	if len(calls) == 0 {
		return StreamToken{Kind: TokenKindEmpty, Node: node}
	}
	return StreamToken{Kind: TokenKindToolCalls, Node: node, ToolCalls: calls}
}

// BlocksToken builds a token carrying typed content blocks.
func BlocksToken(node string, blocks ...ContentBlock) StreamToken {
	if len(blocks) == 0 {
		return StreamToken{Kind: TokenKindEmpty, Node: node}
	}
	return StreamToken{Kind: TokenKindContentBlocks, Node: node, Blocks: blocks}
}

// ContentToken builds a token carrying plain string content.
func ContentToken(node, content string) StreamToken {
	if content == "" {
		return StreamToken{Kind: TokenKindEmpty, Node: node}
	}
	return StreamToken{Kind: TokenKindContent, Node: node, Content: content}
}
