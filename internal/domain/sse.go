package domain

// SSEEvent is one event of the chat stream. Events are append-only and are
// never corrected once sent.
type SSEEvent struct {
	Type      EventType  `json:"type"`
	Node      *string    `json:"node,omitempty"`
	Data      any        `json:"data,omitempty"`
	Citations []Citation `json:"citations,omitempty"`
}

// ToolCallEventData is the data of a tool_call event.
type ToolCallEventData struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
	ID   string         `json:"id"`
}

// Citation is a numbered web source referenced by the answer.
type Citation struct {
	ID             string `json:"id"`
	URL            string `json:"url"`
	Title          string `json:"title"`
	CitedText      string `json:"cited_text"`
	EndIndex       int    `json:"end_index"`
	CitationNumber int    `json:"citation_number"`
}

func NewToolCallEvent(node string, call ToolCall) SSEEvent {
	args := call.Args
	if args == nil {
		args = map[string]any{}
	}
	return SSEEvent{
		Type: EventTypeToolCall,
		Node: &node,
		Data: ToolCallEventData{Name: call.Name, Args: args, ID: call.ID},
	}
}

func NewReasoningEvent(node, text string) SSEEvent {
	return SSEEvent{Type: EventTypeReasoning, Node: &node, Data: text}
}

// NewTextEvent builds a text event; citations are attached only when present.
func NewTextEvent(node, text string, citations []Citation) SSEEvent {
	evt := SSEEvent{Type: EventTypeText, Node: &node, Data: text}
	if len(citations) > 0 {
		evt.Citations = citations
	}
	return evt
}

func NewCitationsEvent(citations []Citation) SSEEvent {
	return SSEEvent{Type: EventTypeCitations, Data: citations}
}

func NewImagesEvent(urls []string) SSEEvent {
	return SSEEvent{Type: EventTypeImages, Data: urls}
}

func NewDoneEvent() SSEEvent {
	return SSEEvent{Type: EventTypeDone}
}
