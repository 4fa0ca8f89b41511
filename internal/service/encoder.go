package service

import (
	"log/slog"
	"strings"

	"github.com/xiaot623/postcard/internal/domain"
)

// streamEncoder turns agent tokens into stream events while accumulating the
// assistant answer and every citation handed out.
type streamEncoder struct {
	response  strings.Builder
	citations []domain.Citation
}

func newStreamEncoder() *streamEncoder {
	return &streamEncoder{}
}

// Encode returns the events for one token, in emission order.
func (e *streamEncoder) Encode(token domain.StreamToken) []domain.SSEEvent {
	switch token.Kind {
	case domain.TokenKindToolCalls:
		events := make([]domain.SSEEvent, 0, len(token.ToolCalls))
		for _, call := range token.ToolCalls {
			events = append(events, domain.NewToolCallEvent(token.Node, call))
		}
		return events

	case domain.TokenKindContentBlocks:
		var events []domain.SSEEvent
		for _, block := range token.Blocks {
			switch block.Type {
			case domain.BlockTypeReasoning:
				if block.Text != "" {
					events = append(events, domain.NewReasoningEvent(token.Node, block.Text))
				}
			case domain.BlockTypeText:
				events = append(events, e.encodeText(token.Node, block))
			}
		}
		return events

	case domain.TokenKindContent:
		if token.Content == "" {
			return nil
		}
		e.response.WriteString(token.Content)
		return []domain.SSEEvent{domain.NewTextEvent(token.Node, token.Content, nil)}
	}
	return nil
}

func (e *streamEncoder) encodeText(node string, block domain.ContentBlock) domain.SSEEvent {
	e.response.WriteString(block.Text)
	if block.Text == "" {
		return domain.NewTextEvent(node, block.Text, nil)
	}

	citations := numberCitations(block.Annotations)
	if len(citations) > 0 {
		formatted := formatCitations(e.response.String(), citations)
		slog.Debug("formatted answer with citations", "citations", len(citations), "text", formatted)
		e.citations = append(e.citations, citations...)
	}
	return domain.NewTextEvent(node, block.Text, citations)
}

// Response returns the accumulated assistant answer.
func (e *streamEncoder) Response() string {
	return e.response.String()
}

// Citations returns every citation attached to a text event so far.
func (e *streamEncoder) Citations() []domain.Citation {
	return e.citations
}
