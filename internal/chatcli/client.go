// Package chatcli is an interactive terminal client for the chat WebSocket.
package chatcli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/xiaot623/postcard/internal/domain"
)

// frame is one server message: a stream event or an error.
type frame struct {
	Type      string            `json:"type"`
	Node      string            `json:"node,omitempty"`
	Data      json.RawMessage   `json:"data,omitempty"`
	Citations []domain.Citation `json:"citations,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// Client is a WebSocket chat client bound to one conversation.
type Client struct {
	conn           *websocket.Conn
	conversationID string
}

// Dial connects to the chat WebSocket at addr.
func Dial(ctx context.Context, addr, conversationID string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		return nil, errors.Wrap(err, "dial")
	}
	return &Client{conn: conn, conversationID: conversationID}, nil
}

// Close closes the client connection.
func (c *Client) Close() error {
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

// Ask sends one message and prints the streamed answer to out until the turn
// is done.
func (c *Client) Ask(message string, out io.Writer) error {
	req := domain.ChatRequest{Message: message, ConversationID: c.conversationID}
	if err := c.conn.WriteJSON(req); err != nil {
		return errors.Wrap(err, "write request")
	}

	for {
		var f frame
		if err := c.conn.ReadJSON(&f); err != nil {
			return errors.Wrap(err, "read event")
		}

		done, err := printEvent(out, f)
		if err != nil || done {
			return err
		}
	}
}

// printEvent writes one event to out and reports whether the turn is over.
func printEvent(out io.Writer, f frame) (bool, error) {
	decode := func(v any) error {
		if err := json.Unmarshal(f.Data, v); err != nil {
			return errors.Wrapf(err, "decode %s event", f.Type)
		}
		return nil
	}

	switch domain.EventType(f.Type) {
	case domain.EventTypeText, domain.EventTypeReasoning:
		var text string
		if err := decode(&text); err != nil {
			return false, err
		}
		if f.Type == string(domain.EventTypeReasoning) {
			fmt.Fprintf(out, "\n[thinking] %s\n", text)
		} else {
			fmt.Fprint(out, text)
		}
	case domain.EventTypeToolCall:
		var call domain.ToolCallEventData
		if err := decode(&call); err != nil {
			return false, err
		}
		args, _ := json.Marshal(call.Args)
		fmt.Fprintf(out, "\n[tool] %s %s\n", call.Name, args)
	case domain.EventTypeCitations:
		var citations []domain.Citation
		if err := decode(&citations); err != nil {
			return false, err
		}
		fmt.Fprintln(out, "\n\nSources:")
		for _, cit := range citations {
			fmt.Fprintf(out, "  [%d] %s %s\n", cit.CitationNumber, cit.Title, cit.URL)
		}
	case domain.EventTypeImages:
		var images []string
		if err := decode(&images); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "Images: %s\n", strings.Join(images, ", "))
	case domain.EventTypeDone:
		fmt.Fprintln(out)
		return true, nil
	case "error":
		return true, errors.New(f.Error)
	}
	return false, nil
}

// Run reads messages line by line from in and prints each answer to out.
// "/quit" or the end of input stops it.
func (c *Client) Run(in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Type a message and press Enter to send.")
	fmt.Fprintln(out, "Commands: /quit to exit")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/quit" {
			fmt.Fprintln(out, "Bye!")
			return nil
		}

		if err := c.Ask(input, out); err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return err
			}
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}
