package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn as stored by the service.
type Message struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Role      Role   `json:"role"`
	Timestamp string `json:"timestamp"`
}

// ChatRequest is a user message plus the feature switches in effect when it
// was sent.
type ChatRequest struct {
	Message               string
	PDFFilename           string
	EnableChatWithPicture bool
	EnableWebResearch     bool
}

// History is the stored conversation for one document.
type History struct {
	Messages    []Message `json:"messages"`
	PDFFilename string    `json:"pdfFilename"`
}

// Chat sends one message and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (Message, error) {
	payload := struct {
		Message               string  `json:"message"`
		PDFFilename           *string `json:"pdfFilename"`
		EnableChatWithPicture bool    `json:"enableChatWithPicture"`
		EnableWebResearch     bool    `json:"enableWebResearch"`
	}{
		Message:               req.Message,
		EnableChatWithPicture: req.EnableChatWithPicture,
		EnableWebResearch:     req.EnableWebResearch,
	}
	if req.PDFFilename != "" {
		payload.PDFFilename = &req.PDFFilename
	}

	var reply struct {
		Message
		// Some service versions answer with a bare {"response": "..."}.
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/chat", payload, &reply); err != nil {
		return Message{}, err
	}
	msg := reply.Message
	if msg.Content == "" {
		msg.Content = reply.Response
	}
	if msg.Role == "" {
		msg.Role = RoleAssistant
	}
	return msg, nil
}

// History loads the stored conversation for name.
func (c *Client) History(ctx context.Context, name string) (History, error) {
	var history History
	if err := c.do(ctx, http.MethodGet, historyPath(name), "", nil, &history); err != nil {
		return History{}, err
	}
	if history.PDFFilename == "" {
		history.PDFFilename = name
	}
	return history, nil
}

// ClearHistory deletes the conversation for name, or every conversation when
// name is empty.
func (c *Client) ClearHistory(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, historyPath(name), "", nil, nil)
}

func historyPath(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "/chat-history"
	}
	return "/chat-history/" + url.PathEscape(name)
}
