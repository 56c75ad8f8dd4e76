package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yourusername/xchat/internal/color"
	"github.com/yourusername/xchat/internal/protocol"
)

// ErrRejected is returned when the game client answers {"ok": false}
var ErrRejected = errors.New("rejected by game client")

// Transport carries the panel's requests to the game client
type Transport interface {
	SendMessage(ctx context.Context, message string) error
	CloseChat(ctx context.Context) error
}

// SendMessageRequest is the body of a sendMessage call
type SendMessageRequest struct {
	Message string `json:"message"`
}

// Result is the reply to every boundary call
type Result struct {
	OK bool `json:"ok"`
}

// HTTPTransport posts JSON to {baseURL}/{resource}/sendMessage and /closeChat
type HTTPTransport struct {
	baseURL    string
	resource   string
	httpClient *http.Client
}

// NewHTTPTransport creates a transport for the given game client resource
func NewHTTPTransport(baseURL, resource string) *HTTPTransport {
	return &HTTPTransport{
		baseURL:  strings.TrimRight(baseURL, "/"),
		resource: resource,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// SetHTTPClient allows setting a custom HTTP client
func (t *HTTPTransport) SetHTTPClient(client *http.Client) {
	if client != nil {
		t.httpClient = client
	}
}

// SendMessage asks the game client to execute message
func (t *HTTPTransport) SendMessage(ctx context.Context, message string) error {
	return t.post(ctx, "sendMessage", SendMessageRequest{Message: message})
}

// CloseChat asks the game client to close the panel
func (t *HTTPTransport) CloseChat(ctx context.Context) error {
	return t.post(ctx, "closeChat", struct{}{})
}

func (t *HTTPTransport) post(ctx context.Context, action string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", t.baseURL, t.resource, action)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: http error: %s (status %d)", action, strings.TrimSpace(string(raw)), resp.StatusCode)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("%s: %w", action, ErrRejected)
	}
	return nil
}

var (
	devBannerColor  = color.RGB{R: 120, G: 190, B: 255}
	devCommandColor = color.RGB{R: 255, G: 170, B: 0}
	devEchoColor    = color.RGB{R: 230, G: 230, B: 230}
)

// DevTransport stands in for the game client when running without a server.
// Sends are echoed back into the panel through post.
type DevTransport struct {
	post func(Event)
	now  func() time.Time
}

// NewDevTransport creates a fake transport delivering its echoes through post
func NewDevTransport(post func(Event)) *DevTransport {
	return &DevTransport{post: post, now: time.Now}
}

// Welcome posts the dev mode banner
func (d *DevTransport) Welcome() {
	d.post(InboundMessage{Message: Message{
		Author:  protocol.SystemAuthor,
		Body:    "{78BEFF}xchat{FFFFFF} • dev mode active",
		Color:   devBannerColor.Ptr(),
		Type:    protocol.ChatTypeSystem,
		Trusted: true,
	}})
}

// SendMessage echoes message back. The echo is player text, so it is never trusted.
func (d *DevTransport) SendMessage(_ context.Context, message string) error {
	msg := Message{
		Author:    "You",
		Body:      message,
		Color:     devEchoColor.Ptr(),
		Timestamp: d.now().UnixMilli(),
		Type:      protocol.ChatTypeChat,
	}
	if strings.HasPrefix(message, "/") {
		msg = Message{
			Author:    protocol.SystemAuthor,
			Body:      "Command received: " + message,
			Color:     devCommandColor.Ptr(),
			Timestamp: d.now().UnixMilli(),
			Type:      protocol.ChatTypeSystem,
		}
	}
	d.post(InboundMessage{Message: msg})
	return nil
}

// CloseChat always succeeds
func (d *DevTransport) CloseChat(context.Context) error {
	return nil
}
