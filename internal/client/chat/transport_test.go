package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yourusername/xchat/internal/protocol"
)

func TestHTTPTransportPostsToResource(t *testing.T) {
	var gotPath string
	var gotBody SendMessageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(Result{OK: gotBody.Message != "nope"})
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL+"/", "chat-oc")

	if err := tr.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if gotPath != "/chat-oc/sendMessage" {
		t.Errorf("Expected path /chat-oc/sendMessage, got %s", gotPath)
	}
	if gotBody.Message != "hello" {
		t.Errorf("Expected body hello, got %q", gotBody.Message)
	}

	if err := tr.SendMessage(context.Background(), "nope"); !errors.Is(err, ErrRejected) {
		t.Errorf("Expected ErrRejected, got %v", err)
	}
}

func TestHTTPTransportStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL, "chat-oc")
	err := tr.CloseChat(context.Background())
	if err == nil {
		t.Fatal("Expected an error")
	}
	if errors.Is(err, ErrRejected) {
		t.Error("Expected a transport error, not a rejection")
	}
}

func TestDevTransportEchoes(t *testing.T) {
	var posted []Event
	d := NewDevTransport(func(ev Event) { posted = append(posted, ev) })

	d.Welcome()
	d.SendMessage(context.Background(), "{FF0000}hi")
	d.SendMessage(context.Background(), "/me waves")

	if len(posted) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(posted))
	}

	banner := posted[0].(InboundMessage).Message
	if !banner.Trusted {
		t.Error("Expected the banner to be trusted")
	}

	echo := posted[1].(InboundMessage).Message
	if echo.Trusted || echo.Author != "You" {
		t.Errorf("Expected untrusted echo from You, got %+v", echo)
	}

	cmd := posted[2].(InboundMessage).Message
	if cmd.Author != protocol.SystemAuthor || cmd.Body != "Command received: /me waves" {
		t.Errorf("Unexpected command echo %+v", cmd)
	}
	if cmd.Trusted {
		t.Error("Expected command echo to be untrusted")
	}

	if err := d.CloseChat(context.Background()); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}
