package sms

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/scoutdeskhq/scoutdesk-backend/pkg/config"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func newTestClient(transport roundTripFunc) *Client {
	return &Client{
		httpClient: &http.Client{Transport: transport},
		baseURL:    "https://gateway.example/api",
		token:      "tok",
		senderName: "scoutdesk",
	}
}

func TestSendTextSuccess(t *testing.T) {
	t.Parallel()

	client := newTestClient(func(req *http.Request) *http.Response {
		if req.URL.Path != "/api/send/message/sms" {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		if req.Header.Get("beon-token") != "tok" {
			t.Fatalf("missing gateway token header")
		}
		var body sendRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body.PhoneNumber != "+201001234567" || body.Name != "scoutdesk" {
			t.Fatalf("unexpected request %+v", body)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"status":200}`)),
			Header:     http.Header{},
		}
	})

	if err := client.SendText(context.Background(), "+201001234567", "hello"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
}

func TestSendTextGatewayError(t *testing.T) {
	t.Parallel()

	client := newTestClient(func(req *http.Request) *http.Response {
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Status:     "401 Unauthorized",
			Body:       io.NopCloser(strings.NewReader(`{"message":"bad token"}`)),
			Header:     http.Header{},
		}
	})

	err := client.SendText(context.Background(), "+201001234567", "hello")
	if err == nil || !strings.Contains(err.Error(), "bad token") {
		t.Fatalf("expected gateway error, got %v", err)
	}
}

func TestSendTextRequiresPhone(t *testing.T) {
	t.Parallel()

	client := newTestClient(nil)
	if err := client.SendText(context.Background(), "  ", "hello"); err == nil {
		t.Fatal("expected error for empty phone")
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	t.Parallel()

	_, err := NewClient(config.SMSConfig{BaseURL: "https://x", Timeout: time.Second})
	if err == nil {
		t.Fatal("expected error without token")
	}
}

func TestBuildChatLink(t *testing.T) {
	t.Parallel()

	got := BuildChatLink("+20 100-123-4567", "your video was removed")
	want := "https://wa.me/201001234567?text=your+video+was+removed"
	if got != want {
		t.Fatalf("unexpected link %s", got)
	}
	if BuildChatLink("abc", "x") != "" {
		t.Fatal("expected empty link without digits")
	}
}
