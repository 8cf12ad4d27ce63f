package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scoutdeskhq/scoutdesk-backend/pkg/config"
)

// Sender delivers a text message to a phone number.
type Sender interface {
	SendText(ctx context.Context, phone, message string) error
}

// Client talks to the hosted messaging gateway over its REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	senderName string
}

func NewClient(cfg config.SMSConfig) (*Client, error) {
	if cfg.Token == "" {
		return nil, errors.New("sms token is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		senderName: cfg.SenderName,
	}, nil
}

type sendRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
}

// SendText posts one SMS to the gateway. Any non-2xx response is an error so
// callers can fall back to another channel.
func (c *Client) SendText(ctx context.Context, phone, message string) error {
	if c == nil {
		return errors.New("sms client not initialized")
	}
	if strings.TrimSpace(phone) == "" {
		return errors.New("phone number is required")
	}

	payload, err := json.Marshal(sendRequest{
		Name:        c.senderName,
		PhoneNumber: phone,
		Message:     message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send/message/sms", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("beon-token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if len(b) > 0 {
			return fmt.Errorf("send sms failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
		}
		return fmt.Errorf("send sms failed: %s", resp.Status)
	}
	return nil
}

// BuildChatLink returns a chat deep link that opens a conversation with the
// phone number and the message pre-filled. Used when SMS delivery fails.
func BuildChatLink(phone, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return ""
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(message))
}
