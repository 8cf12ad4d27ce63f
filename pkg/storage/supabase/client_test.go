package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(transport roundTripFunc) *Client {
	return &Client{
		httpClient: &http.Client{Transport: transport},
		baseURL:    "https://proj.supabase.co",
		serviceKey: "service-key",
		pageSize:   2,
	}
}

func TestListObjectsPagesAndSkipsFolders(t *testing.T) {
	t.Parallel()

	pages := []string{
		`[
			{"name":"u1/clip.mp4","id":"a","metadata":{"size":100,"mimetype":"video/mp4"}},
			{"name":"folder","id":null,"metadata":null}
		]`,
		`[]`,
	}
	var calls int
	client := newTestClient(func(req *http.Request) *http.Response {
		if req.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", req.Method)
		}
		if req.Header.Get("Authorization") != "Bearer service-key" {
			t.Fatalf("unexpected auth %s", req.Header.Get("Authorization"))
		}
		var body struct {
			Offset int `json:"offset"`
			Limit  int `json:"limit"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if body.Limit != 2 {
			t.Fatalf("unexpected limit %d", body.Limit)
		}
		if want := calls * 2; body.Offset != want {
			t.Fatalf("expected offset %d, got %d", want, body.Offset)
		}
		resp := jsonResponse(http.StatusOK, pages[calls])
		calls++
		return resp
	})

	objects, err := client.ListObjects(context.Background(), "videos", "")
	if err != nil {
		t.Fatalf("ListObjects: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 page fetches, got %d", calls)
	}
	if len(objects) != 1 {
		t.Fatalf("expected 1 object after skipping folder, got %d", len(objects))
	}
	if objects[0].Name != "u1/clip.mp4" || objects[0].Size != 100 {
		t.Fatalf("unexpected object %+v", objects[0])
	}
}

func TestRemoveObjectsSendsPrefixes(t *testing.T) {
	t.Parallel()

	client := newTestClient(func(req *http.Request) *http.Response {
		if req.Method != http.MethodDelete {
			t.Fatalf("expected DELETE, got %s", req.Method)
		}
		var body map[string][]string
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if len(body["prefixes"]) != 2 {
			t.Fatalf("expected 2 prefixes, got %v", body)
		}
		return jsonResponse(http.StatusOK, `[]`)
	})

	err := client.RemoveObjects(context.Background(), "avatars", []string{"a.png", "b.png"})
	if err != nil {
		t.Fatalf("RemoveObjects: %v", err)
	}
}

func TestRemoveObjectsEmptyNoCall(t *testing.T) {
	t.Parallel()

	client := newTestClient(func(req *http.Request) *http.Response {
		t.Fatal("no request expected for empty path list")
		return nil
	})
	if err := client.RemoveObjects(context.Background(), "avatars", nil); err != nil {
		t.Fatalf("RemoveObjects: %v", err)
	}
}

func TestListObjectsErrorIncludesBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(func(req *http.Request) *http.Response {
		resp := jsonResponse(http.StatusForbidden, `{"message":"invalid key"}`)
		resp.Status = "403 Forbidden"
		return resp
	})

	_, err := client.ListObjects(context.Background(), "videos", "")
	if err == nil || !strings.Contains(err.Error(), "invalid key") {
		t.Fatalf("expected error with body, got %v", err)
	}
}

func TestPublicURL(t *testing.T) {
	t.Parallel()

	client := newTestClient(nil)
	got := client.PublicURL("profile-images", "u1/photo 1.png")
	want := "https://proj.supabase.co/storage/v1/object/public/profile-images/u1/photo%201.png"
	if got != want {
		t.Fatalf("unexpected public url %s", got)
	}
	if client.PublicURL("", "x") != "" {
		t.Fatal("expected empty url without bucket")
	}
}

func TestListObjectsTimestamps(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	client := newTestClient(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, `[
			{"name":"u2/pic.jpg","id":"b","created_at":"2024-05-01T12:00:00Z","metadata":{"size":5,"mimetype":"image/jpeg"}}
		]`)
	})

	objects, err := client.ListObjects(context.Background(), "avatars", "")
	if err != nil {
		t.Fatalf("ListObjects: %v", err)
	}
	if len(objects) != 1 || !objects[0].CreatedAt.Equal(created) {
		t.Fatalf("unexpected objects %+v", objects)
	}
}

func TestListObjectsWithPrefix(t *testing.T) {
	t.Parallel()

	client := newTestClient(func(req *http.Request) *http.Response {
		var body struct {
			Prefix string `json:"prefix"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if body.Prefix != "u7" {
			t.Fatalf("unexpected prefix %q", body.Prefix)
		}
		return jsonResponse(http.StatusOK, `[
			{"name":"pic.jpg","id":"c","metadata":{"size":3,"mimetype":"image/jpeg"}}
		]`)
	})

	objects, err := client.ListObjects(context.Background(), "avatars", "u7/")
	if err != nil {
		t.Fatalf("ListObjects: %v", err)
	}
	if len(objects) != 1 || objects[0].Name != "u7/pic.jpg" {
		t.Fatalf("expected prefixed name, got %+v", objects)
	}
}
