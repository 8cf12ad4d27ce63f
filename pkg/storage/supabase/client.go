package supabase

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
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
)

const (
	defaultListPageSize = 1000
	pingTimeout         = 5 * time.Second
)

// Object is one stored file inside a bucket. Folder placeholders are
// filtered out during listing.
type Object struct {
	Name      string
	Size      int64
	MimeType  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// API is the object-storage surface the media adapters and the purge sweep
// consume. An empty prefix lists the whole bucket.
type API interface {
	ListObjects(ctx context.Context, bucket, prefix string) ([]Object, error)
	RemoveObjects(ctx context.Context, bucket string, paths []string) error
	PublicURL(bucket, path string) string
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Client talks to a Supabase-compatible storage service over its REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
	pageSize   int
}

func NewClient(ctx context.Context, cfg config.StorageConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("storage base url is required")
	}
	if cfg.ServiceKey == "" {
		return nil, errors.New("storage service key is required")
	}

	pageSize := cfg.ListPageSize
	if pageSize <= 0 {
		pageSize = defaultListPageSize
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		pageSize:   pageSize,
	}

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("storage health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "storage client initialized")
	}

	return client, nil
}

type listRequest struct {
	Prefix string   `json:"prefix"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
	SortBy listSort `json:"sortBy"`
}

type listSort struct {
	Column string `json:"column"`
	Order  string `json:"order"`
}

type listEntry struct {
	Name      string     `json:"name"`
	ID        *string    `json:"id"`
	UpdatedAt *time.Time `json:"updated_at"`
	CreatedAt *time.Time `json:"created_at"`
	Metadata  *struct {
		Size     int64  `json:"size"`
		MimeType string `json:"mimetype"`
	} `json:"metadata"`
}

// ListObjects walks the bucket page by page and returns every file under
// the prefix. Object names include the prefix.
func (c *Client) ListObjects(ctx context.Context, bucket, prefix string) ([]Object, error) {
	if c == nil {
		return nil, errors.New("storage client not initialized")
	}
	if bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/list/%s", c.baseURL, url.PathEscape(bucket))

	// The list API treats the prefix as a folder and returns names
	// relative to it.
	folder := strings.Trim(prefix, "/")

	var objects []Object
	offset := 0
	for {
		payload, err := json.Marshal(listRequest{
			Prefix: folder,
			Limit:  c.pageSize,
			Offset: offset,
			SortBy: listSort{Column: "name", Order: "asc"},
		})
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		c.authorize(req)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("list bucket %s: %w", bucket, err)
		}

		if resp.StatusCode != http.StatusOK {
			err := responseError("list bucket "+bucket, resp)
			_ = resp.Body.Close()
			return nil, err
		}

		var entries []listEntry
		if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("decode bucket listing %s: %w", bucket, err)
		}
		_ = resp.Body.Close()

		for _, entry := range entries {
			// Entries without an id are folder placeholders.
			if entry.ID == nil || entry.Name == "" {
				continue
			}
			name := entry.Name
			if folder != "" {
				name = folder + "/" + name
			}
			obj := Object{Name: name}
			if entry.CreatedAt != nil {
				obj.CreatedAt = *entry.CreatedAt
			}
			if entry.UpdatedAt != nil {
				obj.UpdatedAt = *entry.UpdatedAt
			}
			if entry.Metadata != nil {
				obj.Size = entry.Metadata.Size
				obj.MimeType = entry.Metadata.MimeType
			}
			objects = append(objects, obj)
		}

		if len(entries) < c.pageSize {
			return objects, nil
		}
		offset += c.pageSize
	}
}

// RemoveObjects deletes the given paths from the bucket in one call.
func (c *Client) RemoveObjects(ctx context.Context, bucket string, paths []string) error {
	if c == nil {
		return errors.New("storage client not initialized")
	}
	if bucket == "" {
		return errors.New("bucket name is required")
	}
	if len(paths) == 0 {
		return nil
	}

	payload, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s", c.baseURL, url.PathEscape(bucket))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remove objects in %s: %w", bucket, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return responseError("remove objects in "+bucket, resp)
	}
	return nil
}

// PublicURL returns the public download URL for an object path.
func (c *Client) PublicURL(bucket, path string) string {
	if c == nil || bucket == "" || path == "" {
		return ""
	}
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, url.PathEscape(bucket), strings.Join(segments, "/"))
}

// Ping verifies the service key can enumerate buckets.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.httpClient == nil {
		return errors.New("storage client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/storage/v1/bucket", nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return responseError("storage bucket check", resp)
	}
	return nil
}

func (c *Client) Close() error {
	return nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Accept", "application/json")
}

func responseError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if len(b) > 0 {
		return fmt.Errorf("%s failed: %s: %s", op, resp.Status, strings.TrimSpace(string(b)))
	}
	return fmt.Errorf("%s failed: %s", op, resp.Status)
}
