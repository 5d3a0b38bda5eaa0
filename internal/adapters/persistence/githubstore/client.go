package githubstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"kidwallet-api/internal/config"
	"kidwallet-api/internal/core/domain"
)

// Document paths inside the data repository
const (
	UsersPath        = "data/users.json"
	FriendsPath      = "data/friends.json"
	WithdrawalsPath  = "data/withdrawals.json"
	TransactionsPath = "data/transactions.json"
	ReadmePath       = "data/README.md"
)

// UserFilePath returns the per-user aggregate document path
func UserFilePath(userID string) string {
	return "data/users/" + userID + ".json"
}

// readmeContent seeds the data directory on first boot
const readmeContent = "# KidWallet Data Directory\n\nThis directory contains all user data and transactions."

// Client wraps the GitHub contents API as a JSON document store with a
// process-local read-through cache. One blob SHA per path acts as the
// optimistic-concurrency version tag: the SHA captured by a read is the one a
// later write must carry, and a mismatch fails loudly instead of silently
// overwriting.
type Client struct {
	baseURL    string
	repo       string
	token      string
	httpClient *http.Client

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	payload []byte
	sha     string
}

// contentsResponse is the subset of the contents API file response we consume
type contentsResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

// putRequest is the contents API create-or-update request body
type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

// New creates a document store client for the configured repository
func New(cfg config.GitHubConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.APIURL, "/"),
		repo:       cfg.Repo,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      make(map[string]cacheEntry),
	}
}

// GetJSON reads the document at path into out and returns its version tag.
// A missing document yields domain.ErrNotFound; callers that hold collections
// treat that the same as an empty collection.
func (c *Client) GetJSON(ctx context.Context, path string, out interface{}) (string, error) {
	c.mu.RLock()
	entry, ok := c.cache[path]
	c.mu.RUnlock()

	if !ok {
		payload, sha, err := c.fetch(ctx, path)
		if err != nil {
			return "", err
		}
		entry = cacheEntry{payload: payload, sha: sha}
		c.mu.Lock()
		c.cache[path] = entry
		c.mu.Unlock()
	}

	if err := json.Unmarshal(entry.payload, out); err != nil {
		return "", fmt.Errorf("%w: decoding %s: %v", domain.ErrStoreUnavailable, path, err)
	}
	return entry.sha, nil
}

// PutJSON writes doc to path with a human-readable change description.
// sha must be the version tag returned by the read that produced doc; pass ""
// to create a new document. The cache entry for path is dropped on success.
func (c *Client) PutJSON(ctx context.Context, path string, doc interface{}, sha, message string) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", domain.ErrStoreUnavailable, path, err)
	}

	body := putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(raw),
		SHA:     sha,
	}

	resp, err := c.request(ctx, http.MethodPut, "/repos/"+c.repo+"/contents/"+path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		c.Invalidate(path)
		return nil
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity:
		// Another writer committed since our read. Drop the stale cache entry
		// so the retry sees the winner's version.
		c.Invalidate(path)
		return domain.ErrVersionConflict
	default:
		return c.statusError(resp, path)
	}
}

// Exists reports whether a file or directory exists at path
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	resp, err := c.request(ctx, http.MethodGet, "/repos/"+c.repo+"/contents/"+path, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, c.statusError(resp, path)
	}
}

// CheckAccess probes repository reachability
func (c *Client) CheckAccess(ctx context.Context) error {
	resp, err := c.request(ctx, http.MethodGet, "/repos/"+c.repo, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp, c.repo)
	}
	return nil
}

// EnsureInitialized idempotently creates the data directory and the four
// collection documents with empty-array content iff they do not already exist.
func (c *Client) EnsureInitialized(ctx context.Context) error {
	dirExists, err := c.Exists(ctx, "data")
	if err != nil {
		return err
	}
	if !dirExists {
		readme := map[string]string{"content": readmeContent}
		if err := c.PutJSON(ctx, ReadmePath, readme, "", "Initialize data directory"); err != nil {
			return err
		}
		log.Println("✅ Data directory initialized")
	}

	collections := []struct {
		path    string
		message string
	}{
		{UsersPath, "Initialize users file"},
		{FriendsPath, "Initialize friends file"},
		{WithdrawalsPath, "Initialize withdrawals file"},
		{TransactionsPath, "Initialize transactions file"},
	}

	for _, col := range collections {
		var probe json.RawMessage
		_, err := c.GetJSON(ctx, col.path, &probe)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := c.PutJSON(ctx, col.path, []interface{}{}, "", col.message); err != nil {
			return err
		}
		log.Printf("✅ Created %s", col.path)
	}
	return nil
}

// Invalidate drops the cache entry for path
func (c *Client) Invalidate(path string) {
	c.mu.Lock()
	delete(c.cache, path)
	c.mu.Unlock()
}

// InvalidateAll drops every cache entry (used by the periodic cache refresh)
func (c *Client) InvalidateAll() {
	c.mu.Lock()
	c.cache = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// fetch reads and decodes a file from the contents API
func (c *Client) fetch(ctx context.Context, path string) ([]byte, string, error) {
	resp, err := c.request(ctx, http.MethodGet, "/repos/"+c.repo+"/contents/"+path, nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, "", domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", c.statusError(resp, path)
	}

	var file contentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, "", fmt.Errorf("%w: decoding contents response for %s: %v", domain.ErrStoreUnavailable, path, err)
	}

	// The contents API wraps base64 payloads across lines
	encoded := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, file.Content)

	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("%w: decoding base64 payload of %s: %v", domain.ErrStoreUnavailable, path, err)
	}
	return payload, file.SHA, nil
}

// request performs one authenticated round trip against the contents API
func (c *Client) request(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return resp, nil
}

// statusError collapses a non-success response into the generic store error.
// The status code is kept in the wrapped message for logs; callers only see
// "operation failed".
func (c *Client) statusError(resp *http.Response, path string) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	log.Printf("❌ Document store error %d on %s: %s", resp.StatusCode, path, strings.TrimSpace(string(detail)))
	return fmt.Errorf("%w: status %d on %s", domain.ErrStoreUnavailable, resp.StatusCode, path)
}
