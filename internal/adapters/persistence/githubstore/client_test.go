package githubstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"kidwallet-api/internal/config"
	"kidwallet-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeContentsAPI emulates the subset of the GitHub contents API the client
// uses: GET/PUT on /repos/{repo}/contents/{path} with blob SHAs as version
// tags, plus GET /repos/{repo} for the access probe.
type fakeContentsAPI struct {
	mu       sync.Mutex
	files    map[string]fakeFile
	requests int
	nextSHA  int
}

type fakeFile struct {
	content []byte
	sha     string
}

func newFakeContentsAPI() *fakeContentsAPI {
	return &fakeContentsAPI{files: make(map[string]fakeFile)}
}

func (f *fakeContentsAPI) put(path string, doc interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, _ := json.Marshal(doc)
	f.nextSHA++
	f.files[path] = fakeFile{content: raw, sha: fmt.Sprintf("sha-%d", f.nextSHA)}
}

func (f *fakeContentsAPI) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.requests++

		if r.URL.Path == "/repos/owner/data-repo" {
			w.WriteHeader(http.StatusOK)
			return
		}

		path := strings.TrimPrefix(r.URL.Path, "/repos/owner/data-repo/contents/")

		switch r.Method {
		case http.MethodGet:
			// Directory probe: any file under the prefix counts
			if file, ok := f.files[path]; ok {
				json.NewEncoder(w).Encode(map[string]string{
					"content":  base64.StdEncoding.EncodeToString(file.content),
					"encoding": "base64",
					"sha":      file.sha,
				})
				return
			}
			for p := range f.files {
				if strings.HasPrefix(p, path+"/") {
					w.WriteHeader(http.StatusOK)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)

		case http.MethodPut:
			var req struct {
				Message string `json:"message"`
				Content string `json:"content"`
				SHA     string `json:"sha"`
			}
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &req))
			require.NotEmpty(t, req.Message, "every write must carry a message")

			existing, exists := f.files[path]
			if exists && req.SHA != existing.sha {
				w.WriteHeader(http.StatusConflict)
				return
			}
			if !exists && req.SHA != "" {
				w.WriteHeader(http.StatusUnprocessableEntity)
				return
			}

			raw, err := base64.StdEncoding.DecodeString(req.Content)
			require.NoError(t, err)
			f.nextSHA++
			f.files[path] = fakeFile{content: raw, sha: fmt.Sprintf("sha-%d", f.nextSHA)}

			if exists {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusCreated)
			}

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func newTestClient(t *testing.T) (*Client, *fakeContentsAPI) {
	api := newFakeContentsAPI()
	server := httptest.NewServer(api.handler(t))
	t.Cleanup(server.Close)

	client := New(config.GitHubConfig{
		APIURL: server.URL,
		Repo:   "owner/data-repo",
		Token:  "test-token",
	})
	return client, api
}

func TestClient_GetJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("missing document yields ErrNotFound", func(t *testing.T) {
		client, _ := newTestClient(t)

		var out []interface{}
		_, err := client.GetJSON(ctx, UsersPath, &out)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("reads document with version tag", func(t *testing.T) {
		client, api := newTestClient(t)
		api.put(UsersPath, []map[string]string{{"username": "alice"}})

		var out []map[string]string
		sha, err := client.GetJSON(ctx, UsersPath, &out)
		require.NoError(t, err)
		assert.NotEmpty(t, sha)
		require.Len(t, out, 1)
		assert.Equal(t, "alice", out[0]["username"])
	})

	t.Run("second read is served from cache", func(t *testing.T) {
		client, api := newTestClient(t)
		api.put(UsersPath, []string{})

		var out []string
		_, err := client.GetJSON(ctx, UsersPath, &out)
		require.NoError(t, err)

		before := api.requests
		_, err = client.GetJSON(ctx, UsersPath, &out)
		require.NoError(t, err)
		assert.Equal(t, before, api.requests)
	})

	t.Run("invalidate forces a refetch", func(t *testing.T) {
		client, api := newTestClient(t)
		api.put(UsersPath, []string{"v1"})

		var out []string
		_, err := client.GetJSON(ctx, UsersPath, &out)
		require.NoError(t, err)

		api.put(UsersPath, []string{"v2"})
		client.Invalidate(UsersPath)

		_, err = client.GetJSON(ctx, UsersPath, &out)
		require.NoError(t, err)
		assert.Equal(t, []string{"v2"}, out)
	})
}

func TestClient_PutJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("write carries the tag from the read", func(t *testing.T) {
		client, api := newTestClient(t)
		api.put(UsersPath, []string{"old"})

		var out []string
		sha, err := client.GetJSON(ctx, UsersPath, &out)
		require.NoError(t, err)

		err = client.PutJSON(ctx, UsersPath, []string{"new"}, sha, "Update users")
		require.NoError(t, err)

		_, err = client.GetJSON(ctx, UsersPath, &out)
		require.NoError(t, err)
		assert.Equal(t, []string{"new"}, out)
	})

	t.Run("stale tag fails with ErrVersionConflict", func(t *testing.T) {
		client, api := newTestClient(t)
		api.put(UsersPath, []string{"old"})

		var out []string
		sha, err := client.GetJSON(ctx, UsersPath, &out)
		require.NoError(t, err)

		// Another writer commits in between
		api.put(UsersPath, []string{"winner"})

		err = client.PutJSON(ctx, UsersPath, []string{"loser"}, sha, "Update users")
		assert.ErrorIs(t, err, domain.ErrVersionConflict)

		// The conflict dropped the stale cache entry, so the next read sees
		// the winner's version
		_, err = client.GetJSON(ctx, UsersPath, &out)
		require.NoError(t, err)
		assert.Equal(t, []string{"winner"}, out)
	})

	t.Run("empty tag creates a new document", func(t *testing.T) {
		client, _ := newTestClient(t)

		err := client.PutJSON(ctx, FriendsPath, []string{}, "", "Initialize friends file")
		require.NoError(t, err)

		var out []string
		_, err = client.GetJSON(ctx, FriendsPath, &out)
		require.NoError(t, err)
	})
}

func TestClient_EnsureInitialized(t *testing.T) {
	ctx := context.Background()

	t.Run("creates layout on empty repository", func(t *testing.T) {
		client, api := newTestClient(t)

		require.NoError(t, client.EnsureInitialized(ctx))

		api.mu.Lock()
		defer api.mu.Unlock()
		for _, path := range []string{ReadmePath, UsersPath, FriendsPath, WithdrawalsPath, TransactionsPath} {
			_, ok := api.files[path]
			assert.True(t, ok, path)
		}
	})

	t.Run("leaves existing documents alone", func(t *testing.T) {
		client, api := newTestClient(t)
		api.put(ReadmePath, map[string]string{"content": "seeded"})
		api.put(UsersPath, []map[string]string{{"username": "alice"}})

		require.NoError(t, client.EnsureInitialized(ctx))

		var users []map[string]string
		client.InvalidateAll()
		_, err := client.GetJSON(ctx, UsersPath, &users)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "alice", users[0]["username"])
	})
}

func TestClient_CheckAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("reachable repository", func(t *testing.T) {
		client, _ := newTestClient(t)
		assert.NoError(t, client.CheckAccess(ctx))
	})

	t.Run("unreachable repository", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		t.Cleanup(server.Close)

		client := New(config.GitHubConfig{APIURL: server.URL, Repo: "owner/data-repo", Token: "bad"})
		assert.ErrorIs(t, client.CheckAccess(ctx), domain.ErrStoreUnavailable)
	})
}
