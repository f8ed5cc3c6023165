package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	internal_errors "github.com/previewer-dev/previewer/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRoot(t *testing.T) {
	const onPrem = "https://tfs.example.com/DefaultCollection/"

	tests := []struct {
		name     string
		referrer string
		expected string
	}{
		{name: "no referrer keeps default root", referrer: "", expected: onPrem},
		{name: "self-hosted referrer", referrer: "https://tfs.example.com/DefaultCollection/_build", expected: onPrem},
		{name: "cloud", referrer: "https://dev.azure.com/", expected: "https://vstmr.dev.azure.com/rosen/"},
		{name: "legacy regional alias", referrer: "https://rosen.visualstudio.com/", expected: "https://vstmr.dev.azure.com/rosen/"},
		{name: "lookalike domain", referrer: "https://notdev.azure.com/", expected: onPrem},
		{name: "broken referrer", referrer: "://", expected: onPrem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveRoot(onPrem, tt.referrer, "rosen"))
		})
	}
}

func TestForMount(t *testing.T) {
	c := ForMount("https://tfs.example.com/coll", "", "rosen", "tok", time.Second)
	assert.Equal(t, "https://tfs.example.com/coll/", c.BaseURL)
	assert.Equal(t, "tok", c.AccessToken)
	assert.Equal(t, time.Second, c.HttpClient.Timeout)
}

type recorder struct {
	mu   sync.Mutex
	last *http.Request
}

func (r *recorder) Last() *http.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// recordingServer answers with the given body and records the last request.
func recordingServer(t *testing.T, status int, contentType, body string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.last = r.Clone(context.Background())
		rec.mu.Unlock()
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestListAttachments(t *testing.T) {
	body := `{"count":2,"value":[
		{"id":5,"fileName":"log.txt","comment":"console","url":"https://download/5"},
		{"id":6,"fileName":"shot.png"}]}`

	t.Run("run", func(t *testing.T) {
		srv, rec := recordingServer(t, http.StatusOK, "application/json", body)
		c := New(srv.URL, time.Second)
		c.AccessToken = "tok"

		list, err := c.ListRunAttachments(context.Background(), "my project", 10)
		require.NoError(t, err)
		last := rec.Last()

		require.Len(t, list, 2)
		assert.Equal(t, "5", list[0].ID)
		assert.Equal(t, "log.txt", list[0].FileName)
		assert.Equal(t, "console", list[0].Comment)
		assert.Equal(t, "https://download/5", list[0].DownloadURL)
		assert.Equal(t, "/my%20project/_apis/test/Runs/10/attachments", last.URL.EscapedPath())
		assert.Equal(t, apiVersion, last.URL.Query().Get("api-version"))
		assert.Equal(t, "Bearer tok", last.Header.Get("Authorization"))
	})

	t.Run("result", func(t *testing.T) {
		srv, rec := recordingServer(t, http.StatusOK, "application/json", body)
		list, err := New(srv.URL, time.Second).ListResultAttachments(context.Background(), "p", 10, 20)
		require.NoError(t, err)
		last := rec.Last()
		assert.Len(t, list, 2)
		assert.Equal(t, "/p/_apis/test/Runs/10/Results/20/attachments", last.URL.Path)
		assert.Empty(t, last.URL.Query().Get("testSubResultId"))
		assert.Empty(t, last.Header.Get("Authorization"))
	})

	t.Run("sub-result", func(t *testing.T) {
		srv, rec := recordingServer(t, http.StatusOK, "application/json", body)
		_, err := New(srv.URL, time.Second).ListSubResultAttachments(context.Background(), "p", 10, 20, 1002)
		require.NoError(t, err)
		last := rec.Last()
		assert.Equal(t, "/p/_apis/test/Runs/10/Results/20/attachments", last.URL.Path)
		assert.Equal(t, "1002", last.URL.Query().Get("testSubResultId"))
	})
}

func TestGetResultDetail(t *testing.T) {
	srv, rec := recordingServer(t, http.StatusOK, "application/json", `{"id":20,"subResults":[{"id":1001},{"id":1002}]}`)

	detail, err := New(srv.URL, time.Second).GetResultDetail(context.Background(), "p", 10, 20, true)
	require.NoError(t, err)
	last := rec.Last()

	assert.Equal(t, int64(20), detail.ID)
	require.Len(t, detail.SubResults, 2)
	assert.Equal(t, int64(1002), detail.SubResults[1].ID)
	assert.Equal(t, "/p/_apis/test/Runs/10/Results/20", last.URL.Path)
	assert.Equal(t, "SubResults", last.URL.Query().Get("detailsToInclude"))
}

func TestFetchContent(t *testing.T) {
	ctx := context.Background()

	t.Run("run", func(t *testing.T) {
		srv, rec := recordingServer(t, http.StatusOK, "application/octet-stream", "content")
		content, err := New(srv.URL, time.Second).FetchRunAttachmentContent(ctx, "p", 10, "5")
		require.NoError(t, err)
		last := rec.Last()
		assert.Equal(t, []byte("content"), content)
		assert.Equal(t, "/p/_apis/test/Runs/10/attachments/5", last.URL.Path)
		assert.Equal(t, "application/octet-stream", last.Header.Get("Accept"))
	})

	t.Run("result", func(t *testing.T) {
		srv, rec := recordingServer(t, http.StatusOK, "application/octet-stream", "content")
		_, err := New(srv.URL, time.Second).FetchResultAttachmentContent(ctx, "p", 10, 20, "5")
		require.NoError(t, err)
		last := rec.Last()
		assert.Equal(t, "/p/_apis/test/Runs/10/Results/20/attachments/5", last.URL.Path)
	})

	t.Run("sub-result passes the sub-result id", func(t *testing.T) {
		srv, rec := recordingServer(t, http.StatusOK, "application/octet-stream", "content")
		_, err := New(srv.URL, time.Second).FetchSubResultAttachmentContent(ctx, "p", 10, 20, "5", 1002)
		require.NoError(t, err)
		last := rec.Last()
		assert.Equal(t, "/p/_apis/test/Runs/10/Results/20/attachments/5", last.URL.Path)
		assert.Equal(t, "1002", last.URL.Query().Get("testSubResultId"))
	})
}

func TestServiceErrors(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusNotFound, "text/plain", "run not found\n")

	_, err := New(srv.URL, time.Second).ListRunAttachments(context.Background(), "p", 10)

	var serviceErr *internal_errors.ServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, http.StatusNotFound, serviceErr.StatusCode)
	assert.Equal(t, "run not found", serviceErr.Message)
	assert.Equal(t, "list run attachments", serviceErr.Operation)
}

func TestMalformedJSON(t *testing.T) {
	srv, _ := recordingServer(t, http.StatusOK, "application/json", "{not json")
	_, err := New(srv.URL, time.Second).ListRunAttachments(context.Background(), "p", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON")
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).FetchRunAttachmentContent(context.Background(), "p", 1, "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "results service unavailable")
}
