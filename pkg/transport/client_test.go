package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, headers map[string]string, debug bool) *Client {
	t.Helper()
	c, err := New(Config{Headers: headers, Debug: debug})
	require.NoError(t, err)
	return c
}

func TestClient_TLSConfigSkipsVerification(t *testing.T) {
	c := newTestClient(t, nil, false)
	cfg := c.TLSConfig()
	require.NotNil(t, cfg)
	assert.True(t, cfg.InsecureSkipVerify)
}

func TestClient_PostGraphQL_Success(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"__typename":"Query"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, nil, false)
	resp, err := client.PostGraphQL(context.Background(), server.URL, "query { __typename }", nil, "")
	require.NoError(t, err)

	assert.True(t, resp.HasData())
	assert.Equal(t, "Query", resp.Data()["__typename"])
	assert.Contains(t, gotBody, "__typename")
	assert.Contains(t, resp.CurlCmd, "curl -X POST")
}

func TestClient_DebugHeader(t *testing.T) {
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get(DebugHeader)
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	client := newTestClient(t, nil, true)
	_, err := client.PostGraphQL(context.Background(), server.URL, "query { __typename }", nil, "alias_overloading")
	require.NoError(t, err)
	assert.Equal(t, "alias_overloading", gotHeader)
}

func TestClient_NoDebugHeaderWhenDisabled(t *testing.T) {
	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get(DebugHeader)
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	client := newTestClient(t, nil, false)
	_, err := client.PostGraphQL(context.Background(), server.URL, "query { __typename }", nil, "alias_overloading")
	require.NoError(t, err)
	assert.Empty(t, gotHeader)
}

func TestClient_CustomHeaders(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	client := newTestClient(t, map[string]string{"Authorization": "Bearer abc"}, false)
	_, err := client.PostGraphQL(context.Background(), server.URL, "query { __typename }", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", gotAuth)
}

func TestClient_PostBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"data":{"__typename":"Query"}},{"data":{"__typename":"Query"}}]`))
	}))
	defer server.Close()

	client := newTestClient(t, nil, false)
	queries := []map[string]any{
		{"query": "query { __typename }"},
		{"query": "query { __typename }"},
	}
	resp, err := client.PostBatch(context.Background(), server.URL, queries, "batch_query")
	require.NoError(t, err)

	arr, ok := resp.Array()
	require.True(t, ok)
	assert.Len(t, arr, 2)
}

func TestClient_PostForm(t *testing.T) {
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"data":{"__typename":"Query"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, nil, false)
	resp, err := client.PostForm(context.Background(), server.URL, "query { __typename }", "post_urlencoded")
	require.NoError(t, err)
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
	assert.True(t, resp.HasData())
}

func TestClient_GetGraphQL(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Write([]byte(`{"data":{"__typename":"Query"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, nil, false)
	resp, err := client.GetGraphQL(context.Background(), server.URL, "query { __typename }", "get_query_support")
	require.NoError(t, err)
	assert.Equal(t, "query { __typename }", gotQuery)
	assert.True(t, resp.HasData())
}

func TestClient_GetHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>GraphiQL</body></html>"))
	}))
	defer server.Close()

	client := newTestClient(t, nil, false)
	resp, err := client.GetHTML(context.Background(), server.URL, "graphiql")
	require.NoError(t, err)
	assert.Contains(t, resp.Body, "GraphiQL")
	assert.Equal(t, http.StatusOK, resp.Status)
}

func TestClient_MalformedJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := newTestClient(t, nil, false)
	resp, err := client.PostGraphQL(context.Background(), server.URL, "query { __typename }", nil, "")
	require.NoError(t, err)
	assert.False(t, resp.HasData())
}

func TestApplyProxy_HTTP(t *testing.T) {
	tr := &http.Transport{}
	err := applyProxy(tr, "http://127.0.0.1:8080")
	require.NoError(t, err)
	assert.NotNil(t, tr.Proxy)
}

func TestApplyProxy_SOCKS(t *testing.T) {
	tr := &http.Transport{}
	err := applyProxy(tr, "socks5://127.0.0.1:1080")
	require.NoError(t, err)
	assert.NotNil(t, tr.DialContext)
}
