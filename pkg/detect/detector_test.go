package detect_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/praetorian-inc/gqlscan/pkg/detect"
	"github.com/praetorian-inc/gqlscan/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsGraphQLEndpoint_ValidRootName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"__typename":"Query"}}`))
	}))
	defer server.Close()

	client, err := transport.New(transport.Config{})
	require.NoError(t, err)

	ok, err := detect.IsGraphQLEndpoint(context.Background(), client, server.URL)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsGraphQLEndpoint_UnknownRootName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"__typename":"SomethingElse"}}`))
	}))
	defer server.Close()

	client, err := transport.New(transport.Config{})
	require.NoError(t, err)

	ok, err := detect.IsGraphQLEndpoint(context.Background(), client, server.URL)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsGraphQLEndpoint_ErrorWithLocations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"bad query","locations":[{"line":1,"column":1}]}]}`))
	}))
	defer server.Close()

	client, err := transport.New(transport.Config{})
	require.NoError(t, err)

	ok, err := detect.IsGraphQLEndpoint(context.Background(), client, server.URL)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsGraphQLEndpoint_ErrorWithExtensions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"bad query","extensions":{"code":"GRAPHQL_PARSE_FAILED"}}]}`))
	}))
	defer server.Close()

	client, err := transport.New(transport.Config{})
	require.NoError(t, err)

	ok, err := detect.IsGraphQLEndpoint(context.Background(), client, server.URL)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsGraphQLEndpoint_PlainError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"not found"}]}`))
	}))
	defer server.Close()

	client, err := transport.New(transport.Config{})
	require.NoError(t, err)

	ok, err := detect.IsGraphQLEndpoint(context.Background(), client, server.URL)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsGraphQLEndpoint_NotJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("<html>404</html>"))
	}))
	defer server.Close()

	client, err := transport.New(transport.Config{})
	require.NoError(t, err)

	ok, err := detect.IsGraphQLEndpoint(context.Background(), client, server.URL)
	require.NoError(t, err)
	assert.False(t, ok)
}
