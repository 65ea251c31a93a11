package wordlist_test

import (
	"os"
	"testing"

	"github.com/praetorian-inc/gqlscan/pkg/wordlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempWordlist(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "gqlscan-wordlist-*.txt")
	require.NoError(t, err)
	_, err = tmpfile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })
	return tmpfile.Name()
}

func TestLoad_StripsBlankAndCommentLines(t *testing.T) {
	path := writeTempWordlist(t, "\n# a comment\ngraphql\n   \napi/v1/graphql\n#another\n")

	entries, err := wordlist.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"graphql", "api/v1/graphql"}, entries)
}

func TestLoad_TrimsWhitespace(t *testing.T) {
	path := writeTempWordlist(t, "  graphql  \n\tplayground\t\n")

	entries, err := wordlist.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"graphql", "playground"}, entries)
}

func TestLoad_NonExistentFile(t *testing.T) {
	_, err := wordlist.Load("/nonexistent/wordlist.txt")
	assert.Error(t, err)
}

func TestNormalizePaths_AddsLeadingSlash(t *testing.T) {
	out := wordlist.NormalizePaths([]string{"graphql", "/playground", "api/gql"})
	assert.Equal(t, []string{"/graphql", "/playground", "/api/gql"}, out)
}

func TestNormalizePaths_Idempotent(t *testing.T) {
	once := wordlist.NormalizePaths([]string{"graphql", "/playground"})
	twice := wordlist.NormalizePaths(once)
	assert.Equal(t, once, twice)
}

func TestLoadPaths_NormalizesFromFile(t *testing.T) {
	path := writeTempWordlist(t, "graphql\n/playground\n# skip\napi/gql\n")

	entries, err := wordlist.LoadPaths(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/graphql", "/playground", "/api/gql"}, entries)
}

func TestDefaultPaths_Count(t *testing.T) {
	assert.Len(t, wordlist.DefaultPaths, 14)
	for _, p := range wordlist.DefaultPaths {
		assert.True(t, p[0] == '/', "default path %q must start with /", p)
	}
}

func TestDefaultFieldNames_NotEmpty(t *testing.T) {
	assert.NotEmpty(t, wordlist.DefaultFieldNames)
}
