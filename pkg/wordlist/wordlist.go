// Package wordlist loads and normalizes the plain-text candidate lists
// used by endpoint discovery (path candidates) and schema inference
// (field-name candidates).
package wordlist

import (
	"fmt"
	"os"
	"strings"
)

// DefaultPaths is the built-in discovery candidate list, tried when no
// external wordlist is supplied.
var DefaultPaths = []string{
	"/graphql",
	"/graphiql",
	"/playground",
	"/console",
	"/query",
	"/api/graphql",
	"/api/v1/graphql",
	"/api/v2/graphql",
	"/v1/graphql",
	"/v2/graphql",
	"/gql",
	"/api/gql",
	"/graph",
	"/api",
}

// DefaultFieldNames seeds schema inference when no external field-name
// wordlist is supplied. The inference engine's suggestion-harvesting
// (4.5.3's "Did you mean" scan) is what turns this seed into broad
// coverage on servers that leak suggestions, so the seed itself only
// needs to cover the common nouns and CRUD verbs real schemas use.
var DefaultFieldNames = []string{
	"user", "users", "me", "currentUser", "viewer",
	"account", "accounts", "profile", "profiles",
	"post", "posts", "article", "articles", "comment", "comments",
	"message", "messages", "notification", "notifications",
	"order", "orders", "product", "products", "item", "items",
	"category", "categories", "tag", "tags",
	"file", "files", "image", "images", "document", "documents",
	"event", "events", "task", "tasks", "project", "projects",
	"team", "teams", "organization", "organizations", "company", "companies",
	"customer", "customers", "client", "clients",
	"invoice", "invoices", "payment", "payments",
	"subscription", "subscriptions", "plan", "plans",
	"setting", "settings", "config", "configuration",
	"permission", "permissions", "role", "roles", "group", "groups",
	"session", "sessions", "token", "tokens", "key", "keys",
	"secret", "secrets", "credential", "credentials",
	"log", "logs", "audit", "audits", "activity", "activities",
	"analytics", "stats", "statistics", "metrics",
	"report", "reports", "dashboard", "search", "query", "find", "get", "list", "all",
	"node", "nodes", "edge", "edges", "connection", "connections",
	"health", "status", "version", "info",
	"createUser", "updateUser", "deleteUser",
	"login", "logout", "register", "signup", "signin", "signout",
	"authenticate", "authorize", "verify", "confirm", "reset",
	"resetPassword", "changePassword", "updatePassword", "forgotPassword",
	"sendEmail", "sendMessage",
	"createPost", "updatePost", "deletePost",
	"createOrder", "updateOrder", "deleteOrder",
	"createProduct", "updateProduct", "deleteProduct",
	"upload", "uploadFile", "uploadImage",
	"create", "update", "delete", "remove", "add", "set", "save", "submit",
	"approve", "reject", "cancel", "refund",
	"subscribe", "unsubscribe", "follow", "unfollow", "like", "unlike",
	"share", "invite", "join", "leave",
}

// Load reads path as UTF-8 text, one entry per line. Blank lines and
// lines whose first non-whitespace character is '#' are discarded;
// every other line is trimmed and returned as-is.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wordlist %q: %w", path, err)
	}

	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	return entries, nil
}

// NormalizePaths prefixes every entry that does not already start with
// "/" with one. It is idempotent: re-normalizing an already-normalized
// list returns the same list.
func NormalizePaths(entries []string) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		if strings.HasPrefix(e, "/") {
			out[i] = e
		} else {
			out[i] = "/" + e
		}
	}
	return out
}

// LoadPaths loads a discovery wordlist and normalizes it.
func LoadPaths(path string) ([]string, error) {
	entries, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NormalizePaths(entries), nil
}
