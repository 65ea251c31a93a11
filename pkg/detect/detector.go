// Package detect confirms whether a URL is a live GraphQL endpoint and
// walks a list of path candidates under a base URL looking for one.
package detect

import (
	"context"
	"fmt"

	"github.com/praetorian-inc/gqlscan/pkg/transport"
)

const detectionQuery = "query { __typename }"

// validRootNames are the __typename values a GraphQL server's query
// root is known to answer with.
var validRootNames = map[string]bool{
	"Query":      true,
	"QueryRoot":  true,
	"query_root": true,
	"Root":       true,
}

// IsGraphQLEndpoint sends `query { __typename }` to url and reports
// whether the response looks like a GraphQL server: either a
// recognized root typename, or an error carrying the "locations" or
// "extensions" field the GraphQL transport spec mandates. Transport
// errors propagate to the caller.
func IsGraphQLEndpoint(ctx context.Context, client *transport.Client, url string) (bool, error) {
	resp, err := client.PostGraphQL(ctx, url, detectionQuery, nil, "detection")
	if err != nil {
		return false, fmt.Errorf("detect endpoint: %w", err)
	}

	if data := resp.Data(); data != nil {
		if name, ok := data["__typename"].(string); ok && validRootNames[name] {
			return true, nil
		}
	}

	for _, e := range resp.Errors() {
		errObj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if _, hasLocations := errObj["locations"]; hasLocations {
			return true, nil
		}
		if _, hasExtensions := errObj["extensions"]; hasExtensions {
			return true, nil
		}
	}

	return false, nil
}
