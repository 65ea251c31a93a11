package detect

import (
	"context"
	"fmt"
	"net/url"

	"github.com/praetorian-inc/gqlscan/pkg/transport"
	"github.com/praetorian-inc/gqlscan/pkg/wordlist"
)

// Discover rewrites baseURL's path to each candidate in order and
// invokes IsGraphQLEndpoint against the result. Candidates that detect
// positively are collected in input order; transport failures are
// swallowed (a dead candidate is simply not a hit). Candidates come
// from paths if non-empty, else wordlist.DefaultPaths.
func Discover(ctx context.Context, client *transport.Client, baseURL string, paths []string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("discover endpoints: invalid base URL: %w", err)
	}

	candidates := paths
	if len(candidates) == 0 {
		candidates = wordlist.DefaultPaths
	}

	var found []string
	for _, path := range candidates {
		target := *base
		target.Path = path
		candidateURL := target.String()

		ok, err := IsGraphQLEndpoint(ctx, client, candidateURL)
		if err != nil {
			continue
		}
		if ok {
			found = append(found, candidateURL)
		}
	}

	return found, nil
}
