package probes

import (
	"context"
	"fmt"
	"strings"

	"github.com/praetorian-inc/gqlscan/pkg/registry"
	"github.com/praetorian-inc/gqlscan/pkg/transport"
)

func init() {
	Registry.Register("get_query_support", func(registry.Config) (Probe, error) { return getQuerySupportProbe{}, nil })
	Registry.Register("get_mutation", func(registry.Config) (Probe, error) { return getMutationProbe{}, nil })
	Registry.Register("post_urlencoded", func(registry.Config) (Probe, error) { return postUrlencodedProbe{}, nil })
}

// getQuerySupportProbe issues a query via GET: accepting it means any
// cross-origin page can trigger a read with nothing but an <img> tag.
type getQuerySupportProbe struct{}

func (getQuerySupportProbe) ID() string          { return "get_query_support" }
func (getQuerySupportProbe) Title() string       { return "GET Method Query Support" }
func (getQuerySupportProbe) Description() string { return "GraphQL queries accepted via GET parameters" }
func (getQuerySupportProbe) Impact() string {
	return "CSRF vulnerability - queries triggerable from external sites"
}
func (getQuerySupportProbe) Severity() Severity { return SeverityMedium }

func (p getQuerySupportProbe) Run(ctx context.Context, client *transport.Client, url string) (Result, error) {
	query := "query { __typename }"

	resp, err := client.GetGraphQL(ctx, url, query, p.ID())
	if err != nil {
		return Result{}, err
	}

	vulnerable := false
	if data := resp.Data(); data != nil {
		_, vulnerable = data["__typename"]
	}

	return result(p, vulnerable, fmt.Sprintf("curl -G '%s' --data-urlencode 'query=%s'", url, query)), nil
}

// getMutationProbe issues a mutation via GET, which violates the spec
// recommendation that mutations only run over POST. If the response
// carries data, or an error that isn't clearly "GET isn't allowed for
// mutations", the mutation ran.
type getMutationProbe struct{}

func (getMutationProbe) ID() string          { return "get_mutation" }
func (getMutationProbe) Title() string       { return "GET Method Mutation Support" }
func (getMutationProbe) Description() string { return "GraphQL mutations accepted via GET parameters" }
func (getMutationProbe) Impact() string {
	return "CSRF vulnerability - state changes triggerable from external sites"
}
func (getMutationProbe) Severity() Severity { return SeverityMedium }

func (p getMutationProbe) Run(ctx context.Context, client *transport.Client, url string) (Result, error) {
	query := "mutation { __typename }"

	resp, err := client.GetGraphQL(ctx, url, query, p.ID())
	if err != nil {
		return Result{}, err
	}

	var vulnerable bool
	if data := resp.Data(); data != nil {
		_, vulnerable = data["__typename"]
	} else if msg, ok := resp.FirstErrorMessage(); ok {
		lower := strings.ToLower(msg)
		vulnerable = !strings.Contains(lower, "get") &&
			!strings.Contains(lower, "not allowed") &&
			!strings.Contains(lower, "only")
	}

	return result(p, vulnerable, fmt.Sprintf("curl -G '%s' --data-urlencode 'query=%s'", url, query)), nil
}

// postUrlencodedProbe submits a form-encoded POST: a server that
// accepts it is reachable from a plain HTML form, which browsers send
// without a CORS preflight.
type postUrlencodedProbe struct{}

func (postUrlencodedProbe) ID() string          { return "post_urlencoded" }
func (postUrlencodedProbe) Title() string       { return "POST URL-encoded Body Support" }
func (postUrlencodedProbe) Description() string { return "GraphQL accepts form-encoded POST requests" }
func (postUrlencodedProbe) Impact() string {
	return "CSRF vulnerability - simple form POST without CORS preflight"
}
func (postUrlencodedProbe) Severity() Severity { return SeverityMedium }

func (p postUrlencodedProbe) Run(ctx context.Context, client *transport.Client, url string) (Result, error) {
	query := "query { __typename }"

	resp, err := client.PostForm(ctx, url, query, p.ID())
	if err != nil {
		return Result{}, err
	}

	vulnerable := false
	if data := resp.Data(); data != nil {
		_, vulnerable = data["__typename"]
	}

	curl := fmt.Sprintf("curl -X POST '%s' -H 'Content-Type: application/x-www-form-urlencoded' -d 'query=%s'", url, query)
	return result(p, vulnerable, curl), nil
}
