package probes

import (
	"context"
	"fmt"
	"strings"

	"github.com/praetorian-inc/gqlscan/pkg/registry"
	"github.com/praetorian-inc/gqlscan/pkg/schema"
	"github.com/praetorian-inc/gqlscan/pkg/transport"
)

func init() {
	Registry.Register("alias_overloading", func(registry.Config) (Probe, error) { return aliasOverloadingProbe{}, nil })
	Registry.Register("batch_query", func(registry.Config) (Probe, error) { return batchQueryProbe{}, nil })
	Registry.Register("directive_overloading", func(registry.Config) (Probe, error) { return directiveOverloadingProbe{}, nil })
	Registry.Register("circular_introspection", func(registry.Config) (Probe, error) { return circularIntrospectionProbe{}, nil })
	Registry.Register("field_duplication", func(registry.Config) (Probe, error) { return fieldDuplicationProbe{}, nil })
	Registry.Register("depth_limit", func(registry.Config) (Probe, error) { return depthLimitProbe{}, nil })
	Registry.Register("query_complexity", func(registry.Config) (Probe, error) { return queryComplexityProbe{}, nil })
}

// aliasOverloadingProbe submits 101 aliases of __typename in one query:
// a server with no alias cap returns data for every one of them.
type aliasOverloadingProbe struct{}

func (aliasOverloadingProbe) ID() string          { return "alias_overloading" }
func (aliasOverloadingProbe) Title() string       { return "Alias Overloading" }
func (aliasOverloadingProbe) Description() string { return "Multiple field aliases allowed in single query" }
func (aliasOverloadingProbe) Impact() string      { return "Denial of Service via resource exhaustion" }
func (aliasOverloadingProbe) Severity() Severity  { return SeverityHigh }

func (p aliasOverloadingProbe) Run(ctx context.Context, client *transport.Client, url string) (Result, error) {
	aliases := make([]string, 101)
	for i := range aliases {
		aliases[i] = fmt.Sprintf("alias%d:__typename", i)
	}
	query := fmt.Sprintf("query { %s }", strings.Join(aliases, " "))

	resp, err := client.PostGraphQL(ctx, url, query, nil, p.ID())
	if err != nil {
		return Result{}, err
	}

	vulnerable := false
	if data := resp.Data(); data != nil {
		_, vulnerable = data["alias100"]
	}

	return result(p, vulnerable, resp.CurlCmd), nil
}

// batchQueryProbe sends 10 identical queries as a JSON array: a server
// that executes array batches returns an array of 10 responses.
type batchQueryProbe struct{}

func (batchQueryProbe) ID() string          { return "batch_query" }
func (batchQueryProbe) Title() string       { return "Array-based Query Batching" }
func (batchQueryProbe) Description() string { return "Multiple queries accepted in single request" }
func (batchQueryProbe) Impact() string      { return "Denial of Service via batch resource exhaustion" }
func (batchQueryProbe) Severity() Severity  { return SeverityHigh }

func (p batchQueryProbe) Run(ctx context.Context, client *transport.Client, url string) (Result, error) {
	single := map[string]any{"query": "query { __typename }"}
	batch := make([]map[string]any, 10)
	for i := range batch {
		batch[i] = single
	}

	resp, err := client.PostBatch(ctx, url, batch, p.ID())
	if err != nil {
		return Result{}, err
	}

	vulnerable := false
	if arr, ok := resp.Array(); ok {
		vulnerable = len(arr) >= 10
	}

	return result(p, vulnerable, resp.CurlCmd), nil
}

// directiveOverloadingProbe repeats an undefined directive 10 times on
// one field: a parser without a directive-count cap reports 10
// "unknown directive" errors instead of bailing after the first.
type directiveOverloadingProbe struct{}

func (directiveOverloadingProbe) ID() string          { return "directive_overloading" }
func (directiveOverloadingProbe) Title() string       { return "Directive Overloading" }
func (directiveOverloadingProbe) Description() string { return "Multiple duplicate directives accepted on field" }
func (directiveOverloadingProbe) Impact() string      { return "Denial of Service via parser resource exhaustion" }
func (directiveOverloadingProbe) Severity() Severity  { return SeverityHigh }

func (p directiveOverloadingProbe) Run(ctx context.Context, client *transport.Client, url string) (Result, error) {
	query := fmt.Sprintf("query { __typename %s }", strings.Repeat("@aa", 10))

	resp, err := client.PostGraphQL(ctx, url, query, nil, p.ID())
	if err != nil {
		return Result{}, err
	}

	vulnerable := len(resp.Errors()) >= 10

	return result(p, vulnerable, resp.CurlCmd), nil
}

// circularIntrospectionProbe nests __schema.types.fields.type five
// levels deep: a schema with no introspection depth guard still
// returns every named type, so the reported type count stays above a
// trivial schema's, rather than erroring out on the nesting.
type circularIntrospectionProbe struct{}

func (circularIntrospectionProbe) ID() string          { return "circular_introspection" }
func (circularIntrospectionProbe) Title() string       { return "Circular Query via Introspection" }
func (circularIntrospectionProbe) Description() string { return "Deep nested introspection queries allowed" }
func (circularIntrospectionProbe) Impact() string      { return "Denial of Service via recursive resource exhaustion" }
func (circularIntrospectionProbe) Severity() Severity  { return SeverityHigh }

const circularIntrospectionQuery = `query {
	__schema {
		types {
			fields {
				type {
					fields {
						type {
							fields {
								type {
									fields {
										type { name }
									}
								}
							}
						}
					}
				}
			}
		}
	}
}`

func (p circularIntrospectionProbe) Run(ctx context.Context, client *transport.Client, url string) (Result, error) {
	resp, err := client.PostGraphQL(ctx, url, circularIntrospectionQuery, nil, p.ID())
	if err != nil {
		return Result{}, err
	}

	vulnerable := false
	if data := resp.Data(); data != nil {
		if sch, ok := data["__schema"].(map[string]any); ok {
			if types, ok := sch["types"].([]any); ok {
				vulnerable = len(types) > 25
			}
		}
	}

	return result(p, vulnerable, resp.CurlCmd), nil
}

// fieldDuplicationProbe repeats __typename 500 times in one selection
// set: a server with no duplicate-field cap still resolves and returns
// data cleanly.
type fieldDuplicationProbe struct{}

func (fieldDuplicationProbe) ID() string          { return "field_duplication" }
func (fieldDuplicationProbe) Title() string       { return "Field Duplication" }
func (fieldDuplicationProbe) Description() string { return "Repeated fields accepted in query" }
func (fieldDuplicationProbe) Impact() string      { return "Denial of Service via memory exhaustion" }
func (fieldDuplicationProbe) Severity() Severity  { return SeverityHigh }

func (p fieldDuplicationProbe) Run(ctx context.Context, client *transport.Client, url string) (Result, error) {
	fields := strings.TrimSpace(strings.Repeat("__typename ", 500))
	query := fmt.Sprintf("query { %s }", fields)

	resp, err := client.PostGraphQL(ctx, url, query, nil, p.ID())
	if err != nil {
		return Result{}, err
	}

	vulnerable := resp.HasData() && !resp.HasErrors()

	return result(p, vulnerable, resp.CurlCmd), nil
}

// depthLimitProbe fetches the schema, finds a two-hop recursive field
// path (T -> ... -> T), and nests it 64 levels deep. A server that
// executes the query without complaining about depth or complexity
// has no meaningful depth limit.
type depthLimitProbe struct{}

func (depthLimitProbe) ID() string          { return "depth_limit" }
func (depthLimitProbe) Title() string       { return "Depth Limit Detection" }
func (depthLimitProbe) Description() string { return "Server accepts deeply nested queries" }
func (depthLimitProbe) Impact() string      { return "Denial of Service via stack overflow or resource exhaustion" }
func (depthLimitProbe) Severity() Severity  { return SeverityHigh }

const depthLimitNesting = 64

func (p depthLimitProbe) Run(ctx context.Context, client *transport.Client, url string) (Result, error) {
	sch, err := schema.Fetch(ctx, client, url)
	if err != nil {
		return result(p, false, "introspection failed, cannot build deep query"), nil
	}

	path, ok := schema.FindRecursivePath(sch)
	if !ok {
		return result(p, false, "no simple recursive path found in schema"), nil
	}

	part := "__typename"
	for i := 0; i < depthLimitNesting; i++ {
		part = fmt.Sprintf("%s { %s }", path.InnerField, part)
	}
	query := fmt.Sprintf("query { %s { %s } }", path.RootField, part)

	resp, err := client.PostGraphQL(ctx, url, query, nil, p.ID())
	if err != nil {
		return Result{}, err
	}

	vulnerable := verdictFromDepthErrors(resp, "depth", "complexity")

	return result(p, vulnerable, resp.CurlCmd), nil
}

// queryComplexityProbe fetches the schema, finds a triply-nested list
// chain (Root: [A], A.field: [B], B's first field), and submits it. A
// server with no cost analysis executes it without complaint.
type queryComplexityProbe struct{}

func (queryComplexityProbe) ID() string          { return "query_complexity" }
func (queryComplexityProbe) Title() string       { return "Query Complexity Analysis" }
func (queryComplexityProbe) Description() string { return "Server accepts complex queries (nested lists)" }
func (queryComplexityProbe) Impact() string      { return "Denial of Service via CPU/Memory exhaustion" }
func (queryComplexityProbe) Severity() Severity  { return SeverityHigh }

func (p queryComplexityProbe) Run(ctx context.Context, client *transport.Client, url string) (Result, error) {
	sch, err := schema.Fetch(ctx, client, url)
	if err != nil {
		return result(p, false, "introspection failed"), nil
	}

	chain, ok := schema.FindListChain(sch)
	if !ok {
		return result(p, false, "no nested lists found for complexity test"), nil
	}

	query := fmt.Sprintf("query { %s { %s { %s } } }", chain.RootField, chain.MiddleField, chain.InnerField)

	resp, err := client.PostGraphQL(ctx, url, query, nil, p.ID())
	if err != nil {
		return Result{}, err
	}

	vulnerable := verdictFromDepthErrors(resp, "complexity", "cost", "score")

	return result(p, vulnerable, resp.CurlCmd), nil
}

// verdictFromDepthErrors reports whether a query that could exhaust
// resources executed unimpeded: no errors mean it ran, and errors that
// don't cite any of the given keywords mean the server rejected it for
// some other, unrelated reason rather than enforcing a real limit.
func verdictFromDepthErrors(resp *transport.Response, keywords ...string) bool {
	if !resp.HasErrors() {
		return resp.HasData()
	}
	joined := strings.ToLower(resp.ErrorsJoined())
	for _, kw := range keywords {
		if strings.Contains(joined, kw) {
			return false
		}
	}
	return true
}

// result builds a Result from a probe's static metadata.
func result(p Probe, vulnerable bool, curl string) Result {
	return Result{
		ID:          p.ID(),
		Title:       p.Title(),
		Description: p.Description(),
		Impact:      p.Impact(),
		Severity:    p.Severity(),
		Vulnerable:  vulnerable,
		ReproCmd:    curl,
	}
}
