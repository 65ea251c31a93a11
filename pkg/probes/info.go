package probes

import (
	"context"
	"strings"

	"github.com/praetorian-inc/gqlscan/pkg/registry"
	"github.com/praetorian-inc/gqlscan/pkg/transport"
)

func init() {
	Registry.Register("introspection", func(registry.Config) (Probe, error) { return introspectionProbe{}, nil })
	Registry.Register("graphiql", func(registry.Config) (Probe, error) { return graphiqlProbe{}, nil })
	Registry.Register("field_suggestions", func(registry.Config) (Probe, error) { return fieldSuggestionsProbe{}, nil })
	Registry.Register("trace_mode", func(registry.Config) (Probe, error) { return traceModeProbe{}, nil })
	Registry.Register("unhandled_errors", func(registry.Config) (Probe, error) { return unhandledErrorsProbe{}, nil })
}

// introspectionProbe asks for every type name and its fields: any
// server that answers with a non-empty type list has introspection on.
type introspectionProbe struct{}

func (introspectionProbe) ID() string          { return "introspection" }
func (introspectionProbe) Title() string       { return "Introspection Enabled" }
func (introspectionProbe) Description() string { return "Full schema introspection query allowed" }
func (introspectionProbe) Impact() string {
	return "Information disclosure - complete API schema exposed"
}
func (introspectionProbe) Severity() Severity { return SeverityHigh }

const introspectionProbeQuery = `query {
	__schema {
		types {
			name
			fields {
				name
			}
		}
	}
}`

func (p introspectionProbe) Run(ctx context.Context, client *transport.Client, url string) (Result, error) {
	resp, err := client.PostGraphQL(ctx, url, introspectionProbeQuery, nil, p.ID())
	if err != nil {
		return Result{}, err
	}

	vulnerable := false
	if data := resp.Data(); data != nil {
		if sch, ok := data["__schema"].(map[string]any); ok {
			if types, ok := sch["types"].([]any); ok {
				vulnerable = len(types) > 0
			}
		}
	}

	return result(p, vulnerable, resp.CurlCmd), nil
}

// graphiqlProbe fetches the endpoint as HTML and greps for any of the
// common GraphQL IDE signature strings.
type graphiqlProbe struct{}

func (graphiqlProbe) ID() string          { return "graphiql" }
func (graphiqlProbe) Title() string       { return "GraphQL IDE Exposed" }
func (graphiqlProbe) Description() string { return "GraphQL development IDE accessible in production" }
func (graphiqlProbe) Impact() string {
	return "Information disclosure - interactive query interface exposed"
}
func (graphiqlProbe) Severity() Severity { return SeverityLow }

var graphiqlIndicators = []string{
	"GraphQL Playground",
	"GraphiQL",
	"graphql-playground",
	"graphiql.min.js",
	"graphiql.css",
	"apollo-server",
	"graphql-yoga",
}

func (p graphiqlProbe) Run(ctx context.Context, client *transport.Client, url string) (Result, error) {
	resp, err := client.GetHTML(ctx, url, p.ID())
	if err != nil {
		return Result{}, err
	}

	vulnerable := false
	for _, ind := range graphiqlIndicators {
		if strings.Contains(resp.Body, ind) {
			vulnerable = true
			break
		}
	}

	return result(p, vulnerable, resp.CurlCmd), nil
}

// fieldSuggestionsProbe deliberately queries a nonexistent field under
// __schema and checks whether the error leaks a "did you mean" hint.
type fieldSuggestionsProbe struct{}

func (fieldSuggestionsProbe) ID() string          { return "field_suggestions" }
func (fieldSuggestionsProbe) Title() string       { return "Field Suggestions Enabled" }
func (fieldSuggestionsProbe) Description() string { return "Error messages suggest valid field names" }
func (fieldSuggestionsProbe) Impact() string      { return "Information disclosure - schema hints in errors" }
func (fieldSuggestionsProbe) Severity() Severity  { return SeverityLow }

func (p fieldSuggestionsProbe) Run(ctx context.Context, client *transport.Client, url string) (Result, error) {
	resp, err := client.PostGraphQL(ctx, url, "query { __schema { directive } }", nil, p.ID())
	if err != nil {
		return Result{}, err
	}

	vulnerable := false
	if msg, ok := resp.FirstErrorMessage(); ok {
		vulnerable = strings.Contains(strings.ToLower(msg), "did you mean")
	}

	return result(p, vulnerable, resp.CurlCmd), nil
}

// traceModeProbe checks whether a plain query's response carries an
// extensions.tracing block (Apollo's tracing extension, or similar).
type traceModeProbe struct{}

func (traceModeProbe) ID() string          { return "trace_mode" }
func (traceModeProbe) Title() string       { return "Tracing Enabled" }
func (traceModeProbe) Description() string { return "Debug tracing information in responses" }
func (traceModeProbe) Impact() string      { return "Information disclosure - execution traces exposed" }
func (traceModeProbe) Severity() Severity  { return SeverityInfo }

func (p traceModeProbe) Run(ctx context.Context, client *transport.Client, url string) (Result, error) {
	resp, err := client.PostGraphQL(ctx, url, "query { __typename }", nil, p.ID())
	if err != nil {
		return Result{}, err
	}

	vulnerable := false
	if ext := resp.Extensions(); ext != nil {
		_, vulnerable = ext["tracing"]
	}

	return result(p, vulnerable, resp.CurlCmd), nil
}

// unhandledErrorsProbe sends a malformed query and checks whether the
// response's extensions leak an exception or stacktrace field.
type unhandledErrorsProbe struct{}

func (unhandledErrorsProbe) ID() string          { return "unhandled_errors" }
func (unhandledErrorsProbe) Title() string       { return "Unhandled Errors Exposed" }
func (unhandledErrorsProbe) Description() string { return "Exception details visible in error responses" }
func (unhandledErrorsProbe) Impact() string {
	return "Information disclosure - exception or stacktrace details"
}
func (unhandledErrorsProbe) Severity() Severity { return SeverityInfo }

func (p unhandledErrorsProbe) Run(ctx context.Context, client *transport.Client, url string) (Result, error) {
	resp, err := client.PostGraphQL(ctx, url, "qwerty { abc }", nil, p.ID())
	if err != nil {
		return Result{}, err
	}

	vulnerable := false
	if ext := resp.Extensions(); ext != nil {
		_, hasException := ext["exception"]
		_, hasStacktrace := ext["stacktrace"]
		vulnerable = hasException || hasStacktrace
	}

	return result(p, vulnerable, resp.CurlCmd), nil
}
