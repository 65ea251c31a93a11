package schema

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/praetorian-inc/gqlscan/pkg/transport"
)

// FullIntrospectionQuery is the canonical introspection query: every
// root operation type, every named type with its fields/inputs/enum
// values/possible types, and an 8-level-deep TypeRef unwrap so that
// deeply-wrapped LIST/NON_NULL chains still resolve to a base type.
const FullIntrospectionQuery = `
query IntrospectionQuery {
  __schema {
    queryType { name }
    mutationType { name }
    subscriptionType { name }
    types {
      ...FullType
    }
    directives {
      name
      description
      locations
      args {
        ...InputValue
      }
    }
  }
}

fragment FullType on __Type {
  kind
  name
  description
  fields(includeDeprecated: true) {
    name
    description
    args {
      ...InputValue
    }
    type {
      ...TypeRef
    }
    isDeprecated
    deprecationReason
  }
  inputFields {
    ...InputValue
  }
  interfaces {
    ...TypeRef
  }
  enumValues(includeDeprecated: true) {
    name
    description
    isDeprecated
    deprecationReason
  }
  possibleTypes {
    ...TypeRef
  }
}

fragment InputValue on __InputValue {
  name
  description
  type {
    ...TypeRef
  }
  defaultValue
}

fragment TypeRef on __Type {
  kind
  name
  ofType {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
              ofType {
                kind
                name
              }
            }
          }
        }
      }
    }
  }
}
`

// Fetch issues the full introspection query against url and decodes
// the result into a Schema graph.
func Fetch(ctx context.Context, client *transport.Client, url string) (*Schema, error) {
	resp, err := client.PostGraphQL(ctx, url, FullIntrospectionQuery, nil, "introspection")
	if err != nil {
		return nil, fmt.Errorf("fetch introspection: %w", err)
	}

	data := resp.Data()
	if data == nil {
		return nil, fmt.Errorf("fetch introspection: no data field in response")
	}

	raw, err := json.Marshal(data["__schema"])
	if err != nil {
		return nil, fmt.Errorf("fetch introspection: re-marshal __schema: %w", err)
	}

	var s Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("fetch introspection: decode schema: %w", err)
	}
	return &s, nil
}

// FetchRaw issues the full introspection query and returns the
// response body unchanged, for callers that want to persist the exact
// server bytes rather than the decoded graph.
func FetchRaw(ctx context.Context, client *transport.Client, url string) (any, error) {
	resp, err := client.PostGraphQL(ctx, url, FullIntrospectionQuery, nil, "introspection")
	if err != nil {
		return nil, fmt.Errorf("fetch raw introspection: %w", err)
	}
	return resp.Body, nil
}
