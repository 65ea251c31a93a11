package inference

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/praetorian-inc/gqlscan/pkg/transport"
	"github.com/rs/zerolog/log"
)

// commonArgNames are probed against every confirmed field to recover
// its argument surface without introspection.
var commonArgNames = []string{
	"id", "input", "where", "filter", "limit", "offset", "first", "last",
	"after", "before", "orderBy", "order", "sort", "skip", "take", "page",
	"pageSize", "cursor", "data", "name", "email", "query", "search",
}

var orderedScalarNames = []string{"String", "Int", "Float", "Boolean", "ID"}

// Engine runs the clairvoyance inference algorithm against one
// endpoint: a work-queue per root operation type, seeded with a
// field-name wordlist and grown by suggestions harvested from error
// messages along the way.
type Engine struct {
	client   *transport.Client
	url      string
	wordlist []string

	discoveredTypes  map[string]*InferredType
	discoveredFields map[string]bool
}

// NewEngine builds an inference Engine. wordlist seeds the work-queue
// for every root operation type (query, mutation, subscription).
func NewEngine(client *transport.Client, url string, wordlist []string) *Engine {
	return &Engine{
		client:           client,
		url:              url,
		wordlist:         wordlist,
		discoveredTypes:  map[string]*InferredType{},
		discoveredFields: map[string]bool{},
	}
}

// Infer probes the query, mutation, and subscription root types in
// turn and assembles whatever was discovered into an InferredSchema.
func (e *Engine) Infer(ctx context.Context) (*InferredSchema, error) {
	log.Debug().Str("url", e.url).Msg("probing query type")
	queryFields, err := e.probeRootType(ctx, "query")
	if err != nil {
		return nil, fmt.Errorf("infer schema: probe query type: %w", err)
	}
	if len(queryFields) > 0 {
		e.discoveredTypes["Query"] = &InferredType{Name: "Query", Kind: "OBJECT", Fields: queryFields}
	}

	log.Debug().Str("url", e.url).Msg("probing mutation type")
	mutationFields, err := e.probeRootType(ctx, "mutation")
	if err != nil {
		return nil, fmt.Errorf("infer schema: probe mutation type: %w", err)
	}
	if len(mutationFields) > 0 {
		e.discoveredTypes["Mutation"] = &InferredType{Name: "Mutation", Kind: "OBJECT", Fields: mutationFields}
	}

	log.Debug().Str("url", e.url).Msg("probing subscription type")
	subscriptionFields, err := e.probeRootType(ctx, "subscription")
	if err != nil {
		return nil, fmt.Errorf("infer schema: probe subscription type: %w", err)
	}
	if len(subscriptionFields) > 0 {
		e.discoveredTypes["Subscription"] = &InferredType{Name: "Subscription", Kind: "OBJECT", Fields: subscriptionFields}
	}

	return &InferredSchema{
		QueryType:        e.discoveredTypes["Query"],
		MutationType:     e.discoveredTypes["Mutation"],
		SubscriptionType: e.discoveredTypes["Subscription"],
		Types:            e.discoveredTypes,
	}, nil
}

// probeRootType drains a LIFO work-queue seeded with the wordlist,
// issuing `<operation> { <name> }` for each candidate and classifying
// the response per 4.5.1. A context cancellation is fatal; individual
// transport failures are swallowed and the word is simply dropped.
func (e *Engine) probeRootType(ctx context.Context, operation string) ([]InferredField, error) {
	queue := append([]string{}, e.wordlist...)
	checked := map[string]bool{}
	var fields []InferredField

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return fields, err
		}

		word := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if checked[word] {
			continue
		}
		checked[word] = true

		if !isValidGraphQLName(word) {
			continue
		}

		query := fmt.Sprintf("%s { %s }", operation, word)
		resp, err := e.client.PostGraphQL(ctx, e.url, query, nil, "inference")
		if err != nil {
			log.Debug().Err(err).Str("word", word).Msg("inference probe failed, skipping")
			continue
		}

		found := e.classifyRootProbe(ctx, word, operation, resp)
		if found != nil {
			fields = append(fields, *found)
			e.discoveredFields[word] = true
		}

		for _, word := range e.harvestSuggestions(resp, checked) {
			queue = append(queue, word)
		}
		e.harvestTypeStubs(resp)
	}

	return fields, nil
}

// classifyRootProbe implements the response-classification order from
// 4.5.1: direct hit, subselection-required, must-have-selection.
func (e *Engine) classifyRootProbe(ctx context.Context, word, operation string, resp *transport.Response) *InferredField {
	if resp.HasData() {
		if _, ok := resp.Data()[word]; ok {
			return e.probeField(ctx, word, operation)
		}
	}

	for _, msg := range resp.ErrorMessages() {
		if cap := subselectionRegex.FindStringSubmatch(msg); cap != nil {
			typeName, fieldName := cap[1], cap[2]
			if fieldName == word {
				e.registerType(typeName)
				f := InferredField{Name: word, TypeName: typeName}
				f.Args = e.probeFieldArgs(ctx, word, operation)
				return &f
			}
		}
		if cap := mustHaveSelectionRegex.FindStringSubmatch(msg); cap != nil {
			fieldName, typeName := cap[1], cap[2]
			if fieldName == word {
				e.registerType(typeName)
				f := InferredField{Name: word, TypeName: typeName}
				f.Args = e.probeFieldArgs(ctx, word, operation)
				return &f
			}
		}
	}

	return nil
}

// harvestSuggestions extracts "Did you mean ..." quoted words not
// already attempted, the bootstrap mechanism that grows a tiny seed
// wordlist on servers that leak suggestions.
func (e *Engine) harvestSuggestions(resp *transport.Response, checked map[string]bool) []string {
	var out []string
	for _, msg := range resp.ErrorMessages() {
		cap := suggestionsRegex.FindStringSubmatch(msg)
		if cap == nil {
			continue
		}
		for _, w := range extractQuotedWords(cap[1]) {
			if !checked[w] {
				out = append(out, w)
			}
		}
	}
	return out
}

// harvestTypeStubs registers an OBJECT stub for every type named by a
// "Cannot query field" error, for later correlation.
func (e *Engine) harvestTypeStubs(resp *transport.Response) {
	for _, msg := range resp.ErrorMessages() {
		cap := fieldErrorRegex.FindStringSubmatch(msg)
		if cap == nil {
			continue
		}
		e.registerType(cap[2])
	}
}

// probeField characterizes a field known to exist: scalar vs object,
// list vs single, per 4.5.2.
func (e *Engine) probeField(ctx context.Context, name, operation string) *InferredField {
	field := &InferredField{Name: name}

	query := fmt.Sprintf("%s { %s { __typename } }", operation, name)
	resp, err := e.client.PostGraphQL(ctx, e.url, query, nil, "inference")
	if err != nil {
		log.Debug().Err(err).Str("field", name).Msg("field characterization probe failed")
	} else if resp.HasData() {
		e.characterizeFromTypename(field, resp.Data()[name])
	} else {
		for _, msg := range resp.ErrorMessages() {
			if cap := mustNotHaveSelectionRegex.FindStringSubmatch(msg); cap != nil {
				fieldName, typeName := cap[1], cap[2]
				if fieldName == name {
					field.TypeName = typeName
				}
			}
		}
	}

	if field.TypeName == "" {
		e.probeFieldAsScalar(ctx, field, name, operation)
	}

	field.Args = e.probeFieldArgs(ctx, name, operation)
	return field
}

func (e *Engine) characterizeFromTypename(field *InferredField, value any) {
	switch v := value.(type) {
	case []any:
		field.IsList = true
		if len(v) == 0 {
			return
		}
		obj, ok := v[0].(map[string]any)
		if !ok {
			return
		}
		if tn, ok := obj["__typename"].(string); ok {
			field.TypeName = tn
			e.registerType(tn)
		}
	case map[string]any:
		if tn, ok := v["__typename"].(string); ok {
			field.TypeName = tn
			e.registerType(tn)
		}
	}
}

func (e *Engine) probeFieldAsScalar(ctx context.Context, field *InferredField, name, operation string) {
	query := fmt.Sprintf("%s { %s }", operation, name)
	resp, err := e.client.PostGraphQL(ctx, e.url, query, nil, "inference")
	if err != nil || !resp.HasData() {
		return
	}
	value, ok := resp.Data()[name]
	if !ok {
		return
	}
	field.TypeName = inferScalarType(value)
	if _, isArray := value.([]any); isArray {
		field.IsList = true
	}
}

// probeFieldArgs probes the common-argument wordlist against one
// field, per 4.5.3. Transport failures for a single argument are
// swallowed; the argument is simply not recorded.
//
// TODO: only the null-sentinel pass is implemented. A second pass that
// resends with a deliberately wrong scalar (e.g. a string where an Int
// is expected) would recover the argument's real type instead of
// whatever extractTypeFromError happens to scrape from the error text.
func (e *Engine) probeFieldArgs(ctx context.Context, fieldName, operation string) []InferredArg {
	queue := append([]string{}, commonArgNames...)
	checked := map[string]bool{}
	var args []InferredArg

	for len(queue) > 0 {
		arg := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if checked[arg] {
			continue
		}
		checked[arg] = true

		query := fmt.Sprintf("%s { %s(%s: null) }", operation, fieldName, arg)
		resp, err := e.client.PostGraphQL(ctx, e.url, query, nil, "inference")
		if err != nil {
			continue
		}

		for _, msg := range resp.ErrorMessages() {
			if cap := suggestionsRegex.FindStringSubmatch(msg); cap != nil {
				for _, w := range extractQuotedWords(cap[1]) {
					if !checked[w] {
						queue = append(queue, w)
					}
				}
			}

			lower := strings.ToLower(msg)
			isUnknown := strings.Contains(lower, "unknown argument") || strings.Contains(lower, "no argument")
			if !isUnknown && (strings.Contains(msg, arg) || strings.Contains(msg, "expected") || strings.Contains(msg, "type")) {
				args = append(args, InferredArg{Name: arg, TypeName: extractTypeFromError(msg)})
				break
			}
		}
	}

	return args
}

// registerType records name as an OBJECT stub, unless it's a builtin
// scalar, an introspection meta-type, or already known.
func (e *Engine) registerType(name string) {
	if name == "" || scalarTypes[name] || strings.HasPrefix(name, "__") {
		return
	}
	if _, ok := e.discoveredTypes[name]; ok {
		return
	}
	e.discoveredTypes[name] = &InferredType{Name: name, Kind: "OBJECT"}
}

// inferScalarType infers a GraphQL scalar kind from a decoded JSON
// value's shape.
func inferScalarType(value any) string {
	switch v := value.(type) {
	case string:
		return "String"
	case float64:
		if v == float64(int64(v)) {
			return "Int"
		}
		return "Float"
	case bool:
		return "Boolean"
	case []any:
		if len(v) > 0 {
			return inferScalarType(v[0])
		}
		return "String"
	default:
		return "String"
	}
}

// ToIntrospectionFormat renders an InferredSchema into the same
// `data.__schema.types[...]` shape the introspection client emits, so
// downstream consumers (export) can treat either interchangeably.
func (e *Engine) ToIntrospectionFormat(s *InferredSchema) map[string]any {
	var types []map[string]any

	for _, scalar := range orderedScalarNames {
		types = append(types, map[string]any{
			"kind": "SCALAR", "name": scalar, "description": nil,
			"fields": nil, "inputFields": nil, "interfaces": []any{},
			"enumValues": nil, "possibleTypes": nil,
		})
	}

	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		it := s.Types[name]
		var fields []map[string]any
		for _, f := range it.Fields {
			fields = append(fields, fieldToIntrospectionFormat(f))
		}

		var fieldsVal any
		if len(fields) > 0 {
			fieldsVal = fields
		}

		types = append(types, map[string]any{
			"kind": it.Kind, "name": it.Name, "description": nil,
			"fields": fieldsVal, "inputFields": nil, "interfaces": []any{},
			"enumValues": nil, "possibleTypes": nil,
		})
	}

	return map[string]any{
		"data": map[string]any{
			"__schema": map[string]any{
				"queryType":        typeRefName(s.QueryType),
				"mutationType":     typeRefName(s.MutationType),
				"subscriptionType": typeRefName(s.SubscriptionType),
				"types":            types,
				"directives":       []any{},
			},
		},
	}
}

func fieldToIntrospectionFormat(f InferredField) map[string]any {
	typeName := f.TypeName
	if typeName == "" {
		typeName = "String"
	}
	kind := "OBJECT"
	if scalarTypes[typeName] {
		kind = "SCALAR"
	}

	var args []map[string]any
	for _, a := range f.Args {
		argType := a.TypeName
		if argType == "" {
			argType = "String"
		}
		args = append(args, map[string]any{
			"name": a.Name, "description": nil,
			"type":         map[string]any{"kind": "SCALAR", "name": argType, "ofType": nil},
			"defaultValue": nil,
		})
	}

	var typeRef map[string]any
	if f.IsList {
		typeRef = map[string]any{
			"kind": "LIST", "name": nil,
			"ofType": map[string]any{"kind": kind, "name": typeName, "ofType": nil},
		}
	} else {
		typeRef = map[string]any{"kind": kind, "name": typeName, "ofType": nil}
	}

	return map[string]any{
		"name": f.Name, "description": nil, "args": args,
		"type": typeRef, "isDeprecated": false, "deprecationReason": nil,
	}
}

func typeRefName(t *InferredType) any {
	if t == nil {
		return nil
	}
	return map[string]any{"name": t.Name}
}
