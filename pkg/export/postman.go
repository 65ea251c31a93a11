package export

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/praetorian-inc/gqlscan/pkg/schema"
)

// Postman collection types, matching the v2.1.0 collection schema.
type postmanCollection struct {
	Info postmanInfo     `json:"info"`
	Item []postmanFolder `json:"item"`
}

type postmanInfo struct {
	Name   string `json:"name"`
	Schema string `json:"schema"`
}

type postmanFolder struct {
	Name string           `json:"name"`
	Item []postmanRequest `json:"item"`
}

type postmanRequest struct {
	Name    string                `json:"name"`
	Request postmanRequestDetail `json:"request"`
}

type postmanRequestDetail struct {
	Method string          `json:"method"`
	Header []postmanHeader `json:"header"`
	Body   postmanBody     `json:"body"`
	URL    postmanURL      `json:"url"`
}

type postmanHeader struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

type postmanBody struct {
	Mode    string         `json:"mode"`
	GraphQL postmanGraphQL `json:"graphql"`
}

type postmanGraphQL struct {
	Query     string `json:"query"`
	Variables string `json:"variables"`
}

type postmanURL struct {
	Raw      string   `json:"raw"`
	Protocol string   `json:"protocol"`
	Host     []string `json:"host"`
	Path     []string `json:"path"`
}

const postmanCollectionSchemaURL = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

// PostmanExporter builds a Postman collection from a schema graph, one
// request per query/mutation root field.
type PostmanExporter struct {
	schema  *schema.Schema
	baseURL string
}

// NewPostmanExporter decodes schemaJSON and returns an Exporter bound
// to baseURL. schemaJSON may be a full introspection response
// (`{"data":{"__schema":{...}}}`, the shape both `introspect` and
// `infer` write), a `{"__schema":{...}}` object, or the bare schema
// object.
func NewPostmanExporter(schemaJSON []byte, baseURL string) (*PostmanExporter, error) {
	sch, err := decodeSchema(schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("decode schema for export: %w", err)
	}
	return &PostmanExporter{schema: sch, baseURL: baseURL}, nil
}

func decodeSchema(raw []byte) (*schema.Schema, error) {
	var withData struct {
		Data struct {
			Schema *schema.Schema `json:"__schema"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &withData); err == nil && withData.Data.Schema != nil {
		return withData.Data.Schema, nil
	}

	var withSchema struct {
		Schema *schema.Schema `json:"__schema"`
	}
	if err := json.Unmarshal(raw, &withSchema); err == nil && withSchema.Schema != nil {
		return withSchema.Schema, nil
	}

	var bare schema.Schema
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, err
	}
	return &bare, nil
}

// Export renders the collection as indented JSON.
func (e *PostmanExporter) Export() ([]byte, error) {
	var folders []postmanFolder

	if q := e.schema.QueryTypeDef(); q != nil {
		if reqs := e.requestsFor(q, "query"); len(reqs) > 0 {
			folders = append(folders, postmanFolder{Name: "Queries", Item: reqs})
		}
	}
	if m := e.schema.MutationTypeDef(); m != nil {
		if reqs := e.requestsFor(m, "mutation"); len(reqs) > 0 {
			folders = append(folders, postmanFolder{Name: "Mutations", Item: reqs})
		}
	}

	collection := postmanCollection{
		Info: postmanInfo{Name: "GraphQL API", Schema: postmanCollectionSchemaURL},
		Item: folders,
	}
	return json.MarshalIndent(collection, "", "  ")
}

func (e *PostmanExporter) requestsFor(t *schema.Type, operation string) []postmanRequest {
	var requests []postmanRequest
	for _, f := range t.Fields {
		if strings.HasPrefix(f.Name, "__") {
			continue
		}
		requests = append(requests, e.createRequest(f, operation))
	}
	return requests
}

func (e *PostmanExporter) createRequest(field schema.Field, operation string) postmanRequest {
	argsStr := buildArgsString(field.Args)
	selection := e.buildFieldSelection(&field.Type, 0, map[string]bool{})
	variables := e.buildVariablesJSON(field.Args)

	var query string
	if selection == "" {
		query = fmt.Sprintf("%s {\n  %s%s\n}", operation, field.Name, argsStr)
	} else {
		query = fmt.Sprintf("%s {\n  %s%s %s\n}", operation, field.Name, argsStr, selection)
	}

	return postmanRequest{
		Name: field.Name,
		Request: postmanRequestDetail{
			Method: "POST",
			Header: []postmanHeader{{Key: "Content-Type", Value: "application/json", Type: "text"}},
			Body: postmanBody{
				Mode:    "graphql",
				GraphQL: postmanGraphQL{Query: query, Variables: variables},
			},
			URL: parseURL(e.baseURL),
		},
	}
}

func buildArgsString(args []schema.InputValue) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%s: $%s", a.Name, a.Name)
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

func (e *PostmanExporter) buildVariablesJSON(args []schema.InputValue) string {
	if len(args) == 0 {
		return "{}"
	}
	var vars []string
	for _, a := range args {
		value := e.buildArgValue(&a.Type, 0)
		if value == "" {
			continue
		}
		vars = append(vars, fmt.Sprintf("  %q: %s", a.Name, value))
	}
	if len(vars) == 0 {
		return "{}"
	}
	return fmt.Sprintf("{\n%s\n}", strings.Join(vars, ",\n"))
}

const maxArgValueDepth = 3

// buildArgValue produces a placeholder JSON literal for an argument's
// type: zero values for scalars, the first member for enums, a
// best-effort nested object for input objects. depth bounds recursion
// through self-referencing input types.
func (e *PostmanExporter) buildArgValue(t *schema.TypeRef, depth int) string {
	if depth > maxArgValueDepth || t == nil {
		return ""
	}

	switch t.Kind {
	case "NON_NULL", "LIST":
		return e.buildArgValue(t.OfType, depth)
	case "SCALAR":
		switch t.Name {
		case "Int":
			return "0"
		case "Float":
			return "0.0"
		case "Boolean":
			return "false"
		default:
			return `""`
		}
	case "ENUM":
		enumType := e.schema.GetType(t.Name)
		if enumType == nil || len(enumType.EnumValues) == 0 {
			return ""
		}
		return fmt.Sprintf("%q", enumType.EnumValues[0].Name)
	case "INPUT_OBJECT":
		inputType := e.schema.GetType(t.Name)
		if inputType == nil {
			return "{}"
		}
		var fields []string
		for _, f := range inputType.InputFields {
			v := e.buildArgValue(&f.Type, depth+1)
			if v == "" {
				continue
			}
			fields = append(fields, fmt.Sprintf("%q: %s", f.Name, v))
		}
		return fmt.Sprintf("{ %s }", strings.Join(fields, ", "))
	default:
		return ""
	}
}

const maxSelectionDepth = 2
const maxFieldFanout = 10

var scalarBaseTypes = map[string]bool{"String": true, "Int": true, "Float": true, "Boolean": true, "ID": true}

// buildFieldSelection produces a GraphQL selection set for t, bounded
// to maxSelectionDepth levels and maxFieldFanout fields per level, and
// skipping a type once already on the current path to avoid infinite
// recursion through self-referencing object types.
func (e *PostmanExporter) buildFieldSelection(t *schema.TypeRef, depth int, visited map[string]bool) string {
	if depth > maxSelectionDepth {
		return ""
	}

	baseName := t.BaseTypeName()
	if baseName == "" || scalarBaseTypes[baseName] {
		return ""
	}

	objectType := e.schema.GetType(baseName)
	if objectType == nil || objectType.Kind == "ENUM" || objectType.Kind == "SCALAR" {
		return ""
	}
	if visited[baseName] {
		return ""
	}
	if objectType.Kind != "OBJECT" && objectType.Kind != "INTERFACE" {
		return ""
	}
	if len(objectType.Fields) == 0 {
		return ""
	}

	visited[baseName] = true
	defer delete(visited, baseName)

	indent := strings.Repeat("  ", depth+2)
	var lines []string
	count := 0
	for _, f := range objectType.Fields {
		if strings.HasPrefix(f.Name, "__") {
			continue
		}
		if count >= maxFieldFanout {
			break
		}
		count++
		sub := e.buildFieldSelection(&f.Type, depth+1, visited)
		if sub == "" {
			lines = append(lines, indent+f.Name)
		} else {
			lines = append(lines, fmt.Sprintf("%s%s %s", indent, f.Name, sub))
		}
	}

	if len(lines) == 0 {
		return ""
	}
	closeIndent := strings.Repeat("  ", depth+1)
	return fmt.Sprintf("{\n%s\n%s}", strings.Join(lines, "\n"), closeIndent)
}

func parseURL(rawURL string) postmanURL {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		parsed, _ = url.Parse("http://localhost")
	}

	host := strings.Split(parsed.Hostname(), ".")
	var path []string
	for _, seg := range strings.Split(parsed.Path, "/") {
		if seg != "" {
			path = append(path, seg)
		}
	}

	return postmanURL{
		Raw:      rawURL,
		Protocol: parsed.Scheme,
		Host:     host,
		Path:     path,
	}
}
