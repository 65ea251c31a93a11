// Package schema holds the GraphQL schema graph as reconstructed by
// introspection, and the traversal helpers the DoS probes use to find
// recursive and list-chained paths through it.
package schema

// Schema is the top-level introspection result.
type Schema struct {
	QueryType        *TypeName   `json:"queryType"`
	MutationType     *TypeName   `json:"mutationType"`
	SubscriptionType *TypeName   `json:"subscriptionType"`
	Types            []Type      `json:"types"`
	Directives       []Directive `json:"directives"`
}

// TypeName names the root operation type.
type TypeName struct {
	Name string `json:"name"`
}

// Type is a single named type in the schema (object, interface, union,
// enum, input object, or scalar).
type Type struct {
	Kind          string       `json:"kind"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Fields        []Field      `json:"fields"`
	InputFields   []InputValue `json:"inputFields"`
	Interfaces    []TypeRef    `json:"interfaces"`
	EnumValues    []EnumValue  `json:"enumValues"`
	PossibleTypes []TypeRef    `json:"possibleTypes"`
}

// Field is a field on an object or interface type.
type Field struct {
	Name              string       `json:"name"`
	Description       string       `json:"description"`
	Args              []InputValue `json:"args"`
	Type              TypeRef      `json:"type"`
	IsDeprecated      bool         `json:"isDeprecated"`
	DeprecationReason string       `json:"deprecationReason"`
}

// InputValue is an argument or an input-object field.
type InputValue struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Type         TypeRef `json:"type"`
	DefaultValue string  `json:"defaultValue"`
}

// TypeRef is the wrapper chain the introspection protocol uses to
// express NON_NULL and LIST modifiers around a named type. The
// canonical introspection query unwraps 8 levels deep.
type TypeRef struct {
	Kind   string   `json:"kind"`
	Name   string   `json:"name"`
	OfType *TypeRef `json:"ofType"`
}

// EnumValue is a single member of an enum type.
type EnumValue struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	IsDeprecated      bool   `json:"isDeprecated"`
	DeprecationReason string `json:"deprecationReason"`
}

// Directive describes a schema directive definition.
type Directive struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Locations   []string     `json:"locations"`
	Args        []InputValue `json:"args"`
}

// BaseTypeName unwraps NON_NULL/LIST modifiers and returns the named
// type at the bottom of the chain.
func (t *TypeRef) BaseTypeName() string {
	if t == nil {
		return ""
	}
	if t.Name != "" {
		return t.Name
	}
	return t.OfType.BaseTypeName()
}

// IsList reports whether any level of the wrapper chain is a LIST.
func (t *TypeRef) IsList() bool {
	if t == nil {
		return false
	}
	if t.Kind == "LIST" {
		return true
	}
	return t.OfType.IsList()
}

// IsNonNull reports whether the outermost wrapper is NON_NULL.
func (t *TypeRef) IsNonNull() bool {
	return t != nil && t.Kind == "NON_NULL"
}

// QueryTypeDef returns the query root type, if declared.
func (s *Schema) QueryTypeDef() *Type {
	if s.QueryType == nil {
		return nil
	}
	return s.GetType(s.QueryType.Name)
}

// MutationTypeDef returns the mutation root type, if declared.
func (s *Schema) MutationTypeDef() *Type {
	if s.MutationType == nil {
		return nil
	}
	return s.GetType(s.MutationType.Name)
}

// SubscriptionTypeDef returns the subscription root type, if declared.
func (s *Schema) SubscriptionTypeDef() *Type {
	if s.SubscriptionType == nil {
		return nil
	}
	return s.GetType(s.SubscriptionType.Name)
}

// GetType returns the named type, or nil.
func (s *Schema) GetType(name string) *Type {
	for i := range s.Types {
		if s.Types[i].Name == name {
			return &s.Types[i]
		}
	}
	return nil
}

// UserTypes returns every type not part of the introspection
// meta-schema (whose name does not start with "__").
func (s *Schema) UserTypes() []Type {
	var out []Type
	for _, t := range s.Types {
		if t.Name == "" || len(t.Name) >= 2 && t.Name[:2] == "__" {
			continue
		}
		out = append(out, t)
	}
	return out
}
