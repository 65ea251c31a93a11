// Package inference reconstructs a GraphQL schema without introspection
// privileges by mining error messages from invalid queries — the
// "clairvoyance" technique: seed a work-queue with candidate field
// names, probe each, and harvest suggestions the server leaks back.
package inference

// scalarTypes are the built-in GraphQL scalar names; they never get an
// OBJECT stub registered for them.
var scalarTypes = map[string]bool{
	"String": true, "Int": true, "Float": true, "Boolean": true, "ID": true,
}

// InferredSchema is the weaker, introspection-shaped schema this
// engine is able to reconstruct from error-message mining alone.
type InferredSchema struct {
	QueryType        *InferredType
	MutationType     *InferredType
	SubscriptionType *InferredType
	Types            map[string]*InferredType
}

// InferredType is a type discovered either as a root operation type or
// as the stub registered when a field error named it.
type InferredType struct {
	Name   string
	Kind   string
	Fields []InferredField
}

// InferredField is a field discovered on a root or stub type.
type InferredField struct {
	Name      string
	TypeName  string
	IsList    bool
	IsNonNull bool
	Args      []InferredArg
}

// InferredArg is an argument discovered on a field.
type InferredArg struct {
	Name     string
	TypeName string
}
