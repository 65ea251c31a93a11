package schema

// RecursivePath names a root field whose base type has a field whose
// base type is the root field's own base type — the two-hop cycle the
// depth-limit probe nests 64 levels deep.
type RecursivePath struct {
	RootField  string
	InnerField string
	TypeName   string
}

// FindRecursivePath searches the query root for a field F1 of type T
// where T itself has a field F2 also of type T. Returns the first such
// pair found, in type-declaration order.
func FindRecursivePath(s *Schema) (*RecursivePath, bool) {
	root := s.QueryTypeDef()
	if root == nil {
		return nil, false
	}

	for _, f := range root.Fields {
		typeName := f.Type.BaseTypeName()
		if typeName == "" {
			continue
		}
		t := s.GetType(typeName)
		if t == nil {
			continue
		}
		for _, inner := range t.Fields {
			if inner.Type.BaseTypeName() == typeName {
				return &RecursivePath{
					RootField:  f.Name,
					InnerField: inner.Name,
					TypeName:   typeName,
				}, true
			}
		}
	}
	return nil, false
}

// ListChain names a root list field whose element type has a list
// field, which itself has any inner field — the triply-nested shape
// the query-complexity probe submits.
type ListChain struct {
	RootField  string
	MiddleField string
	InnerField string
}

// FindListChain searches the query root for a list field whose base
// type has a list field, whose base type has any field at all.
func FindListChain(s *Schema) (*ListChain, bool) {
	root := s.QueryTypeDef()
	if root == nil {
		return nil, false
	}

	for _, f := range root.Fields {
		if !f.Type.IsList() {
			continue
		}
		outerType := s.GetType(f.Type.BaseTypeName())
		if outerType == nil {
			continue
		}
		for _, mid := range outerType.Fields {
			if !mid.Type.IsList() {
				continue
			}
			innerType := s.GetType(mid.Type.BaseTypeName())
			if innerType == nil || len(innerType.Fields) == 0 {
				continue
			}
			return &ListChain{
				RootField:   f.Name,
				MiddleField: mid.Name,
				InnerField:  innerType.Fields[0].Name,
			}, true
		}
	}
	return nil, false
}
