package inference

import "regexp"

// The dialect library: every GraphQL server phrases its validation
// errors a little differently, but these six shapes cover the common
// reference implementations (graphql-js, graphql-go, Hasura, Apollo).
var (
	// Captures everything after "Did you mean", so every quoted
	// suggestion in the clause, the last one included, reaches
	// quotedWordRegex below.
	suggestionsRegex          = regexp.MustCompile(`Did you mean (.+)`)
	fieldErrorRegex           = regexp.MustCompile(`Cannot query field ["']?(\w+)["']? on type ["']?(\w+)["']?`)
	subselectionRegex         = regexp.MustCompile(`Subselection required for type ["']?(\w+)["']? of field ["']?(\w+)["']?`)
	mustHaveSelectionRegex    = regexp.MustCompile(`Field ["']?(\w+)["']? of type ["']?(\w+)["']? must have a selection of subfields`)
	mustNotHaveSelectionRegex = regexp.MustCompile(`Field ["']?(\w+)["']? must not have a selection since type ["']?(\w+)["']? has no subfields`)
	quotedWordRegex           = regexp.MustCompile(`["'](\w+)["']`)

	validGraphQLName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	expectedTypeRegex = regexp.MustCompile(`expected type ["']?(\w+)["']?`)
	genericTypeRegex  = regexp.MustCompile(`type ["']?(\w+)["']?`)
)

// isValidGraphQLName reports whether name is a syntactically valid
// GraphQL field/type name.
func isValidGraphQLName(name string) bool {
	return name != "" && validGraphQLName.MatchString(name)
}

// extractTypeFromError pulls a type name out of error text like
// "expected type X" or the more generic "... type X ...".
func extractTypeFromError(msg string) string {
	if m := expectedTypeRegex.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	if m := genericTypeRegex.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	return ""
}

// extractQuotedWords pulls every quoted identifier out of a "Did you
// mean ..." suggestion clause.
func extractQuotedWords(s string) []string {
	matches := quotedWordRegex.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}
