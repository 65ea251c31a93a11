package inference

import "testing"

func TestIsValidGraphQLName(t *testing.T) {
	cases := map[string]bool{
		"user":       true,
		"_private":   true,
		"user2":      true,
		"2user":      false,
		"user-name":  false,
		"":           false,
		"user name":  false,
	}
	for name, want := range cases {
		if got := isValidGraphQLName(name); got != want {
			t.Errorf("isValidGraphQLName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestExtractQuotedWords(t *testing.T) {
	got := extractQuotedWords(`"user", "users" or "me"?`)
	want := []string{"user", "users", "me"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractTypeFromError(t *testing.T) {
	cases := map[string]string{
		`Expected type "Int", found "abc".`: "Int",
		`Argument has invalid type String`:  "String",
		`no type mentioned here at all`:     "mentioned",
	}
	for msg, want := range cases {
		if got := extractTypeFromError(msg); got != want {
			t.Errorf("extractTypeFromError(%q) = %q, want %q", msg, got, want)
		}
	}
}

func TestInferScalarType(t *testing.T) {
	cases := []struct {
		value any
		want  string
	}{
		{"hello", "String"},
		{float64(5), "Int"},
		{float64(5.5), "Float"},
		{true, "Boolean"},
		{[]any{float64(1), float64(2)}, "Int"},
		{[]any{}, "String"},
		{nil, "String"},
	}
	for _, tc := range cases {
		if got := inferScalarType(tc.value); got != tc.want {
			t.Errorf("inferScalarType(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestSuggestionsRegex(t *testing.T) {
	msg := `Cannot query field "usr" on type "Query". Did you mean "user" or "users"?`
	cap := suggestionsRegex.FindStringSubmatch(msg)
	if cap == nil {
		t.Fatal("expected suggestions regex to match")
	}
	words := extractQuotedWords(cap[1])
	if len(words) != 2 || words[0] != "user" || words[1] != "users" {
		t.Errorf("got %v, want [user users]", words)
	}
}

func TestSubselectionRegex(t *testing.T) {
	msg := `Subselection required for type "UserQuery" of field "user"`
	cap := subselectionRegex.FindStringSubmatch(msg)
	if cap == nil {
		t.Fatal("expected subselection regex to match")
	}
	if cap[1] != "UserQuery" || cap[2] != "user" {
		t.Errorf("got type=%q field=%q", cap[1], cap[2])
	}
}

func TestMustHaveSelectionRegex(t *testing.T) {
	msg := `Field "user" of type "User" must have a selection of subfields`
	cap := mustHaveSelectionRegex.FindStringSubmatch(msg)
	if cap == nil {
		t.Fatal("expected must-have-selection regex to match")
	}
	if cap[1] != "user" || cap[2] != "User" {
		t.Errorf("got field=%q type=%q", cap[1], cap[2])
	}
}

func TestMustNotHaveSelectionRegex(t *testing.T) {
	msg := `Field "name" must not have a selection since type "String" has no subfields`
	cap := mustNotHaveSelectionRegex.FindStringSubmatch(msg)
	if cap == nil {
		t.Fatal("expected must-not-have-selection regex to match")
	}
	if cap[1] != "name" || cap[2] != "String" {
		t.Errorf("got field=%q type=%q", cap[1], cap[2])
	}
}

func TestFieldErrorRegex(t *testing.T) {
	msg := `Cannot query field "bogus" on type "User"`
	cap := fieldErrorRegex.FindStringSubmatch(msg)
	if cap == nil {
		t.Fatal("expected field-error regex to match")
	}
	if cap[1] != "bogus" || cap[2] != "User" {
		t.Errorf("got field=%q type=%q", cap[1], cap[2])
	}
}
