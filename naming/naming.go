// Package naming provides the naming policies applied to member names that
// carry no explicit wire name.
package naming

import (
	"fmt"
	"strings"

	"wiremeta/internal/match"
)

// Mutator transforms a declared Go member name into a wire name.
type Mutator func(string) string

// Original keeps the declared name.
func Original(name string) string {
	return name
}

// Lower lowercases the whole name: "UserID" -> "userid".
func Lower(name string) string {
	return strings.ToLower(name)
}

// CamelCase lowercases the first word: "UserID" -> "userID", "HTTPServer" -> "httpServer".
func CamelCase(name string) string {
	words := match.SplitIdent(name)
	if len(words) == 0 {
		return name
	}

	words[0] = strings.ToLower(words[0])

	return strings.Join(words, "")
}

// SnakeCase joins lowercase words with underscores: "UserID" -> "user_id".
func SnakeCase(name string) string {
	return strings.Join(match.TokenizeIdent(name), "_")
}

// KebabCase joins lowercase words with dashes: "UserID" -> "user-id".
func KebabCase(name string) string {
	return strings.Join(match.TokenizeIdent(name), "-")
}

var policies = map[string]Mutator{
	"original": Original,
	"lower":    Lower,
	"camel":    CamelCase,
	"snake":    SnakeCase,
	"kebab":    KebabCase,
}

// Lookup returns the policy registered under name ("original", "lower",
// "camel", "snake" or "kebab"). An empty name selects Original.
func Lookup(name string) (Mutator, error) {
	if name == "" {
		return Original, nil
	}

	m, ok := policies[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown naming policy %q", name)
	}

	return m, nil
}
