package sqlgen

import (
	"fmt"
	"strings"
	"unicode"
)

// allowedKeywords is the complete set of SQL keywords a generated query may
// use. Any recognized keyword outside this set rejects the statement, which
// makes the check an allow-list: new dangerous constructs are rejected by
// default instead of waiting for a deny pattern to name them.
var allowedKeywords = map[string]bool{
	"select": true, "distinct": true, "all": true,
	"from": true, "where": true, "and": true, "or": true, "not": true,
	"in": true, "is": true, "null": true, "like": true, "glob": true,
	"between": true, "exists": true, "escape": true,
	"group": true, "by": true, "having": true,
	"order": true, "asc": true, "desc": true, "collate": true, "nulls": true,
	"first": true, "last": true,
	"limit": true, "offset": true,
	"join": true, "inner": true, "left": true, "right": true, "full": true,
	"outer": true, "cross": true, "on": true, "using": true, "natural": true,
	"as": true, "case": true, "when": true, "then": true, "else": true, "end": true,
	"cast": true, "union": true, "intersect": true, "except": true,
	"with": true, "recursive": true,
	"true": true, "false": true,
}

// sqlKeywords is every keyword the tokenizer recognizes. Tokens outside this
// set are treated as identifiers.
var sqlKeywords = map[string]bool{
	// Statements and mutation.
	"insert": true, "update": true, "delete": true, "replace": true,
	"drop": true, "alter": true, "create": true, "truncate": true,
	"attach": true, "detach": true, "vacuum": true, "analyze": true,
	"reindex": true, "pragma": true, "explain": true,
	"begin": true, "commit": true, "rollback": true, "savepoint": true,
	"release": true, "transaction": true,
	"into": true, "values": true, "set": true, "returning": true,
	"grant": true, "revoke": true, "exec": true, "execute": true, "call": true,
	"load_extension": true, "readfile": true, "writefile": true,
}

func init() {
	for kw := range allowedKeywords {
		sqlKeywords[kw] = true
	}
}

// forbiddenIdentifierPrefixes blocks schema-introspection and system tables
// regardless of keyword status.
var forbiddenIdentifierPrefixes = []string{"sqlite_", "pg_", "information_schema"}

// Validate checks that query is one read-only SELECT statement. The scan
// tokenizes the statement, skips string literals and quoted identifiers,
// and requires every recognized keyword to be on the allow-list.
func Validate(query string) error {
	q := strings.TrimSpace(query)
	if q == "" {
		return fmt.Errorf("empty statement")
	}
	q = strings.TrimSuffix(q, ";")

	tokens, err := tokenize(q)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return fmt.Errorf("empty statement")
	}
	if first := strings.ToLower(tokens[0]); first != "select" && first != "with" {
		return fmt.Errorf("statement must start with SELECT")
	}

	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		if sqlKeywords[lower] && !allowedKeywords[lower] {
			return fmt.Errorf("keyword %q is not allowed", lower)
		}
		for _, prefix := range forbiddenIdentifierPrefixes {
			if strings.HasPrefix(lower, prefix) {
				return fmt.Errorf("identifier %q is not allowed", lower)
			}
		}
	}
	return nil
}

// tokenize splits the statement into word tokens, skipping over string
// literals, quoted identifiers, and operators. Comments and additional
// statements are rejected outright.
func tokenize(q string) ([]string, error) {
	var tokens []string
	runes := []rune(q)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\'' || r == '"' || r == '`':
			end, err := skipQuoted(runes, i, r)
			if err != nil {
				return nil, err
			}
			i = end
		case r == ';':
			return nil, fmt.Errorf("multiple statements are not allowed")
		case r == '-' && i+1 < len(runes) && runes[i+1] == '-':
			return nil, fmt.Errorf("comments are not allowed")
		case r == '/' && i+1 < len(runes) && runes[i+1] == '*':
			return nil, fmt.Errorf("comments are not allowed")
		case isWordRune(r):
			start := i
			for i < len(runes) && isWordRune(runes[i]) {
				i++
			}
			tokens = append(tokens, string(runes[start:i]))
			i--
		}
	}
	return tokens, nil
}

// skipQuoted returns the index of the closing quote, honoring doubled-quote
// escapes.
func skipQuoted(runes []rune, start int, quote rune) (int, error) {
	for i := start + 1; i < len(runes); i++ {
		if runes[i] != quote {
			continue
		}
		if i+1 < len(runes) && runes[i+1] == quote {
			i++
			continue
		}
		return i, nil
	}
	return 0, fmt.Errorf("unterminated string literal")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
