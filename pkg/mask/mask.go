// Package mask replaces sensitive values in structured documents and
// header-style maps before they are logged.
//
// A field is masked when its key matches any pattern in a Set. Patterns use
// simple wildcards: `*` matches any run of characters, matching is
// case-insensitive, and the pattern is anchored at both ends of the key.
// Matching considers the member's own key at every depth, so a `token` key
// buried three objects deep still matches `*token*`.
package mask

import (
	"encoding/json"
	"strings"

	"github.com/ryanuber/go-glob"
)

// DefaultToken is the replacement written over masked values.
const DefaultToken = "*** MASKED ***"

// DefaultPatterns covers the field names most commonly carrying credentials.
var DefaultPatterns = []string{
	"*password*",
	"*secret*",
	"*token*",
	"*authorization*",
	"*cookie*",
	"*apikey*",
	"*api_key*",
}

// Set is a compiled, case-folded collection of wildcard patterns.
type Set struct {
	patterns []string
}

// NewSet builds a Set from wildcard patterns. Empty patterns are dropped.
func NewSet(patterns []string) *Set {
	s := &Set{patterns: make([]string, 0, len(patterns))}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		s.patterns = append(s.patterns, strings.ToLower(p))
	}
	return s
}

// Empty reports whether the set contains no patterns.
func (s *Set) Empty() bool {
	return s == nil || len(s.patterns) == 0
}

// Match reports whether the key matches any pattern in the set.
func (s *Set) Match(key string) bool {
	if s.Empty() {
		return false
	}
	key = strings.ToLower(key)
	for _, p := range s.patterns {
		if glob.Glob(p, key) {
			return true
		}
	}
	return false
}

// Document walks a parsed JSON tree and replaces the value of every object
// member whose key matches the set with token. Arrays and unmatched members
// are recursed into. The input tree is mutated and returned; callers must not
// rely on the result aliasing the input.
func Document(doc any, s *Set, token string) any {
	if s.Empty() {
		return doc
	}
	switch v := doc.(type) {
	case map[string]any:
		for key, val := range v {
			if s.Match(key) {
				v[key] = token
			} else {
				v[key] = Document(val, s, token)
			}
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = Document(item, s, token)
		}
		return v
	default:
		return doc
	}
}

// Values masks a flat multi-value map such as an http.Header: every value of
// a matching key is replaced by token. A new map is returned; value slices
// for unmatched keys are shared with the input.
func Values(m map[string][]string, s *Set, token string) map[string][]string {
	if m == nil {
		return nil
	}
	out := make(map[string][]string, len(m))
	for key, vals := range m {
		if s.Match(key) {
			masked := make([]string, len(vals))
			for i := range masked {
				masked[i] = token
			}
			out[key] = masked
			continue
		}
		out[key] = vals
	}
	return out
}

// ParseDocument parses text as a JSON document. Only objects and arrays count
// as maskable structure; scalars and malformed input report ok == false so
// the caller can fall back to raw text.
func ParseDocument(text string) (doc any, ok bool) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return nil, false
	}
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, false
	}
	return doc, true
}

// Render serializes a masked document back to compact JSON for the text form
// of a captured body. Failures report ok == false; they should not happen for
// trees produced by ParseDocument.
func Render(doc any) (string, bool) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", false
	}
	return string(data), true
}
