package router

import (
	"fmt"
	"strings"
)

// predicates are the names usable in {name:pred} pattern segments.
var predicates = map[string]Predicate{
	"digits":   Digits,
	"alnum":    Alnum,
	"nonempty": NonEmpty,
}

// Parse compiles a path pattern such as "/users/{id:digits}/*".
//
// Segments are literals, {name} parameters matching any non-empty segment,
// {name:pred} parameters guarded by a named predicate (digits, alnum,
// nonempty), or a final * or *name capturing the rest of the path. A bare *
// captures under the name "*".
func Parse(pattern string) (Matcher, error) {
	if !strings.HasPrefix(pattern, "/") {
		return Matcher{}, fmt.Errorf("%w: %q must start with '/'", ErrInvalidPattern, pattern)
	}
	segs := strings.Split(pattern[1:], "/")
	parts := make([]Part, 0, len(segs))
	for i, seg := range segs {
		switch {
		case strings.HasPrefix(seg, "*"):
			if i != len(segs)-1 {
				return Matcher{}, fmt.Errorf("%w: %q: wildcard must be last", ErrInvalidPattern, pattern)
			}
			name := seg[1:]
			if name == "" {
				name = "*"
			}
			parts = append(parts, Rest(name))
		case strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}"):
			name, predName, hasPred := strings.Cut(seg[1:len(seg)-1], ":")
			if name == "" || strings.ContainsAny(name, "{}*") {
				return Matcher{}, fmt.Errorf("%w: %q: bad parameter %q", ErrInvalidPattern, pattern, seg)
			}
			if !hasPred {
				parts = append(parts, Param(name, NonEmpty))
				continue
			}
			pred, ok := predicates[predName]
			if !ok {
				return Matcher{}, fmt.Errorf("%w: %q: unknown predicate %q", ErrInvalidPattern, pattern, predName)
			}
			parts = append(parts, Param(name, pred))
		case strings.ContainsAny(seg, "{}"):
			return Matcher{}, fmt.Errorf("%w: %q: bad segment %q", ErrInvalidPattern, pattern, seg)
		default:
			parts = append(parts, Lit(seg))
		}
	}
	return Pattern(parts...), nil
}

// MustParse is like Parse but panics on error.
func MustParse(pattern string) Matcher {
	m, err := Parse(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseSub compiles a pattern matched against the current subpath.
func ParseSub(pattern string) (Matcher, error) {
	m, err := Parse(pattern)
	if err != nil {
		return Matcher{}, err
	}
	return m.atSubpath(), nil
}

// MustParseSub is like ParseSub but panics on error.
func MustParseSub(pattern string) Matcher {
	return MustParse(pattern).atSubpath()
}
