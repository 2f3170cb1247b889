package router

import "strings"

// Predicate tests a captured segment.
type Predicate func(string) bool

// Digits accepts one or more ASCII digits.
func Digits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Alnum accepts one or more ASCII letters or digits.
func Alnum(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

// NonEmpty accepts any non-empty segment.
func NonEmpty(s string) bool { return s != "" }

type partKind uint8

const (
	partLit partKind = iota
	partParam
	partRest
)

// Part is one element of a segment pattern.
type Part struct {
	kind  partKind
	value string // literal text or capture name
	preds []Predicate
}

// Lit matches one segment exactly.
func Lit(segment string) Part {
	if strings.Contains(segment, "/") {
		panic("Lit: segment must not contain '/'")
	}
	return Part{kind: partLit, value: segment}
}

// Param captures one segment under name when every predicate accepts it.
func Param(name string, preds ...Predicate) Part {
	if name == "" {
		panic("Param: empty name")
	}
	return Part{kind: partParam, value: name, preds: preds}
}

// Rest captures all remaining segments, possibly none, under name and
// makes them the subpath for nested matchers. It must be the last part.
func Rest(name string) Part {
	if name == "" {
		panic("Rest: empty name")
	}
	return Part{kind: partRest, value: name}
}

type matchKind uint8

const (
	matchExact matchKind = iota
	matchPrefix
	matchPattern
)

// Matcher tests the request path, or the subpath captured by an enclosing
// matcher, and yields captures. The zero value matches nothing.
type Matcher struct {
	kind  matchKind
	sub   bool
	lit   string
	parts []Part
}

// Exact matches a path equal to p.
func Exact(p string) Matcher { return Matcher{kind: matchExact, lit: p} }

// Prefix matches p itself or any path below it on a segment boundary. The
// remainder, with its leading slash, becomes the subpath.
func Prefix(p string) Matcher {
	return Matcher{kind: matchPrefix, lit: strings.TrimSuffix(p, "/")}
}

// Pattern matches path segments against parts in order.
func Pattern(parts ...Part) Matcher {
	for i, p := range parts {
		if p.kind == partRest && i != len(parts)-1 {
			panic("Pattern: Rest must be the last part")
		}
	}
	return Matcher{kind: matchPattern, parts: parts}
}

// SubExact is Exact applied to the current subpath.
func SubExact(p string) Matcher { return Exact(p).atSubpath() }

// SubPrefix is Prefix applied to the current subpath.
func SubPrefix(p string) Matcher { return Prefix(p).atSubpath() }

// SubPattern is Pattern applied to the current subpath.
func SubPattern(parts ...Part) Matcher { return Pattern(parts...).atSubpath() }

func (m Matcher) atSubpath() Matcher {
	m.sub = true
	return m
}

// capture is one named value produced by a match.
type capture struct {
	name  string
	value string
}

// match tests input. On success it returns the captures and the new
// subpath, with hasSub false when the matcher leaves the subpath unchanged.
func (m Matcher) match(input string) (caps []capture, sub string, hasSub, ok bool) {
	switch m.kind {
	case matchExact:
		return nil, "", false, input == m.lit
	case matchPrefix:
		switch {
		case input == m.lit:
			return nil, "/", true, true
		case strings.HasPrefix(input, m.lit+"/"):
			return nil, input[len(m.lit):], true, true
		}
		return nil, "", false, false
	case matchPattern:
		return m.matchSegments(input)
	}
	return nil, "", false, false
}

func (m Matcher) matchSegments(input string) ([]capture, string, bool, bool) {
	if !strings.HasPrefix(input, "/") {
		return nil, "", false, false
	}
	segs := strings.Split(input[1:], "/")
	var caps []capture
	for i, p := range m.parts {
		if p.kind == partRest {
			rest := strings.Join(segs[min(i, len(segs)):], "/")
			caps = append(caps, capture{name: p.value, value: rest})
			return caps, "/" + rest, true, true
		}
		if i >= len(segs) {
			return nil, "", false, false
		}
		seg := segs[i]
		switch p.kind {
		case partLit:
			if seg != p.value {
				return nil, "", false, false
			}
		case partParam:
			for _, pred := range p.preds {
				if !pred(seg) {
					return nil, "", false, false
				}
			}
			caps = append(caps, capture{name: p.value, value: seg})
		}
	}
	if len(segs) != len(m.parts) {
		return nil, "", false, false
	}
	return caps, "", false, true
}
