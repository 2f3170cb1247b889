package exchange

import (
	"slices"
	"strings"
)

// Method is a request method token.
type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
	MethodConnect Method = "CONNECT"
)

var canonicalOrder = []Method{
	MethodGet, MethodHead, MethodPost, MethodPut, MethodPatch,
	MethodDelete, MethodOptions, MethodTrace, MethodConnect,
}

// IsSafe reports whether the method is GET or HEAD.
func (m Method) IsSafe() bool {
	return m == MethodGet || m == MethodHead
}

// SortMethods orders methods canonically (GET, HEAD, POST, PUT, PATCH,
// DELETE, OPTIONS, TRACE, CONNECT), followed by extension methods in
// lexical order. Duplicates are removed.
func SortMethods(methods []Method) []Method {
	out := slices.Clone(methods)
	rank := func(m Method) int {
		if i := slices.Index(canonicalOrder, m); i >= 0 {
			return i
		}
		return len(canonicalOrder)
	}
	slices.SortFunc(out, func(a, b Method) int {
		ra, rb := rank(a), rank(b)
		if ra != rb {
			return ra - rb
		}
		return strings.Compare(string(a), string(b))
	})
	return slices.Compact(out)
}

// AllowValue renders methods as an Allow header value. GET implies HEAD.
func AllowValue(methods []Method) string {
	ms := slices.Clone(methods)
	if slices.Contains(ms, MethodGet) && !slices.Contains(ms, MethodHead) {
		ms = append(ms, MethodHead)
	}
	ms = SortMethods(ms)
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}
