package exchange

import "strings"

// Query is an ordered multi-valued parameter map. Keys keep the order of
// their first appearance and values the order they arrived in.
type Query struct {
	keys   []string
	values map[string][]string
}

// NewQuery returns an empty query.
func NewQuery() *Query {
	return &Query{values: make(map[string][]string)}
}

// Add appends value to key.
func (q *Query) Add(key, value string) {
	if _, ok := q.values[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.values[key] = append(q.values[key], value)
}

// Get returns the first value of key, or "".
func (q *Query) Get(key string) string {
	if q == nil {
		return ""
	}
	if vv := q.values[key]; len(vv) > 0 {
		return vv[0]
	}
	return ""
}

// Values returns every value of key in arrival order.
func (q *Query) Values(key string) []string {
	if q == nil {
		return nil
	}
	return q.values[key]
}

// Has reports whether key appeared at least once.
func (q *Query) Has(key string) bool {
	if q == nil {
		return false
	}
	_, ok := q.values[key]
	return ok
}

// Keys returns the distinct keys in order of first appearance.
func (q *Query) Keys() []string {
	if q == nil {
		return nil
	}
	return append([]string(nil), q.keys...)
}

// Len returns the number of distinct keys.
func (q *Query) Len() int {
	if q == nil {
		return 0
	}
	return len(q.keys)
}

// ParseQuery parses an application/x-www-form-urlencoded string. Separators
// are only recognised as raw bytes, so "%26" and "%3D" decode to literals.
func ParseQuery(s string) (*Query, error) {
	q := NewQuery()
	for s != "" {
		var pair string
		pair, s, _ = strings.Cut(s, "&")
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := UnescapeQuery(rawKey)
		if err != nil {
			return nil, err
		}
		value, err := UnescapeQuery(rawValue)
		if err != nil {
			return nil, err
		}
		q.Add(key, value)
	}
	return q, nil
}
