package exchange

import "strings"

// HeaderName is a header field name in canonical form.
type HeaderName string

// Known header names. Parsed names matching one of these resolve to the
// constant without allocating.
const (
	HeaderAccept           HeaderName = "Accept"
	HeaderAcceptEncoding   HeaderName = "Accept-Encoding"
	HeaderAcceptLanguage   HeaderName = "Accept-Language"
	HeaderAllow            HeaderName = "Allow"
	HeaderAuthorization    HeaderName = "Authorization"
	HeaderCacheControl     HeaderName = "Cache-Control"
	HeaderConnection       HeaderName = "Connection"
	HeaderContentEncoding  HeaderName = "Content-Encoding"
	HeaderContentLength    HeaderName = "Content-Length"
	HeaderContentType      HeaderName = "Content-Type"
	HeaderCookie           HeaderName = "Cookie"
	HeaderDate             HeaderName = "Date"
	HeaderETag             HeaderName = "ETag"
	HeaderExpect           HeaderName = "Expect"
	HeaderHost             HeaderName = "Host"
	HeaderIfModifiedSince  HeaderName = "If-Modified-Since"
	HeaderIfNoneMatch      HeaderName = "If-None-Match"
	HeaderLastModified     HeaderName = "Last-Modified"
	HeaderLocation         HeaderName = "Location"
	HeaderOrigin           HeaderName = "Origin"
	HeaderReferer          HeaderName = "Referer"
	HeaderServer           HeaderName = "Server"
	HeaderSetCookie        HeaderName = "Set-Cookie"
	HeaderTransferEncoding HeaderName = "Transfer-Encoding"
	HeaderUpgrade          HeaderName = "Upgrade"
	HeaderUserAgent        HeaderName = "User-Agent"
	HeaderVary             HeaderName = "Vary"
)

var knownHeaders = func() map[string]HeaderName {
	names := []HeaderName{
		HeaderAccept, HeaderAcceptEncoding, HeaderAcceptLanguage, HeaderAllow,
		HeaderAuthorization, HeaderCacheControl, HeaderConnection,
		HeaderContentEncoding, HeaderContentLength, HeaderContentType,
		HeaderCookie, HeaderDate, HeaderETag, HeaderExpect, HeaderHost,
		HeaderIfModifiedSince, HeaderIfNoneMatch, HeaderLastModified,
		HeaderLocation, HeaderOrigin, HeaderReferer, HeaderServer,
		HeaderSetCookie, HeaderTransferEncoding, HeaderUpgrade,
		HeaderUserAgent, HeaderVary,
	}
	m := make(map[string]HeaderName, len(names))
	for _, n := range names {
		m[strings.ToLower(string(n))] = n
	}
	return m
}()

// CanonicalHeaderName resolves name case-insensitively. Known names map to
// their constant; others are title-cased per dash-separated word.
func CanonicalHeaderName(name string) HeaderName {
	return canonicalHeaderBytes([]byte(name))
}

// canonicalHeaderBytes lowercases b in place and resolves it.
func canonicalHeaderBytes(b []byte) HeaderName {
	for i, c := range b {
		b[i] = lower(c)
	}
	if known, ok := knownHeaders[string(b)]; ok {
		return known
	}
	upper := true
	for i, c := range b {
		if upper && c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
		upper = c == '-'
	}
	return HeaderName(b)
}

// Field is a single header line.
type Field struct {
	Name  HeaderName
	Value string
}

// Header is an ordered header multimap. Names are compared in canonical
// form; reads return the first occurrence.
type Header struct {
	fields []Field
}

// NewHeader returns an empty header set.
func NewHeader() *Header {
	return &Header{}
}

// Get returns the first value for name, or "".
func (h *Header) Get(name HeaderName) string {
	v, _ := h.Lookup(name)
	return v
}

// Lookup returns the first value for name and whether it is present.
func (h *Header) Lookup(name HeaderName) (string, bool) {
	if h == nil {
		return "", false
	}
	name = CanonicalHeaderName(string(name))
	for _, f := range h.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Has reports whether name is present.
func (h *Header) Has(name HeaderName) bool {
	_, ok := h.Lookup(name)
	return ok
}

// Values returns every value for name in order.
func (h *Header) Values(name HeaderName) []string {
	if h == nil {
		return nil
	}
	name = CanonicalHeaderName(string(name))
	var vv []string
	for _, f := range h.fields {
		if f.Name == name {
			vv = append(vv, f.Value)
		}
	}
	return vv
}

// Add appends a field.
func (h *Header) Add(name HeaderName, value string) {
	h.fields = append(h.fields, Field{Name: CanonicalHeaderName(string(name)), Value: value})
}

// Set replaces every occurrence of name with a single value, keeping the
// position of the first one.
func (h *Header) Set(name HeaderName, value string) {
	name = CanonicalHeaderName(string(name))
	out := h.fields[:0]
	replaced := false
	for _, f := range h.fields {
		if f.Name != name {
			out = append(out, f)
			continue
		}
		if !replaced {
			out = append(out, Field{Name: name, Value: value})
			replaced = true
		}
	}
	h.fields = out
	if !replaced {
		h.fields = append(h.fields, Field{Name: name, Value: value})
	}
}

// Del removes every occurrence of name.
func (h *Header) Del(name HeaderName) {
	name = CanonicalHeaderName(string(name))
	out := h.fields[:0]
	for _, f := range h.fields {
		if f.Name != name {
			out = append(out, f)
		}
	}
	h.fields = out
}

// Fields returns a copy of all fields in order.
func (h *Header) Fields() []Field {
	if h == nil {
		return nil
	}
	return append([]Field(nil), h.fields...)
}

// Len returns the number of fields.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.fields)
}

func (h *Header) reset() {
	h.fields = h.fields[:0]
}

// hasToken reports whether any comma-separated element of the name's values
// equals token, ignoring case.
func (h *Header) hasToken(name HeaderName, token string) bool {
	for _, v := range h.Values(name) {
		for part := range strings.SplitSeq(v, ",") {
			if strings.EqualFold(strings.TrimSpace(part), token) {
				return true
			}
		}
	}
	return false
}
