package exchange

// Character classes used by the request parser.
var (
	tokenChars [256]bool // RFC 9110 tchar
	pathChars  [256]bool // unreserved / sub-delims / ":" / "@" / "/"
	queryChars [256]bool // pathChars plus "?"
	fieldChars [256]bool // visible ASCII, SP, HTAB
)

func init() {
	for c := 'a'; c <= 'z'; c++ {
		tokenChars[c] = true
		pathChars[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		tokenChars[c] = true
		pathChars[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		tokenChars[c] = true
		pathChars[c] = true
	}
	for _, c := range "!#$%&'*+-.^_`|~" {
		tokenChars[c] = true
	}
	// unreserved, sub-delims, pchar extras
	for _, c := range "-._~" + "!$&'()*+,;=" + ":@/" {
		pathChars[c] = true
	}
	queryChars = pathChars
	queryChars['?'] = true

	fieldChars['\t'] = true
	for c := 0x20; c <= 0x7e; c++ {
		fieldChars[c] = true
	}
}

// IsToken reports whether s is a non-empty HTTP token.
func IsToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !tokenChars[s[i]] {
			return false
		}
	}
	return true
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
