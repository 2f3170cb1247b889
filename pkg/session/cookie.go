package session

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/wirehttp/pkg/exchange"
)

// cookieNameClasses describes the legal characters of a cookie name.
const cookieNameClasses = "a non-empty sequence of ASCII letters, digits and the symbols ! # $ % & ' * + - . ^ _ ` | ~"

func validateCookieName(name string) error {
	if !exchange.IsToken(name) {
		return fmt.Errorf("%w: %q: expected %s", ErrInvalidCookieName, name, cookieNameClasses)
	}
	return nil
}

// findCookie returns the value of the first cookie called name across all
// Cookie header lines.
func findCookie(lines []string, name string) (string, bool) {
	for _, line := range lines {
		for pair := range strings.SplitSeq(line, ";") {
			k, v, ok := strings.Cut(strings.Trim(pair, " \t"), "=")
			if ok && k == name {
				return v, true
			}
		}
	}
	return "", false
}

func formatCookie(name, value string) string {
	return name + "=" + value + "; HttpOnly; Path=/; Secure"
}

func formatExpiredCookie(name string) string {
	return name + "=; Max-Age=0; HttpOnly; Path=/; Secure"
}
