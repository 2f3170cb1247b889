package router

import (
	"github.com/dmitrymomot/wirehttp/pkg/attr"
	"github.com/dmitrymomot/wirehttp/pkg/exchange"
)

// captures holds the values matched so far on one exchange. Entries are
// pushed on admission and truncated when a subtree declines.
type captures struct {
	params  []capture
	subpath string
	hasSub  bool
}

var capturesKey = attr.NewKey[*captures]("router.captures")

func capturesOf(ex *exchange.Exchange) *captures {
	return exchange.AttrOrInit(ex, capturesKey, func() *captures { return &captures{} })
}

// mark records the state to restore with reset.
type mark struct {
	n       int
	subpath string
	hasSub  bool
}

func (c *captures) mark() mark {
	return mark{n: len(c.params), subpath: c.subpath, hasSub: c.hasSub}
}

func (c *captures) reset(m mark) {
	clear(c.params[m.n:])
	c.params = c.params[:m.n]
	c.subpath, c.hasSub = m.subpath, m.hasSub
}

// PathParam returns the innermost value captured under name, or "".
func PathParam(ex *exchange.Exchange, name string) string {
	v, _ := LookupPathParam(ex, name)
	return v
}

// LookupPathParam returns the innermost value captured under name.
func LookupPathParam(ex *exchange.Exchange, name string) (string, bool) {
	c, ok := exchange.Attr(ex, capturesKey)
	if !ok {
		return "", false
	}
	for i := len(c.params) - 1; i >= 0; i-- {
		if c.params[i].name == name {
			return c.params[i].value, true
		}
	}
	return "", false
}

// Subpath returns the remainder captured by the innermost prefix or
// wildcard matcher, or the full path when there is none.
func Subpath(ex *exchange.Exchange) string {
	if c, ok := exchange.Attr(ex, capturesKey); ok && c.hasSub {
		return c.subpath
	}
	return ex.Path()
}
