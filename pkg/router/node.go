package router

import (
	"github.com/dmitrymomot/wirehttp/pkg/exchange"
)

// Node is an element of the dispatch tree. Nodes are built once and are
// read-only afterwards, so one tree serves concurrent exchanges.
type Node interface {
	serve(ex *exchange.Exchange) error
}

// FilterFunc wraps the chain below it. It decides whether that chain runs
// by calling next, and may act on the exchange before and after it.
type FilterFunc func(ex *exchange.Exchange, next func() error) error

// leaf runs one handler.
type leaf struct {
	h exchange.Handler
}

func (n leaf) serve(ex *exchange.Exchange) error { return n.h.Handle(ex) }

// Handle wraps a handler as a tree node.
func Handle(h exchange.Handler) Node {
	if h == nil {
		panic("Handle: nil handler")
	}
	return leaf{h: h}
}

// HandleFunc wraps a function as a tree node.
func HandleFunc(fn func(*exchange.Exchange) error) Node {
	if fn == nil {
		panic("HandleFunc: nil func")
	}
	return leaf{h: exchange.HandlerFunc(fn)}
}

// chain evaluates nodes in order until one marks the exchange processed.
type chain []Node

func (c chain) serve(ex *exchange.Exchange) error {
	for _, n := range c {
		if err := n.serve(ex); err != nil {
			return err
		}
		if ex.Processed() {
			return nil
		}
	}
	return nil
}

// allowDecl is a method declaration waiting to be merged into its parent.
type allowDecl struct {
	method exchange.Method
	nodes  []Node
}

func (allowDecl) serve(*exchange.Exchange) error {
	panic("router: Allow used outside a parent node")
}

// allowMap dispatches on the request method. It sits at the position of the
// first Allow among its siblings.
type allowMap struct {
	chains  map[exchange.Method]chain
	allowed string
}

func (m *allowMap) serve(ex *exchange.Exchange) error {
	c, ok := m.chains[ex.Method()]
	if !ok && ex.Method() == exchange.MethodHead {
		c, ok = m.chains[exchange.MethodGet]
	}
	if !ok {
		ex.ResponseHeaders().Set(exchange.HeaderAllow, m.allowed)
		ex.Respond(exchange.StatusMethodNotAllowed, exchange.Text("Method Not Allowed."))
		return nil
	}
	return c.serve(ex)
}

// compile turns children into a chain, merging Allow declarations into a
// single allow-map.
func compile(children []Node) chain {
	out := make(chain, 0, len(children))
	var decls map[exchange.Method][]Node
	var order []exchange.Method
	var am *allowMap
	for _, child := range children {
		if child == nil {
			panic("router: nil node")
		}
		d, ok := child.(allowDecl)
		if !ok {
			out = append(out, child)
			continue
		}
		if am == nil {
			am = &allowMap{}
			decls = make(map[exchange.Method][]Node)
			out = append(out, am)
		}
		if _, seen := decls[d.method]; !seen {
			order = append(order, d.method)
		}
		decls[d.method] = append(decls[d.method], d.nodes...)
	}
	if am != nil {
		am.chains = make(map[exchange.Method]chain, len(decls))
		for m, nodes := range decls {
			am.chains[m] = compile(nodes)
		}
		am.allowed = exchange.AllowValue(order)
	}
	return out
}

// Group evaluates children in order; the first to mark the exchange
// processed wins.
func Group(children ...Node) Node {
	return compile(children)
}

// Allow declares the chain serving method. Allow nodes are merged into their
// parent's allow-map: a request whose method has none of the declared chains
// gets 405 with an Allow header. HEAD falls back to the GET chain.
func Allow(method exchange.Method, nodes ...Node) Node {
	if !exchange.IsToken(string(method)) {
		panic("Allow: invalid method " + string(method))
	}
	if len(nodes) == 0 {
		panic("Allow: no handlers for " + string(method))
	}
	return allowDecl{method: method, nodes: nodes}
}

// Get is shorthand for Allow(MethodGet, h).
func Get(h exchange.HandlerFunc) Node { return Allow(exchange.MethodGet, Handle(h)) }

// Post is shorthand for Allow(MethodPost, h).
func Post(h exchange.HandlerFunc) Node { return Allow(exchange.MethodPost, Handle(h)) }

// matchNode admits its children when the matcher accepts the path or
// subpath, rolling captures back if they decline.
type matchNode struct {
	m        Matcher
	children chain
}

func (n *matchNode) serve(ex *exchange.Exchange) error {
	c := capturesOf(ex)
	input := ex.Path()
	if n.m.sub && c.hasSub {
		input = c.subpath
	}
	caps, sub, hasSub, ok := n.m.match(input)
	if !ok {
		return nil
	}

	saved := c.mark()
	c.params = append(c.params, caps...)
	if hasSub {
		c.subpath, c.hasSub = sub, true
	}
	if err := n.children.serve(ex); err != nil {
		return err
	}
	if !ex.Processed() {
		c.reset(saved)
	}
	return nil
}

// On guards children with a matcher.
func On(m Matcher, children ...Node) Node {
	return &matchNode{m: m, children: compile(children)}
}

// Path guards children with a parsed path pattern. It panics on a
// malformed pattern.
func Path(pattern string, children ...Node) Node {
	return On(MustParse(pattern), children...)
}

// PathPrefix guards children with Prefix(prefix).
func PathPrefix(prefix string, children ...Node) Node {
	return On(Prefix(prefix), children...)
}

// Sub guards children with a pattern matched against the current subpath.
func Sub(pattern string, children ...Node) Node {
	return On(MustParseSub(pattern), children...)
}

type filterNode struct {
	fn       FilterFunc
	children chain
}

func (n *filterNode) serve(ex *exchange.Exchange) error {
	return n.fn(ex, func() error { return n.children.serve(ex) })
}

// Filter wraps children with fn.
func Filter(fn FilterFunc, children ...Node) Node {
	if fn == nil {
		panic("Filter: nil filter")
	}
	return &filterNode{fn: fn, children: compile(children)}
}

type whenNode struct {
	pred     func(*exchange.Exchange) bool
	children chain
}

func (n *whenNode) serve(ex *exchange.Exchange) error {
	if !n.pred(ex) {
		return nil
	}
	return n.children.serve(ex)
}

// When runs children only if pred accepts the exchange.
func When(pred func(*exchange.Exchange) bool, children ...Node) Node {
	if pred == nil {
		panic("When: nil predicate")
	}
	return &whenNode{pred: pred, children: compile(children)}
}
