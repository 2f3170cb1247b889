package exchange

// Kind classifies an abnormal termination.
type Kind string

const (
	// KindIO is a transport read failure during parsing.
	KindIO Kind = "io"
	// KindProtocol is a grammar violation answered with 400/501/505.
	KindProtocol Kind = "protocol"
	// KindLimit is a size limit answered with 413/414/431.
	KindLimit Kind = "limit"
	// KindHandler is a handler error or panic answered with 500.
	KindHandler Kind = "handler"
	// KindSpool is a body-files failure answered with 500.
	KindSpool Kind = "spool"
	// KindWrite is a failure while serializing the response.
	KindWrite Kind = "write"
)

// Event describes one abnormal termination.
type Event struct {
	Kind   Kind
	Status int
	Method Method
	Target string
	Remote string
	Err    error
}

// Diagnostics receives one Event per abnormal termination. Implementations
// must be safe for concurrent use.
type Diagnostics interface {
	Record(Event)
}

// DiagnosticsFunc adapts a function to Diagnostics.
type DiagnosticsFunc func(Event)

func (f DiagnosticsFunc) Record(e Event) { f(e) }

type discardDiagnostics struct{}

func (discardDiagnostics) Record(Event) {}
