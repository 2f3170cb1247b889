package diagnostics

import "github.com/dmitrymomot/wirehttp/pkg/exchange"

type multi []exchange.Diagnostics

func (m multi) Record(e exchange.Event) {
	for _, d := range m {
		d.Record(e)
	}
}

// Multi fans every event out to sinks in order. Nil sinks are skipped.
func Multi(sinks ...exchange.Diagnostics) exchange.Diagnostics {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
