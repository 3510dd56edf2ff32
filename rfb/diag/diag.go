// Package diag exposes a session's diagnostics-only counters (rectangles
// decoded, bytes sent/received, bells) as Prometheus collectors so any
// operator already scraping Prometheus gets them for free.
//
// Nothing in this package is required for a session to function: a
// session built without a Registry just increments its counters locally
// and never registers them anywhere.
package diag

import "github.com/prometheus/client_golang/prometheus"

// Collectors bundles the metrics one RfbSession reports.
type Collectors struct {
	BytesSent     prometheus.Counter
	BytesReceived prometheus.Counter
	Decoded       *prometheus.CounterVec // labeled by encoding name
	Bells         prometheus.Counter
}

// NewCollectors builds a fresh Collectors set and registers it against
// reg. A nil reg is valid: the returned Collectors still work as
// plain counters, they are simply never scraped.
func NewCollectors(reg *prometheus.Registry) *Collectors {
	c := &Collectors{
		BytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rfbclient",
			Name:      "bytes_sent_total",
			Help:      "Bytes written to the VNC server.",
		}),
		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rfbclient",
			Name:      "bytes_received_total",
			Help:      "Bytes read from the VNC server.",
		}),
		Decoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rfbclient",
			Name:      "rectangles_decoded_total",
			Help:      "Rectangles decoded, by encoding name.",
		}, []string{"encoding"}),
		Bells: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rfbclient",
			Name:      "bell_total",
			Help:      "Bell messages received from the server.",
		}),
	}
	if reg != nil {
		reg.MustRegister(c.BytesSent, c.BytesReceived, c.Decoded, c.Bells)
	}
	return c
}
