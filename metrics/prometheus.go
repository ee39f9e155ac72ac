// Package metrics exports header parse statistics as Prometheus metrics.
package metrics

import (
	"errors"

	"braces.dev/errtrace"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ghettovoice/sipstack/header"
	"github.com/ghettovoice/sipstack/message"
)

const (
	ResultParsed = "parsed"
	ResultFailed = "failed"
)

// Recorder is a [message.ParseRecorder] that counts header parses
// in the sipstack_header_parses_total counter labeled by header name and result.
type Recorder struct {
	parses *prometheus.CounterVec
}

var _ message.ParseRecorder = (*Recorder)(nil)

// NewRecorder creates a recorder and registers its collectors in reg.
// If reg is nil, [prometheus.DefaultRegisterer] is used.
// A counter already registered in reg is reused.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	parses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sipstack",
		Subsystem: "header",
		Name:      "parses_total",
		Help:      "Number of header value parses by header name and result.",
	}, []string{"header", "result"})
	if err := reg.Register(parses); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, errtrace.Wrap(err)
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, errtrace.Wrap(err)
		}
		parses = existing
	}
	return &Recorder{parses: parses}, nil
}

// RecordParse implements [message.ParseRecorder].
func (r *Recorder) RecordParse(name header.Name, err error) {
	result := ResultParsed
	if err != nil {
		result = ResultFailed
	}
	r.parses.WithLabelValues(string(name), result).Inc()
}
