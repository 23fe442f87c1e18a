package app

import (
	"context"
	"errors"
	"time"

	"pkcegen/pkg/oauth2"
	"pkcegen/pkg/pkce"

	"github.com/prometheus/client_golang/prometheus"
)

var _ oauth2.CodeGenerator = (*InstrumentedGenerator)(nil)

// InstrumentedGenerator records outcome and latency of every PKCE generation
type InstrumentedGenerator struct {
	next     oauth2.CodeGenerator
	total    *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewInstrumentedGenerator wraps next and registers its collectors with
// registerer. If registerer is nil, prometheus.DefaultRegisterer is used.
func NewInstrumentedGenerator(next oauth2.CodeGenerator, registerer prometheus.Registerer) (*InstrumentedGenerator, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	g := &InstrumentedGenerator{
		next: next,
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pkce",
				Name:      "codes_generated_total",
				Help:      "Total number of PKCE generation attempts by result",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "pkce",
				Name:      "generation_duration_seconds",
				Help:      "Latency of PKCE pair generation",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
			},
		),
	}

	for _, c := range []prometheus.Collector{g.total, g.duration} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func (g *InstrumentedGenerator) GenerateCodes(ctx context.Context) (pkce.Codes, error) {
	start := time.Now()
	codes, err := g.next.GenerateCodes(ctx)
	g.duration.Observe(time.Since(start).Seconds())

	g.total.WithLabelValues(resultLabel(err)).Inc()

	return codes, err
}

func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	var genErr *pkce.GenerationError
	if errors.As(err, &genErr) {
		return string(genErr.Phase) + "_error"
	}
	return "error"
}
