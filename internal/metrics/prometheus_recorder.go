package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "mdimages"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	reg           *prom.Registry
	linksFound    *prom.CounterVec
	unmatched     *prom.CounterVec
	fetchResults  *prom.CounterVec
	fetchBytes    prom.Counter
	fetchDuration prom.Histogram
	runDuration   prom.Gauge
	runOutcome    *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{reg: reg}
	pr.once.Do(func() {
		pr.linksFound = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "links_found_total",
			Help:      "Image references matched in the document by kind",
		}, []string{"kind"})
		pr.unmatched = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "unmatched_images_total",
			Help:      "Image references seen by the markdown parser but left unchanged",
		}, []string{"source"})
		pr.fetchResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_results_total",
			Help:      "Remote image fetches by result",
		}, []string{"result"})
		pr.fetchBytes = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_bytes_total",
			Help:      "Bytes written to the resource folder",
		})
		pr.fetchDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of individual image fetches",
			Buckets:   prom.DefBuckets,
		})
		pr.runDuration = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by final status",
		}, []string{"outcome"})
		reg.MustRegister(pr.linksFound, pr.unmatched, pr.fetchResults, pr.fetchBytes, pr.fetchDuration, pr.runDuration, pr.runOutcome)
	})
	return pr
}

func (p *PrometheusRecorder) IncLinksFound(kind LinkKindLabel) {
	if p == nil || p.linksFound == nil {
		return
	}
	p.linksFound.WithLabelValues(string(kind)).Inc()
}

func (p *PrometheusRecorder) IncUnmatchedImages(source string) {
	if p == nil || p.unmatched == nil {
		return
	}
	p.unmatched.WithLabelValues(source).Inc()
}

func (p *PrometheusRecorder) ObserveFetch(d time.Duration, bytes int64, result ResultLabel) {
	if p == nil || p.fetchResults == nil {
		return
	}
	p.fetchResults.WithLabelValues(string(result)).Inc()
	p.fetchDuration.Observe(d.Seconds())
	if bytes > 0 {
		p.fetchBytes.Add(float64(bytes))
	}
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Set(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(result ResultLabel) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(result)).Inc()
}

// WriteTextfile writes every registered metric to path in the text
// exposition format. The file is replaced atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.reg)
}
