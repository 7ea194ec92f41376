package metrics

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	renderDuration prom.Histogram
	renderHeadings prom.Histogram
	renderResults  *prom.CounterVec
	httpRequests   *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "blogd",
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering a markdown document and its table of contents",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		renderHeadings: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "blogd",
			Name:      "render_headings",
			Help:      "Number of headings captured per rendered document",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		renderResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "blogd",
			Name:      "render_results_total",
			Help:      "Render results by outcome",
		}, []string{"outcome"}),
		httpRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "blogd",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code",
		}, []string{"route", "status"}),
	}
	reg.MustRegister(pr.renderDuration, pr.renderHeadings, pr.renderResults, pr.httpRequests)
	return pr
}

func (p *PrometheusRecorder) ObserveRender(d time.Duration, headings int, outcome Outcome) {
	if p == nil {
		return
	}
	p.renderResults.WithLabelValues(string(outcome)).Inc()
	if outcome != OutcomeOK {
		return
	}
	p.renderDuration.Observe(d.Seconds())
	p.renderHeadings.Observe(float64(headings))
}

func (p *PrometheusRecorder) IncHTTPRequest(route string, status int) {
	if p == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	p.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// HTTPHandler serves the metrics gathered by reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
