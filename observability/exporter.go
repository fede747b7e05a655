package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/multierr"
)

type ShutdownFunc func(ctx context.Context) error

type ExporterKind uint8

const (
	NoExporter ExporterKind = iota
	ConsoleExporter
	PrometheusExporter
)

func (k ExporterKind) String() string {
	switch k {
	case ConsoleExporter:
		return "console"
	case PrometheusExporter:
		return "prometheus"
	case NoExporter:
		fallthrough
	default:
	}
	return "none"
}

func ParseExporterKind(s string) (ExporterKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "off":
		return NoExporter, nil
	case "console", "stdout":
		return ConsoleExporter, nil
	case "prometheus", "prom":
		return PrometheusExporter, nil
	default:
	}
	return NoExporter, fmt.Errorf("[observability] unknown exporter %q", s)
}

// NewConsoleMeterProvider serves for test/dev environment. The provider
// flushes once more on shutdown, so short-lived processes still print
// the final tree stats.
func NewConsoleMeterProvider(
	interval, timeout time.Duration,
	opts ...stdoutmetric.Option,
) (*metric.MeterProvider, ShutdownFunc, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp, mp.Shutdown, nil
}

// NewPrometheusMeterProvider serves for the product environment. Without
// a registerer option the stats land in the prometheus default registry.
func NewPrometheusMeterProvider(opts ...prometheus.Option) (*metric.MeterProvider, ShutdownFunc, error) {
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return mp, mp.Shutdown, nil
}

// WritePrometheusText gathers g once and writes the text exposition
// format, the same body a scrape of the handler would return.
func WritePrometheusText(w io.Writer, g promclient.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	var errs error
	for _, mf := range families {
		if _, err = expfmt.MetricFamilyToText(w, mf); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
