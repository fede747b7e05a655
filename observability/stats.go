package observability

import (
	"context"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/multierr"
)

const (
	MetricTreeSize   = "xtree.size"
	MetricTreeHeight = "xtree.height"

	AttrTree = attribute.Key("tree")
)

var (
	once     sync.Once
	stats    *appStats
	statsErr error
)

func meterName(scope, name string) string {
	builder := &strings.Builder{}
	builder.WriteString("xtree/")
	builder.WriteString(scope)
	builder.WriteString("/")
	if len(strings.TrimSpace(name)) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

type appStats struct {
	goroutines metric.Int64ObservableUpDownCounter
	processes  metric.Int64ObservableUpDownCounter
}

// InitAppStats registers the process gauges and the Go runtime metrics
// on the global meter provider. Only the first call takes effect: the
// stats stay bound to the provider installed at that time and every
// call returns the result of the first one.
func InitAppStats(name string) error {
	once.Do(func() {
		meter := otel.Meter(
			meterName("app", name),
			metric.WithInstrumentationVersion(otelruntime.Version()),
		)
		stats = &appStats{
			goroutines: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
				"app.core.goroutines",
				metric.WithDescription(`The application goroutines' info.`),
				metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
					ob.Observe(int64(runtime.NumGoroutine()))
					return nil
				}),
			)),
			processes: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
				"app.core.processes",
				metric.WithDescription(`The application processes' info.`),
				metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
					ob.Observe(int64(runtime.GOMAXPROCS(0)))
					return nil
				}),
			)),
		}
		statsErr = otelruntime.Start()
	})
	return statsErr
}

// TreeStats is the read side of a tree the gauges observe.
type TreeStats interface {
	Len() int64
	Height() int
}

// RegisterTreeGauges observes the size and the height of every tree,
// labelled by its map key. The trees are read on each collection, so
// they must not be mutated concurrently with a collection.
func RegisterTreeGauges(name string, trees map[string]TreeStats) (metric.Registration, error) {
	meter := otel.Meter(meterName("trees", name))
	size, sizeErr := meter.Int64ObservableGauge(
		MetricTreeSize,
		metric.WithDescription(`The number of values stored in the tree.`),
	)
	height, heightErr := meter.Int64ObservableGauge(
		MetricTreeHeight,
		metric.WithDescription(`The edge height of the tree, -1 when empty.`),
	)
	if err := multierr.Combine(sizeErr, heightErr); err != nil {
		return nil, err
	}

	names := lo.Keys(trees)
	slices.Sort(names)
	return meter.RegisterCallback(func(ctx context.Context, ob metric.Observer) error {
		for _, n := range names {
			attrs := metric.WithAttributes(AttrTree.String(n))
			ob.ObserveInt64(size, trees[n].Len(), attrs)
			ob.ObserveInt64(height, int64(trees[n].Height()), attrs)
		}
		return nil
	}, size, height)
}
