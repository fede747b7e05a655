// xtree builds a search tree from the integer arguments, removes the
// values given by --delete and prints the resulting tree.
//
//	xtree --policy=rb --delete=3 5 3 8 1 9
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/lib/xlog"
	"github.com/benz9527/xtree/observability"
)

type options struct {
	policy   string
	deletes  []int
	logLevel string
	desc     bool
	metrics  string
	name     string
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("xtree", pflag.ContinueOnError)
	fs.StringVar(&opts.policy, "policy", "rb", "The balancing policy: bst, avl or rb")
	fs.IntSliceVar(&opts.deletes, "delete", nil, "The values to delete after the insertions, comma separated")
	fs.StringVar(&opts.logLevel, "log-level", xlog.LogLevelInfo.String(), "DEBUG prints every rotation and fix-up case")
	fs.BoolVar(&opts.desc, "desc", false, "Order the values descending")
	fs.StringVar(&opts.metrics, "metrics", "none", "Dump the tree metrics before exiting: none, console or prometheus")
	fs.StringVar(&opts.name, "name", "cli", "The tree name used by logs and metrics")
	return fs
}

func parseValues(args []string) ([]int, error) {
	values := make([]int, 0, len(args))
	var errs error
	for _, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("value %q: %w", arg, err))
			continue
		}
		values = append(values, v)
	}
	return values, errs
}

// setupMetrics installs the global meter provider of the given kind. The
// returned flush writes the final collection to out and shuts it down.
func setupMetrics(kind observability.ExporterKind, out io.Writer) (metric.MeterProvider, observability.ShutdownFunc, error) {
	switch kind {
	case observability.ConsoleExporter:
		return observability.NewConsoleMeterProvider(
			time.Hour, 5*time.Second,
			stdoutmetric.WithWriter(out),
			stdoutmetric.WithPrettyPrint(),
		)
	case observability.PrometheusExporter:
		reg := promclient.NewRegistry()
		mp, shutdown, err := observability.NewPrometheusMeterProvider(
			prometheus.WithRegisterer(reg),
			prometheus.WithoutTargetInfo(),
			prometheus.WithoutScopeInfo(),
		)
		if err != nil {
			return nil, nil, err
		}
		return mp, func(ctx context.Context) error {
			return multierr.Combine(
				observability.WritePrometheusText(out, reg),
				shutdown(ctx),
			)
		}, nil
	default:
	}
	return nil, nil, fmt.Errorf("unsupported exporter %s", kind)
}

func run(ctx context.Context, args []string, out io.Writer) (err error) {
	opts := &options{}
	fs := newFlagSet(opts)
	fs.SetOutput(out)
	if err = fs.Parse(args); err != nil {
		return err
	}

	policy, err := tree.ParsePolicy(opts.policy)
	if err != nil {
		return err
	}
	lvl, err := xlog.ParseLogLevel(opts.logLevel)
	if err != nil {
		return err
	}
	kind, err := observability.ParseExporterKind(opts.metrics)
	if err != nil {
		return err
	}
	values, err := parseValues(fs.Args())
	if err != nil {
		return err
	}

	logger := xlog.NewXLogger(
		xlog.WithXLoggerName(opts.name),
		xlog.WithXLoggerWriter(xlog.StdErr),
		xlog.WithXLoggerEncoder(xlog.PlainText),
		xlog.WithXLoggerLevel(lvl),
	)
	defer func() {
		_ = logger.Sync()
	}()

	treeOpts := []tree.TreeOption[int]{
		tree.WithTreeName[int](opts.name),
		tree.WithTreeLogger[int](logger.Zap()),
	}
	if opts.desc {
		treeOpts = append(treeOpts, tree.WithTreeDesc[int]())
	}
	if kind != observability.NoExporter {
		mp, flush, mErr := setupMetrics(kind, out)
		if mErr != nil {
			return mErr
		}
		defer func() {
			err = multierr.Append(err, flush(context.WithoutCancel(ctx)))
		}()
		// App stats stay on the first provider installed by the process.
		if err = observability.InitAppStats(opts.name); err != nil {
			return err
		}
		treeOpts = append(treeOpts, tree.WithTreeMeterProvider[int](mp))
	}

	t := tree.NewTreeFrom[int](policy, values, treeOpts...)
	for _, v := range opts.deletes {
		if !t.Delete(v) {
			logger.Warn("value not found", zap.Int("value", v))
		}
	}

	if kind != observability.NoExporter {
		if _, err = observability.RegisterTreeGauges(opts.name, map[string]observability.TreeStats{
			opts.name: t,
		}); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprint(out, t.String())
	_, _ = fmt.Fprintf(out, "policy: %s\n", t.Policy())
	_, _ = fmt.Fprintf(out, "values: %v\n", t.Values())
	_, _ = fmt.Fprintf(out, "len: %d, height: %d\n", t.Len(), t.Height())

	if err = t.Validate(); err != nil {
		logger.Errors(err, "tree invariant violated", zap.Stringer("policy", policy))
		return err
	}
	return nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
