package tree

import (
	"context"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	instrumentationVersion = "v0.1.0"

	MetricInserts   = "xtree.node.inserts"
	MetricDeletes   = "xtree.node.deletes"
	MetricRotations = "xtree.rotations"
	MetricFixups    = "xtree.fixups"

	AttrPolicy    = attribute.Key("policy")
	AttrDirection = attribute.Key("direction")
	AttrCase      = attribute.Key("case")
)

// fixupCases lists every rebalancing case label the policies report.
var fixupCases = []string{
	"hb1", "hb2", "hb3", "hb4",
	"im1", "im3", "im4", "im5",
	"r1", "rm1", "rm2", "rm3", "rm4", "rm5",
}

type treeMetrics struct {
	ctx         context.Context
	policyOpt   metric.MeasurementOption
	leftOpt     metric.MeasurementOption
	rightOpt    metric.MeasurementOption
	policyAttr  attribute.KeyValue
	inserts     metric.Int64Counter
	deletes     metric.Int64Counter
	rotations   metric.Int64Counter
	fixups      metric.Int64Counter
	fixupByCase map[string]metric.MeasurementOption
}

func newTreeMetrics(mp metric.MeterProvider, name string, policy Policy) *treeMetrics {
	meter := mp.Meter(
		"xtree/"+name,
		metric.WithInstrumentationVersion(instrumentationVersion),
	)
	policyAttr := AttrPolicy.String(policy.String())
	// Read only once built, clones share it.
	byCase := make(map[string]metric.MeasurementOption, len(fixupCases))
	for _, c := range fixupCases {
		byCase[c] = metric.WithAttributes(policyAttr, AttrCase.String(c))
	}
	return &treeMetrics{
		ctx:        context.Background(),
		policyAttr: policyAttr,
		policyOpt:  metric.WithAttributes(policyAttr),
		leftOpt:    metric.WithAttributes(policyAttr, AttrDirection.String(Left.String())),
		rightOpt:   metric.WithAttributes(policyAttr, AttrDirection.String(Right.String())),
		inserts: lo.Must[metric.Int64Counter](meter.Int64Counter(
			MetricInserts,
			metric.WithDescription(`The number of values inserted into the tree.`),
		)),
		deletes: lo.Must[metric.Int64Counter](meter.Int64Counter(
			MetricDeletes,
			metric.WithDescription(`The number of values removed from the tree.`),
		)),
		rotations: lo.Must[metric.Int64Counter](meter.Int64Counter(
			MetricRotations,
			metric.WithDescription(`The number of single rotations applied to the tree.`),
		)),
		fixups: lo.Must[metric.Int64Counter](meter.Int64Counter(
			MetricFixups,
			metric.WithDescription(`The number of rebalancing cases applied to the tree.`),
		)),
		fixupByCase: byCase,
	}
}

func (m *treeMetrics) inserted() {
	if m == nil {
		return
	}
	m.inserts.Add(m.ctx, 1, m.policyOpt)
}

func (m *treeMetrics) deleted() {
	if m == nil {
		return
	}
	m.deletes.Add(m.ctx, 1, m.policyOpt)
}

func (m *treeMetrics) rotated(dir Direction) {
	if m == nil {
		return
	}
	if dir == Left {
		m.rotations.Add(m.ctx, 1, m.leftOpt)
		return
	}
	m.rotations.Add(m.ctx, 1, m.rightOpt)
}

func (m *treeMetrics) fixed(fixCase string) {
	if m == nil {
		return
	}
	opt, ok := m.fixupByCase[fixCase]
	if !ok {
		opt = metric.WithAttributes(m.policyAttr, AttrCase.String(fixCase))
	}
	m.fixups.Add(m.ctx, 1, opt)
}

func (tree *bsTree[T]) traceRotation(dir Direction, pivot nodeID) {
	if ce := tree.logger.Check(zapcore.DebugLevel, "[tree] rotate"); ce != nil {
		ce.Write(
			zap.String("tree", tree.name),
			zap.Stringer("policy", tree.bal.policy()),
			zap.Stringer("direction", dir),
			zap.Any("pivot", tree.at(pivot).val),
		)
	}
	tree.metrics.rotated(dir)
}

func (tree *bsTree[T]) traceFixup(fixCase string) {
	if ce := tree.logger.Check(zapcore.DebugLevel, "[tree] rebalance"); ce != nil {
		ce.Write(
			zap.String("tree", tree.name),
			zap.Stringer("policy", tree.bal.policy()),
			zap.String("case", fixCase),
		)
	}
	tree.metrics.fixed(fixCase)
}
