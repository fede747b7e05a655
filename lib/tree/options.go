package tree

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
)

const defaultTreeName = "default"

type treeCfg struct {
	isDesc   bool
	name     string
	capacity int
	logger   *zap.Logger
	mp       metric.MeterProvider
}

type TreeOption[T any] func(*treeCfg)

// WithTreeDesc reverses the comparison, the in-order sequence
// becomes descending.
func WithTreeDesc[T any]() TreeOption[T] {
	return func(cfg *treeCfg) {
		cfg.isDesc = true
	}
}

// WithTreeName labels the tree in log entries and metrics.
func WithTreeName[T any](name string) TreeOption[T] {
	return func(cfg *treeCfg) {
		if name != "" {
			cfg.name = name
		}
	}
}

// WithTreeCapacity pre-sizes the node arena.
func WithTreeCapacity[T any](capacity int) TreeOption[T] {
	return func(cfg *treeCfg) {
		cfg.capacity = capacity
	}
}

func WithTreeLogger[T any](logger *zap.Logger) TreeOption[T] {
	return func(cfg *treeCfg) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func WithTreeMeterProvider[T any](mp metric.MeterProvider) TreeOption[T] {
	return func(cfg *treeCfg) {
		if mp != nil {
			cfg.mp = mp
		}
	}
}

func newBalancer[T any](policy Policy) balancer[T] {
	switch policy {
	case Unbalanced:
		return plainBalancer[T]{}
	case HeightBalanced:
		return heightBalancer[T]{}
	case ColorBalanced:
		return colorBalancer[T]{}
	default:
	}
	panic("[tree] unknown balancing policy " + policy.String())
}

// NewTreeFunc builds an empty tree ordered by cmp.
// It panics on a nil comparator or an unknown policy.
func NewTreeFunc[T any](policy Policy, cmp infra.OrderedKeyComparator[T], opts ...TreeOption[T]) OrderedTree[T] {
	if cmp == nil {
		panic("[tree] nil comparator")
	}
	bal := newBalancer[T](policy)

	cfg := &treeCfg{
		name:   defaultTreeName,
		logger: zap.NewNop(),
		mp:     noop.NewMeterProvider(),
	}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	if cfg.isDesc {
		cmp = infra.ReverseComparator(cmp)
	}

	return &bsTree[T]{
		arena:   newArena[T](cfg.capacity),
		root:    nilID,
		count:   0,
		cmp:     comparator[T](cmp),
		bal:     bal,
		nilable: isNilableType[T](),
		name:    cfg.name,
		logger:  cfg.logger.Named("xtree"),
		metrics: newTreeMetrics(cfg.mp, cfg.name, policy),
	}
}

func NewTree[T infra.OrderedKey](policy Policy, opts ...TreeOption[T]) OrderedTree[T] {
	return NewTreeFunc[T](policy, infra.CompareOrderedKey[T], opts...)
}

func NewOrderedTree[T infra.OrderedKey](opts ...TreeOption[T]) OrderedTree[T] {
	return NewTree[T](Unbalanced, opts...)
}

func NewAVLTree[T infra.OrderedKey](opts ...TreeOption[T]) OrderedTree[T] {
	return NewTree[T](HeightBalanced, opts...)
}

func NewRBTree[T infra.OrderedKey](opts ...TreeOption[T]) OrderedTree[T] {
	return NewTree[T](ColorBalanced, opts...)
}

// NewTreeFrom inserts values one by one in the given order.
func NewTreeFrom[T infra.OrderedKey](policy Policy, values []T, opts ...TreeOption[T]) OrderedTree[T] {
	opts = append([]TreeOption[T]{WithTreeCapacity[T](len(values))}, opts...)
	tree := NewTree[T](policy, opts...)
	for _, v := range values {
		// Ordered keys are never nil.
		_, _ = tree.Insert(v)
	}
	return tree
}

// NewTreeFuncFrom is NewTreeFrom with a custom comparator. It stops at
// the first value the tree refuses and returns the error.
func NewTreeFuncFrom[T any](
	policy Policy,
	cmp infra.OrderedKeyComparator[T],
	values []T,
	opts ...TreeOption[T],
) (OrderedTree[T], error) {
	opts = append([]TreeOption[T]{WithTreeCapacity[T](len(values))}, opts...)
	tree := NewTreeFunc[T](policy, cmp, opts...)
	for _, v := range values {
		if _, err := tree.Insert(v); err != nil {
			return nil, err
		}
	}
	return tree, nil
}
