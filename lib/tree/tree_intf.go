package tree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/benz9527/xtree/lib/infra"
)

type Color uint8

const (
	// Unset only lives between node allocation and the first insertion
	// fix-up of a color balanced tree.
	Unset Color = iota
	Black
	Red
)

func (c Color) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "Unset"
}

type Direction int8

const (
	Left Direction = -1 + iota
	Root
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
	}
	return "Root"
}

type Policy uint8

const (
	Unbalanced Policy = iota
	HeightBalanced
	ColorBalanced
)

func (p Policy) String() string {
	switch p {
	case Unbalanced:
		return "Unbalanced"
	case HeightBalanced:
		return "HeightBalanced"
	case ColorBalanced:
		return "ColorBalanced"
	default:
	}
	return "Policy(" + strconv.Itoa(int(p)) + ")"
}

// ParsePolicy accepts the policy names and their short forms
// bst, avl and rb.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "bst", "unbalanced":
		return Unbalanced, nil
	case "avl", "heightbalanced":
		return HeightBalanced, nil
	case "rb", "rbtree", "colorbalanced":
		return ColorBalanced, nil
	default:
	}
	return Unbalanced, fmt.Errorf("%w: unknown policy %q", ErrInvalidArgument, s)
}

// Node is a read-only view of a tree node.
// A node reference stays valid until the node is removed from the tree
// or the tree is cleared. Deleting a node with two children moves its
// in-order predecessor's value into it, so a reference addresses a
// position in the tree rather than a value.
//
// On a stale reference HasParent, HasLeft and HasRight report false,
// Parent, Left and Right return ErrStaleNode and String returns
// "<stale>". Value, Height, Balance, Color, Depth and Direction panic.
type Node[T any] interface {
	Value() T
	// Height of the subtree rooted at this node, a leaf is 0.
	Height() int
	// Balance is height(left) - height(right), absent children count -1.
	Balance() int
	// Color is Unset on trees that are not color balanced.
	Color() Color
	// Depth is the number of edges up to the root.
	Depth() int
	Direction() Direction
	HasParent() bool
	HasLeft() bool
	HasRight() bool
	// Parent, Left and Right return ErrNotFound if the relative is absent.
	Parent() (Node[T], error)
	Left() (Node[T], error)
	Right() (Node[T], error)
	String() string
}

// Visitor is applied to each node during a traversal.
// Returning false stops the traversal.
type Visitor[T any] func(idx int64, node Node[T]) bool

// Iterator walks a tree snapshot. Mutating the tree while an
// iterator is active is undefined.
type Iterator[T any] interface {
	HasNext() bool
	Next() (Node[T], bool)
	// Reset restarts the iteration from the first node.
	Reset()
}

// Rotator is the capability to restructure a tree by hand.
// Only trees without a balancing policy hand it out.
type Rotator[T any] interface {
	RotateLeft(pivot Node[T]) error
	RotateRight(pivot Node[T]) error
}

type OrderedTree[T any] interface {
	Policy() Policy
	Len() int64
	IsEmpty() bool
	// Height of the root, -1 for an empty tree.
	Height() int
	Root() (Node[T], error)
	// Insert routes equal values to the left.
	Insert(val T) (Node[T], error)
	Search(val T) (Node[T], bool)
	Contains(val T) bool
	// Delete removes the first match found and reports whether
	// anything was removed.
	Delete(val T) bool
	Min() (Node[T], error)
	Max() (Node[T], error)
	Clear()

	Rotator() (Rotator[T], error)
	Rotator[T]

	PreOrder(visitor Visitor[T])
	InOrder(visitor Visitor[T])
	PostOrder(visitor Visitor[T])
	Iterator() Iterator[T]
	LevelOrder() Iterator[T]
	Values() []T

	Clone() OrderedTree[T]
	Equal(other OrderedTree[T]) bool
	// Validate checks every structural and balance invariant of the tree.
	Validate() error
	String() string
}

type comparator[T any] infra.OrderedKeyComparator[T]
