package tree

import (
	"reflect"

	"go.uber.org/zap"
)

var _ OrderedTree[int] = (*bsTree[int])(nil) // Type check assertion

// balancer restores the tree invariants of one balancing policy after
// the ordered tree has done its part of a mutation.
type balancer[T any] interface {
	policy() Policy
	initNode(n *node[T])
	insertFixup(tree *bsTree[T], x nodeID)
	// remove unlinks x, which has at most one child, and releases it.
	remove(tree *bsTree[T], x nodeID)
}

// plainBalancer keeps whatever shape the insertion order produces.
type plainBalancer[T any] struct{}

func (plainBalancer[T]) policy() Policy                   { return Unbalanced }
func (plainBalancer[T]) initNode(*node[T])                {}
func (plainBalancer[T]) insertFixup(*bsTree[T], nodeID)   {}
func (plainBalancer[T]) remove(tree *bsTree[T], x nodeID) { tree.splice(x); tree.arena.release(x) }

type bsTree[T any] struct {
	arena   arena[T]
	root    nodeID
	count   int64
	cmp     comparator[T]
	bal     balancer[T]
	nilable bool
	name    string
	logger  *zap.Logger
	metrics *treeMetrics
}

func (tree *bsTree[T]) at(x nodeID) *node[T] {
	return tree.arena.at(x)
}

func (tree *bsTree[T]) ref(x nodeID) Node[T] {
	return nodeRef[T]{tree: tree, h: tree.arena.handleOf(x)}
}

func (tree *bsTree[T]) resolve(n Node[T]) (nodeID, error) {
	if n == nil {
		return nilID, ErrNilNode
	}
	ref, ok := n.(nodeRef[T])
	if !ok || ref.tree != tree {
		return nilID, ErrForeignNode
	}
	if !tree.arena.live(ref.h) {
		return nilID, ErrStaleNode
	}
	return ref.h.id, nil
}

func (tree *bsTree[T]) isNilValue(val T) bool {
	if !tree.nilable {
		return false
	}
	rv := reflect.ValueOf(any(val))
	if !rv.IsValid() {
		return true
	}
	return isNilableKind(rv.Kind()) && rv.IsNil()
}

func isNilableKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	default:
	}
	return false
}

func isNilableType[T any]() bool {
	return isNilableKind(reflect.TypeOf((*T)(nil)).Elem().Kind())
}

func (tree *bsTree[T]) direction(x nodeID) Direction {
	if x == nilID {
		// impossible run to here
		panic( /* debug assertion */ "[tree] nil node without direction")
	}
	p := tree.at(x).parent
	if p == nilID {
		return Root
	}
	if tree.at(p).left == x {
		return Left
	}
	return Right
}

func (tree *bsTree[T]) sibling(x nodeID) nodeID {
	p := tree.at(x).parent
	switch tree.direction(x) {
	case Left:
		return tree.at(p).right
	case Right:
		return tree.at(p).left
	default:
	}
	return nilID
}

func (tree *bsTree[T]) minimum(x nodeID) nodeID {
	for x != nilID && tree.at(x).left != nilID {
		x = tree.at(x).left
	}
	return x
}

func (tree *bsTree[T]) maximum(x nodeID) nodeID {
	for x != nilID && tree.at(x).right != nilID {
		x = tree.at(x).right
	}
	return x
}

// replaceChild hangs x into the slot old occupies under p,
// p is nilID when old is the root.
func (tree *bsTree[T]) replaceChild(p, old, x nodeID) {
	switch {
	case p == nilID:
		tree.root = x
	case tree.at(p).left == old:
		tree.at(p).left = x
	case tree.at(p).right == old:
		tree.at(p).right = x
	default:
		// impossible run to here
		panic( /* debug assertion */ "[tree] node is not a child of its parent")
	}
}

func (tree *bsTree[T]) Policy() Policy {
	return tree.bal.policy()
}

func (tree *bsTree[T]) Len() int64 {
	return tree.count
}

func (tree *bsTree[T]) IsEmpty() bool {
	return tree.root == nilID
}

func (tree *bsTree[T]) Height() int {
	return tree.heightOf(tree.root)
}

func (tree *bsTree[T]) Root() (Node[T], error) {
	if tree.root == nilID {
		return nil, ErrNotFound
	}
	return tree.ref(tree.root), nil
}

/*
Equal values descend to the left, the new node is hung on the first
absent slot found.

	   [5]              [5]
	   / \   insert 5   / \
	 [3] [8] =======> [3] [8]
	                    \
	                    (5)
*/
func (tree *bsTree[T]) Insert(val T) (Node[T], error) {
	if tree.isNilValue(val) {
		return nil, ErrNilValue
	}

	z := tree.arena.alloc(val)
	tree.bal.initNode(tree.at(z))

	var x, y nodeID = tree.root, nilID
	res := 0
	for x != nilID {
		y = x
		if res = tree.cmp(val, tree.at(x).val); /* less or equal */ res <= 0 {
			x = tree.at(x).left
		} else /* greater */ {
			x = tree.at(x).right
		}
	}

	tree.at(z).parent = y
	switch {
	case y == nilID:
		tree.root = z
	case res <= 0:
		tree.at(y).left = z
	default:
		tree.at(y).right = z
	}

	tree.count++
	tree.metrics.inserted()
	tree.bal.insertFixup(tree, z)
	return tree.ref(z), nil
}

func (tree *bsTree[T]) search(val T) nodeID {
	for x := tree.root; x != nilID; {
		res := tree.cmp(val, tree.at(x).val)
		if res == 0 {
			return x
		} else if res < 0 {
			x = tree.at(x).left
		} else {
			x = tree.at(x).right
		}
	}
	return nilID
}

func (tree *bsTree[T]) Search(val T) (Node[T], bool) {
	if tree.isNilValue(val) {
		return nil, false
	}
	if x := tree.search(val); x != nilID {
		return tree.ref(x), true
	}
	return nil, false
}

func (tree *bsTree[T]) Contains(val T) bool {
	_, ok := tree.Search(val)
	return ok
}

/*
Predecessor swap. A node X with two children trades its value with
the maximum L of its left subtree, L has no right child, so the
deletion continues on a node with at most one child.

	  |                    |
	  X                    L
	 / \                  / \
	..  R   swap(X, L)  ..   R
	 \      =========>   \
	  L                   X
	 /                   /
	Lc                  Lc
*/
func (tree *bsTree[T]) swapWithPredecessor(x nodeID) nodeID {
	xn := tree.at(x)
	if xn.left == nilID || xn.right == nilID {
		return x
	}
	y := tree.maximum(xn.left)
	yn := tree.at(y)
	xn.val, yn.val = yn.val, xn.val
	return y
}

// splice unlinks x, which has at most one child, by lifting the child
// into the slot of x. It returns the lifted child and the former parent.
func (tree *bsTree[T]) splice(x nodeID) (child, parent nodeID) {
	xn := tree.at(x)
	if xn.left != nilID && xn.right != nilID {
		// impossible run to here
		panic( /* debug assertion */ "[tree] splice a node with two children")
	}
	child = xn.left
	if child == nilID {
		child = xn.right
	}
	parent = xn.parent

	tree.replaceChild(parent, x, child)
	if child != nilID {
		tree.at(child).parent = parent
	}
	xn.parent, xn.left, xn.right = nilID, nilID, nilID
	return child, parent
}

func (tree *bsTree[T]) Delete(val T) bool {
	if tree.count <= 0 || tree.isNilValue(val) {
		return false
	}
	z := tree.search(val)
	if z == nilID {
		return false
	}
	z = tree.swapWithPredecessor(z)
	tree.bal.remove(tree, z)
	tree.count--
	tree.metrics.deleted()
	return true
}

func (tree *bsTree[T]) Min() (Node[T], error) {
	if tree.root == nilID {
		return nil, ErrNotFound
	}
	return tree.ref(tree.minimum(tree.root)), nil
}

func (tree *bsTree[T]) Max() (Node[T], error) {
	if tree.root == nilID {
		return nil, ErrNotFound
	}
	return tree.ref(tree.maximum(tree.root)), nil
}

func (tree *bsTree[T]) Clear() {
	tree.arena.reset()
	tree.root = nilID
	tree.count = 0
}

/*
		 |                         |
		 X                         Y
		/ \     leftRotate(X)     / \
	   L   Y    ============>    X   Yr
		  / \                   / \
		Yl   Yr                L   Yl
*/
func (tree *bsTree[T]) leftRotate(x nodeID) {
	if x == nilID || tree.at(x).right == nilID {
		// impossible run to here
		panic( /* debug assertion */ "[tree] left rotate node x is nil or x.right is nil")
	}

	xn := tree.at(x)
	p, y := xn.parent, xn.right
	yn := tree.at(y)

	xn.right = yn.left
	if yn.left != nilID {
		tree.at(yn.left).parent = x
	}
	tree.replaceChild(p, x, y)
	yn.parent = p
	yn.left = x
	xn.parent = y

	tree.traceRotation(Left, x)
}

/*
		   |                         |
		   X                         Y
		  / \     rightRotate(X)    / \
		 Y   R    ============>   Yl   X
		/ \                           / \
	  Yl   Yr                       Yr   R
*/
func (tree *bsTree[T]) rightRotate(x nodeID) {
	if x == nilID || tree.at(x).left == nilID {
		// impossible run to here
		panic( /* debug assertion */ "[tree] right rotate node x is nil or x.left is nil")
	}

	xn := tree.at(x)
	p, y := xn.parent, xn.left
	yn := tree.at(y)

	xn.left = yn.right
	if yn.right != nilID {
		tree.at(yn.right).parent = x
	}
	tree.replaceChild(p, x, y)
	yn.parent = p
	yn.right = x
	xn.parent = y

	tree.traceRotation(Right, x)
}

// manualRotator exposes the rotation primitives of a tree without a
// balancing policy. A missing child turns the rotation into a no-op.
type manualRotator[T any] struct {
	tree *bsTree[T]
}

func (r manualRotator[T]) RotateLeft(pivot Node[T]) error {
	x, err := r.tree.resolve(pivot)
	if err != nil {
		return err
	}
	if r.tree.at(x).right != nilID {
		r.tree.leftRotate(x)
	}
	return nil
}

func (r manualRotator[T]) RotateRight(pivot Node[T]) error {
	x, err := r.tree.resolve(pivot)
	if err != nil {
		return err
	}
	if r.tree.at(x).left != nilID {
		r.tree.rightRotate(x)
	}
	return nil
}

func (tree *bsTree[T]) Rotator() (Rotator[T], error) {
	if tree.bal.policy() != Unbalanced {
		return nil, ErrRotationForbidden
	}
	return manualRotator[T]{tree: tree}, nil
}

func (tree *bsTree[T]) RotateLeft(pivot Node[T]) error {
	r, err := tree.Rotator()
	if err != nil {
		return err
	}
	return r.RotateLeft(pivot)
}

func (tree *bsTree[T]) RotateRight(pivot Node[T]) error {
	r, err := tree.Rotator()
	if err != nil {
		return err
	}
	return r.RotateRight(pivot)
}

func (tree *bsTree[T]) Clone() OrderedTree[T] {
	return &bsTree[T]{
		arena:   tree.arena.clone(),
		root:    tree.root,
		count:   tree.count,
		cmp:     tree.cmp,
		bal:     tree.bal,
		nilable: tree.nilable,
		name:    tree.name,
		logger:  tree.logger,
		metrics: tree.metrics,
	}
}
