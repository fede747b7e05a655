package tree

var _ Node[int] = nodeRef[int]{} // Type check assertion

type nodeRef[T any] struct {
	tree *bsTree[T]
	h    handle
}

func (ref nodeRef[T]) alive() bool {
	return ref.tree != nil && ref.tree.arena.live(ref.h)
}

func (ref nodeRef[T]) id() nodeID {
	if !ref.alive() {
		panic("[tree] access a stale node reference")
	}
	return ref.h.id
}

// has reports false for a stale reference instead of panicking.
func (ref nodeRef[T]) has(fn func(n *node[T]) nodeID) bool {
	return ref.alive() && fn(ref.tree.at(ref.h.id)) != nilID
}

func (ref nodeRef[T]) relative(fn func(n *node[T]) nodeID) (Node[T], error) {
	if !ref.alive() {
		return nil, ErrStaleNode
	}
	x := fn(ref.tree.at(ref.h.id))
	if x == nilID {
		return nil, ErrNotFound
	}
	return ref.tree.ref(x), nil
}

func (ref nodeRef[T]) Value() T {
	return ref.tree.at(ref.id()).val
}

func (ref nodeRef[T]) Height() int {
	return ref.tree.heightOf(ref.id())
}

func (ref nodeRef[T]) Balance() int {
	return ref.tree.balanceOf(ref.id())
}

func (ref nodeRef[T]) Color() Color {
	return ref.tree.at(ref.id()).color
}

func (ref nodeRef[T]) Depth() int {
	depth := 0
	for x := ref.tree.at(ref.id()).parent; x != nilID; x = ref.tree.at(x).parent {
		depth++
	}
	return depth
}

func (ref nodeRef[T]) Direction() Direction {
	return ref.tree.direction(ref.id())
}

func (ref nodeRef[T]) HasParent() bool {
	return ref.has(func(n *node[T]) nodeID { return n.parent })
}

func (ref nodeRef[T]) HasLeft() bool {
	return ref.has(func(n *node[T]) nodeID { return n.left })
}

func (ref nodeRef[T]) HasRight() bool {
	return ref.has(func(n *node[T]) nodeID { return n.right })
}

func (ref nodeRef[T]) Parent() (Node[T], error) {
	return ref.relative(func(n *node[T]) nodeID { return n.parent })
}

func (ref nodeRef[T]) Left() (Node[T], error) {
	return ref.relative(func(n *node[T]) nodeID { return n.left })
}

func (ref nodeRef[T]) Right() (Node[T], error) {
	return ref.relative(func(n *node[T]) nodeID { return n.right })
}

func (ref nodeRef[T]) String() string {
	if ref.tree == nil || !ref.tree.arena.live(ref.h) {
		return "<stale>"
	}
	return ref.tree.nodeString(ref.h.id)
}
